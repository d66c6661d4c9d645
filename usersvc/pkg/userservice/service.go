package userservice

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/go-kit/kit/log"

	"github.com/taskfolio/taskfolio/authsvc"
	"github.com/taskfolio/taskfolio/authsvc/pkg/authservice"
	"github.com/taskfolio/taskfolio/usersvc"
)

type Service interface {
	CreateUser(ctx context.Context, name, email, password string) (usersvc.User, error)
	User(ctx context.Context, id uint64) (usersvc.User, error)
	UpdateUser(ctx context.Context, subject authsvc.Subject, id uint64, name, password *string) (usersvc.User, error)
	DeleteUser(ctx context.Context, subject authsvc.Subject, id uint64) error
	UploadAvatar(ctx context.Context, subject authsvc.Subject, ext string, data []byte) (usersvc.User, error)
}

func New(users usersvc.UserRepository, h authservice.Hasher, avatars usersvc.AvatarStore, logger log.Logger) Service {
	var svc Service
	{
		svc = NewBasicService(users, h, avatars)
		svc = LoggingMiddleware(logger)(svc)
	}
	return svc
}

type basicService struct {
	users   usersvc.UserRepository
	hasher  authservice.Hasher
	avatars usersvc.AvatarStore
}

func NewBasicService(users usersvc.UserRepository, h authservice.Hasher, avatars usersvc.AvatarStore) Service {
	return &basicService{users: users, hasher: h, avatars: avatars}
}

// CreateUser registers a new user. Registration is the one mutation with
// no ownership check. The returned record carries the hash only as far as
// the repository boundary; it is never serialized.
func (s *basicService) CreateUser(_ context.Context, name, email, password string) (usersvc.User, error) {
	if name == "" || !validEmail(email) || len(password) < usersvc.MinPasswordLen {
		return usersvc.User{}, usersvc.ErrInvalidArgument
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return usersvc.User{}, err
	}

	return s.users.Create(name, email, hash)
}

func (s *basicService) User(_ context.Context, id uint64) (usersvc.User, error) {
	if id == 0 {
		return usersvc.User{}, usersvc.ErrInvalidArgument
	}

	return s.users.Find(id)
}

// UpdateUser checks ownership before existence: a subject patching another
// user's id is refused even when that id does not exist. Task mutations
// order the checks the other way around; the asymmetry is kept on purpose.
func (s *basicService) UpdateUser(_ context.Context, subject authsvc.Subject, id uint64, name, password *string) (usersvc.User, error) {
	if err := authsvc.AuthorizeOwner(subject.UserID, id); err != nil {
		return usersvc.User{}, err
	}

	patch := usersvc.UserPatch{Name: name}

	if password != nil {
		if len(*password) < usersvc.MinPasswordLen {
			return usersvc.User{}, usersvc.ErrInvalidArgument
		}

		hash, err := s.hasher.Hash(*password)
		if err != nil {
			return usersvc.User{}, err
		}
		patch.PasswordHash = &hash
	}

	return s.users.Update(id, patch)
}

// DeleteUser is a hard delete; tasks owned by the user are left in place.
func (s *basicService) DeleteUser(_ context.Context, subject authsvc.Subject, id uint64) error {
	if err := authsvc.AuthorizeOwner(subject.UserID, id); err != nil {
		return err
	}

	return s.users.Delete(id)
}

// UploadAvatar stores the filename on the user record before the binary
// lands on disk. A failed write leaves the record pointing at a missing
// file; the caller sees a 500 and may retry the upload.
func (s *basicService) UploadAvatar(_ context.Context, subject authsvc.Subject, ext string, data []byte) (usersvc.User, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" || len(data) == 0 {
		return usersvc.User{}, usersvc.ErrInvalidArgument
	}

	filename := fmt.Sprintf("%d.%s", subject.UserID, ext)

	user, err := s.users.UpdateAvatar(subject.UserID, filename)
	if err != nil {
		return usersvc.User{}, err
	}

	if err := s.avatars.Write(filename, data); err != nil {
		return usersvc.User{}, err
	}

	return user, nil
}

func validEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}
