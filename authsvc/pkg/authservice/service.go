package authservice

import (
	"context"

	"github.com/go-kit/kit/log"
	"github.com/taskfolio/taskfolio/authsvc"
	"github.com/taskfolio/taskfolio/usersvc"
)

// Identity is the public identification returned on successful sign-in.
type Identity struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Service interface {
	Authenticate(ctx context.Context, email, password string) (Identity, string, error)
}

func New(users usersvc.UserRepository, t Tokenizer, h Hasher, logger log.Logger) Service {
	var svc Service
	{
		svc = NewBasicService(users, t, h)
		svc = LoggingMiddleware(logger)(svc)
	}
	return svc
}

type basicService struct {
	users     usersvc.UserRepository
	tokenizer Tokenizer
	hasher    Hasher
}

func NewBasicService(users usersvc.UserRepository, t Tokenizer, h Hasher) Service {
	return &basicService{users: users, tokenizer: t, hasher: h}
}

// Authenticate looks up an active user by email and compares credentials.
// Unknown email, inactive account and wrong password all collapse to
// ErrInvalidCredentials so callers cannot probe which accounts exist.
func (s *basicService) Authenticate(_ context.Context, email, password string) (Identity, string, error) {
	if email == "" || password == "" {
		return Identity{}, "", authsvc.ErrInvalidArgument
	}

	user, err := s.users.FindActiveByEmail(email)
	if err != nil {
		return Identity{}, "", authsvc.ErrInvalidCredentials
	}

	if !s.hasher.Compare(password, user.PasswordHash) {
		return Identity{}, "", authsvc.ErrInvalidCredentials
	}

	token, err := s.tokenizer.Issue(user.ID, user.Email)
	if err != nil {
		return Identity{}, "", err
	}

	return Identity{ID: user.ID, Name: user.Name, Email: user.Email}, token, nil
}
