package usersvc

import (
	"errors"
	"time"

	"github.com/taskfolio/taskfolio/tasksvc"
)

type User struct {
	ID           uint64         `json:"id" gorm:"primaryKey"`
	Name         string         `json:"name"`
	Email        string         `json:"email" gorm:"uniqueIndex"`
	PasswordHash string         `json:"-"`
	Active       bool           `json:"active" gorm:"default:true"`
	Avatar       string         `json:"avatar,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	Tasks        []tasksvc.Task `json:"tasks,omitempty" gorm:"foreignKey:UserID"`
}

// UserPatch carries the self-service mutable fields; nil means leave
// unchanged. The password arrives here already hashed.
type UserPatch struct {
	Name         *string
	PasswordHash *string
}

type UserRepository interface {
	Create(name, email, passwordHash string) (User, error)
	Find(id uint64) (User, error)
	FindActiveByEmail(email string) (User, error)
	Update(id uint64, patch UserPatch) (User, error)
	UpdateAvatar(id uint64, filename string) (User, error)
	Delete(id uint64) error
}

// AvatarStore persists uploaded avatar binaries by filename.
type AvatarStore interface {
	Write(filename string, data []byte) error
}

const MinPasswordLen = 6

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUserNotFound    = errors.New("user not found")
)
