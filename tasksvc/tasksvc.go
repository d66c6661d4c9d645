package tasksvc

import (
	"errors"
	"time"
)

type Task struct {
	ID          uint64    `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Done        bool      `json:"done"`
	UserID      uint64    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	User        *Owner    `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Owner is the public projection of a task owner's user record. It reads
// from the users table and carries no password hash column, so the hash
// cannot leak through task lookups.
type Owner struct {
	ID        uint64    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Active    bool      `json:"active"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Owner) TableName() string { return "users" }

// TaskPatch carries the mutable task fields; nil means leave unchanged.
type TaskPatch struct {
	Title       *string
	Description *string
	Done        *bool
}

type TaskRepository interface {
	Create(title, description string, userID uint64) (Task, error)
	FindAll(limit, offset int) ([]Task, error)
	Find(id uint64) (Task, error)
	FindWithOwner(id uint64) (Task, error)
	Update(id uint64, patch TaskPatch) (Task, error)
	Delete(id uint64) (Task, error)
	OwnerExists(id uint64) (bool, error)
}

const (
	DefaultLimit = 10
	MaxLimit     = 50
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrTaskNotFound    = errors.New("task not found")
	ErrOwnerNotFound   = errors.New("user not found")
)
