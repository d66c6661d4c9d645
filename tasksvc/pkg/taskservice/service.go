package taskservice

import (
	"context"

	"github.com/go-kit/kit/log"

	"github.com/taskfolio/taskfolio/authsvc"
	"github.com/taskfolio/taskfolio/tasksvc"
)

type Service interface {
	CreateTask(ctx context.Context, subject authsvc.Subject, title, description string) (tasksvc.Task, error)
	Tasks(ctx context.Context, limit, offset int) ([]tasksvc.Task, error)
	Task(ctx context.Context, taskID uint64) (tasksvc.Task, error)
	UpdateTask(ctx context.Context, subject authsvc.Subject, taskID uint64, patch tasksvc.TaskPatch) (tasksvc.Task, error)
	DeleteTask(ctx context.Context, subject authsvc.Subject, taskID uint64) (tasksvc.Task, error)
}

func New(t tasksvc.TaskRepository, logger log.Logger) Service {
	var svc Service
	{
		svc = NewBasicService(t)
		svc = LoggingMiddleware(logger)(svc)
	}
	return svc
}

type basicService struct {
	tasks tasksvc.TaskRepository
}

func NewBasicService(t tasksvc.TaskRepository) Service {
	return basicService{tasks: t}
}

// CreateTask always binds the new task to the caller. A client-supplied
// owner id is never trusted. The subject's user row is re-checked so a
// token outliving its account cannot create orphan tasks.
func (s basicService) CreateTask(_ context.Context, subject authsvc.Subject, title, description string) (tasksvc.Task, error) {
	if title == "" || subject.UserID == 0 {
		return tasksvc.Task{}, tasksvc.ErrInvalidArgument
	}

	ok, err := s.tasks.OwnerExists(subject.UserID)
	if err != nil {
		return tasksvc.Task{}, err
	}
	if !ok {
		return tasksvc.Task{}, tasksvc.ErrOwnerNotFound
	}

	return s.tasks.Create(title, description, subject.UserID)
}

// Tasks lists every task regardless of owner, newest first.
func (s basicService) Tasks(_ context.Context, limit, offset int) ([]tasksvc.Task, error) {
	if limit == 0 {
		limit = tasksvc.DefaultLimit
	}
	if limit < 0 || limit > tasksvc.MaxLimit || offset < 0 {
		return nil, tasksvc.ErrInvalidArgument
	}

	return s.tasks.FindAll(limit, offset)
}

func (s basicService) Task(_ context.Context, taskID uint64) (tasksvc.Task, error) {
	if taskID == 0 {
		return tasksvc.Task{}, tasksvc.ErrInvalidArgument
	}

	return s.tasks.FindWithOwner(taskID)
}

// UpdateTask checks existence before ownership: a missing task yields
// not-found even to a caller who could never have owned it. User mutations
// order the checks the other way around; the asymmetry is kept on purpose.
func (s basicService) UpdateTask(_ context.Context, subject authsvc.Subject, taskID uint64, patch tasksvc.TaskPatch) (tasksvc.Task, error) {
	if taskID == 0 {
		return tasksvc.Task{}, tasksvc.ErrInvalidArgument
	}

	task, err := s.tasks.Find(taskID)
	if err != nil {
		return tasksvc.Task{}, err
	}

	if err := authsvc.AuthorizeOwner(subject.UserID, task.UserID); err != nil {
		return tasksvc.Task{}, err
	}

	return s.tasks.Update(taskID, patch)
}

func (s basicService) DeleteTask(_ context.Context, subject authsvc.Subject, taskID uint64) (tasksvc.Task, error) {
	if taskID == 0 {
		return tasksvc.Task{}, tasksvc.ErrInvalidArgument
	}

	task, err := s.tasks.Find(taskID)
	if err != nil {
		return tasksvc.Task{}, err
	}

	if err := authsvc.AuthorizeOwner(subject.UserID, task.UserID); err != nil {
		return tasksvc.Task{}, err
	}

	return s.tasks.Delete(taskID)
}
