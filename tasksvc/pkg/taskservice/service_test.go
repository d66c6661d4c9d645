package taskservice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskfolio/taskfolio/authsvc"
	"github.com/taskfolio/taskfolio/tasksvc"
)

type fakeTaskRepository struct {
	tasks       map[uint64]tasksvc.Task
	owners      map[uint64]bool
	lastLimit   int
	lastOffset  int
	updateCalls int
	deleteCalls int
}

func newFakeTaskRepository() *fakeTaskRepository {
	return &fakeTaskRepository{
		tasks:  map[uint64]tasksvc.Task{},
		owners: map[uint64]bool{},
	}
}

func (f *fakeTaskRepository) Create(title, description string, userID uint64) (tasksvc.Task, error) {
	task := tasksvc.Task{ID: uint64(len(f.tasks) + 1), Title: title, Description: description, UserID: userID}
	f.tasks[task.ID] = task
	return task, nil
}

func (f *fakeTaskRepository) FindAll(limit, offset int) ([]tasksvc.Task, error) {
	f.lastLimit = limit
	f.lastOffset = offset
	return nil, nil
}

func (f *fakeTaskRepository) Find(id uint64) (tasksvc.Task, error) {
	task, ok := f.tasks[id]
	if !ok {
		return tasksvc.Task{}, tasksvc.ErrTaskNotFound
	}
	return task, nil
}

func (f *fakeTaskRepository) FindWithOwner(id uint64) (tasksvc.Task, error) {
	return f.Find(id)
}

func (f *fakeTaskRepository) Update(id uint64, patch tasksvc.TaskPatch) (tasksvc.Task, error) {
	f.updateCalls++

	task := f.tasks[id]
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Done != nil {
		task.Done = *patch.Done
	}
	f.tasks[id] = task

	return task, nil
}

func (f *fakeTaskRepository) Delete(id uint64) (tasksvc.Task, error) {
	f.deleteCalls++

	task := f.tasks[id]
	delete(f.tasks, id)

	return task, nil
}

func (f *fakeTaskRepository) OwnerExists(id uint64) (bool, error) {
	return f.owners[id], nil
}

func TestCreateTaskBindsOwnerToSubject(t *testing.T) {
	repo := newFakeTaskRepository()
	repo.owners[1] = true
	svc := NewBasicService(repo)

	task, err := svc.CreateTask(context.Background(), authsvc.Subject{UserID: 1}, "laundry", "whites")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), task.UserID)
}

func TestCreateTaskMissingOwner(t *testing.T) {
	svc := NewBasicService(newFakeTaskRepository())

	_, err := svc.CreateTask(context.Background(), authsvc.Subject{UserID: 9}, "laundry", "")
	assert.ErrorIs(t, err, tasksvc.ErrOwnerNotFound)
}

func TestCreateTaskEmptyTitle(t *testing.T) {
	svc := NewBasicService(newFakeTaskRepository())

	_, err := svc.CreateTask(context.Background(), authsvc.Subject{UserID: 1}, "", "")
	assert.ErrorIs(t, err, tasksvc.ErrInvalidArgument)
}

func TestTasksPaginationDefaults(t *testing.T) {
	repo := newFakeTaskRepository()
	svc := NewBasicService(repo)

	_, err := svc.Tasks(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, tasksvc.DefaultLimit, repo.lastLimit)
	assert.Equal(t, 0, repo.lastOffset)
}

func TestTasksPaginationBounds(t *testing.T) {
	svc := NewBasicService(newFakeTaskRepository())

	_, err := svc.Tasks(context.Background(), tasksvc.MaxLimit+1, 0)
	assert.ErrorIs(t, err, tasksvc.ErrInvalidArgument)

	_, err = svc.Tasks(context.Background(), 10, -1)
	assert.ErrorIs(t, err, tasksvc.ErrInvalidArgument)
}

// A missing task reports not-found even to a caller who does not own it;
// ownership is only checked once the task is known to exist.
func TestUpdateTaskExistenceBeforeOwnership(t *testing.T) {
	repo := newFakeTaskRepository()
	svc := NewBasicService(repo)

	_, err := svc.UpdateTask(context.Background(), authsvc.Subject{UserID: 2}, 42, tasksvc.TaskPatch{})
	assert.ErrorIs(t, err, tasksvc.ErrTaskNotFound)
}

func TestUpdateTaskWrongOwner(t *testing.T) {
	repo := newFakeTaskRepository()
	repo.tasks[1] = tasksvc.Task{ID: 1, Title: "laundry", UserID: 1}
	svc := NewBasicService(repo)

	done := true
	_, err := svc.UpdateTask(context.Background(), authsvc.Subject{UserID: 2}, 1, tasksvc.TaskPatch{Done: &done})
	assert.ErrorIs(t, err, authsvc.ErrPermissionDenied)
	assert.Zero(t, repo.updateCalls)
	assert.False(t, repo.tasks[1].Done)
}

func TestUpdateTaskByOwner(t *testing.T) {
	repo := newFakeTaskRepository()
	repo.tasks[1] = tasksvc.Task{ID: 1, Title: "laundry", UserID: 1}
	svc := NewBasicService(repo)

	done := true
	task, err := svc.UpdateTask(context.Background(), authsvc.Subject{UserID: 1}, 1, tasksvc.TaskPatch{Done: &done})
	require.NoError(t, err)
	assert.True(t, task.Done)
	assert.Equal(t, "laundry", task.Title)
}

func TestDeleteTaskWrongOwner(t *testing.T) {
	repo := newFakeTaskRepository()
	repo.tasks[1] = tasksvc.Task{ID: 1, Title: "laundry", UserID: 1}
	svc := NewBasicService(repo)

	_, err := svc.DeleteTask(context.Background(), authsvc.Subject{UserID: 2}, 1)
	assert.ErrorIs(t, err, authsvc.ErrPermissionDenied)
	assert.Zero(t, repo.deleteCalls)
}

func TestDeleteTaskByOwner(t *testing.T) {
	repo := newFakeTaskRepository()
	repo.tasks[1] = tasksvc.Task{ID: 1, Title: "laundry", UserID: 1}
	svc := NewBasicService(repo)

	task, err := svc.DeleteTask(context.Background(), authsvc.Subject{UserID: 1}, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), task.ID)

	_, err = svc.Task(context.Background(), 1)
	assert.ErrorIs(t, err, tasksvc.ErrTaskNotFound)
}
