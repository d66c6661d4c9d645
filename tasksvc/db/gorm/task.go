package gorm

import (
	"errors"

	stdgorm "gorm.io/gorm"

	"github.com/taskfolio/taskfolio/tasksvc"
)

type taskRepository struct {
	db *stdgorm.DB
}

func NewTaskRepository(db *stdgorm.DB) tasksvc.TaskRepository {
	return &taskRepository{db}
}

func (t *taskRepository) Create(title, description string, userID uint64) (tasksvc.Task, error) {
	task := tasksvc.Task{Title: title, Description: description, Done: false, UserID: userID}
	result := t.db.Create(&task)

	return task, result.Error
}

func (t *taskRepository) FindAll(limit, offset int) ([]tasksvc.Task, error) {
	var tasks []tasksvc.Task
	result := t.db.Limit(limit).Offset(offset).Order("created_at DESC").Find(&tasks)

	return tasks, result.Error
}

func (t *taskRepository) Find(id uint64) (tasksvc.Task, error) {
	var task tasksvc.Task
	result := t.db.First(&task, id)
	if errors.Is(result.Error, stdgorm.ErrRecordNotFound) {
		return tasksvc.Task{}, tasksvc.ErrTaskNotFound
	}

	return task, result.Error
}

func (t *taskRepository) FindWithOwner(id uint64) (tasksvc.Task, error) {
	var task tasksvc.Task
	result := t.db.Preload("User").First(&task, id)
	if errors.Is(result.Error, stdgorm.ErrRecordNotFound) {
		return tasksvc.Task{}, tasksvc.ErrTaskNotFound
	}

	return task, result.Error
}

func (t *taskRepository) Update(id uint64, patch tasksvc.TaskPatch) (tasksvc.Task, error) {
	task, err := t.Find(id)
	if err != nil {
		return tasksvc.Task{}, err
	}

	values := map[string]interface{}{}
	if patch.Title != nil {
		values["title"] = *patch.Title
	}
	if patch.Description != nil {
		values["description"] = *patch.Description
	}
	if patch.Done != nil {
		values["done"] = *patch.Done
	}
	if len(values) == 0 {
		return task, nil
	}

	result := t.db.Model(&task).Updates(values)
	return task, result.Error
}

func (t *taskRepository) Delete(id uint64) (tasksvc.Task, error) {
	task, err := t.Find(id)
	if err != nil {
		return tasksvc.Task{}, err
	}

	result := t.db.Delete(&task)
	return task, result.Error
}

func (t *taskRepository) OwnerExists(id uint64) (bool, error) {
	var count int64
	result := t.db.Model(&tasksvc.Owner{}).Where("id = ?", id).Count(&count)

	return count > 0, result.Error
}
