package gorm

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	stdgorm "gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/taskfolio/taskfolio/tasksvc"
	"github.com/taskfolio/taskfolio/usersvc"
)

func newTestDB(t *testing.T) *stdgorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := stdgorm.Open(sqlite.Open(dsn), &stdgorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&usersvc.User{}, &tasksvc.Task{}))

	return db
}

func seedOwner(t *testing.T, db *stdgorm.DB) usersvc.User {
	t.Helper()

	user := usersvc.User{Name: "John", Email: "john@doe.com", PasswordHash: "hash", Active: true}
	require.NoError(t, db.Create(&user).Error)

	return user
}

func TestCreateAndFind(t *testing.T) {
	db := newTestDB(t)
	owner := seedOwner(t, db)
	repo := NewTaskRepository(db)

	created, err := repo.Create("laundry", "whites", owner.ID)
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	assert.False(t, created.Done)

	found, err := repo.Find(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "laundry", found.Title)
	assert.Equal(t, owner.ID, found.UserID)
	assert.Nil(t, found.User)
}

func TestFindNotFound(t *testing.T) {
	repo := NewTaskRepository(newTestDB(t))

	_, err := repo.Find(42)
	assert.ErrorIs(t, err, tasksvc.ErrTaskNotFound)

	_, err = repo.FindWithOwner(42)
	assert.ErrorIs(t, err, tasksvc.ErrTaskNotFound)
}

func TestFindWithOwner(t *testing.T) {
	db := newTestDB(t)
	owner := seedOwner(t, db)
	repo := NewTaskRepository(db)

	created, err := repo.Create("laundry", "", owner.ID)
	require.NoError(t, err)

	found, err := repo.FindWithOwner(created.ID)
	require.NoError(t, err)
	require.NotNil(t, found.User)
	assert.Equal(t, owner.ID, found.User.ID)
	assert.Equal(t, "john@doe.com", found.User.Email)
}

func TestFindAllNewestFirst(t *testing.T) {
	db := newTestDB(t)
	owner := seedOwner(t, db)
	repo := NewTaskRepository(db)

	for _, title := range []string{"oldest", "middle", "newest"} {
		_, err := repo.Create(title, "", owner.ID)
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond)
	}

	tasks, err := repo.FindAll(2, 0)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "newest", tasks[0].Title)
	assert.Equal(t, "middle", tasks[1].Title)

	tasks, err = repo.FindAll(2, 2)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "oldest", tasks[0].Title)
}

func TestUpdatePartial(t *testing.T) {
	db := newTestDB(t)
	owner := seedOwner(t, db)
	repo := NewTaskRepository(db)

	created, err := repo.Create("laundry", "whites", owner.ID)
	require.NoError(t, err)

	done := true
	_, err = repo.Update(created.ID, tasksvc.TaskPatch{Done: &done})
	require.NoError(t, err)

	found, err := repo.Find(created.ID)
	require.NoError(t, err)
	assert.True(t, found.Done)
	assert.Equal(t, "laundry", found.Title)
	assert.Equal(t, "whites", found.Description)
}

func TestUpdateNotFound(t *testing.T) {
	repo := NewTaskRepository(newTestDB(t))

	title := "nothing"
	_, err := repo.Update(42, tasksvc.TaskPatch{Title: &title})
	assert.ErrorIs(t, err, tasksvc.ErrTaskNotFound)
}

func TestDelete(t *testing.T) {
	db := newTestDB(t)
	owner := seedOwner(t, db)
	repo := NewTaskRepository(db)

	created, err := repo.Create("laundry", "", owner.ID)
	require.NoError(t, err)

	deleted, err := repo.Delete(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "laundry", deleted.Title)

	_, err = repo.Find(created.ID)
	assert.ErrorIs(t, err, tasksvc.ErrTaskNotFound)

	_, err = repo.Delete(created.ID)
	assert.ErrorIs(t, err, tasksvc.ErrTaskNotFound)
}

func TestOwnerExists(t *testing.T) {
	db := newTestDB(t)
	owner := seedOwner(t, db)
	repo := NewTaskRepository(db)

	exists, err := repo.OwnerExists(owner.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.OwnerExists(999)
	require.NoError(t, err)
	assert.False(t, exists)
}
