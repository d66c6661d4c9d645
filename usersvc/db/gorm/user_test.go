package gorm

import (
	"fmt"
	"testing"

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

func TestCreateAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	created, err := repo.Create("John", "john@doe.com", "hash")
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	assert.True(t, created.Active)

	require.NoError(t, db.Create(&tasksvc.Task{Title: "laundry", UserID: created.ID}).Error)

	found, err := repo.Find(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "john@doe.com", found.Email)
	require.Len(t, found.Tasks, 1)
	assert.Equal(t, "laundry", found.Tasks[0].Title)
}

func TestFindNotFound(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	_, err := repo.Find(42)
	assert.ErrorIs(t, err, usersvc.ErrUserNotFound)
}

func TestFindActiveByEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	created, err := repo.Create("John", "john@doe.com", "hash")
	require.NoError(t, err)

	found, err := repo.FindActiveByEmail("john@doe.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = repo.FindActiveByEmail("nobody@doe.com")
	assert.ErrorIs(t, err, usersvc.ErrUserNotFound)

	require.NoError(t, db.Model(&usersvc.User{}).Where("id = ?", created.ID).Update("active", false).Error)

	_, err = repo.FindActiveByEmail("john@doe.com")
	assert.ErrorIs(t, err, usersvc.ErrUserNotFound)
}

func TestUpdate(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	created, err := repo.Create("John", "john@doe.com", "hash")
	require.NoError(t, err)

	name := "John Doe"
	_, err = repo.Update(created.ID, usersvc.UserPatch{Name: &name})
	require.NoError(t, err)

	found, err := repo.Find(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", found.Name)
	assert.Equal(t, "hash", found.PasswordHash)
}

func TestUpdateEmptyPatch(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	created, err := repo.Create("John", "john@doe.com", "hash")
	require.NoError(t, err)

	updated, err := repo.Update(created.ID, usersvc.UserPatch{})
	require.NoError(t, err)
	assert.Equal(t, "John", updated.Name)
}

func TestUpdateNotFound(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	name := "Nobody"
	_, err := repo.Update(42, usersvc.UserPatch{Name: &name})
	assert.ErrorIs(t, err, usersvc.ErrUserNotFound)
}

func TestUpdateAvatar(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	created, err := repo.Create("John", "john@doe.com", "hash")
	require.NoError(t, err)

	_, err = repo.UpdateAvatar(created.ID, "1.png")
	require.NoError(t, err)

	found, err := repo.Find(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "1.png", found.Avatar)

	_, err = repo.UpdateAvatar(42, "42.png")
	assert.ErrorIs(t, err, usersvc.ErrUserNotFound)
}

func TestDelete(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	created, err := repo.Create("John", "john@doe.com", "hash")
	require.NoError(t, err)

	require.NoError(t, repo.Delete(created.ID))

	_, err = repo.Find(created.ID)
	assert.ErrorIs(t, err, usersvc.ErrUserNotFound)

	assert.ErrorIs(t, repo.Delete(created.ID), usersvc.ErrUserNotFound)
}
