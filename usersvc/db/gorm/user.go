package gorm

import (
	"errors"

	stdgorm "gorm.io/gorm"

	"github.com/taskfolio/taskfolio/usersvc"
)

type userRepository struct {
	db *stdgorm.DB
}

func NewUserRepository(db *stdgorm.DB) usersvc.UserRepository {
	return &userRepository{db}
}

func (u *userRepository) Create(name, email, passwordHash string) (usersvc.User, error) {
	user := usersvc.User{Name: name, Email: email, PasswordHash: passwordHash, Active: true}
	result := u.db.Create(&user)

	return user, result.Error
}

func (u *userRepository) Find(id uint64) (usersvc.User, error) {
	var user usersvc.User
	result := u.db.Preload("Tasks").First(&user, id)
	if errors.Is(result.Error, stdgorm.ErrRecordNotFound) {
		return usersvc.User{}, usersvc.ErrUserNotFound
	}

	return user, result.Error
}

func (u *userRepository) FindActiveByEmail(email string) (usersvc.User, error) {
	var user usersvc.User
	result := u.db.Where("email = ? AND active = ?", email, true).First(&user)
	if errors.Is(result.Error, stdgorm.ErrRecordNotFound) {
		return usersvc.User{}, usersvc.ErrUserNotFound
	}

	return user, result.Error
}

func (u *userRepository) Update(id uint64, patch usersvc.UserPatch) (usersvc.User, error) {
	user, err := u.first(id)
	if err != nil {
		return usersvc.User{}, err
	}

	values := map[string]interface{}{}
	if patch.Name != nil {
		values["name"] = *patch.Name
	}
	if patch.PasswordHash != nil {
		values["password_hash"] = *patch.PasswordHash
	}
	if len(values) == 0 {
		return user, nil
	}

	result := u.db.Model(&user).Updates(values)
	return user, result.Error
}

func (u *userRepository) UpdateAvatar(id uint64, filename string) (usersvc.User, error) {
	user, err := u.first(id)
	if err != nil {
		return usersvc.User{}, err
	}

	result := u.db.Model(&user).Update("avatar", filename)
	return user, result.Error
}

func (u *userRepository) Delete(id uint64) error {
	result := u.db.Delete(&usersvc.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usersvc.ErrUserNotFound
	}

	return nil
}

func (u *userRepository) first(id uint64) (usersvc.User, error) {
	var user usersvc.User
	result := u.db.First(&user, id)
	if errors.Is(result.Error, stdgorm.ErrRecordNotFound) {
		return usersvc.User{}, usersvc.ErrUserNotFound
	}

	return user, result.Error
}
