package persistence

import (
	"context"
	"time"

	"reddit-sync/domain/model"
	"reddit-sync/domain/repository"

	"gorm.io/gorm"
)

// UserRepositoryGorm is the MySQL/GORM implementation of IUser.
type UserRepositoryGorm struct{ db *gorm.DB }

func NewUserRepositoryGorm(db *gorm.DB) repository.IUser { return &UserRepositoryGorm{db: db} }

func (r *UserRepositoryGorm) GetById(ctx context.Context, id int) (model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Table("users").Where("id = ?", id).Take(&u).Error
	return u, err
}

func (r *UserRepositoryGorm) GetByUserName(ctx context.Context, userName string) (model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Table("users").Where("user_name = ?", userName).Take(&u).Error
	return u, err
}

func (r *UserRepositoryGorm) CreateUser(ctx context.Context, user model.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.UpdatedAt = user.CreatedAt
	return r.db.WithContext(ctx).Table("users").Create(&user).Error
}
