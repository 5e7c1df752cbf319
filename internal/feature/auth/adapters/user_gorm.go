// Package adapters provides repository implementations for the auth feature.
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"foodie/internal/feature/auth/domain/entity"
	"foodie/internal/feature/auth/usecase"
	"foodie/internal/platform/db"
)

// Tables owned by the recipe and social features. Account deletion removes their
// rows by name so that auth does not depend on those packages.
const (
	tableRecipes      = "recipes"
	tableLikes        = "likes"
	tableSavedRecipes = "saved_recipes"
	tableComments     = "comments"
)

// userGorm is a GORM implementation of the UserRepository interface.
type userGorm struct {
	db *gorm.DB
}

// Compile-time check to ensure userGorm implements UserRepository.
var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserGorm creates a new instance of userGorm.
func NewUserGorm(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// Create inserts the user. Username and email collisions are reported as
// usecase.ErrUsernameTaken and usecase.ErrEmailTaken, checked in that order.
func (r *userGorm) Create(ctx context.Context, u *entity.User) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.checkAvailable(tx, u); err != nil {
			return err
		}
		return tx.Create(u).Error
	})
	if err != nil && db.IsUniqueViolation(err) {
		// Lost a race against a concurrent registration; find out which field collided.
		if taken := r.checkAvailable(r.db.WithContext(ctx), u); taken != nil {
			return taken
		}
		return usecase.ErrEmailTaken
	}
	return err
}

func (r *userGorm) checkAvailable(tx *gorm.DB, u *entity.User) error {
	var count int64
	if err := tx.Model(&entity.User{}).Where("username = ?", u.Username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return usecase.ErrUsernameTaken
	}
	if err := tx.Model(&entity.User{}).Where("email = ?", u.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return usecase.ErrEmailTaken
	}
	return nil
}

// FindByEmail returns usecase.ErrUserNotFound when no user has the email.
func (r *userGorm) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByID returns usecase.ErrUserNotFound when no user has the ID.
func (r *userGorm) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// DeleteCascade removes the user and everything that references the user or the
// user's recipes in a single transaction, dependents first.
func (r *userGorm) DeleteCascade(ctx context.Context, id uint) ([]string, error) {
	var images []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(tableRecipes).
			Where("user_id = ? AND image_url <> ''", id).
			Pluck("image_url", &images).Error; err != nil {
			return err
		}

		ownRecipes := tx.Table(tableRecipes).Select("id").Where("user_id = ?", id)
		for _, table := range []string{tableLikes, tableSavedRecipes, tableComments} {
			if err := tx.Exec(
				"DELETE FROM "+table+" WHERE user_id = ? OR recipe_id IN (?)", id, ownRecipes,
			).Error; err != nil {
				return err
			}
		}
		if err := tx.Exec("DELETE FROM "+tableRecipes+" WHERE user_id = ?", id).Error; err != nil {
			return err
		}

		res := tx.Exec("DELETE FROM users WHERE id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return usecase.ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}
