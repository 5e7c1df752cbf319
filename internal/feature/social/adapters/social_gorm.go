// Package adapters provides repository implementations for the social feature.
package adapters

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	recipeentity "foodie/internal/feature/recipe/domain/entity"
	"foodie/internal/feature/social/domain/entity"
	"foodie/internal/feature/social/usecase"
	platformdb "foodie/internal/platform/db"
)

// socialGorm is a GORM implementation of the SocialRepository interface.
type socialGorm struct {
	db *gorm.DB
}

// Compile-time check to ensure socialGorm implements SocialRepository.
var _ usecase.SocialRepository = (*socialGorm)(nil)

// NewSocialGorm creates a new instance of socialGorm.
func NewSocialGorm(db *gorm.DB) *socialGorm {
	return &socialGorm{db: db}
}

// requireRecipe answers a missing recipe early. A delete committed after the check
// is caught by the foreign keys on insert, see insertRow.
func requireRecipe(tx *gorm.DB, recipeID uint) error {
	var n int64
	if err := tx.Model(&recipeentity.Recipe{}).Where("id = ?", recipeID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return usecase.ErrRecipeNotFound
	}
	return nil
}

// insertRow reports a parent deleted by a concurrent transaction as a missing recipe.
func insertRow(tx *gorm.DB, row interface{}) (int64, error) {
	res := tx.Create(row)
	if res.Error != nil {
		if platformdb.IsForeignKeyViolation(res.Error) {
			return 0, usecase.ErrRecipeNotFound
		}
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// toggle deletes the pair's row, or inserts row when there was none. The pair's
// unique index arbitrates concurrent toggles: an insert that loses the race is
// a no-op, and the toggle then completes as a delete of the winner's row.
func toggle(tx *gorm.DB, model, row interface{}, userID, recipeID uint) (bool, error) {
	pair := func() *gorm.DB { return tx.Where("user_id = ? AND recipe_id = ?", userID, recipeID) }

	res := pair().Delete(model)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	inserted, err := insertRow(tx.Clauses(clause.OnConflict{DoNothing: true}), row)
	if err != nil {
		return false, err
	}
	if inserted > 0 {
		return true, nil
	}

	if err := pair().Delete(model).Error; err != nil {
		return false, err
	}
	return false, nil
}

// ToggleLike flips the like in one transaction and counts the recipe's likes afterwards.
func (r *socialGorm) ToggleLike(ctx context.Context, userID, recipeID uint) (bool, int64, error) {
	var (
		liked bool
		count int64
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRecipe(tx, recipeID); err != nil {
			return err
		}
		var err error
		liked, err = toggle(tx, &entity.Like{}, &entity.Like{UserID: userID, RecipeID: recipeID}, userID, recipeID)
		if err != nil {
			return err
		}
		return tx.Model(&entity.Like{}).Where("recipe_id = ?", recipeID).Count(&count).Error
	})
	if err != nil {
		return false, 0, err
	}
	return liked, count, nil
}

// ToggleSave flips the save in one transaction.
func (r *socialGorm) ToggleSave(ctx context.Context, userID, recipeID uint) (bool, error) {
	var saved bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRecipe(tx, recipeID); err != nil {
			return err
		}
		var err error
		saved, err = toggle(tx, &entity.SavedRecipe{}, &entity.SavedRecipe{UserID: userID, RecipeID: recipeID}, userID, recipeID)
		return err
	})
	if err != nil {
		return false, err
	}
	return saved, nil
}

// AddComment inserts c and reads back the recipe's comments in the same transaction.
func (r *socialGorm) AddComment(ctx context.Context, c *entity.Comment) ([]entity.CommentView, error) {
	var comments []entity.CommentView
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRecipe(tx, c.RecipeID); err != nil {
			return err
		}
		if _, err := insertRow(tx, c); err != nil {
			return err
		}
		var err error
		comments, err = listComments(tx, c.RecipeID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// ListComments returns the recipe's comments with their authors, oldest first.
func (r *socialGorm) ListComments(ctx context.Context, recipeID uint) ([]entity.CommentView, error) {
	return listComments(r.db.WithContext(ctx), recipeID)
}

func listComments(tx *gorm.DB, recipeID uint) ([]entity.CommentView, error) {
	comments := []entity.CommentView{}
	err := tx.Table("comments").
		Select("comments.id, comments.recipe_id, users.username AS author, comments.content, comments.created_at").
		Joins("JOIN users ON users.id = comments.user_id").
		Where("comments.recipe_id = ?", recipeID).
		Order("comments.created_at ASC").Order("comments.id ASC").
		Scan(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}
