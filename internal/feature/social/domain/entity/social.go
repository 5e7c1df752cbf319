// Package entity defines the like, save and comment relations between users and recipes.
package entity

import (
	"time"

	authentity "foodie/internal/feature/auth/domain/entity"
	recipeentity "foodie/internal/feature/recipe/domain/entity"
)

// Like is a toggle relation: its presence means the user likes the recipe.
type Like struct {
	ID       uint      `gorm:"primaryKey"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_like_user_recipe"`
	RecipeID uint      `gorm:"not null;uniqueIndex:idx_like_user_recipe;index"`
	LikedAt  time.Time `gorm:"not null;autoCreateTime"`

	User   *authentity.User     `gorm:"constraint:OnDelete:CASCADE"`
	Recipe *recipeentity.Recipe `gorm:"constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (Like) TableName() string {
	return "likes"
}

// SavedRecipe is a toggle relation: its presence means the user bookmarked the recipe.
type SavedRecipe struct {
	ID       uint      `gorm:"primaryKey"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_saved_user_recipe"`
	RecipeID uint      `gorm:"not null;uniqueIndex:idx_saved_user_recipe;index"`
	SavedAt  time.Time `gorm:"not null;autoCreateTime"`

	User   *authentity.User     `gorm:"constraint:OnDelete:CASCADE"`
	Recipe *recipeentity.Recipe `gorm:"constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (SavedRecipe) TableName() string {
	return "saved_recipes"
}

// Comment is immutable once written.
type Comment struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index"`
	RecipeID  uint      `gorm:"not null;index"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null;index"`

	User   *authentity.User     `gorm:"constraint:OnDelete:CASCADE"`
	Recipe *recipeentity.Recipe `gorm:"constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (Comment) TableName() string {
	return "comments"
}

// CommentView is a comment joined with its author's display name.
type CommentView struct {
	ID        uint
	RecipeID  uint
	Author    string
	Content   string
	CreatedAt time.Time
}
