// Package entity defines the domain entities for the recipe feature.
package entity

import (
	"strings"
	"time"

	authentity "foodie/internal/feature/auth/domain/entity"
)

// Field limits, in characters.
const (
	TitleMaxLength       = 100
	DescriptionMaxLength = 500
)

// Recipe is a dish published by a user. UserID never changes after creation.
type Recipe struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"index;not null"`
	Title       string    `gorm:"size:100;not null"`
	Description string    `gorm:"size:500;not null"`
	Ingredients string    `gorm:"type:text;not null"`
	Steps       string    `gorm:"type:text;not null"`
	ImageURL    string    `gorm:"size:255;not null;default:''"`
	Tags        string    `gorm:"size:255;not null;default:''"` // comma-separated image labels

	// SearchText is the folded title and description that feed search matches against.
	SearchText string    `gorm:"type:text;not null;default:''"`
	CreatedAt  time.Time `gorm:"index"`

	User *authentity.User `gorm:"constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (Recipe) TableName() string {
	return "recipes"
}

// OwnedBy reports whether userID authored the recipe.
func (r *Recipe) OwnedBy(userID uint) bool {
	return r.UserID == userID
}

// FoldSearch normalises s for case-insensitive matching. Folding happens in Go so
// that every driver compares non-ASCII text the same way.
func FoldSearch(s string) string {
	return strings.ToLower(s)
}

// Index refreshes SearchText from the title and description.
func (r *Recipe) Index() {
	r.SearchText = FoldSearch(r.Title) + "\n" + FoldSearch(r.Description)
}

// TagList splits Tags into its labels.
func (r *Recipe) TagList() []string {
	if r.Tags == "" {
		return []string{}
	}
	return strings.Split(r.Tags, ",")
}

// Card is a recipe as shown in lists: the recipe with its author's name, relation
// counts, and the caller's own like and save flags.
type Card struct {
	Recipe
	Author    string
	LikeCount int64
	SaveCount int64
	Liked     bool
	Saved     bool
}
