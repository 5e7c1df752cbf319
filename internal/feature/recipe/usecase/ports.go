package usecase

import (
	"context"

	"foodie/internal/feature/recipe/domain/entity"
	socialentity "foodie/internal/feature/social/domain/entity"
)

// Sort selects the order of a recipe listing.
type Sort string

const (
	// SortAll orders by id ascending.
	SortAll Sort = "all"
	// SortLiked orders by like count, most liked first.
	SortLiked Sort = "liked"
	// SortSaved orders by save count, most saved first.
	SortSaved Sort = "saved"
	// SortRecent orders by creation time, newest first.
	SortRecent Sort = "recent"
)

// ParseSort maps a query value to a Sort. Unknown or empty values select SortAll.
func ParseSort(s string) Sort {
	switch Sort(s) {
	case SortLiked, SortSaved, SortRecent:
		return Sort(s)
	default:
		return SortAll
	}
}

// ListQuery selects recipes for a listing. Zero fields do not filter.
type ListQuery struct {
	Sort Sort
	// Search keeps recipes whose title or description contains it, case-insensitively.
	Search string
	// AuthorID keeps recipes written by the user, newest first.
	AuthorID uint
	// SavedBy keeps recipes saved by the user, most recently saved first.
	SavedBy uint
}

// RecipeRepository abstracts the persistence layer for recipes.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type RecipeRepository interface {
	// Create persists a new recipe.
	Create(ctx context.Context, r *entity.Recipe) error

	// FindByID returns ErrRecipeNotFound when absent.
	FindByID(ctx context.Context, id uint) (*entity.Recipe, error)

	// FindCard returns the recipe with its author and counts, or ErrRecipeNotFound.
	FindCard(ctx context.Context, id uint) (*entity.Card, error)

	// UpdateOwned loads the recipe inside a transaction, checks that ownerID authored
	// it, applies mutate and saves the result. It returns the saved recipe and the
	// image URL it had before the update.
	UpdateOwned(ctx context.Context, id, ownerID uint, mutate func(r *entity.Recipe) error) (*entity.Recipe, string, error)

	// DeleteOwned checks ownership and deletes the recipe with its likes, saves and
	// comments in one transaction. It returns the deleted recipe's image URL.
	DeleteOwned(ctx context.Context, id, ownerID uint) (string, error)

	// List returns recipe cards matching q. Liked and Saved are left false.
	List(ctx context.Context, q ListQuery) ([]entity.Card, error)

	// Flags reports which of recipeIDs the user has liked and saved.
	Flags(ctx context.Context, userID uint, recipeIDs []uint) (liked, saved map[uint]bool, err error)
}

// CommentReader lists the comments of a recipe, oldest first.
type CommentReader interface {
	ListComments(ctx context.Context, recipeID uint) ([]socialentity.CommentView, error)
}

// ImageStore persists uploaded recipe images and returns the URL they are served at.
type ImageStore interface {
	Save(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, url string) error
}

// Labeler detects descriptive labels in an image.
type Labeler interface {
	Labels(ctx context.Context, data []byte) ([]string, error)
}

// DescriptionWriter drafts a recipe description.
type DescriptionWriter interface {
	Describe(ctx context.Context, title, ingredients string) (string, error)
}
