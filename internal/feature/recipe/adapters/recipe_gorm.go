// Package adapters provides repository implementations for the recipe feature.
package adapters

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"foodie/internal/feature/recipe/domain/entity"
	"foodie/internal/feature/recipe/usecase"
	socialentity "foodie/internal/feature/social/domain/entity"
	platformdb "foodie/internal/platform/db"
)

// cardColumns selects a recipe with its author and relation counts.
const cardColumns = `recipes.*, users.username AS author,
	(SELECT COUNT(*) FROM likes WHERE likes.recipe_id = recipes.id) AS like_count,
	(SELECT COUNT(*) FROM saved_recipes WHERE saved_recipes.recipe_id = recipes.id) AS save_count`

// cardRow is the scan target of card queries.
type cardRow struct {
	ID          uint
	UserID      uint
	Title       string
	Description string
	Ingredients string
	Steps       string
	ImageURL    string
	Tags        string
	CreatedAt   time.Time
	Author      string
	LikeCount   int64
	SaveCount   int64
}

func (r cardRow) toCard() entity.Card {
	return entity.Card{
		Recipe: entity.Recipe{
			ID:          r.ID,
			UserID:      r.UserID,
			Title:       r.Title,
			Description: r.Description,
			Ingredients: r.Ingredients,
			Steps:       r.Steps,
			ImageURL:    r.ImageURL,
			Tags:        r.Tags,
			CreatedAt:   r.CreatedAt,
		},
		Author:    r.Author,
		LikeCount: r.LikeCount,
		SaveCount: r.SaveCount,
	}
}

// recipeGorm is a GORM implementation of the RecipeRepository interface.
type recipeGorm struct {
	db *gorm.DB
}

// Compile-time check to ensure recipeGorm implements RecipeRepository.
var _ usecase.RecipeRepository = (*recipeGorm)(nil)

// NewRecipeGorm creates a new instance of recipeGorm.
func NewRecipeGorm(db *gorm.DB) *recipeGorm {
	return &recipeGorm{db: db}
}

// Create inserts the recipe. It returns usecase.ErrUnauthenticated when the owner's
// account no longer exists.
func (r *recipeGorm) Create(ctx context.Context, recipe *entity.Recipe) error {
	recipe.Index()
	if err := r.db.WithContext(ctx).Create(recipe).Error; err != nil {
		if platformdb.IsForeignKeyViolation(err) {
			return usecase.ErrUnauthenticated
		}
		return err
	}
	return nil
}

// FindByID returns usecase.ErrRecipeNotFound when no recipe has the ID.
func (r *recipeGorm) FindByID(ctx context.Context, id uint) (*entity.Recipe, error) {
	var recipe entity.Recipe
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeGorm) cards(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("recipes").
		Select(cardColumns).
		Joins("JOIN users ON users.id = recipes.user_id")
}

// FindCard returns the recipe with its author and counts.
func (r *recipeGorm) FindCard(ctx context.Context, id uint) (*entity.Card, error) {
	var rows []cardRow
	if err := r.cards(ctx).Where("recipes.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, usecase.ErrRecipeNotFound
	}
	card := rows[0].toCard()
	return &card, nil
}

// escapeLike escapes the LIKE wildcards in s so that it matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// List returns the cards selected by q. Ties are broken by id so the order is total.
func (r *recipeGorm) List(ctx context.Context, q usecase.ListQuery) ([]entity.Card, error) {
	tx := r.cards(ctx)

	if q.Search != "" {
		pattern := "%" + escapeLike(entity.FoldSearch(q.Search)) + "%"
		tx = tx.Where(`recipes.search_text LIKE ? ESCAPE '\'`, pattern)
	}

	switch {
	case q.SavedBy != 0:
		tx = tx.Joins("JOIN saved_recipes AS mine ON mine.recipe_id = recipes.id AND mine.user_id = ?", q.SavedBy).
			Order("mine.saved_at DESC").Order("recipes.id DESC")
	case q.AuthorID != 0:
		tx = tx.Where("recipes.user_id = ?", q.AuthorID).
			Order("recipes.created_at DESC").Order("recipes.id DESC")
	default:
		switch q.Sort {
		case usecase.SortLiked:
			tx = tx.Order("like_count DESC").Order("recipes.id ASC")
		case usecase.SortSaved:
			tx = tx.Order("save_count DESC").Order("recipes.id ASC")
		case usecase.SortRecent:
			tx = tx.Order("recipes.created_at DESC").Order("recipes.id DESC")
		default:
			tx = tx.Order("recipes.id ASC")
		}
	}

	var rows []cardRow
	if err := tx.Scan(&rows).Error; err != nil {
		return nil, err
	}
	cards := make([]entity.Card, len(rows))
	for i, row := range rows {
		cards[i] = row.toCard()
	}
	return cards, nil
}

// Flags reports which of recipeIDs the user has liked and saved.
func (r *recipeGorm) Flags(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, map[uint]bool, error) {
	liked, err := r.flagSet(ctx, &socialentity.Like{}, userID, recipeIDs)
	if err != nil {
		return nil, nil, err
	}
	saved, err := r.flagSet(ctx, &socialentity.SavedRecipe{}, userID, recipeIDs)
	if err != nil {
		return nil, nil, err
	}
	return liked, saved, nil
}

func (r *recipeGorm) flagSet(ctx context.Context, model interface{}, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	set := make(map[uint]bool)
	if len(recipeIDs) == 0 {
		return set, nil
	}
	var ids []uint
	if err := r.db.WithContext(ctx).Model(model).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// lockOwned loads the recipe for update inside tx and checks its owner.
func lockOwned(tx *gorm.DB, id, ownerID uint) (*entity.Recipe, error) {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var recipe entity.Recipe
	if err := q.Where("id = ?", id).First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrRecipeNotFound
		}
		return nil, err
	}
	if !recipe.OwnedBy(ownerID) {
		return nil, usecase.ErrNotOwner
	}
	return &recipe, nil
}

// UpdateOwned applies mutate to the recipe if ownerID authored it. The owner
// column is never written.
func (r *recipeGorm) UpdateOwned(ctx context.Context, id, ownerID uint, mutate func(*entity.Recipe) error) (*entity.Recipe, string, error) {
	var (
		updated  *entity.Recipe
		oldImage string
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := lockOwned(tx, id, ownerID)
		if err != nil {
			return err
		}
		oldImage = recipe.ImageURL
		if err := mutate(recipe); err != nil {
			return err
		}
		recipe.UserID = ownerID
		recipe.Index()
		if err := tx.Model(recipe).
			Select("title", "description", "ingredients", "steps", "image_url", "tags", "search_text").
			Updates(recipe).Error; err != nil {
			return err
		}
		updated = recipe
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return updated, oldImage, nil
}

// DeleteOwned deletes the recipe and its likes, saves and comments if ownerID authored it.
func (r *recipeGorm) DeleteOwned(ctx context.Context, id, ownerID uint) (string, error) {
	var image string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := lockOwned(tx, id, ownerID)
		if err != nil {
			return err
		}
		image = recipe.ImageURL

		for _, dependent := range []interface{}{&socialentity.Like{}, &socialentity.SavedRecipe{}, &socialentity.Comment{}} {
			if err := tx.Where("recipe_id = ?", id).Delete(dependent).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&entity.Recipe{}, id).Error
	})
	if err != nil {
		return "", err
	}
	return image, nil
}
