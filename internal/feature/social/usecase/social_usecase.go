package usecase

import (
	"context"
	"strings"
	"unicode/utf8"

	"foodie/internal/feature/social/domain/entity"
	"foodie/internal/shared/apperr"
	"foodie/internal/shared/identity"
)

// MaxCommentLength is the longest accepted comment, in characters.
const MaxCommentLength = 1000

// Toggle results.
const (
	StatusLiked   = "liked"
	StatusUnliked = "unliked"
	StatusSaved   = "saved"
	StatusUnsaved = "unsaved"
)

// SocialRepository abstracts the persistence of likes, saves and comments.
// Each method runs in its own transaction and returns ErrRecipeNotFound for a
// missing recipe.
type SocialRepository interface {
	// ToggleLike flips the like of (userID, recipeID) and returns whether it is now
	// present together with the recipe's like count after the flip.
	ToggleLike(ctx context.Context, userID, recipeID uint) (bool, int64, error)

	// ToggleSave flips the save of (userID, recipeID) and returns whether it is now present.
	ToggleSave(ctx context.Context, userID, recipeID uint) (bool, error)

	// AddComment inserts c and returns every comment of its recipe, oldest first.
	AddComment(ctx context.Context, c *entity.Comment) ([]entity.CommentView, error)

	// ListComments returns the comments of a recipe, oldest first.
	ListComments(ctx context.Context, recipeID uint) ([]entity.CommentView, error)
}

// LikeResult is the outcome of a like toggle.
type LikeResult struct {
	Status    string
	LikeCount int64
}

// socialUsecase implements the social interactions on recipes.
type socialUsecase struct {
	repo SocialRepository
}

// NewSocialUsecase creates a new socialUsecase.
func NewSocialUsecase(repo SocialRepository) *socialUsecase {
	return &socialUsecase{repo: repo}
}

// ToggleLike likes the recipe, or unlikes it when the caller already likes it.
func (u *socialUsecase) ToggleLike(ctx context.Context, id identity.Identity, recipeID uint) (*LikeResult, error) {
	if id.Anonymous() {
		return nil, ErrUnauthenticated
	}
	liked, count, err := u.repo.ToggleLike(ctx, id.UserID, recipeID)
	if err != nil {
		return nil, apperr.Wrap("toggle like", err)
	}
	status := StatusUnliked
	if liked {
		status = StatusLiked
	}
	return &LikeResult{Status: status, LikeCount: count}, nil
}

// ToggleSave saves the recipe, or unsaves it when the caller already saved it.
func (u *socialUsecase) ToggleSave(ctx context.Context, id identity.Identity, recipeID uint) (string, error) {
	if id.Anonymous() {
		return "", ErrUnauthenticated
	}
	saved, err := u.repo.ToggleSave(ctx, id.UserID, recipeID)
	if err != nil {
		return "", apperr.Wrap("toggle save", err)
	}
	if saved {
		return StatusSaved, nil
	}
	return StatusUnsaved, nil
}

// AddComment appends a comment and returns the recipe's comments, oldest first.
func (u *socialUsecase) AddComment(ctx context.Context, id identity.Identity, recipeID uint, content string) ([]entity.CommentView, error) {
	if id.Anonymous() {
		return nil, ErrUnauthenticated
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyComment
	}
	if utf8.RuneCountInString(content) > MaxCommentLength {
		return nil, apperr.Validation("comment must be at most %d characters", MaxCommentLength)
	}

	comments, err := u.repo.AddComment(ctx, &entity.Comment{
		UserID:   id.UserID,
		RecipeID: recipeID,
		Content:  content,
	})
	if err != nil {
		return nil, apperr.Wrap("add comment", err)
	}
	return comments, nil
}

// ListComments returns a recipe's comments, oldest first.
func (u *socialUsecase) ListComments(ctx context.Context, recipeID uint) ([]entity.CommentView, error) {
	comments, err := u.repo.ListComments(ctx, recipeID)
	if err != nil {
		return nil, apperr.Wrap("list comments", err)
	}
	return comments, nil
}
