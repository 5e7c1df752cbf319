// Package usecase implements the business logic for the recipe feature.
package usecase

import (
	"errors"

	"foodie/internal/shared/apperr"
)

var (
	// ErrRecipeNotFound is returned when no recipe has the requested ID.
	ErrRecipeNotFound = apperr.New(apperr.ErrNotFound, "recipe not found")

	// ErrNotOwner is returned when the caller edits or deletes a recipe it did not author.
	ErrNotOwner = apperr.New(apperr.ErrAuthz, "you do not own this recipe")

	// ErrUnauthenticated is returned for session-gated operations without a session.
	ErrUnauthenticated = apperr.New(apperr.ErrAuth, "unauthenticated")

	// ErrInvalidImage is returned for uploads outside the extension allow-list.
	ErrInvalidImage = apperr.New(apperr.ErrValidation, "image must be a png, jpg, jpeg or gif file")

	// ErrImageTooLarge is returned for uploads over MaxImageSize.
	ErrImageTooLarge = apperr.New(apperr.ErrValidation, "image must be at most 10 MB")

	// ErrDraftingDisabled is returned by SuggestDescription when no writer is configured.
	ErrDraftingDisabled = errors.New("description drafting is disabled")
)
