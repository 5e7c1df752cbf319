// Package usecase implements likes, saves and comments.
package usecase

import "foodie/internal/shared/apperr"

var (
	// ErrRecipeNotFound is returned when the target recipe does not exist.
	ErrRecipeNotFound = apperr.New(apperr.ErrNotFound, "recipe not found")

	// ErrUnauthenticated is returned when no valid session backs the request.
	ErrUnauthenticated = apperr.New(apperr.ErrAuth, "unauthenticated")

	// ErrEmptyComment is returned when the comment is blank after trimming.
	ErrEmptyComment = apperr.New(apperr.ErrValidation, "comment must not be empty")
)
