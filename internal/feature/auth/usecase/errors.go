// Package usecase implements the business logic for the auth feature.
package usecase

import "foodie/internal/shared/apperr"

var (
	// ErrUserNotFound is returned when a user cannot be found by email or ID.
	ErrUserNotFound = apperr.New(apperr.ErrNotFound, "user not found")

	// ErrUsernameTaken is returned when registering with a username that already exists.
	ErrUsernameTaken = apperr.New(apperr.ErrConflict, "username already taken")

	// ErrEmailTaken is returned when registering with an email that already exists.
	ErrEmailTaken = apperr.New(apperr.ErrConflict, "email already registered")

	// ErrInvalidCredentials is returned by Login for an unknown email or a wrong password.
	ErrInvalidCredentials = apperr.New(apperr.ErrAuth, "invalid email or password")

	// ErrUnauthenticated is returned when no valid session backs the request.
	ErrUnauthenticated = apperr.New(apperr.ErrAuth, "unauthenticated")

	// ErrSessionNotFound is returned when a session cannot be found by ID.
	ErrSessionNotFound = apperr.New(apperr.ErrAuth, "session not found")
)
