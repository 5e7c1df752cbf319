package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"foodie/internal/feature/auth/domain/entity"
	"foodie/internal/shared/apperr"
	"foodie/internal/shared/identity"
	"foodie/internal/shared/validate"
)

const (
	// DefaultSessionTTL is how long a login stays valid.
	DefaultSessionTTL = 7 * 24 * time.Hour
	// DefaultMaxSessionsPerUser caps concurrent sessions; the oldest is dropped on login.
	DefaultMaxSessionsPerUser = 5

	// dummyHash is compared against when the email is unknown so that both failure
	// paths cost one bcrypt comparison.
	dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
)

// UserRepository abstracts the persistence layer for user entities.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type UserRepository interface {
	// Create persists a new user. It returns ErrUsernameTaken or ErrEmailTaken on collision.
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail returns ErrUserNotFound when no user has the email.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID returns ErrUserNotFound when no user has the ID.
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// DeleteCascade removes the user together with the user's recipes and every like,
	// save and comment referencing the user or those recipes, in one transaction.
	// It returns the image URLs of the removed recipes.
	DeleteCascade(ctx context.Context, id uint) ([]string, error)
}

// TokenIssuer signs and verifies the session token handed to clients.
type TokenIssuer interface {
	GenerateToken(userID uint, sessionID string, expiresAt time.Time) (string, error)
	ParseToken(token string) (userID uint, sessionID string, err error)
}

// ImageRemover deletes stored recipe images.
type ImageRemover interface {
	Delete(ctx context.Context, url string) error
}

// Options tunes session handling. Zero values select the defaults.
type Options struct {
	SessionTTL         time.Duration
	MaxSessionsPerUser int
	BcryptCost         int
}

// RegisterInput is the registration form.
type RegisterInput struct {
	Username        string `field:"username" validate:"required,min=3,max=50"`
	Email           string `field:"email" validate:"required,email,max=100"`
	Password        string `field:"password" validate:"required,min=8"`
	ConfirmPassword string `field:"confirm_password" validate:"required,eqfield=Password"`
}

// LoginInput is the login form plus the client metadata recorded on the session.
type LoginInput struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

// LoginResult is an established session.
type LoginResult struct {
	User      *entity.User
	Token     string
	ExpiresAt time.Time
}

// authUsecase implements the authentication business logic.
type authUsecase struct {
	users    UserRepository
	sessions SessionRepository
	tokens   TokenIssuer
	images   ImageRemover
	opts     Options
	now      func() time.Time
}

// NewAuthUsecase creates a new authUsecase.
func NewAuthUsecase(users UserRepository, sessions SessionRepository, tokens TokenIssuer, images ImageRemover, opts Options) *authUsecase {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = DefaultSessionTTL
	}
	if opts.MaxSessionsPerUser <= 0 {
		opts.MaxSessionsPerUser = DefaultMaxSessionsPerUser
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &authUsecase{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		images:   images,
		opts:     opts,
		now:      time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account with a bcrypt-hashed password.
func (u *authUsecase) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), u.opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hashed),
	}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, apperr.Wrap("register", err)
	}
	return user, nil
}

// Login verifies the credentials and opens a new session.
func (u *authUsecase) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	user, err := u.users.FindByEmail(ctx, normalizeEmail(in.Email))
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, apperr.Wrap("log in", err)
	}

	passwordHash := dummyHash
	if err == nil {
		passwordHash = user.PasswordHash
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(in.Password))
	if err != nil || compareErr != nil {
		return nil, ErrInvalidCredentials
	}

	if err := u.enforceSessionLimit(ctx, user.ID); err != nil {
		return nil, apperr.Wrap("log in", err)
	}

	now := u.now()
	session := &entity.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		UserAgent: in.UserAgent,
		IPAddress: in.IPAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(u.opts.SessionTTL),
	}
	if err := u.sessions.Create(ctx, session); err != nil {
		return nil, apperr.Wrap("log in", err)
	}

	token, err := u.tokens.GenerateToken(user.ID, session.ID, session.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResult{User: user, Token: token, ExpiresAt: session.ExpiresAt}, nil
}

// enforceSessionLimit drops the oldest sessions until one more fits.
func (u *authUsecase) enforceSessionLimit(ctx context.Context, userID uint) error {
	count, err := u.sessions.CountByUserID(ctx, userID)
	if err != nil {
		return err
	}
	for ; count >= int64(u.opts.MaxSessionsPerUser); count-- {
		if err := u.sessions.DeleteOldestByUserID(ctx, userID); err != nil {
			return err
		}
	}
	return nil
}

// Logout revokes the caller's session. Anonymous callers are a no-op.
func (u *authUsecase) Logout(ctx context.Context, id identity.Identity) error {
	if id.SessionID == "" {
		return nil
	}
	err := u.sessions.Revoke(ctx, id.SessionID)
	if err != nil && !errors.Is(err, ErrSessionNotFound) {
		return apperr.Wrap("log out", err)
	}
	return nil
}

// Authenticate resolves a session token into the caller's identity.
// Every token that does not map to a live session of an existing user yields ErrUnauthenticated.
func (u *authUsecase) Authenticate(ctx context.Context, token string) (identity.Identity, error) {
	if token == "" {
		return identity.Identity{}, ErrUnauthenticated
	}
	userID, sessionID, err := u.tokens.ParseToken(token)
	if err != nil {
		return identity.Identity{}, ErrUnauthenticated
	}

	session, err := u.sessions.FindByID(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		return identity.Identity{}, ErrUnauthenticated
	}
	if err != nil {
		return identity.Identity{}, apperr.Wrap("load session", err)
	}
	if !session.IsValid() || !session.BelongsTo(userID) {
		return identity.Identity{}, ErrUnauthenticated
	}

	user, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, ErrUserNotFound) {
		return identity.Identity{}, ErrUnauthenticated
	}
	if err != nil {
		return identity.Identity{}, apperr.Wrap("load user", err)
	}

	return identity.Identity{UserID: user.ID, Username: user.Username, SessionID: session.ID}, nil
}

// DeleteAccount removes the caller's account and everything it owns, then revokes
// all of its sessions. Image cleanup happens after the commit and is best effort.
func (u *authUsecase) DeleteAccount(ctx context.Context, id identity.Identity) error {
	if id.Anonymous() {
		return ErrUnauthenticated
	}

	images, err := u.users.DeleteCascade(ctx, id.UserID)
	if err != nil {
		return apperr.Wrap("delete account", err)
	}

	if err := u.sessions.RevokeAllByUserID(ctx, id.UserID); err != nil {
		slog.Warn("failed to revoke sessions of deleted account", "error", err, "user_id", id.UserID)
	}
	for _, url := range images {
		if url == "" || u.images == nil {
			continue
		}
		if err := u.images.Delete(ctx, url); err != nil {
			slog.Warn("failed to delete recipe image", "error", err, "url", url)
		}
	}
	return nil
}
