// Package handler provides the HTTP handlers for the auth feature.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"foodie/internal/feature/auth/domain/entity"
	"foodie/internal/feature/auth/transport/http/dto"
	"foodie/internal/feature/auth/usecase"
	jwtmw "foodie/internal/platform/jwt"
	"foodie/internal/shared/apperr"
	"foodie/internal/shared/identity"
	"foodie/internal/shared/web"
)

// Flash messages shown after auth actions.
const (
	msgRegistered     = "Registration successful! Please log in."
	msgLoggedIn       = "Logged in successfully."
	msgLoggedOut      = "You have been logged out."
	msgAccountDeleted = "Your account has been deleted."
)

var errInvalidRequest = apperr.Validation("invalid request")

// AuthUsecase defines the authentication operations.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type AuthUsecase interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*entity.User, error)
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginResult, error)
	Logout(ctx context.Context, id identity.Identity) error
	DeleteAccount(ctx context.Context, id identity.Identity) error
}

// AuthHandler serves the register, login, logout and account deletion routes.
// Form posts are answered with a redirect; JSON posts with a JSON body.
type AuthHandler struct {
	auth         AuthUsecase
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler. secureCookie marks the session cookie
// Secure and should be set behind HTTPS.
func NewAuthHandler(auth AuthUsecase, secureCookie bool) *AuthHandler {
	return &AuthHandler{auth: auth, secureCookie: secureCookie}
}

// RegisterPage renders the registration form.
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	web.RenderPage(c, "register", nil)
}

// Register creates an account and sends the user to the login page.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBind(&req); err != nil {
		slog.Warn("register bind failed", "error", err, "remote_addr", c.ClientIP())
		h.fail(c, "/register", errInvalidRequest)
		return
	}

	user, err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		slog.Warn("register failed", "error", err, "username", req.Username, "remote_addr", c.ClientIP())
		h.fail(c, "/register", err)
		return
	}

	slog.Info("user registered", "user_id", user.ID, "remote_addr", c.ClientIP())
	if web.WantsJSON(c) {
		c.JSON(http.StatusCreated, dto.UserResp{Status: "ok", ID: user.ID, Username: user.Username})
		return
	}
	web.RedirectWithFlash(c, "/login", msgRegistered)
}

// LoginPage renders the login form.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	web.RenderPage(c, "login", nil)
}

// Login opens a session and stores its token in the session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBind(&req); err != nil {
		slog.Warn("login bind failed", "error", err, "remote_addr", c.ClientIP())
		h.fail(c, "/login", apperr.Validation("email and password are required"))
		return
	}

	res, err := h.auth.Login(c.Request.Context(), usecase.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		// The email is not logged to keep failed attempts from leaking addresses into logs.
		slog.Warn("login failed", "error", err, "remote_addr", c.ClientIP())
		h.fail(c, "/login", err)
		return
	}

	jwtmw.SetSessionCookie(c, res.Token, res.ExpiresAt, h.secureCookie)
	slog.Info("user login successful", "user_id", res.User.ID, "remote_addr", c.ClientIP())
	if web.WantsJSON(c) {
		c.JSON(http.StatusOK, dto.LoginResp{
			Status:    "ok",
			Username:  res.User.Username,
			Token:     res.Token,
			ExpiresAt: res.ExpiresAt,
		})
		return
	}
	web.RedirectWithFlash(c, "/", msgLoggedIn)
}

// Logout revokes the current session. Without one it only clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	id := web.CurrentIdentity(c)
	if err := h.auth.Logout(c.Request.Context(), id); err != nil {
		web.PageError(c, "/", err)
		return
	}
	jwtmw.ClearSessionCookie(c, h.secureCookie)
	if id.Anonymous() {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}
	slog.Info("user logout", "user_id", id.UserID, "remote_addr", c.ClientIP())
	web.RedirectWithFlash(c, "/login", msgLoggedOut)
}

// DeleteAccount removes the caller's account and all of its content.
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	id := web.CurrentIdentity(c)
	if err := h.auth.DeleteAccount(c.Request.Context(), id); err != nil {
		h.fail(c, "/my_recipes", err)
		return
	}
	jwtmw.ClearSessionCookie(c, h.secureCookie)
	slog.Info("account deleted", "user_id", id.UserID, "remote_addr", c.ClientIP())
	if web.WantsJSON(c) {
		c.JSON(http.StatusOK, web.StatusResponse{Status: "deleted"})
		return
	}
	web.RedirectWithFlash(c, "/", msgAccountDeleted)
}

func (h *AuthHandler) fail(c *gin.Context, location string, err error) {
	if web.WantsJSON(c) {
		web.JSONError(c, err)
		return
	}
	web.PageError(c, location, err)
}
