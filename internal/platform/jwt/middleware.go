package jwtmw

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"foodie/internal/shared/apperr"
	"foodie/internal/shared/identity"
	"foodie/internal/shared/web"
)

// CookieName is the cookie carrying the session token for browser clients.
const CookieName = "foodie_session"

// LoginRequiredMessage is flashed when a page route needs a session.
const LoginRequiredMessage = "Please log in to access this page."

var errUnauthenticated = apperr.New(apperr.ErrAuth, "unauthenticated")

// Authenticator resolves a session token into the caller's identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (identity.Identity, error)
}

// TokenFromRequest returns the bearer token, falling back to the session cookie.
func TokenFromRequest(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if cookie, err := c.Cookie(CookieName); err == nil {
		return cookie
	}
	return ""
}

// Authenticate resolves the caller on every request and stores the identity on
// the context. Requests without a valid session continue anonymously.
func Authenticate(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		if token == "" {
			c.Next()
			return
		}

		id, err := auth.Authenticate(c.Request.Context(), token)
		switch {
		case err == nil:
			web.SetIdentity(c, id)
		case errors.Is(err, apperr.ErrAuth):
			slog.Debug("ignoring invalid session token", "remote_addr", c.ClientIP())
		default:
			slog.Error("failed to resolve session", "error", err, "remote_addr", c.ClientIP())
		}
		c.Next()
	}
}

// RequireJSON rejects anonymous callers of JSON routes with 401.
func RequireJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		if web.CurrentIdentity(c).Anonymous() {
			web.JSONError(c, errUnauthenticated)
			return
		}
		c.Next()
	}
}

// RequirePage sends anonymous callers of page routes to loginPath with a flash message.
func RequirePage(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if web.CurrentIdentity(c).Anonymous() {
			web.RedirectWithFlash(c, loginPath, LoginRequiredMessage)
			return
		}
		c.Next()
	}
}

// SetSessionCookie stores token in an HttpOnly SameSite=Lax cookie that expires with the session.
func SetSessionCookie(c *gin.Context, token string, expiresAt time.Time, secure bool) {
	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, maxAge, "/", "", secure, true)
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", secure, true)
}
