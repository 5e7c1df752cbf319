// Package web holds the response conventions shared by every HTTP handler:
// the JSON error envelope, flash messages for page routes, and access to the
// authenticated caller stored on the gin context.
package web

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"foodie/internal/shared/apperr"
	"foodie/internal/shared/identity"
)

const (
	// ContextIdentity is the gin context key holding the caller's identity.Identity.
	ContextIdentity = "identity"
	// FlashCookie is the cookie carrying a one-shot message to the next page view.
	FlashCookie = "flash"

	flashMaxAge = 60
)

// StatusResponse is the envelope of every JSON route.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// CurrentIdentity returns the caller resolved by the session middleware.
// The zero Identity is returned for anonymous requests.
func CurrentIdentity(c *gin.Context) identity.Identity {
	if v, ok := c.Get(ContextIdentity); ok {
		if id, ok := v.(identity.Identity); ok {
			return id
		}
	}
	return identity.Identity{}
}

// SetIdentity stores the caller on the gin context.
func SetIdentity(c *gin.Context, id identity.Identity) {
	c.Set(ContextIdentity, id)
}

// JSONError writes {"status":"error","message":...} with the status matching err's kind.
// Persistence and unclassified errors are logged with their cause.
func JSONError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "error", err, "path", c.FullPath(), "remote_addr", c.ClientIP())
	}
	c.AbortWithStatusJSON(status, StatusResponse{Status: "error", Message: apperr.Message(err)})
}

// SetFlash stores msg for the next page view.
func SetFlash(c *gin.Context, msg string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(FlashCookie, msg, flashMaxAge, "/", "", false, true)
}

// PopFlash returns the pending flash message and clears it.
func PopFlash(c *gin.Context) string {
	msg, err := c.Cookie(FlashCookie)
	if err != nil || msg == "" {
		return ""
	}
	c.SetCookie(FlashCookie, "", -1, "/", "", false, true)
	return msg
}

// RedirectWithFlash answers a page route with a flash message and a 303 to location.
func RedirectWithFlash(c *gin.Context, location, msg string) {
	if msg != "" {
		SetFlash(c, msg)
	}
	c.Redirect(http.StatusSeeOther, location)
	c.Abort()
}

// PageError answers a failed page route: the error's message is flashed and the
// caller is sent back to location.
func PageError(c *gin.Context, location string, err error) {
	if apperr.HTTPStatus(err) >= http.StatusInternalServerError {
		slog.Error("page request failed", "error", err, "path", c.FullPath(), "remote_addr", c.ClientIP())
	}
	RedirectWithFlash(c, location, apperr.Message(err))
}

// WantsJSON reports whether the client posted JSON and expects a JSON answer
// instead of a redirect.
func WantsJSON(c *gin.Context) bool {
	return c.ContentType() == gin.MIMEJSON
}

// PageView is the view model of a page route. Templates are rendered by the
// client, so the server answers with the data a template would receive.
type PageView struct {
	Page        string `json:"page"`
	Flash       string `json:"flash,omitempty"`
	CurrentUser string `json:"current_user,omitempty"`
	Data        any    `json:"data,omitempty"`
}

// RenderPage answers a GET page route with its view model and consumes the flash.
func RenderPage(c *gin.Context, page string, data any) {
	c.JSON(http.StatusOK, PageView{
		Page:        page,
		Flash:       PopFlash(c),
		CurrentUser: CurrentIdentity(c).Username,
		Data:        data,
	})
}
