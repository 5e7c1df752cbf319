package jwtmw

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodie/internal/shared/apperr"
	"foodie/internal/shared/identity"
	"foodie/internal/shared/web"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// mockAuthenticator is a mock implementation of Authenticator.
type mockAuthenticator struct {
	AuthenticateFunc func(token string) (identity.Identity, error)
}

func (m *mockAuthenticator) Authenticate(_ context.Context, token string) (identity.Identity, error) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(token)
	}
	return identity.Identity{}, apperr.New(apperr.ErrAuth, "unauthenticated")
}

var alice = identity.Identity{UserID: 1, Username: "alice", SessionID: "sid-1"}

func aliceOnly(token string) (identity.Identity, error) {
	if token == "good-token" {
		return alice, nil
	}
	return identity.Identity{}, apperr.New(apperr.ErrAuth, "unauthenticated")
}

// newEngine builds an engine whose /whoami route echoes the resolved identity.
func newEngine(auth Authenticator, gates ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(Authenticate(auth))
	handlers := append(gates, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": web.CurrentIdentity(c).Username})
	})
	r.GET("/whoami", handlers...)
	return r
}

func TestTokenFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{"none", "", "", ""},
		{"bearer", "Bearer abc", "", "abc"},
		{"cookie", "", "xyz", "xyz"},
		{"bearer wins", "Bearer abc", "xyz", "abc"},
		{"basic auth ignored", "Basic dXNlcjpwYXNz", "", ""},
		{"lowercase bearer ignored", "bearer abc", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				c.Request.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				c.Request.AddCookie(&http.Cookie{Name: CookieName, Value: tt.cookie})
			}

			assert.Equal(t, tt.want, TokenFromRequest(c))
		})
	}
}

func TestAuthenticate(t *testing.T) {
	auth := &mockAuthenticator{AuthenticateFunc: aliceOnly}

	t.Run("valid cookie resolves identity", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: "good-token"})

		newEngine(auth).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"username":"alice"}`, w.Body.String())
	})

	t.Run("invalid token stays anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer forged")

		newEngine(auth).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"username":""}`, w.Body.String())
	})

	t.Run("store failure stays anonymous", func(t *testing.T) {
		failing := &mockAuthenticator{AuthenticateFunc: func(string) (identity.Identity, error) {
			return identity.Identity{}, errors.New("redis down")
		}}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer good-token")

		newEngine(failing).ServeHTTP(w, req)

		assert.JSONEq(t, `{"username":""}`, w.Body.String())
	})
}

func TestRequireJSON(t *testing.T) {
	r := newEngine(&mockAuthenticator{AuthenticateFunc: aliceOnly}, RequireJSON())

	t.Run("anonymous gets 401", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"status":"error","message":"unauthenticated"}`, w.Body.String())
	})

	t.Run("authenticated passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequirePage(t *testing.T) {
	r := newEngine(&mockAuthenticator{AuthenticateFunc: aliceOnly}, RequirePage("/login"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	var flash *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == web.FlashCookie {
			flash = ck
		}
	}
	require.NotNil(t, flash, "flash cookie not set")
}

func TestSessionCookie(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	SetSessionCookie(c, "tok", time.Now().Add(time.Hour), true)
	cookies := w.Result().Cookies()

	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, "tok", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	assert.InDelta(t, 3600, cookies[0].MaxAge, 5)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	ClearSessionCookie(c, false)
	cookies = w.Result().Cookies()

	require.Len(t, cookies, 1)
	assert.Negative(t, cookies[0].MaxAge)
}
