package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodie/internal/feature/auth/domain/entity"
	"foodie/internal/feature/auth/usecase"
	jwtmw "foodie/internal/platform/jwt"
	"foodie/internal/shared/apperr"
	"foodie/internal/shared/identity"
	"foodie/internal/shared/web"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// mockAuthUsecase is a mock implementation of the AuthUsecase interface.
type mockAuthUsecase struct {
	RegisterFunc      func(in usecase.RegisterInput) (*entity.User, error)
	LoginFunc         func(in usecase.LoginInput) (*usecase.LoginResult, error)
	LogoutFunc        func(id identity.Identity) error
	DeleteAccountFunc func(id identity.Identity) error
}

func (m *mockAuthUsecase) Register(_ context.Context, in usecase.RegisterInput) (*entity.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(in)
	}
	return &entity.User{ID: 1, Username: in.Username}, nil
}

func (m *mockAuthUsecase) Login(_ context.Context, in usecase.LoginInput) (*usecase.LoginResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(in)
	}
	return nil, usecase.ErrInvalidCredentials
}

func (m *mockAuthUsecase) Logout(_ context.Context, id identity.Identity) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(id)
	}
	return nil
}

func (m *mockAuthUsecase) DeleteAccount(_ context.Context, id identity.Identity) error {
	if m.DeleteAccountFunc != nil {
		return m.DeleteAccountFunc(id)
	}
	return nil
}

var alice = identity.Identity{UserID: 1, Username: "alice", SessionID: "sid-1"}

// newRouter wires the handler like the application does, with an optional fixed caller.
func newRouter(h *AuthHandler, caller *identity.Identity) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if caller != nil {
			web.SetIdentity(c, *caller)
		}
	})
	r.GET("/register", h.RegisterPage)
	r.POST("/register", h.Register)
	r.GET("/login", h.LoginPage)
	r.POST("/login", h.Login)
	r.GET("/logout", h.Logout)
	r.POST("/delete_account", h.DeleteAccount)
	return r
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func postJSON(t *testing.T, path string, body any) *http.Request {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func cookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func flash(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	c := cookie(w, web.FlashCookie)
	require.NotNil(t, c, "flash cookie not set")
	msg, err := url.QueryUnescape(c.Value)
	require.NoError(t, err)
	return msg
}

func TestAuthHandler_Register(t *testing.T) {
	form := url.Values{
		"username":         {"alice"},
		"email":            {"a@x.com"},
		"password":         {"password1"},
		"confirm_password": {"password1"},
	}

	t.Run("form success redirects to login", func(t *testing.T) {
		var got usecase.RegisterInput
		uc := &mockAuthUsecase{RegisterFunc: func(in usecase.RegisterInput) (*entity.User, error) {
			got = in
			return &entity.User{ID: 1, Username: in.Username}, nil
		}}
		w := httptest.NewRecorder()

		newRouter(NewAuthHandler(uc, false), nil).ServeHTTP(w, postForm("/register", form))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
		assert.Equal(t, msgRegistered, flash(t, w))
		assert.Equal(t, "password1", got.ConfirmPassword)
	})

	t.Run("form conflict redirects back with message", func(t *testing.T) {
		uc := &mockAuthUsecase{RegisterFunc: func(usecase.RegisterInput) (*entity.User, error) {
			return nil, usecase.ErrEmailTaken
		}}
		w := httptest.NewRecorder()

		newRouter(NewAuthHandler(uc, false), nil).ServeHTTP(w, postForm("/register", form))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/register", w.Header().Get("Location"))
		assert.Equal(t, "email already registered", flash(t, w))
	})

	t.Run("json validation error", func(t *testing.T) {
		uc := &mockAuthUsecase{RegisterFunc: func(usecase.RegisterInput) (*entity.User, error) {
			return nil, apperr.Validation("password must be at least 8 characters")
		}}
		w := httptest.NewRecorder()

		newRouter(NewAuthHandler(uc, false), nil).ServeHTTP(w, postJSON(t, "/register", gin.H{"username": "alice"}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"status":"error","message":"password must be at least 8 characters"}`, w.Body.String())
	})

	t.Run("json success", func(t *testing.T) {
		w := httptest.NewRecorder()

		newRouter(NewAuthHandler(&mockAuthUsecase{}, false), nil).ServeHTTP(w, postJSON(t, "/register", gin.H{
			"username": "alice", "email": "a@x.com", "password": "password1", "confirm_password": "password1",
		}))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"status":"ok","id":1,"username":"alice"}`, w.Body.String())
	})
}

func TestAuthHandler_Login(t *testing.T) {
	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	uc := &mockAuthUsecase{LoginFunc: func(in usecase.LoginInput) (*usecase.LoginResult, error) {
		if in.Email != "a@x.com" || in.Password != "password1" {
			return nil, usecase.ErrInvalidCredentials
		}
		return &usecase.LoginResult{
			User:      &entity.User{ID: 1, Username: "alice"},
			Token:     "signed-token",
			ExpiresAt: expires,
		}, nil
	}}

	t.Run("form success sets the session cookie", func(t *testing.T) {
		w := httptest.NewRecorder()

		newRouter(NewAuthHandler(uc, false), nil).ServeHTTP(w, postForm("/login", url.Values{
			"email": {"a@x.com"}, "password": {"password1"},
		}))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
		session := cookie(w, jwtmw.CookieName)
		require.NotNil(t, session)
		assert.Equal(t, "signed-token", session.Value)
		assert.True(t, session.HttpOnly)
	})

	t.Run("json success returns the token", func(t *testing.T) {
		w := httptest.NewRecorder()

		newRouter(NewAuthHandler(uc, false), nil).ServeHTTP(w, postJSON(t, "/login", gin.H{
			"email": "a@x.com", "password": "password1",
		}))

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Status string `json:"status"`
			Token  string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, "signed-token", resp.Token)
	})

	t.Run("bad credentials", func(t *testing.T) {
		w := httptest.NewRecorder()

		newRouter(NewAuthHandler(uc, false), nil).ServeHTTP(w, postJSON(t, "/login", gin.H{
			"email": "a@x.com", "password": "wrong",
		}))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"status":"error","message":"invalid email or password"}`, w.Body.String())
		assert.Nil(t, cookie(w, jwtmw.CookieName))
	})

	t.Run("missing fields", func(t *testing.T) {
		w := httptest.NewRecorder()

		newRouter(NewAuthHandler(uc, false), nil).ServeHTTP(w, postForm("/login", url.Values{"email": {"a@x.com"}}))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
		assert.Equal(t, "email and password are required", flash(t, w))
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	t.Run("revokes the session", func(t *testing.T) {
		var revoked identity.Identity
		uc := &mockAuthUsecase{LogoutFunc: func(id identity.Identity) error {
			revoked = id
			return nil
		}}
		w := httptest.NewRecorder()

		newRouter(NewAuthHandler(uc, false), &alice).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/logout", nil))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
		assert.Equal(t, alice, revoked)
		assert.Equal(t, msgLoggedOut, flash(t, w))
		session := cookie(w, jwtmw.CookieName)
		require.NotNil(t, session)
		assert.Negative(t, session.MaxAge)
	})

	t.Run("anonymous is a plain redirect", func(t *testing.T) {
		w := httptest.NewRecorder()

		newRouter(NewAuthHandler(&mockAuthUsecase{}, false), nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/logout", nil))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
		assert.Nil(t, cookie(w, web.FlashCookie))
	})
}

func TestAuthHandler_DeleteAccount(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var deleted identity.Identity
		uc := &mockAuthUsecase{DeleteAccountFunc: func(id identity.Identity) error {
			deleted = id
			return nil
		}}
		w := httptest.NewRecorder()

		newRouter(NewAuthHandler(uc, false), &alice).ServeHTTP(w, postForm("/delete_account", nil))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
		assert.Equal(t, alice.UserID, deleted.UserID)
		assert.Equal(t, msgAccountDeleted, flash(t, w))
	})

	t.Run("persistence failure keeps the cookie", func(t *testing.T) {
		uc := &mockAuthUsecase{DeleteAccountFunc: func(identity.Identity) error {
			return apperr.Persistence("delete account", assert.AnError)
		}}
		w := httptest.NewRecorder()

		newRouter(NewAuthHandler(uc, false), &alice).ServeHTTP(w, postJSON(t, "/delete_account", gin.H{}))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"status":"error","message":"failed to delete account"}`, w.Body.String())
		assert.Nil(t, cookie(w, jwtmw.CookieName))
	})
}

func TestAuthHandler_Pages(t *testing.T) {
	r := newRouter(NewAuthHandler(&mockAuthUsecase{}, false), nil)

	for _, page := range []string{"login", "register"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/"+page, nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"page":"`+page+`"}`, w.Body.String())
	}
}
