package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"foodie/internal/shared/apperr"
)

type signup struct {
	Username        string `field:"username" validate:"required,min=3,max=50"`
	Email           string `field:"email" validate:"required,email"`
	Password        string `field:"password" validate:"required,min=8"`
	ConfirmPassword string `field:"confirm_password" validate:"required,eqfield=Password"`
}

func TestStruct(t *testing.T) {
	t.Parallel()

	valid := signup{Username: "alice", Email: "a@x.com", Password: "password1", ConfirmPassword: "password1"}

	tests := []struct {
		name    string
		mutate  func(s *signup)
		wantMsg string
	}{
		{"valid", func(s *signup) {}, ""},
		{"missing username", func(s *signup) { s.Username = "" }, "username is required"},
		{"short username", func(s *signup) { s.Username = "al" }, "username must be at least 3 characters"},
		{"long username", func(s *signup) { s.Username = strings.Repeat("a", 51) }, "username must be at most 50 characters"},
		{"bad email", func(s *signup) { s.Email = "not-an-email" }, "email must be a valid email address"},
		{"short password", func(s *signup) { s.Password, s.ConfirmPassword = "short", "short" }, "password must be at least 8 characters"},
		{"mismatch", func(s *signup) { s.ConfirmPassword = "password2" }, "passwords must match"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			in := valid
			tt.mutate(&in)
			err := Struct(in)

			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, apperr.ErrValidation)
			assert.EqualError(t, err, tt.wantMsg)
		})
	}
}

func TestStruct_CountsRunes(t *testing.T) {
	t.Parallel()

	type title struct {
		Title string `field:"title" validate:"max=3"`
	}

	assert.NoError(t, Struct(title{Title: "äöü"}), "three runes should fit a max of three")
	assert.Error(t, Struct(title{Title: "äöüß"}))
}
