package validation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupLike struct {
	Username string `json:"username" validate:"required,min=3,max=20,alphanum"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func TestStruct(t *testing.T) {
	err := Struct(signupLike{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	assert.NoError(t, err)

	tests := []struct {
		name    string
		in      signupLike
		field   string
		message string
	}{
		{"missing username", signupLike{Email: "a@b.co", Password: "secret1"}, "username", "is required"},
		{"short username", signupLike{Username: "al", Email: "a@b.co", Password: "secret1"}, "username", "must be at least 3 characters"},
		{"symbols", signupLike{Username: "al!ce", Email: "a@b.co", Password: "secret1"}, "username", "must contain only letters and numbers"},
		{"bad email", signupLike{Username: "alice", Email: "nope", Password: "secret1"}, "email", "must be a valid email address"},
		{"short password", signupLike{Username: "alice", Email: "a@b.co", Password: "123"}, "password", "must be at least 6 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			require.Error(t, err)

			var ve *Error
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, tt.message, ve.Message)
		})
	}
}

func TestVar(t *testing.T) {
	assert.NoError(t, Var("link", "https://github.com/alice", "required,url"))

	err := Var("link", "not a url", "required,url")
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "link")
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, IsValidationError(New("content", "is required")))
	assert.True(t, IsValidationError(fmt.Errorf("wrapped: %w", New("content", "is required"))))
	assert.False(t, IsValidationError(errors.New("boom")))
}
