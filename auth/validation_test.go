package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Leonardo-Reis-al74689/Exercise-Intern-Bosch/apperror"
)

func TestRegisterRequestValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr string
	}{
		{
			name: "valid request",
			req:  RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "Str0ng!pass"},
		},
		{
			name:    "missing username",
			req:     RegisterRequest{Email: "alice@example.com", Password: "Str0ng!pass"},
			wantErr: "username is required",
		},
		{
			name:    "username too short",
			req:     RegisterRequest{Username: "ab", Email: "alice@example.com", Password: "Str0ng!pass"},
			wantErr: "username must be at least 3 characters",
		},
		{
			name:    "invalid email",
			req:     RegisterRequest{Username: "alice", Email: "not-an-email", Password: "Str0ng!pass"},
			wantErr: "email must be a valid email address",
		},
		{
			name:    "password too short",
			req:     RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "S0r!t"},
			wantErr: "password must be at least 8 characters",
		},
		{
			name:    "password missing uppercase",
			req:     RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "str0ng!pass"},
			wantErr: "password must contain at least one uppercase letter, one lowercase letter, one digit, and one special character",
		},
		{
			name:    "password missing digit",
			req:     RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "Strong!pass"},
			wantErr: "password must contain at least one uppercase letter, one lowercase letter, one digit, and one special character",
		},
		{
			name:    "password missing symbol",
			req:     RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "Str0ngpass"},
			wantErr: "password must contain at least one uppercase letter, one lowercase letter, one digit, and one special character",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkRequest(tt.req)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperror.IsValidationError(err))
			appErr, ok := apperror.FromError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantErr, appErr.Message)
		})
	}
}

func TestPasswordStrengthAcceptsAllSymbolSet(t *testing.T) {
	for _, symbol := range passwordSymbols {
		req := RegisterRequest{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "Passw0rd" + string(symbol),
		}
		assert.NoError(t, checkRequest(req), "symbol %q should satisfy the strength rule", symbol)
	}
}

func TestLoginRequestValidation(t *testing.T) {
	assert.NoError(t, checkRequest(LoginRequest{Username: "alice", Password: "x"}))

	err := checkRequest(LoginRequest{Password: "x"})
	require.Error(t, err)
	assert.True(t, apperror.IsValidationError(err))

	err = checkRequest(LoginRequest{Username: "alice"})
	require.Error(t, err)
	assert.True(t, apperror.IsValidationError(err))
}
