package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/testutil"
	"golang.org/x/crypto/bcrypt"
)

type authTestEnv struct {
	users   *testutil.FakeUserRepository
	tokens  *TokenService
	service *AuthService
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	users := testutil.NewFakeUserRepository()
	tokens := newTestTokenService(t)
	return authTestEnv{
		users:   users,
		tokens:  tokens,
		service: NewAuthService(users, tokens, bcrypt.MinCost, testutil.DiscardLogger()),
	}
}

func TestAuthService_Register(t *testing.T) {
	env := setupAuthTestEnv(t)
	ctx := context.Background()

	user, err := env.service.Register(ctx, CredentialsInput{Username: "alice", Password: "pw1"})
	require.NoError(t, err)
	assert.False(t, user.ID.IsZero())
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "pw1", user.PasswordHash)
	assert.True(t, env.service.VerifyPassword(user, "pw1"))
	assert.False(t, env.service.VerifyPassword(user, "pw2"))
}

func TestAuthService_RegisterDuplicateKeepsOriginalHash(t *testing.T) {
	env := setupAuthTestEnv(t)
	ctx := context.Background()

	_, err := env.service.Register(ctx, CredentialsInput{Username: "alice", Password: "pw1"})
	require.NoError(t, err)

	_, err = env.service.Register(ctx, CredentialsInput{Username: "alice", Password: "pw2"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	stored, err := env.users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, env.service.VerifyPassword(stored, "pw1"))
	assert.False(t, env.service.VerifyPassword(stored, "pw2"))
}

func TestAuthService_RegisterRaceMapsDuplicateKey(t *testing.T) {
	env := setupAuthTestEnv(t)
	env.users.CreateErr = repository.ErrDuplicateKey

	_, err := env.service.Register(context.Background(), CredentialsInput{Username: "alice", Password: "pw1"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	env := setupAuthTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input CredentialsInput
	}{
		{"missing username", CredentialsInput{Password: "pw1"}},
		{"blank username", CredentialsInput{Username: "   ", Password: "pw1"}},
		{"missing password", CredentialsInput{Username: "alice"}},
		{"password too long", CredentialsInput{Username: "alice", Password: strings.Repeat("x", 73)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.service.Register(ctx, tt.input)
			var validationErr *ValidationError
			assert.True(t, errors.As(err, &validationErr), "expected ValidationError, got %v", err)
		})
	}
}

func TestAuthService_RegisterStoreFailure(t *testing.T) {
	env := setupAuthTestEnv(t)
	storeErr := errors.New("connection refused")
	env.users.Err = storeErr

	_, err := env.service.Register(context.Background(), CredentialsInput{Username: "alice", Password: "pw1"})
	assert.ErrorIs(t, err, storeErr)
}

func TestAuthService_Login(t *testing.T) {
	env := setupAuthTestEnv(t)
	ctx := context.Background()

	user, err := env.service.Register(ctx, CredentialsInput{Username: "alice", Password: "pw1"})
	require.NoError(t, err)

	token, err := env.service.Login(ctx, CredentialsInput{Username: "alice", Password: "pw1"})
	require.NoError(t, err)

	identity, err := env.tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), identity.UserID)
}

func TestAuthService_LoginRejectsBadCredentials(t *testing.T) {
	env := setupAuthTestEnv(t)
	ctx := context.Background()

	_, err := env.service.Register(ctx, CredentialsInput{Username: "alice", Password: "pw1"})
	require.NoError(t, err)

	_, err = env.service.Login(ctx, CredentialsInput{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.service.Login(ctx, CredentialsInput{Username: "bob", Password: "pw1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
