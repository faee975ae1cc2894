package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adventapp/advent-server/internal/auth"
	"github.com/adventapp/advent-server/internal/clock"
	domainerrors "github.com/adventapp/advent-server/internal/errors"
	"github.com/adventapp/advent-server/internal/store"
	"github.com/adventapp/advent-server/internal/store/sqlite"
)

func setupAuthTest(t *testing.T) (*AuthService, store.Store) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := sqlite.Open(dbPath, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	tokens, err := auth.NewTokenService(key, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)
	return NewAuthService(s, tokens, clock.System(), logger), s
}

func validRegister() RegisterRequest {
	return RegisterRequest{
		Email:       "test@example.com",
		Password:    "password123",
		DisplayName: "Test User",
	}
}

func TestRegister(t *testing.T) {
	svc, _ := setupAuthTest(t)

	resp, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "test@example.com", resp.User.Email)
	assert.Empty(t, resp.User.PasswordHash, "password hash must not leave the service")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := setupAuthTest(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	_, err = svc.Register(ctx, validRegister())
	assert.True(t, domainerrors.Is(err, domainerrors.ErrConflict))
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := setupAuthTest(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{
			name: "bad email",
			req:  RegisterRequest{Email: "nope", Password: "password123", DisplayName: "T"},
		},
		{
			name: "short password",
			req:  RegisterRequest{Email: "a@b.com", Password: "short", DisplayName: "T"},
		},
		{
			name: "missing display name",
			req:  RegisterRequest{Email: "a@b.com", Password: "password123"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.req)
			assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation), "got %v", err)
		})
	}
}

func TestLogin(t *testing.T) {
	svc, _ := setupAuthTest(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	resp, err := svc.Login(ctx, LoginRequest{Email: "test@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Empty(t, resp.User.PasswordHash)
}

func TestLogin_BadCredentials(t *testing.T) {
	svc, _ := setupAuthTest(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	// Wrong password and unknown email look identical to the caller.
	_, errWrongPass := svc.Login(ctx, LoginRequest{Email: "test@example.com", Password: "wrongpassword"})
	_, errNoUser := svc.Login(ctx, LoginRequest{Email: "ghost@example.com", Password: "password123"})

	assert.True(t, domainerrors.Is(errWrongPass, domainerrors.ErrInvalidCredentials))
	assert.True(t, domainerrors.Is(errNoUser, domainerrors.ErrInvalidCredentials))
	assert.Equal(t, errWrongPass.Error(), errNoUser.Error())
}

func TestRefresh_RotatesToken(t *testing.T) {
	svc, _ := setupAuthTest(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, RefreshRequest{RefreshToken: reg.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, reg.RefreshToken, refreshed.RefreshToken, "refresh must rotate the token")

	// The old token is dead.
	_, err = svc.Refresh(ctx, RefreshRequest{RefreshToken: reg.RefreshToken})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrUnauthorized))

	// The new one works.
	_, err = svc.Refresh(ctx, RefreshRequest{RefreshToken: refreshed.RefreshToken})
	assert.NoError(t, err)
}

func TestRefresh_UnknownToken(t *testing.T) {
	svc, _ := setupAuthTest(t)

	_, err := svc.Refresh(context.Background(), RefreshRequest{RefreshToken: "made-up"})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrUnauthorized))
}

func TestLogout(t *testing.T) {
	svc, _ := setupAuthTest(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, reg.RefreshToken))

	// Session is gone.
	_, err = svc.Refresh(ctx, RefreshRequest{RefreshToken: reg.RefreshToken})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrUnauthorized))

	// Logging out again is a no-op.
	assert.NoError(t, svc.Logout(ctx, reg.RefreshToken))
}

func TestGetUser(t *testing.T) {
	svc, _ := setupAuthTest(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	user, err := svc.GetUser(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)

	_, err = svc.GetUser(ctx, "usr-missing")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}
