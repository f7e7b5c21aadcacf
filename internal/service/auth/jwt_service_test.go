package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashdeck/flashdeck-api/internal/config"
)

var testAuthConfig = config.AuthConfig{
	JWTSecret:                   "thisisasecretkeythatis32charslong!!",
	TokenLifetimeMinutes:        60,
	RefreshTokenLifetimeMinutes: 1440,
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestService(t *testing.T) (*hmacJWTService, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	s, err := newJWTService(testAuthConfig, clock.now)
	require.NoError(t, err)
	return s, clock
}

func TestNewJWTServiceRejectsShortSecret(t *testing.T) {
	cfg := testAuthConfig
	cfg.JWTSecret = "short"
	_, err := NewJWTService(cfg)
	assert.Error(t, err)

	cfg = testAuthConfig
	cfg.TokenLifetimeMinutes = 0
	_, err = NewJWTService(cfg)
	assert.Error(t, err)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	s, clock := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	token, err := s.GenerateToken(ctx, userID)
	require.NoError(t, err)

	claims, err := s.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, clock.t.Add(time.Hour), claims.ExpiresAt, 0)
}

func TestTokenTypesAreNotInterchangeable(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	access, err := s.GenerateToken(ctx, userID)
	require.NoError(t, err)
	refresh, err := s.GenerateRefreshToken(ctx, userID)
	require.NoError(t, err)

	_, err = s.ValidateRefreshToken(ctx, access)
	assert.ErrorIs(t, err, ErrWrongTokenType)
	_, err = s.ValidateToken(ctx, refresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	claims, err := s.ValidateRefreshToken(ctx, refresh)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
}

func TestExpiredToken(t *testing.T) {
	s, clock := newTestService(t)
	ctx := context.Background()

	token, err := s.GenerateToken(ctx, uuid.New())
	require.NoError(t, err)

	clock.t = clock.t.Add(time.Hour + time.Minute)
	_, err = s.ValidateToken(ctx, token)
	require.NoError(t, err, "within leeway")

	clock.t = clock.t.Add(5 * time.Minute)
	_, err = s.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestInvalidTokens(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.ValidateToken(ctx, "not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other, err := newJWTService(config.AuthConfig{
		JWTSecret:                   "a-completely-different-secret-value!!",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 120,
	}, time.Now)
	require.NoError(t, err)
	foreign, err := other.GenerateToken(ctx, uuid.New())
	require.NoError(t, err)
	_, err = s.ValidateToken(ctx, foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"type": "access"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = s.ValidateToken(ctx, unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
