package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"katydid-vehicle-market/internal/config"
)

func newIssuer(t *testing.T) *Issuer {
	t.Helper()
	i, err := New(config.AuthConfig{JWTSecret: "test-secret", Issuer: "vehicle-market", TokenTTL: time.Hour})
	require.NoError(t, err)
	return i
}

func TestIssueParse(t *testing.T) {
	i := newIssuer(t)

	raw, err := i.Issue(1234567890123)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(raw, "."))

	id, err := i.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(1234567890123), id)
}

func TestParse_Rejects(t *testing.T) {
	i := newIssuer(t)
	raw, err := i.Issue(42)
	require.NoError(t, err)

	t.Run("tampered", func(t *testing.T) {
		_, err := i.Parse(raw + "x")
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("other secret", func(t *testing.T) {
		other, err := New(config.AuthConfig{JWTSecret: "another", Issuer: "vehicle-market"})
		require.NoError(t, err)
		_, err = other.Parse(raw)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("other issuer", func(t *testing.T) {
		other, err := New(config.AuthConfig{JWTSecret: "test-secret", Issuer: "someone-else"})
		require.NoError(t, err)
		_, err = other.Parse(raw)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("expired", func(t *testing.T) {
		later := newIssuer(t)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.Parse(raw)
		assert.True(t, errors.Is(err, ErrInvalidToken))
		assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
	})

	t.Run("bad subject", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Subject:   "alice",
			Issuer:    "vehicle-market",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = i.Parse(forged)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("none algorithm", func(t *testing.T) {
		claims := jwt.RegisteredClaims{Subject: "42", Issuer: "vehicle-market",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
		forged, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = i.Parse(forged)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})
}

func TestNew_MissingSecret(t *testing.T) {
	_, err := New(config.AuthConfig{})
	assert.ErrorIs(t, err, ErrMissingSecret)
}
