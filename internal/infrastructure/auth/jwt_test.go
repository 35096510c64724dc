package auth

import (
	"testing"
	"time"

	"github.com/qiustore/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(expiration time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:     "test-secret-test-secret-test-secret",
		Expiration: expiration,
		Issuer:     "qiustore-test",
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := newTestService(time.Hour)

	token, expiresAt, err := svc.Generate("user-1", "Dana", "customer")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "Dana", claims.Name)
	assert.Equal(t, "customer", claims.Role)
	assert.Equal(t, "qiustore-test", claims.Issuer)
}

func TestJWTService_Validate_Errors(t *testing.T) {
	svc := newTestService(time.Hour)

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.Validate("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:     "another-secret-another-secret-xx",
			Expiration: time.Hour,
			Issuer:     "qiustore-test",
		})
		token, _, err := other.Generate("user-1", "Dana", "customer")
		require.NoError(t, err)

		_, err = svc.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := newTestService(-time.Minute)
		token, _, err := expired.Generate("user-1", "Dana", "customer")
		require.NoError(t, err)

		_, err = svc.Validate(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher()

	digest, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", digest)

	assert.True(t, h.Compare(digest, "secret1"))
	assert.False(t, h.Compare(digest, "secret2"))

	other, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, digest, other, "bcrypt salts every digest")
}
