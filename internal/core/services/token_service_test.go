package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_GenerateAndValidate(t *testing.T) {
	secret := "super-secret-key-for-testing"
	issuer := "kanso-report-test"
	subject := "dashboard"

	setup := func() *TokenService {
		return NewTokenService(secret, issuer, 1*time.Hour)
	}

	t.Run("Success: Should generate and validate a token", func(t *testing.T) {
		service := setup()

		tokenString, err := service.GenerateToken(subject)
		require.NoError(t, err)
		assert.NotEmpty(t, tokenString)

		extracted, err := service.ValidateToken(tokenString)
		assert.NoError(t, err)
		assert.Equal(t, subject, extracted)
	})

	t.Run("Fail: Should reject expired token", func(t *testing.T) {
		service := NewTokenService(secret, issuer, -1*time.Second)

		tokenString, err := service.GenerateToken(subject)
		require.NoError(t, err)

		extracted, err := service.ValidateToken(tokenString)
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Contains(t, err.Error(), "token is expired")
		assert.Empty(t, extracted)
	})

	t.Run("Fail: Should reject token with wrong secret (Tampered)", func(t *testing.T) {
		tokenString, _ := setup().GenerateToken(subject)

		attacker := NewTokenService("wrong-key", issuer, 1*time.Hour)

		extracted, err := attacker.ValidateToken(tokenString)
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Empty(t, extracted)
	})

	t.Run("Fail: Should reject token with wrong issuer", func(t *testing.T) {
		serviceA := NewTokenService(secret, "correct-issuer", 1*time.Hour)
		tokenString, _ := serviceA.GenerateToken(subject)

		serviceB := NewTokenService(secret, "wrong-issuer", 1*time.Hour)

		extracted, err := serviceB.ValidateToken(tokenString)
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Contains(t, err.Error(), "issuer")
		assert.Empty(t, extracted)
	})

	t.Run("Fail: Should reject 'None' algorithm attack", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": subject, "iss": issuer})
		fakeTokenString, _ := token.SignedString(jwt.UnsafeAllowNoneSignatureType)

		_, err := setup().ValidateToken(fakeTokenString)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected signing method")
	})

	t.Run("Fail: Should reject malformed token string", func(t *testing.T) {
		extracted, err := setup().ValidateToken("this-is-not-a-jwt")

		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Empty(t, extracted)
	})
}
