package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func signIdentityToken(t *testing.T, secret string, claims identityClaims) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func TestVerifyIDToken_Valid(t *testing.T) {
	iv := NewIdentityVerifier("id-secret", "carelink-identity")

	signed := signIdentityToken(t, "id-secret", identityClaims{
		Email: "doc@example.org",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "carelink-identity",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	email, err := iv.VerifyIDToken(signed)
	assert.NoError(t, err)
	assert.Equal(t, "doc@example.org", email)
}

func TestVerifyIDToken_WrongSecret(t *testing.T) {
	iv := NewIdentityVerifier("id-secret", "")

	signed := signIdentityToken(t, "other-secret", identityClaims{Email: "doc@example.org"})

	_, err := iv.VerifyIDToken(signed)
	assert.Error(t, err)
}

func TestVerifyIDToken_WrongIssuer(t *testing.T) {
	iv := NewIdentityVerifier("id-secret", "carelink-identity")

	signed := signIdentityToken(t, "id-secret", identityClaims{
		Email:            "doc@example.org",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "someone-else"},
	})

	_, err := iv.VerifyIDToken(signed)
	assert.Error(t, err)
}

func TestVerifyIDToken_Expired(t *testing.T) {
	iv := NewIdentityVerifier("id-secret", "")

	signed := signIdentityToken(t, "id-secret", identityClaims{
		Email: "doc@example.org",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	_, err := iv.VerifyIDToken(signed)
	assert.Error(t, err)
}

func TestVerifyIDToken_MissingEmail(t *testing.T) {
	iv := NewIdentityVerifier("id-secret", "")

	signed := signIdentityToken(t, "id-secret", identityClaims{})

	_, err := iv.VerifyIDToken(signed)
	assert.Error(t, err)
}
