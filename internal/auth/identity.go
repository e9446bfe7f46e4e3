package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IdentityVerifier validates ID tokens minted by the federated identity
// provider. The provider has already verified the email; the portal only
// needs to check the token's signature and extract the claim.
type IdentityVerifier struct {
	secret []byte
	issuer string
}

// NewIdentityVerifier creates a new identity token verifier
func NewIdentityVerifier(secret, issuer string) *IdentityVerifier {
	return &IdentityVerifier{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// identityClaims are the claims carried by a federated ID token
type identityClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// VerifyIDToken validates the token and returns the verified email address.
func (iv *IdentityVerifier) VerifyIDToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &identityClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return iv.secret, nil
	})

	if err != nil {
		return "", fmt.Errorf("failed to parse identity token: %w", err)
	}

	if !token.Valid {
		return "", fmt.Errorf("invalid identity token")
	}

	claims, ok := token.Claims.(*identityClaims)
	if !ok {
		return "", fmt.Errorf("invalid identity token claims")
	}

	if iv.issuer != "" && claims.Issuer != iv.issuer {
		return "", fmt.Errorf("unexpected token issuer: %s", claims.Issuer)
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(time.Now()) {
		return "", fmt.Errorf("identity token expired")
	}

	if claims.Email == "" {
		return "", fmt.Errorf("identity token carries no email")
	}

	return claims.Email, nil
}
