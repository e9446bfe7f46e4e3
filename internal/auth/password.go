package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordManager implements password hashing and verification. It holds no
// mutable state and is safe for concurrent use.
type PasswordManager struct {
	cost int
}

// NewPasswordManager creates a new password manager
func NewPasswordManager() *PasswordManager {
	return &PasswordManager{
		cost: bcrypt.DefaultCost,
	}
}

// HashPassword hashes a password using bcrypt
func (pm *PasswordManager) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), pm.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// VerifyPassword verifies a password against its stored digest. A malformed
// digest is treated the same as a mismatch: the result is false, never an
// error surfaced to the login flow.
func (pm *PasswordManager) VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
