package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// tokenBytes is the entropy of a raw session token. 32 bytes gives 256 bits.
const tokenBytes = 32

// GenerateToken returns a new cryptographically random bearer token encoded
// as lowercase hex.
func GenerateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// DigestToken computes the one-way digest under which a session is stored:
// sha256(token || secret), hex encoded. Only the digest is ever persisted;
// the raw token exists solely in the client's cookie.
func DigestToken(token, secret string) string {
	sum := sha256.Sum256([]byte(token + secret))
	return hex.EncodeToString(sum[:])
}
