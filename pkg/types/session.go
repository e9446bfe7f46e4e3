package types

import "time"

// Session is a server-side login record addressed by a hashed bearer token.
// Only the digest of the token is ever stored; possession of the raw token
// is the sole proof of identity.
type Session struct {
	ID          string        `json:"id" db:"id"`
	TokenDigest string        `json:"-" db:"token_digest"`
	Kind        PrincipalKind `json:"kind" db:"user_type"`
	StaffID     *string       `json:"staff_id,omitempty" db:"staff_id"`
	PatientID   *string       `json:"patient_id,omitempty" db:"patient_id"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	ExpiresAt   time.Time     `json:"expires_at" db:"expires_at"`
}

// Expired reports whether the session's absolute expiry has passed at now.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
