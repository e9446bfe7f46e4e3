package types

import "time"

// StaffAccount is the credential-store record for a staff member. The
// password digest never leaves the directory layer.
type StaffAccount struct {
	StaffIdentity
	Username     string    `json:"username" db:"username"`
	Email        *string   `json:"email,omitempty" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// PatientAccount is the credential-store record for a patient.
type PatientAccount struct {
	PatientIdentity
	Age          *int      `json:"age,omitempty" db:"age"`
	Gender       *string   `json:"gender,omitempty" db:"gender"`
	Phone        *string   `json:"phone,omitempty" db:"phone"`
	Address      *string   `json:"address,omitempty" db:"address"`
	Username     string    `json:"username" db:"username"`
	Email        *string   `json:"email,omitempty" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
