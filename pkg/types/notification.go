package types

import "time"

// Notification is a directed, immutable message for a staff recipient.
// The read flag is the only mutable field and moves false to true only.
type Notification struct {
	ID                  string    `json:"id" db:"id"`
	RecipientStaffID    string    `json:"recipient_staff_id" db:"recipient_staff_id"`
	Title               string    `json:"title" db:"title"`
	Message             string    `json:"message" db:"message"`
	IsRead              bool      `json:"is_read" db:"is_read"`
	RelatedAssignmentID *string   `json:"related_assignment_id,omitempty" db:"related_assignment_id"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
}
