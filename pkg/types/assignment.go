package types

import "time"

// AssignmentStatus represents assignment status values
type AssignmentStatus string

const (
	StatusAssigned   AssignmentStatus = "assigned"
	StatusInProgress AssignmentStatus = "in_progress"
	StatusCompleted  AssignmentStatus = "completed"
	StatusCancelled  AssignmentStatus = "cancelled"
)

// ValidAssignmentStatus reports whether status is one of the four valid values.
func ValidAssignmentStatus(status AssignmentStatus) bool {
	switch status {
	case StatusAssigned, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Assignment is one unit of delegated clinical work. The creating doctor is
// always known; each specialist slot is independently nullable. Assignments
// are never deleted, terminal states are retained for history.
type Assignment struct {
	ID            string           `json:"id" db:"id"`
	PatientID     string           `json:"patient_id" db:"patient_id"`
	DoctorID      string           `json:"doctor_id" db:"doctor_id"`
	NurseID       *string          `json:"nurse_id,omitempty" db:"nurse_id"`
	RadiologistID *string          `json:"radiologist_id,omitempty" db:"radiologist_id"`
	LabStaffID    *string          `json:"lab_staff_id,omitempty" db:"lab_staff_id"`
	PharmacistID  *string          `json:"pharmacist_id,omitempty" db:"pharmacist_id"`
	ServiceType   string           `json:"service_type" db:"service_type"`
	Notes         *string          `json:"notes,omitempty" db:"notes"`
	Status        AssignmentStatus `json:"status" db:"status"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
}

// ParticipantIDs returns the identifiers allowed to mutate this assignment:
// the creating doctor plus every populated specialist slot.
func (a *Assignment) ParticipantIDs() []string {
	ids := []string{a.DoctorID}
	for _, slot := range []*string{a.NurseID, a.RadiologistID, a.LabStaffID, a.PharmacistID} {
		if slot != nil && *slot != "" {
			ids = append(ids, *slot)
		}
	}
	return ids
}

// IsParticipant reports whether staffID occupies the doctor reference or any
// assignee slot. Authorization for status updates is by identity, not role.
func (a *Assignment) IsParticipant(staffID string) bool {
	for _, id := range a.ParticipantIDs() {
		if id == staffID {
			return true
		}
	}
	return false
}

// AssignmentSlots carries the optional specialist references supplied at
// creation time, one per assignable role.
type AssignmentSlots struct {
	NurseID       *string `json:"nurse_id,omitempty"`
	RadiologistID *string `json:"radiologist_id,omitempty"`
	LabStaffID    *string `json:"lab_staff_id,omitempty"`
	PharmacistID  *string `json:"pharmacist_id,omitempty"`
}
