package types

import "time"

// Report is a clinical report filed against a patient by a staff member,
// optionally backed by a stored file.
type Report struct {
	ID               string    `json:"id" db:"id"`
	PatientID        string    `json:"patient_id" db:"patient_id"`
	CreatedByStaffID string    `json:"created_by_staff_id" db:"created_by_staff_id"`
	ReportType       string    `json:"report_type" db:"report_type"`
	Summary          string    `json:"summary" db:"summary"`
	FileURL          *string   `json:"file_url,omitempty" db:"file_url"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}
