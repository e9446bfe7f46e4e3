package workflow

import (
	"database/sql"
	"fmt"

	"github.com/carelink/hms-core/pkg/database"
	"github.com/carelink/hms-core/pkg/logger"
	"github.com/carelink/hms-core/pkg/types"
)

// Repository implements assignment and notification persistence
type Repository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates a new workflow repository
func NewRepository(db *database.DB, log *logger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: log,
	}
}

const assignmentColumns = `id, patient_id, doctor_id, nurse_id, radiologist_id, lab_staff_id, pharmacist_id, service_type, notes, status, created_at`

// CreateAssignment persists a new assignment
func (r *Repository) CreateAssignment(assignment *types.Assignment) error {
	query := `
		INSERT INTO assignments (id, patient_id, doctor_id, nurse_id, radiologist_id, lab_staff_id, pharmacist_id, service_type, notes, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(query,
		assignment.ID,
		assignment.PatientID,
		assignment.DoctorID,
		assignment.NurseID,
		assignment.RadiologistID,
		assignment.LabStaffID,
		assignment.PharmacistID,
		assignment.ServiceType,
		assignment.Notes,
		assignment.Status,
		assignment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}

	return nil
}

// GetAssignmentByID retrieves an assignment by ID
func (r *Repository) GetAssignmentByID(id string) (*types.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE id = $1`

	var assignment types.Assignment
	err := r.db.QueryRow(query, id).Scan(
		&assignment.ID,
		&assignment.PatientID,
		&assignment.DoctorID,
		&assignment.NurseID,
		&assignment.RadiologistID,
		&assignment.LabStaffID,
		&assignment.PharmacistID,
		&assignment.ServiceType,
		&assignment.Notes,
		&assignment.Status,
		&assignment.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError("ASSIGNMENT_NOT_FOUND", "Assignment not found")
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	return &assignment, nil
}

// UpdateAssignmentStatus overwrites the status of an assignment
func (r *Repository) UpdateAssignmentStatus(id string, status types.AssignmentStatus) error {
	query := `UPDATE assignments SET status = $1 WHERE id = $2`

	result, err := r.db.Exec(query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update assignment status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return types.NewNotFoundError("ASSIGNMENT_NOT_FOUND", "Assignment not found")
	}

	return nil
}

// ListAssignmentsForStaff lists assignments the staff member participates in,
// newest first.
func (r *Repository) ListAssignmentsForStaff(staffID string) ([]*types.Assignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM assignments
		WHERE doctor_id = $1 OR nurse_id = $1 OR radiologist_id = $1 OR lab_staff_id = $1 OR pharmacist_id = $1
		ORDER BY created_at DESC`

	return r.listAssignments(query, staffID)
}

// ListAssignmentsForPatient lists a patient's assignments, newest first.
func (r *Repository) ListAssignmentsForPatient(patientID string) ([]*types.Assignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM assignments
		WHERE patient_id = $1
		ORDER BY created_at DESC`

	return r.listAssignments(query, patientID)
}

func (r *Repository) listAssignments(query string, args ...interface{}) ([]*types.Assignment, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*types.Assignment
	for rows.Next() {
		var assignment types.Assignment
		err := rows.Scan(
			&assignment.ID,
			&assignment.PatientID,
			&assignment.DoctorID,
			&assignment.NurseID,
			&assignment.RadiologistID,
			&assignment.LabStaffID,
			&assignment.PharmacistID,
			&assignment.ServiceType,
			&assignment.Notes,
			&assignment.Status,
			&assignment.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment row: %w", err)
		}
		assignments = append(assignments, &assignment)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignment rows: %w", err)
	}

	return assignments, nil
}

// ListDoctorIDsForPatient returns the distinct doctors with assignments for a
// patient. Used for report fan-out.
func (r *Repository) ListDoctorIDsForPatient(patientID string) ([]string, error) {
	query := `SELECT DISTINCT doctor_id FROM assignments WHERE patient_id = $1`

	rows, err := r.db.Query(query, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors for patient: %w", err)
	}
	defer rows.Close()

	var doctorIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan doctor ID: %w", err)
		}
		doctorIDs = append(doctorIDs, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating doctor rows: %w", err)
	}

	return doctorIDs, nil
}

// CreateNotification persists a notification
func (r *Repository) CreateNotification(notification *types.Notification) error {
	query := `
		INSERT INTO notifications (id, recipient_staff_id, title, message, is_read, related_assignment_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(query,
		notification.ID,
		notification.RecipientStaffID,
		notification.Title,
		notification.Message,
		notification.IsRead,
		notification.RelatedAssignmentID,
		notification.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// ListNotifications lists a recipient's notifications, newest first.
func (r *Repository) ListNotifications(recipientStaffID string, limit int) ([]*types.Notification, error) {
	query := `
		SELECT id, recipient_staff_id, title, message, is_read, related_assignment_id, created_at
		FROM notifications
		WHERE recipient_staff_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.Query(query, recipientStaffID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*types.Notification
	for rows.Next() {
		var n types.Notification
		err := rows.Scan(
			&n.ID,
			&n.RecipientStaffID,
			&n.Title,
			&n.Message,
			&n.IsRead,
			&n.RelatedAssignmentID,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification row: %w", err)
		}
		notifications = append(notifications, &n)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification rows: %w", err)
	}

	return notifications, nil
}

// MarkNotificationRead sets is_read for a notification. The recipient is part
// of the predicate, so a caller can never mark another recipient's
// notification. A non-matching ID is not an error.
func (r *Repository) MarkNotificationRead(notificationID, recipientStaffID string) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND recipient_staff_id = $2`

	if _, err := r.db.Exec(query, notificationID, recipientStaffID); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	return nil
}
