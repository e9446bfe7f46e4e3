package directory

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/carelink/hms-core/pkg/database"
	"github.com/carelink/hms-core/pkg/logger"
	"github.com/carelink/hms-core/pkg/types"
)

// Repository implements staff and patient account persistence. It backs both
// the credential-store lookups used at login and the principal resolution
// performed on every authenticated request.
type Repository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates a new directory repository
func NewRepository(db *database.DB, log *logger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: log,
	}
}

const staffColumns = `id, name, role, category, username, email, password_hash, is_available, created_at`

func scanStaff(row *sql.Row) (*types.StaffAccount, error) {
	var staff types.StaffAccount
	err := row.Scan(
		&staff.ID,
		&staff.Name,
		&staff.Role,
		&staff.Category,
		&staff.Username,
		&staff.Email,
		&staff.PasswordHash,
		&staff.IsAvailable,
		&staff.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

// CreateStaff creates a new staff account
func (r *Repository) CreateStaff(staff *types.StaffAccount) error {
	query := `
		INSERT INTO staff (id, name, role, category, username, email, password_hash, is_available, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(query,
		staff.ID,
		staff.Name,
		staff.Role,
		staff.Category,
		staff.Username,
		staff.Email,
		staff.PasswordHash,
		staff.IsAvailable,
		staff.CreatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if strings.Contains(pqErr.Detail, "username") {
				return types.NewValidationError("USERNAME_EXISTS", "Username already exists")
			}
			return types.NewValidationError("DUPLICATE_STAFF", "Staff account already exists")
		}
		return fmt.Errorf("failed to create staff account: %w", err)
	}

	r.logger.WithFields(map[string]interface{}{
		"staff_id": staff.ID,
		"role":     staff.Role,
	}).Info("Staff account created")
	return nil
}

// GetStaffByID retrieves the identity view of a staff member
func (r *Repository) GetStaffByID(id string) (*types.StaffIdentity, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE id = $1`

	staff, err := scanStaff(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError("STAFF_NOT_FOUND", "Staff member not found")
		}
		return nil, fmt.Errorf("failed to get staff by ID: %w", err)
	}

	return &staff.StaffIdentity, nil
}

// GetStaffByUsername retrieves a staff account by login name
func (r *Repository) GetStaffByUsername(username string) (*types.StaffAccount, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE username = $1`

	staff, err := scanStaff(r.db.QueryRow(query, username))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError("STAFF_NOT_FOUND", "Staff member not found")
		}
		return nil, fmt.Errorf("failed to get staff by username: %w", err)
	}

	return staff, nil
}

// GetStaffByEmail retrieves a staff account by federated email
func (r *Repository) GetStaffByEmail(email string) (*types.StaffAccount, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE email = $1`

	staff, err := scanStaff(r.db.QueryRow(query, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError("STAFF_NOT_FOUND", "Staff member not found")
		}
		return nil, fmt.Errorf("failed to get staff by email: %w", err)
	}

	return staff, nil
}

// ListStaffByRole lists staff members holding a role, available first
func (r *Repository) ListStaffByRole(role types.StaffRole) ([]*types.StaffIdentity, error) {
	query := `
		SELECT id, name, role, category, is_available
		FROM staff
		WHERE role = $1
		ORDER BY is_available DESC, name ASC`

	rows, err := r.db.Query(query, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	defer rows.Close()

	var members []*types.StaffIdentity
	for rows.Next() {
		var staff types.StaffIdentity
		if err := rows.Scan(&staff.ID, &staff.Name, &staff.Role, &staff.Category, &staff.IsAvailable); err != nil {
			return nil, fmt.Errorf("failed to scan staff row: %w", err)
		}
		members = append(members, &staff)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating staff rows: %w", err)
	}

	return members, nil
}

const patientColumns = `id, name, age, gender, phone, address, username, email, password_hash, created_at`

func scanPatient(row *sql.Row) (*types.PatientAccount, error) {
	var patient types.PatientAccount
	err := row.Scan(
		&patient.ID,
		&patient.Name,
		&patient.Age,
		&patient.Gender,
		&patient.Phone,
		&patient.Address,
		&patient.Username,
		&patient.Email,
		&patient.PasswordHash,
		&patient.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &patient, nil
}

// CreatePatient creates a new patient account
func (r *Repository) CreatePatient(patient *types.PatientAccount) error {
	query := `
		INSERT INTO patients (id, name, age, gender, phone, address, username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(query,
		patient.ID,
		patient.Name,
		patient.Age,
		patient.Gender,
		patient.Phone,
		patient.Address,
		patient.Username,
		patient.Email,
		patient.PasswordHash,
		patient.CreatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if strings.Contains(pqErr.Detail, "username") {
				return types.NewValidationError("USERNAME_EXISTS", "Username already exists")
			}
			return types.NewValidationError("DUPLICATE_PATIENT", "Patient account already exists")
		}
		return fmt.Errorf("failed to create patient account: %w", err)
	}

	r.logger.WithField("patient_id", patient.ID).Info("Patient account created")
	return nil
}

// GetPatientByID retrieves the identity view of a patient
func (r *Repository) GetPatientByID(id string) (*types.PatientIdentity, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`

	patient, err := scanPatient(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError("PATIENT_NOT_FOUND", "Patient not found")
		}
		return nil, fmt.Errorf("failed to get patient by ID: %w", err)
	}

	return &patient.PatientIdentity, nil
}

// GetPatientByUsername retrieves a patient account by login name
func (r *Repository) GetPatientByUsername(username string) (*types.PatientAccount, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE username = $1`

	patient, err := scanPatient(r.db.QueryRow(query, username))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError("PATIENT_NOT_FOUND", "Patient not found")
		}
		return nil, fmt.Errorf("failed to get patient by username: %w", err)
	}

	return patient, nil
}

// GetPatientByEmail retrieves a patient account by federated email
func (r *Repository) GetPatientByEmail(email string) (*types.PatientAccount, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE email = $1`

	patient, err := scanPatient(r.db.QueryRow(query, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError("PATIENT_NOT_FOUND", "Patient not found")
		}
		return nil, fmt.Errorf("failed to get patient by email: %w", err)
	}

	return patient, nil
}
