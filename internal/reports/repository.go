package reports

import (
	"fmt"

	"github.com/carelink/hms-core/pkg/database"
	"github.com/carelink/hms-core/pkg/logger"
	"github.com/carelink/hms-core/pkg/types"
)

// Repository implements report persistence
type Repository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates a new reports repository
func NewRepository(db *database.DB, log *logger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: log,
	}
}

// CreateReport persists a new report
func (r *Repository) CreateReport(report *types.Report) error {
	query := `
		INSERT INTO reports (id, patient_id, created_by_staff_id, report_type, summary, file_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(query,
		report.ID,
		report.PatientID,
		report.CreatedByStaffID,
		report.ReportType,
		report.Summary,
		report.FileURL,
		report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	return nil
}

// ListReportsForPatient lists a patient's reports, newest first.
func (r *Repository) ListReportsForPatient(patientID string) ([]*types.Report, error) {
	query := `
		SELECT id, patient_id, created_by_staff_id, report_type, summary, file_url, created_at
		FROM reports
		WHERE patient_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(query, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*types.Report
	for rows.Next() {
		var report types.Report
		err := rows.Scan(
			&report.ID,
			&report.PatientID,
			&report.CreatedByStaffID,
			&report.ReportType,
			&report.Summary,
			&report.FileURL,
			&report.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		reports = append(reports, &report)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report rows: %w", err)
	}

	return reports, nil
}
