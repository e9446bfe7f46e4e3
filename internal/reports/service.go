package reports

import (
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carelink/hms-core/internal/auth"
	"github.com/carelink/hms-core/pkg/logger"
	"github.com/carelink/hms-core/pkg/types"
)

// ReportStore is the persistence surface for reports.
type ReportStore interface {
	CreateReport(report *types.Report) error
	ListReportsForPatient(patientID string) ([]*types.Report, error)
}

// DoctorNotifier fans report notices out to the doctors following a patient.
type DoctorNotifier interface {
	NotifyReportFiled(actor *types.StaffIdentity, patientID, reportType string)
}

// Service handles report filing and retrieval
type Service struct {
	repo     ReportStore
	storage  ObjectStore
	notifier DoctorNotifier
	logger   *logger.Logger
}

// NewService creates a new reports service
func NewService(repo ReportStore, storage ObjectStore, notifier DoctorNotifier, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		storage:  storage,
		notifier: notifier,
		logger:   log,
	}
}

// Upload describes a file attached to a report submission.
type Upload struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// AddReportRequest carries the fields for a new report
type AddReportRequest struct {
	PatientID  string
	ReportType string
	Summary    string
	FileURL    *string
	Upload     *Upload
}

// AddReport files a report for a patient. An attached file is stored first
// and its URL wins over any caller-supplied link. After the report row is
// committed, every doctor with an assignment for the patient is notified.
func (s *Service) AddReport(principal *types.Principal, req AddReportRequest) (*types.Report, error) {
	if err := auth.Authorize(principal, auth.ClinicalRoles...); err != nil {
		return nil, err
	}

	req.PatientID = strings.TrimSpace(req.PatientID)
	req.ReportType = strings.TrimSpace(req.ReportType)
	req.Summary = strings.TrimSpace(req.Summary)
	if req.PatientID == "" || req.ReportType == "" || req.Summary == "" {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "patient, report type and summary are required")
	}

	fileURL := req.FileURL
	if req.Upload != nil {
		url, err := s.storeUpload(req.PatientID, req.Upload)
		if err != nil {
			return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to store report file", err)
		}
		fileURL = &url
	}

	report := &types.Report{
		ID:               uuid.New().String(),
		PatientID:        req.PatientID,
		CreatedByStaffID: principal.Staff.ID,
		ReportType:       req.ReportType,
		Summary:          req.Summary,
		FileURL:          fileURL,
		CreatedAt:        time.Now(),
	}

	if err := s.repo.CreateReport(report); err != nil {
		return nil, err
	}

	s.notifier.NotifyReportFiled(principal.Staff, report.PatientID, report.ReportType)

	s.logger.Audit(principal.Staff.ID, "add_report", report.ID, true, map[string]interface{}{
		"patient_id":  report.PatientID,
		"report_type": report.ReportType,
	})
	return report, nil
}

// ListReportsForPatient returns a patient's reports. Staff see any patient's
// reports; a patient sees only their own.
func (s *Service) ListReportsForPatient(principal *types.Principal, patientID string) ([]*types.Report, error) {
	if principal == nil {
		return nil, types.NewAuthenticationError(types.ErrCodeUnauthorized, "no authenticated principal")
	}
	if !principal.IsStaff() && principal.Patient.ID != patientID {
		return nil, types.NewAuthorizationError(types.ErrCodeForbidden, "patients may only view their own reports")
	}
	return s.repo.ListReportsForPatient(patientID)
}

// storeUpload writes the attachment under a per-patient prefix with a fresh
// object name, preserving the original file extension.
func (s *Service) storeUpload(patientID string, upload *Upload) (string, error) {
	ext := path.Ext(upload.Filename)
	objectPath := fmt.Sprintf("patient-%s/%s%s", patientID, uuid.New().String(), ext)

	contentType := upload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return s.storage.Save(objectPath, contentType, upload.Content)
}
