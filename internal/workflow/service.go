package workflow

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carelink/hms-core/internal/auth"
	"github.com/carelink/hms-core/pkg/logger"
	"github.com/carelink/hms-core/pkg/monitoring"
	"github.com/carelink/hms-core/pkg/types"
)

// AssignmentStore is the persistence surface for assignments.
type AssignmentStore interface {
	CreateAssignment(assignment *types.Assignment) error
	GetAssignmentByID(id string) (*types.Assignment, error)
	UpdateAssignmentStatus(id string, status types.AssignmentStatus) error
	ListAssignmentsForStaff(staffID string) ([]*types.Assignment, error)
	ListAssignmentsForPatient(patientID string) ([]*types.Assignment, error)
	ListDoctorIDsForPatient(patientID string) ([]string, error)
}

// NotificationStore is the persistence surface for notifications.
type NotificationStore interface {
	CreateNotification(notification *types.Notification) error
	ListNotifications(recipientStaffID string, limit int) ([]*types.Notification, error)
	MarkNotificationRead(notificationID, recipientStaffID string) error
}

// PatientResolver looks up patient identities for notification wording.
type PatientResolver interface {
	GetPatientByID(id string) (*types.PatientIdentity, error)
}

// DefaultNotificationLimit caps a notification feed page.
const DefaultNotificationLimit = 50

// Engine coordinates assignment lifecycle and notification fan-out. All
// notification writes are best effort: a failed write is logged and never
// rolls back the operation that triggered it.
type Engine struct {
	assignments   AssignmentStore
	notifications NotificationStore
	patients      PatientResolver
	logger        *logger.Logger
}

// NewEngine creates a new workflow engine
func NewEngine(assignments AssignmentStore, notifications NotificationStore, patients PatientResolver, log *logger.Logger) *Engine {
	return &Engine{
		assignments:   assignments,
		notifications: notifications,
		patients:      patients,
		logger:        log,
	}
}

// CreateAssignmentRequest carries the fields for a new assignment
type CreateAssignmentRequest struct {
	PatientID   string
	ServiceType string
	Status      types.AssignmentStatus
	Slots       types.AssignmentSlots
	Notes       *string
}

// CreateAssignment creates an assignment on behalf of a doctor and notifies
// every populated assignee slot.
func (e *Engine) CreateAssignment(principal *types.Principal, req CreateAssignmentRequest) (*types.Assignment, error) {
	if err := auth.Authorize(principal, types.RoleDoctor); err != nil {
		return nil, err
	}

	req.PatientID = strings.TrimSpace(req.PatientID)
	req.ServiceType = strings.TrimSpace(req.ServiceType)
	if req.PatientID == "" || req.ServiceType == "" {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "patient and service type are required")
	}
	if req.Status == "" {
		req.Status = types.StatusAssigned
	}
	if !types.ValidAssignmentStatus(req.Status) {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "unknown assignment status")
	}

	assignment := &types.Assignment{
		ID:            uuid.New().String(),
		PatientID:     req.PatientID,
		DoctorID:      principal.Staff.ID,
		NurseID:       req.Slots.NurseID,
		RadiologistID: req.Slots.RadiologistID,
		LabStaffID:    req.Slots.LabStaffID,
		PharmacistID:  req.Slots.PharmacistID,
		ServiceType:   req.ServiceType,
		Notes:         req.Notes,
		Status:        req.Status,
		CreatedAt:     time.Now(),
	}

	if err := e.assignments.CreateAssignment(assignment); err != nil {
		return nil, err
	}

	e.notifyAssignees(assignment, principal.Staff.Name)

	e.logger.Audit(principal.Staff.ID, "create_assignment", assignment.ID, true, map[string]interface{}{
		"patient_id": assignment.PatientID,
	})
	return assignment, nil
}

// notifyAssignees fans one notification out to each populated slot.
func (e *Engine) notifyAssignees(assignment *types.Assignment, doctorName string) {
	slots := []struct {
		role types.StaffRole
		id   *string
	}{
		{types.RoleNurse, assignment.NurseID},
		{types.RoleRadiologist, assignment.RadiologistID},
		{types.RoleLab, assignment.LabStaffID},
		{types.RolePharmacist, assignment.PharmacistID},
	}

	var label string
	for _, slot := range slots {
		if slot.id == nil || *slot.id == "" {
			continue
		}
		if label == "" {
			label = e.patientLabel(assignment.PatientID)
		}
		n := slotNotification(slot.role, *slot.id, label, assignment.ServiceType, doctorName, assignment.ID)
		e.emit(n, "assignment_created")
	}
}

// UpdateStatus overwrites an assignment's status. Any participant may set any
// status; there is no transition table. A completed status additionally
// notifies the creating doctor.
func (e *Engine) UpdateStatus(principal *types.Principal, assignmentID string, status types.AssignmentStatus) error {
	if err := auth.Authorize(principal, auth.ClinicalRoles...); err != nil {
		return err
	}
	if !types.ValidAssignmentStatus(status) {
		return types.NewValidationError(types.ErrCodeInvalidInput, "unknown assignment status")
	}

	assignment, err := e.assignments.GetAssignmentByID(assignmentID)
	if err != nil {
		return err
	}

	if !assignment.IsParticipant(principal.Staff.ID) {
		e.logger.Security("assignment_update_denied", principal.Staff.ID, map[string]interface{}{
			"assignment_id": assignmentID,
		})
		return types.NewAuthorizationError(types.ErrCodeForbidden, "staff member does not participate in this assignment")
	}

	if err := e.assignments.UpdateAssignmentStatus(assignment.ID, status); err != nil {
		return err
	}
	monitoring.RecordStatusUpdate(string(status))

	if status == types.StatusCompleted {
		label := e.patientLabel(assignment.PatientID)
		e.emit(completionNotification(assignment.DoctorID, label, principal.Staff.Name, assignment.ID), "assignment_completed")
	}

	e.logger.Audit(principal.Staff.ID, "update_assignment_status", assignment.ID, true, map[string]interface{}{
		"status": status,
	})
	return nil
}

// ListAssignments returns the assignments visible to the principal: the ones
// they participate in for staff, their own for patients.
func (e *Engine) ListAssignments(principal *types.Principal) ([]*types.Assignment, error) {
	if principal == nil {
		return nil, types.NewAuthenticationError(types.ErrCodeUnauthorized, "no authenticated principal")
	}

	if principal.IsStaff() {
		return e.assignments.ListAssignmentsForStaff(principal.Staff.ID)
	}
	return e.assignments.ListAssignmentsForPatient(principal.Patient.ID)
}

// ListNotifications returns the staff principal's notification feed, newest
// first. A non-positive limit falls back to the default page size.
func (e *Engine) ListNotifications(principal *types.Principal, limit int) ([]*types.Notification, error) {
	if err := auth.Authorize(principal, types.AllStaffRoles...); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	return e.notifications.ListNotifications(principal.Staff.ID, limit)
}

// MarkNotificationRead marks one of the principal's notifications as read.
// Ownership is enforced by the store predicate.
func (e *Engine) MarkNotificationRead(principal *types.Principal, notificationID string) error {
	if err := auth.Authorize(principal, types.AllStaffRoles...); err != nil {
		return err
	}
	return e.notifications.MarkNotificationRead(notificationID, principal.Staff.ID)
}

// NotifyReportFiled tells every doctor with an assignment for the patient
// that a report was added. Called by the reports service after the report row
// is committed.
func (e *Engine) NotifyReportFiled(actor *types.StaffIdentity, patientID, reportType string) {
	doctorIDs, err := e.assignments.ListDoctorIDsForPatient(patientID)
	if err != nil {
		e.logger.WithError(err).Error("Failed to resolve doctors for report notification")
		return
	}
	if len(doctorIDs) == 0 {
		return
	}

	label := e.patientLabel(patientID)
	for _, doctorID := range doctorIDs {
		e.emit(reportNotification(doctorID, label, reportType, actor.Name), "report_filed")
	}
}

// emit writes a notification, logging rather than propagating failures.
func (e *Engine) emit(n *types.Notification, trigger string) {
	n.ID = uuid.New().String()
	n.CreatedAt = time.Now()

	if err := e.notifications.CreateNotification(n); err != nil {
		e.logger.WithError(err).WithFields(map[string]interface{}{
			"recipient": n.RecipientStaffID,
			"trigger":   trigger,
		}).Error("Failed to write notification")
		return
	}
	monitoring.RecordNotificationEmitted(trigger)
}

// patientLabel resolves the patient's display label, falling back to the bare
// identifier when the record cannot be loaded.
func (e *Engine) patientLabel(patientID string) string {
	patient, err := e.patients.GetPatientByID(patientID)
	if err != nil || patient == nil {
		return PatientLabel("", patientID)
	}
	return PatientLabel(patient.Name, patientID)
}
