package workflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/carelink/hms-core/pkg/logger"
	"github.com/carelink/hms-core/pkg/types"
)

// MockAssignmentStore is a mock implementation of AssignmentStore
type MockAssignmentStore struct {
	mock.Mock
}

func (m *MockAssignmentStore) CreateAssignment(assignment *types.Assignment) error {
	args := m.Called(assignment)
	return args.Error(0)
}

func (m *MockAssignmentStore) GetAssignmentByID(id string) (*types.Assignment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Assignment), args.Error(1)
}

func (m *MockAssignmentStore) UpdateAssignmentStatus(id string, status types.AssignmentStatus) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockAssignmentStore) ListAssignmentsForStaff(staffID string) ([]*types.Assignment, error) {
	args := m.Called(staffID)
	return args.Get(0).([]*types.Assignment), args.Error(1)
}

func (m *MockAssignmentStore) ListAssignmentsForPatient(patientID string) ([]*types.Assignment, error) {
	args := m.Called(patientID)
	return args.Get(0).([]*types.Assignment), args.Error(1)
}

func (m *MockAssignmentStore) ListDoctorIDsForPatient(patientID string) ([]string, error) {
	args := m.Called(patientID)
	return args.Get(0).([]string), args.Error(1)
}

// MockNotificationStore is a mock implementation of NotificationStore
type MockNotificationStore struct {
	mock.Mock
}

func (m *MockNotificationStore) CreateNotification(notification *types.Notification) error {
	args := m.Called(notification)
	return args.Error(0)
}

func (m *MockNotificationStore) ListNotifications(recipientStaffID string, limit int) ([]*types.Notification, error) {
	args := m.Called(recipientStaffID, limit)
	return args.Get(0).([]*types.Notification), args.Error(1)
}

func (m *MockNotificationStore) MarkNotificationRead(notificationID, recipientStaffID string) error {
	args := m.Called(notificationID, recipientStaffID)
	return args.Error(0)
}

// MockPatientResolver is a mock implementation of PatientResolver
type MockPatientResolver struct {
	mock.Mock
}

func (m *MockPatientResolver) GetPatientByID(id string) (*types.PatientIdentity, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.PatientIdentity), args.Error(1)
}

func setupEngine() (*Engine, *MockAssignmentStore, *MockNotificationStore, *MockPatientResolver) {
	assignments := &MockAssignmentStore{}
	notifications := &MockNotificationStore{}
	patients := &MockPatientResolver{}

	engine := NewEngine(assignments, notifications, patients, logger.New("debug"))
	return engine, assignments, notifications, patients
}

func doctor() *types.Principal {
	return types.StaffPrincipal(&types.StaffIdentity{ID: "doc-1", Name: "Dr. Osei", Role: types.RoleDoctor})
}

func nurse(id string) *types.Principal {
	return types.StaffPrincipal(&types.StaffIdentity{ID: id, Name: "Nurse Aidoo", Role: types.RoleNurse})
}

func ptr(s string) *string {
	return &s
}

func TestCreateAssignment_NonDoctorForbidden(t *testing.T) {
	engine, assignments, _, _ := setupEngine()

	for _, principal := range []*types.Principal{
		nurse("nurse-1"),
		types.StaffPrincipal(&types.StaffIdentity{ID: "adm-1", Role: types.RoleAdmin}),
		types.PatientPrincipal(&types.PatientIdentity{ID: "patient-1"}),
	} {
		_, err := engine.CreateAssignment(principal, CreateAssignmentRequest{PatientID: "patient-1", ServiceType: "Checkup"})
		assert.Error(t, err)
		assert.True(t, types.IsErrorType(err, types.ErrorTypeAuthorization))
	}

	_, err := engine.CreateAssignment(nil, CreateAssignmentRequest{PatientID: "patient-1", ServiceType: "Checkup"})
	assert.True(t, types.IsErrorType(err, types.ErrorTypeAuthentication))

	assignments.AssertNotCalled(t, "CreateAssignment", mock.Anything)
}

func TestCreateAssignment_ValidationErrors(t *testing.T) {
	engine, assignments, _, _ := setupEngine()

	_, err := engine.CreateAssignment(doctor(), CreateAssignmentRequest{ServiceType: "Checkup"})
	assert.True(t, types.IsErrorType(err, types.ErrorTypeValidation))

	_, err = engine.CreateAssignment(doctor(), CreateAssignmentRequest{PatientID: "patient-1"})
	assert.True(t, types.IsErrorType(err, types.ErrorTypeValidation))

	_, err = engine.CreateAssignment(doctor(), CreateAssignmentRequest{
		PatientID:   "patient-1",
		ServiceType: "Checkup",
		Status:      types.AssignmentStatus("bogus"),
	})
	assert.True(t, types.IsErrorType(err, types.ErrorTypeValidation))

	assignments.AssertNotCalled(t, "CreateAssignment", mock.Anything)
}

func TestCreateAssignment_NotifiesPopulatedSlotsOnly(t *testing.T) {
	engine, assignments, notifications, patients := setupEngine()

	assignments.On("CreateAssignment", mock.AnythingOfType("*types.Assignment")).Return(nil)
	patients.On("GetPatientByID", "patient-1").Return(&types.PatientIdentity{ID: "patient-1", Name: "Ama Mensah"}, nil)

	var emitted []*types.Notification
	notifications.On("CreateNotification", mock.AnythingOfType("*types.Notification")).Run(func(args mock.Arguments) {
		emitted = append(emitted, args.Get(0).(*types.Notification))
	}).Return(nil)

	assignment, err := engine.CreateAssignment(doctor(), CreateAssignmentRequest{
		PatientID:   "patient-1",
		ServiceType: "X-Ray",
		Slots: types.AssignmentSlots{
			NurseID:      ptr("nurse-1"),
			PharmacistID: ptr("pharm-1"),
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, types.StatusAssigned, assignment.Status)
	assert.Equal(t, "doc-1", assignment.DoctorID)

	// Only the two populated slots get notified.
	assert.Len(t, emitted, 2)

	assert.Equal(t, "nurse-1", emitted[0].RecipientStaffID)
	assert.Equal(t, "New Nurse Assignment", emitted[0].Title)
	assert.Equal(t, "You have been assigned to Ama Mensah (#patient-1) for X-Ray. Assigned by Dr. Osei.", emitted[0].Message)
	assert.Equal(t, assignment.ID, *emitted[0].RelatedAssignmentID)

	assert.Equal(t, "pharm-1", emitted[1].RecipientStaffID)
	assert.Equal(t, "New Pharmacy Task", emitted[1].Title)
	assert.Equal(t, "Prescription queued for Ama Mensah (#patient-1). Assigned by Dr. Osei.", emitted[1].Message)
}

func TestCreateAssignment_AllSlotsEmpty(t *testing.T) {
	engine, assignments, notifications, _ := setupEngine()

	assignments.On("CreateAssignment", mock.Anything).Return(nil)

	_, err := engine.CreateAssignment(doctor(), CreateAssignmentRequest{
		PatientID:   "patient-1",
		ServiceType: "Consultation",
	})
	assert.NoError(t, err)

	notifications.AssertNotCalled(t, "CreateNotification", mock.Anything)
}

func TestCreateAssignment_PatientLabelFallback(t *testing.T) {
	engine, assignments, notifications, patients := setupEngine()

	assignments.On("CreateAssignment", mock.Anything).Return(nil)
	patients.On("GetPatientByID", "patient-9").Return(nil, types.NewNotFoundError("PATIENT_NOT_FOUND", "Patient not found"))

	var emitted *types.Notification
	notifications.On("CreateNotification", mock.Anything).Run(func(args mock.Arguments) {
		emitted = args.Get(0).(*types.Notification)
	}).Return(nil)

	_, err := engine.CreateAssignment(doctor(), CreateAssignmentRequest{
		PatientID:   "patient-9",
		ServiceType: "Blood Panel",
		Slots:       types.AssignmentSlots{LabStaffID: ptr("lab-1")},
	})
	assert.NoError(t, err)

	assert.Equal(t, "New Lab Assignment", emitted.Title)
	assert.Contains(t, emitted.Message, "patient #patient-9")
}

func TestCreateAssignment_NotificationFailureDoesNotFailCreate(t *testing.T) {
	engine, assignments, notifications, patients := setupEngine()

	assignments.On("CreateAssignment", mock.Anything).Return(nil)
	patients.On("GetPatientByID", "patient-1").Return(&types.PatientIdentity{ID: "patient-1", Name: "Ama Mensah"}, nil)
	notifications.On("CreateNotification", mock.Anything).Return(errors.New("notifications table unavailable"))

	assignment, err := engine.CreateAssignment(doctor(), CreateAssignmentRequest{
		PatientID:   "patient-1",
		ServiceType: "X-Ray",
		Slots:       types.AssignmentSlots{RadiologistID: ptr("rad-1")},
	})

	// Best effort fan-out: the assignment itself is committed.
	assert.NoError(t, err)
	assert.NotNil(t, assignment)
}

func TestUpdateStatus_NonParticipantForbidden(t *testing.T) {
	engine, assignments, _, _ := setupEngine()

	assignment := &types.Assignment{
		ID:        "asg-1",
		PatientID: "patient-1",
		DoctorID:  "doc-1",
		NurseID:   ptr("nurse-1"),
		Status:    types.StatusAssigned,
	}
	assignments.On("GetAssignmentByID", "asg-1").Return(assignment, nil)

	// A nurse with the right role but the wrong identity.
	err := engine.UpdateStatus(nurse("nurse-2"), "asg-1", types.StatusInProgress)
	assert.Error(t, err)
	assert.True(t, types.IsErrorType(err, types.ErrorTypeAuthorization))

	assignments.AssertNotCalled(t, "UpdateAssignmentStatus", mock.Anything, mock.Anything)
}

func TestUpdateStatus_ParticipantMayOverwriteFreely(t *testing.T) {
	engine, assignments, notifications, _ := setupEngine()

	assignment := &types.Assignment{
		ID:        "asg-1",
		PatientID: "patient-1",
		DoctorID:  "doc-1",
		NurseID:   ptr("nurse-1"),
		Status:    types.StatusCompleted,
	}
	assignments.On("GetAssignmentByID", "asg-1").Return(assignment, nil)
	assignments.On("UpdateAssignmentStatus", "asg-1", types.StatusAssigned).Return(nil)

	// No transition table: completed back to assigned is allowed.
	err := engine.UpdateStatus(nurse("nurse-1"), "asg-1", types.StatusAssigned)
	assert.NoError(t, err)

	notifications.AssertNotCalled(t, "CreateNotification", mock.Anything)
	assignments.AssertExpectations(t)
}

func TestUpdateStatus_CompletionNotifiesDoctor(t *testing.T) {
	engine, assignments, notifications, patients := setupEngine()

	assignment := &types.Assignment{
		ID:        "asg-1",
		PatientID: "patient-1",
		DoctorID:  "doc-1",
		NurseID:   ptr("nurse-1"),
		Status:    types.StatusInProgress,
	}
	assignments.On("GetAssignmentByID", "asg-1").Return(assignment, nil)
	assignments.On("UpdateAssignmentStatus", "asg-1", types.StatusCompleted).Return(nil)
	patients.On("GetPatientByID", "patient-1").Return(&types.PatientIdentity{ID: "patient-1", Name: "Ama Mensah"}, nil)

	var emitted *types.Notification
	notifications.On("CreateNotification", mock.Anything).Run(func(args mock.Arguments) {
		emitted = args.Get(0).(*types.Notification)
	}).Return(nil)

	err := engine.UpdateStatus(nurse("nurse-1"), "asg-1", types.StatusCompleted)
	assert.NoError(t, err)

	assert.Equal(t, "doc-1", emitted.RecipientStaffID)
	assert.Equal(t, "Task completed", emitted.Title)
	assert.Equal(t, "Ama Mensah (#patient-1) task marked completed by Nurse Aidoo.", emitted.Message)
	assert.Equal(t, "asg-1", *emitted.RelatedAssignmentID)
}

func TestUpdateStatus_DoctorCompletingNotifiesSelf(t *testing.T) {
	engine, assignments, notifications, patients := setupEngine()

	assignment := &types.Assignment{
		ID:        "asg-1",
		PatientID: "patient-1",
		DoctorID:  "doc-1",
		Status:    types.StatusInProgress,
	}
	assignments.On("GetAssignmentByID", "asg-1").Return(assignment, nil)
	assignments.On("UpdateAssignmentStatus", "asg-1", types.StatusCompleted).Return(nil)
	patients.On("GetPatientByID", "patient-1").Return(&types.PatientIdentity{ID: "patient-1", Name: "Ama Mensah"}, nil)

	var emitted *types.Notification
	notifications.On("CreateNotification", mock.Anything).Run(func(args mock.Arguments) {
		emitted = args.Get(0).(*types.Notification)
	}).Return(nil)

	// The doctor is a participant like any other; completion still notifies.
	err := engine.UpdateStatus(doctor(), "asg-1", types.StatusCompleted)
	assert.NoError(t, err)
	assert.Equal(t, "doc-1", emitted.RecipientStaffID)
}

func TestUpdateStatus_UnknownAssignment(t *testing.T) {
	engine, assignments, _, _ := setupEngine()

	assignments.On("GetAssignmentByID", "missing").
		Return(nil, types.NewNotFoundError("ASSIGNMENT_NOT_FOUND", "Assignment not found"))

	err := engine.UpdateStatus(nurse("nurse-1"), "missing", types.StatusCompleted)
	assert.Error(t, err)
	assert.True(t, types.IsErrorType(err, types.ErrorTypeNotFound))
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	engine, assignments, _, _ := setupEngine()

	err := engine.UpdateStatus(nurse("nurse-1"), "asg-1", types.AssignmentStatus("archived"))
	assert.True(t, types.IsErrorType(err, types.ErrorTypeValidation))

	assignments.AssertNotCalled(t, "GetAssignmentByID", mock.Anything)
}

func TestUpdateStatus_AdminForbidden(t *testing.T) {
	engine, _, _, _ := setupEngine()

	admin := types.StaffPrincipal(&types.StaffIdentity{ID: "adm-1", Role: types.RoleAdmin})
	err := engine.UpdateStatus(admin, "asg-1", types.StatusCancelled)
	assert.True(t, types.IsErrorType(err, types.ErrorTypeAuthorization))
}

func TestListNotifications_StaffOnly(t *testing.T) {
	engine, _, notifications, _ := setupEngine()

	feed := []*types.Notification{{ID: "n-1", RecipientStaffID: "nurse-1", Title: "New Nurse Assignment"}}
	notifications.On("ListNotifications", "nurse-1", DefaultNotificationLimit).Return(feed, nil)
	notifications.On("ListNotifications", "nurse-1", 10).Return(feed[:1], nil)

	// Zero falls back to the default page size.
	got, err := engine.ListNotifications(nurse("nurse-1"), 0)
	assert.NoError(t, err)
	assert.Equal(t, feed, got)

	got, err = engine.ListNotifications(nurse("nurse-1"), 10)
	assert.NoError(t, err)
	assert.Equal(t, feed[:1], got)

	patient := types.PatientPrincipal(&types.PatientIdentity{ID: "patient-1"})
	_, err = engine.ListNotifications(patient, 0)
	assert.True(t, types.IsErrorType(err, types.ErrorTypeAuthorization))
}

func TestMarkNotificationRead_ScopedToCaller(t *testing.T) {
	engine, _, notifications, _ := setupEngine()

	notifications.On("MarkNotificationRead", "n-1", "nurse-1").Return(nil)

	err := engine.MarkNotificationRead(nurse("nurse-1"), "n-1")
	assert.NoError(t, err)

	// The caller's identity rides along in the predicate.
	notifications.AssertCalled(t, "MarkNotificationRead", "n-1", "nurse-1")
}

func TestNotifyReportFiled_FansOutToDistinctDoctors(t *testing.T) {
	engine, assignments, notifications, patients := setupEngine()

	assignments.On("ListDoctorIDsForPatient", "patient-1").Return([]string{"doc-1", "doc-2"}, nil)
	patients.On("GetPatientByID", "patient-1").Return(&types.PatientIdentity{ID: "patient-1", Name: "Ama Mensah"}, nil)

	var emitted []*types.Notification
	notifications.On("CreateNotification", mock.Anything).Run(func(args mock.Arguments) {
		emitted = append(emitted, args.Get(0).(*types.Notification))
	}).Return(nil)

	actor := &types.StaffIdentity{ID: "rad-1", Name: "R. Boateng", Role: types.RoleRadiologist}
	engine.NotifyReportFiled(actor, "patient-1", "MRI Scan")

	assert.Len(t, emitted, 2)
	assert.Equal(t, "doc-1", emitted[0].RecipientStaffID)
	assert.Equal(t, "doc-2", emitted[1].RecipientStaffID)
	for _, n := range emitted {
		assert.Equal(t, "New report uploaded", n.Title)
		assert.Equal(t, "Ama Mensah (#patient-1): MRI Scan added by R. Boateng.", n.Message)
		assert.Nil(t, n.RelatedAssignmentID)
	}
}

func TestNotifyReportFiled_NoDoctorsNoNotifications(t *testing.T) {
	engine, assignments, notifications, _ := setupEngine()

	assignments.On("ListDoctorIDsForPatient", "patient-1").Return([]string{}, nil)

	engine.NotifyReportFiled(&types.StaffIdentity{ID: "nurse-1", Name: "N"}, "patient-1", "Vitals")

	notifications.AssertNotCalled(t, "CreateNotification", mock.Anything)
}

func TestListAssignments_ByPrincipalKind(t *testing.T) {
	engine, assignments, _, _ := setupEngine()

	staffList := []*types.Assignment{{ID: "asg-1"}}
	patientList := []*types.Assignment{{ID: "asg-2"}}
	assignments.On("ListAssignmentsForStaff", "nurse-1").Return(staffList, nil)
	assignments.On("ListAssignmentsForPatient", "patient-1").Return(patientList, nil)

	got, err := engine.ListAssignments(nurse("nurse-1"))
	assert.NoError(t, err)
	assert.Equal(t, staffList, got)

	patient := types.PatientPrincipal(&types.PatientIdentity{ID: "patient-1"})
	got, err = engine.ListAssignments(patient)
	assert.NoError(t, err)
	assert.Equal(t, patientList, got)

	_, err = engine.ListAssignments(nil)
	assert.True(t, types.IsErrorType(err, types.ErrorTypeAuthentication))
}
