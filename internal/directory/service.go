package directory

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carelink/hms-core/pkg/logger"
	"github.com/carelink/hms-core/pkg/types"
)

// PasswordHasher produces login credential digests for new accounts.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

// Service handles staff and patient account registration
type Service struct {
	repo   *Repository
	hasher PasswordHasher
	logger *logger.Logger
}

// NewService creates a new directory service
func NewService(repo *Repository, hasher PasswordHasher, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		logger: log,
	}
}

// RegisterStaffRequest carries the fields for a new staff account
type RegisterStaffRequest struct {
	Name     string
	Role     types.StaffRole
	Category *string
	Username string
	Email    *string
	Password string
}

// RegisterStaff creates a staff account with a hashed credential. The raw
// password never reaches the repository.
func (s *Service) RegisterStaff(req RegisterStaffRequest) (*types.StaffIdentity, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Username = strings.TrimSpace(req.Username)

	if req.Name == "" || req.Username == "" || req.Password == "" {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "name, username and password are required")
	}
	if !types.ValidStaffRole(req.Role) {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "unknown staff role")
	}

	hash, err := s.hasher.HashPassword(req.Password)
	if err != nil {
		return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to hash password", err)
	}

	staff := &types.StaffAccount{
		StaffIdentity: types.StaffIdentity{
			ID:          uuid.New().String(),
			Name:        req.Name,
			Role:        req.Role,
			Category:    req.Category,
			IsAvailable: true,
		},
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	if err := s.repo.CreateStaff(staff); err != nil {
		return nil, err
	}

	s.logger.Audit("", "register_staff", staff.ID, true, map[string]interface{}{"role": staff.Role})
	return &staff.StaffIdentity, nil
}

// RegisterPatientRequest carries the fields for a new patient account
type RegisterPatientRequest struct {
	Name     string
	Age      *int
	Gender   *string
	Phone    *string
	Address  *string
	Username string
	Email    *string
	Password string
}

// RegisterPatient creates a patient account with a hashed credential.
func (s *Service) RegisterPatient(req RegisterPatientRequest) (*types.PatientIdentity, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Username = strings.TrimSpace(req.Username)

	if req.Name == "" || req.Username == "" || req.Password == "" {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "name, username and password are required")
	}

	hash, err := s.hasher.HashPassword(req.Password)
	if err != nil {
		return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to hash password", err)
	}

	patient := &types.PatientAccount{
		PatientIdentity: types.PatientIdentity{
			ID:   uuid.New().String(),
			Name: req.Name,
		},
		Age:          req.Age,
		Gender:       req.Gender,
		Phone:        req.Phone,
		Address:      req.Address,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	if err := s.repo.CreatePatient(patient); err != nil {
		return nil, err
	}

	s.logger.Audit("", "register_patient", patient.ID, true, nil)
	return &patient.PatientIdentity, nil
}
