package types

// PrincipalKind distinguishes the two authenticated identity variants.
type PrincipalKind string

const (
	KindStaff   PrincipalKind = "staff"
	KindPatient PrincipalKind = "patient"
)

// StaffRole represents the closed set of staff roles in the system
type StaffRole string

const (
	RoleAdmin       StaffRole = "admin"
	RoleDoctor      StaffRole = "doctor"
	RoleNurse       StaffRole = "nurse"
	RoleRadiologist StaffRole = "radiologist"
	RoleLab         StaffRole = "lab"
	RolePharmacist  StaffRole = "pharmacist"
)

// AllStaffRoles lists every valid staff role.
var AllStaffRoles = []StaffRole{
	RoleAdmin,
	RoleDoctor,
	RoleNurse,
	RoleRadiologist,
	RoleLab,
	RolePharmacist,
}

// ValidStaffRole reports whether role is a member of the closed role set.
func ValidStaffRole(role StaffRole) bool {
	for _, r := range AllStaffRoles {
		if r == role {
			return true
		}
	}
	return false
}

// StaffIdentity is the staff-side view of a resolved principal.
type StaffIdentity struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Role        StaffRole `json:"role" db:"role"`
	Category    *string   `json:"category,omitempty" db:"category"`
	IsAvailable bool      `json:"is_available" db:"is_available"`
}

// PatientIdentity is the patient-side view of a resolved principal.
type PatientIdentity struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Principal is the authenticated identity attached to a request. It is a
// tagged union: exactly one of Staff or Patient is set, according to Kind.
type Principal struct {
	Kind    PrincipalKind    `json:"kind"`
	Staff   *StaffIdentity   `json:"staff,omitempty"`
	Patient *PatientIdentity `json:"patient,omitempty"`
}

// StaffPrincipal builds a staff principal.
func StaffPrincipal(staff *StaffIdentity) *Principal {
	return &Principal{Kind: KindStaff, Staff: staff}
}

// PatientPrincipal builds a patient principal.
func PatientPrincipal(patient *PatientIdentity) *Principal {
	return &Principal{Kind: KindPatient, Patient: patient}
}

// IsStaff reports whether the principal is the staff variant.
func (p *Principal) IsStaff() bool {
	return p.Kind == KindStaff && p.Staff != nil
}

// ID returns the owning record's identifier regardless of variant.
func (p *Principal) ID() string {
	if p.IsStaff() {
		return p.Staff.ID
	}
	if p.Patient != nil {
		return p.Patient.ID
	}
	return ""
}

// DisplayName returns the principal's display name regardless of variant.
func (p *Principal) DisplayName() string {
	if p.IsStaff() {
		return p.Staff.Name
	}
	if p.Patient != nil {
		return p.Patient.Name
	}
	return ""
}
