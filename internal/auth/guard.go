package auth

import (
	"github.com/carelink/hms-core/pkg/types"
)

// Authorize succeeds only if principal is a staff principal whose role is a
// member of allowedRoles. It is a pure predicate: no store access, no side
// effects. Forbidden is distinct from unauthenticated, which is handled
// upstream by requiring a resolved principal before authorization runs.
func Authorize(principal *types.Principal, allowedRoles ...types.StaffRole) error {
	if principal == nil {
		return types.NewAuthenticationError(types.ErrCodeUnauthorized, "no authenticated principal")
	}

	if !principal.IsStaff() {
		return types.NewAuthorizationError(types.ErrCodeForbidden, "operation requires a staff principal")
	}

	for _, role := range allowedRoles {
		if principal.Staff.Role == role {
			return nil
		}
	}

	return types.NewAuthorizationError(types.ErrCodeForbidden, "staff role is not permitted for this operation")
}

// ClinicalRoles is the allow-set for operations open to any clinical staff
// member (everyone except admin).
var ClinicalRoles = []types.StaffRole{
	types.RoleDoctor,
	types.RoleNurse,
	types.RoleRadiologist,
	types.RoleLab,
	types.RolePharmacist,
}
