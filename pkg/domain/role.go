package domain

import dErrors "libnet/pkg/domain-errors"

// Role is the authorization role of an authenticated actor.
type Role string

const (
	// RoleNetworkAdmin manages libraries, the shared catalog and staff.
	// Admins have full read access but no direct circulation rights.
	RoleNetworkAdmin Role = "network_admin"
	// RoleLocalCoordinator has full circulation and inventory rights,
	// scoped to their home library only.
	RoleLocalCoordinator Role = "local_coordinator"
	// RoleReader has read-only search access.
	RoleReader Role = "reader"
)

var validRoles = map[Role]bool{
	RoleNetworkAdmin:     true,
	RoleLocalCoordinator: true,
	RoleReader:           true,
}

// ParseRole constructs a Role from external input (token claims, requests).
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", dErrors.New(dErrors.CodeBadRequest, "invalid role: "+s)
	}
	return r, nil
}

func (r Role) IsValid() bool { return validRoles[r] }

func (r Role) String() string { return string(r) }
