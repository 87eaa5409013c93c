package schemas

import "fmt"

// Role is the closed enumeration of user roles. Authorization decisions are
// made against explicit allow-sets of these values, never against raw strings.
type Role string

const (
	RoleUser       Role = "USER"
	RoleOrganizer  Role = "ORGANIZER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// ParseRole converts a raw string into a Role, rejecting anything outside the
// enumeration.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleOrganizer, RoleAdmin, RoleSuperAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// In reports whether the role is part of the given allow-set.
func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the role carries administrative privileges.
func (r Role) IsAdmin() bool {
	return r.In(RoleAdmin, RoleSuperAdmin)
}

// CanOrganizeEvents reports whether the role may create and edit events.
func (r Role) CanOrganizeEvents() bool {
	return r.In(RoleOrganizer, RoleAdmin, RoleSuperAdmin)
}
