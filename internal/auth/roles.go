package auth

import "github.com/spec-kit/school-service/internal/domain"

// Decision is the outcome of a single guard.
type Decision int

const (
	Allow Decision = iota
	DenyUnauthenticated
	DenyForbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case DenyUnauthenticated:
		return "deny_unauthenticated"
	case DenyForbidden:
		return "deny_forbidden"
	default:
		return "unknown"
	}
}

// RequireRole allows principals whose role is in allowed. A nil principal
// was never authenticated and is reported as such, not as forbidden.
func RequireRole(principal *domain.Principal, allowed ...domain.Role) Decision {
	if principal == nil {
		return DenyUnauthenticated
	}
	for _, role := range allowed {
		if principal.Role() == role {
			return Allow
		}
	}
	return DenyForbidden
}

// RequireSchoolScope is the tenant boundary. Superadmins pass for any
// target; school admins pass only for their own school, compared exactly.
func RequireSchoolScope(principal *domain.Principal, targetSchoolID string) Decision {
	if principal == nil {
		return DenyUnauthenticated
	}
	switch principal.Role() {
	case domain.RoleSuperadmin:
		return Allow
	case domain.RoleSchoolAdmin:
		if principal.HasSchool() && principal.SchoolID() == targetSchoolID {
			return Allow
		}
		return DenyForbidden
	default:
		return DenyForbidden
	}
}
