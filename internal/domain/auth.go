package domain

// Role enumerates the fixed authorization roles.
type Role string

const (
	RoleSuperadmin  Role = "SUPERADMIN"
	RoleSchoolAdmin Role = "SCHOOL_ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleSuperadmin || r == RoleSchoolAdmin
}

// Principal is the authenticated caller reconstructed from an identity token.
// It is built per request and never stored.
type Principal struct {
	userID   string
	role     Role
	schoolID string
}

// NewPrincipal builds an immutable Principal. The school identifier is
// dropped for superadmins, who are not bound to a tenant.
func NewPrincipal(userID string, role Role, schoolID string) Principal {
	if role == RoleSuperadmin {
		schoolID = ""
	}
	return Principal{userID: userID, role: role, schoolID: schoolID}
}

func (p Principal) UserID() string { return p.userID }
func (p Principal) Role() Role     { return p.role }

// SchoolID returns the tenant the principal is bound to, or "" when none.
func (p Principal) SchoolID() string { return p.schoolID }

// HasSchool reports whether the principal carries a tenant identifier.
func (p Principal) HasSchool() bool { return p.schoolID != "" }
