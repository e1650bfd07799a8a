package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/school-service/internal/domain"
)

func TestRequireRole(t *testing.T) {
	super := domain.NewPrincipal("u-1", domain.RoleSuperadmin, "")
	admin := domain.NewPrincipal("u-2", domain.RoleSchoolAdmin, "A")

	assert.Equal(t, Allow, RequireRole(&super, domain.RoleSuperadmin))
	assert.Equal(t, DenyForbidden, RequireRole(&admin, domain.RoleSuperadmin))
	assert.Equal(t, Allow, RequireRole(&admin, domain.RoleSuperadmin, domain.RoleSchoolAdmin))
	assert.Equal(t, DenyForbidden, RequireRole(&super))
	assert.Equal(t, DenyUnauthenticated, RequireRole(nil, domain.RoleSuperadmin))
}

func TestRequireSchoolScope(t *testing.T) {
	super := domain.NewPrincipal("u-1", domain.RoleSuperadmin, "")
	admin := domain.NewPrincipal("u-2", domain.RoleSchoolAdmin, "A")
	orphan := domain.NewPrincipal("u-3", domain.RoleSchoolAdmin, "")
	unknown := domain.NewPrincipal("u-4", domain.Role("PARENT"), "A")

	tests := []struct {
		name      string
		principal *domain.Principal
		target    string
		want      Decision
	}{
		{"superadmin matching target", &super, "A", Allow},
		{"superadmin unrelated target", &super, "Z", Allow},
		{"superadmin empty target", &super, "", Allow},
		{"admin own school", &admin, "A", Allow},
		{"admin other school", &admin, "B", DenyForbidden},
		{"admin prefix of own school", &admin, "AB", DenyForbidden},
		{"admin empty target", &admin, "", DenyForbidden},
		{"admin case variant", &admin, "a", DenyForbidden},
		{"admin without school", &orphan, "", DenyForbidden},
		{"unknown role", &unknown, "A", DenyForbidden},
		{"no principal", nil, "A", DenyUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RequireSchoolScope(tt.principal, tt.target))
		})
	}
}
