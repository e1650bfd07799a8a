package pipeline

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/school-service/internal/auth"
	"github.com/spec-kit/school-service/internal/domain"
)

// Authorizer is the single authorization guard a route declares.
type Authorizer interface {
	Authorize(c *fiber.Ctx, principal *domain.Principal) auth.Decision
}

type roleGuard struct {
	roles []domain.Role
}

// Roles allows principals holding any of roles.
func Roles(roles ...domain.Role) Authorizer {
	return roleGuard{roles: roles}
}

func (g roleGuard) Authorize(_ *fiber.Ctx, principal *domain.Principal) auth.Decision {
	return auth.RequireRole(principal, g.roles...)
}

type schoolScopeGuard struct {
	param string
}

// SchoolScope restricts the route to the school named by the path parameter.
func SchoolScope(param string) Authorizer {
	return schoolScopeGuard{param: param}
}

func (g schoolScopeGuard) Authorize(c *fiber.Ctx, principal *domain.Principal) auth.Decision {
	return auth.RequireSchoolScope(principal, c.Params(g.param))
}
