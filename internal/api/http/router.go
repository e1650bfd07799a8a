package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/school-service/internal/api/http/handlers"
	"github.com/spec-kit/school-service/internal/config"
	"github.com/spec-kit/school-service/internal/domain"
	"github.com/spec-kit/school-service/internal/observability"
	"github.com/spec-kit/school-service/internal/pipeline"
	"github.com/spec-kit/school-service/internal/ratelimit"
	apperrors "github.com/spec-kit/school-service/pkg/util"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Pipeline   *pipeline.Pipeline
	RateLimit  config.RateLimitConfig
	Metrics    *observability.Metrics
	Health     *handlers.HealthHandler
	Auth       *handlers.AuthHandler
	Schools    *handlers.SchoolsHandler
	Classrooms *handlers.ClassroomsHandler
	Students   *handlers.StudentsHandler
}

// routeSet builds route declarations that all start with the global budget.
type routeSet struct {
	global ratelimit.Rule
}

func (r routeSet) public(name string, extra ...ratelimit.Rule) pipeline.Route {
	return pipeline.Route{Name: name, RateLimits: append([]ratelimit.Rule{r.global}, extra...)}
}

func (r routeSet) superadmin(name string) pipeline.Route {
	return pipeline.Route{
		Name:       name,
		RateLimits: []ratelimit.Rule{r.global},
		Identity:   true,
		Authorize:  pipeline.Roles(domain.RoleSuperadmin),
	}
}

func (r routeSet) schoolScoped(name string) pipeline.Route {
	return pipeline.Route{
		Name:       name,
		RateLimits: []ratelimit.Rule{r.global},
		Identity:   true,
		Authorize:  pipeline.SchoolScope("schoolId"),
	}
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health", cfg.Health.Health)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	p := cfg.Pipeline
	rs := routeSet{global: ratelimit.Rule{Name: "v1", Limit: cfg.RateLimit.GlobalMax, Window: cfg.RateLimit.GlobalWindow()}}
	authRule := func(name string) ratelimit.Rule {
		return ratelimit.Rule{Name: name, Limit: cfg.RateLimit.AuthMax, Window: cfg.RateLimit.AuthWindow()}
	}

	v1 := app.Group("/v1")

	v1.Post("/auth/register-superadmin", pipeline.Handle(p,
		rs.public("auth.register-superadmin", authRule("register-superadmin")), cfg.Auth.RegisterSuperadmin))
	v1.Post("/auth/login", pipeline.Handle(p,
		rs.public("auth.login", authRule("login")), cfg.Auth.Login))

	v1.Post("/schools", pipeline.Handle(p, rs.superadmin("schools.create"), cfg.Schools.Create))
	v1.Get("/schools", pipeline.Handle(p, rs.superadmin("schools.list"), cfg.Schools.List))
	v1.Get("/schools/:id", pipeline.Handle(p, rs.superadmin("schools.get"), cfg.Schools.Get))
	v1.Put("/schools/:id", pipeline.Handle(p, rs.superadmin("schools.update"), cfg.Schools.Update))
	v1.Delete("/schools/:id", pipeline.Handle(p, rs.superadmin("schools.delete"), cfg.Schools.Delete))
	v1.Post("/schools/:schoolId/admins", pipeline.Handle(p, rs.superadmin("admins.create"), cfg.Auth.CreateSchoolAdmin))

	classrooms := "/schools/:schoolId/classrooms"
	v1.Post(classrooms, pipeline.Handle(p, rs.schoolScoped("classrooms.create"), cfg.Classrooms.Create))
	v1.Get(classrooms, pipeline.Handle(p, rs.schoolScoped("classrooms.list"), cfg.Classrooms.List))
	v1.Get(classrooms+"/:classroomId", pipeline.Handle(p, rs.schoolScoped("classrooms.get"), cfg.Classrooms.Get))
	v1.Put(classrooms+"/:classroomId", pipeline.Handle(p, rs.schoolScoped("classrooms.update"), cfg.Classrooms.Update))
	v1.Delete(classrooms+"/:classroomId", pipeline.Handle(p, rs.schoolScoped("classrooms.delete"), cfg.Classrooms.Delete))

	students := "/schools/:schoolId/students"
	v1.Post(students, pipeline.Handle(p, rs.schoolScoped("students.create"), cfg.Students.Create))
	v1.Get(students, pipeline.Handle(p, rs.schoolScoped("students.list"), cfg.Students.List))
	v1.Get(students+"/:studentId", pipeline.Handle(p, rs.schoolScoped("students.get"), cfg.Students.Get))
	v1.Put(students+"/:studentId", pipeline.Handle(p, rs.schoolScoped("students.update"), cfg.Students.Update))
	v1.Delete(students+"/:studentId", pipeline.Handle(p, rs.schoolScoped("students.delete"), cfg.Students.Delete))
	v1.Post(students+"/:studentId/enroll", pipeline.Handle(p, rs.schoolScoped("students.enroll"), cfg.Students.Enroll))
	// Transfers cross tenants, so only the superadmin may perform them.
	v1.Post(students+"/:studentId/transfer", pipeline.Handle(p, rs.superadmin("students.transfer"), cfg.Students.Transfer))

	// Registered last: unmatched /v1 paths still count against the global budget.
	v1.Use(pipeline.Handle(p, rs.public("v1.not-found"), routeNotFound))
}

func routeNotFound(context.Context, pipeline.Request[struct{}]) (any, error) {
	return nil, apperrors.NewNotFound("Route")
}
