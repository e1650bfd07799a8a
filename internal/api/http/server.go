package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/school-service/internal/api/http/handlers"
	"github.com/spec-kit/school-service/internal/auth"
	"github.com/spec-kit/school-service/internal/cache"
	"github.com/spec-kit/school-service/internal/config"
	"github.com/spec-kit/school-service/internal/events"
	"github.com/spec-kit/school-service/internal/observability"
	"github.com/spec-kit/school-service/internal/pipeline"
	"github.com/spec-kit/school-service/internal/ratelimit"
	"github.com/spec-kit/school-service/internal/repository"
	"github.com/spec-kit/school-service/internal/service"
	"github.com/spec-kit/school-service/internal/worker"
)

// Dependencies are the runtime collaborators of the HTTP server.
type Dependencies struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *observability.Metrics
	Store   *repository.Store
	// Redis backs the school cache; nil disables it.
	Redis *redis.Client
	// Probes are checked by /health/ready.
	Probes map[string]handlers.Pinger
	// Now drives the rate limiter; nil means time.Now.
	Now func() time.Time
}

// NewServer assembles services, the request pipeline and every route.
func NewServer(deps Dependencies) *fiber.App {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	dispatcher := events.NewInMemoryDispatcher(logger)
	schoolCache := cache.NewSchoolCache(deps.Redis, deps.Store.Schools, cfg.Redis.SchoolTTL(), logger)
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger))
	worker.StartCacheInvalidation(dispatcher, schoolCache)

	tokens := auth.NewTokenCodec(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authService := service.NewAuthService(service.AuthDependencies{
		Users:      deps.Store.Users,
		Schools:    schoolCache,
		Tokens:     tokens,
		BcryptCost: cfg.Auth.BcryptCost,
		Dispatcher: dispatcher,
	})
	schoolService := service.NewSchoolService(deps.Store.Schools, dispatcher)
	classroomService := service.NewClassroomService(deps.Store.Classrooms, schoolCache)
	studentService := service.NewStudentService(service.StudentDependencies{
		Students:   deps.Store.Students,
		Classrooms: deps.Store.Classrooms,
		Schools:    schoolCache,
		Dispatcher: dispatcher,
	})

	p := pipeline.New(ratelimit.NewLimiterWithClock(now), auth.NewAuthenticator(tokens), logger, deps.Metrics)

	app := NewApp(cfg.App.Name, logger, deps.Metrics)
	RegisterMiddlewares(app, logger, deps.Metrics, cfg.App.RequestTimeout())

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = deps.Metrics
	}
	RegisterRoutes(app, RouteConfig{
		Pipeline:   p,
		RateLimit:  cfg.RateLimit,
		Metrics:    metrics,
		Health:     handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps.Probes),
		Auth:       handlers.NewAuthHandler(authService),
		Schools:    handlers.NewSchoolsHandler(schoolService),
		Classrooms: handlers.NewClassroomsHandler(classroomService),
		Students:   handlers.NewStudentsHandler(studentService),
	})
	RegisterFallback(app)
	return app
}
