// Package pipeline drives every API request through a fixed sequence of
// stages:
//
//	RateLimit -> Authenticate -> Authorize -> Validate -> Handle -> Respond
//
// Each stage either passes control forward or produces a terminal failure,
// in which case the remaining stages are skipped and the failure is written
// as the error envelope.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/school-service/internal/api/envelope"
	"github.com/spec-kit/school-service/internal/auth"
	"github.com/spec-kit/school-service/internal/domain"
	"github.com/spec-kit/school-service/internal/observability"
	"github.com/spec-kit/school-service/internal/ratelimit"
	"github.com/spec-kit/school-service/internal/validation"
	apperrors "github.com/spec-kit/school-service/pkg/util"
)

// Stage names a pipeline state.
type Stage string

const (
	StageRateLimit    Stage = "rate_limit"
	StageAuthenticate Stage = "authenticate"
	StageAuthorize    Stage = "authorize"
	StageValidate     Stage = "validate"
	StageHandle       Stage = "handle"
)

// Rate-limit response headers.
const (
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
)

// Route declares what a request must satisfy before its handler runs.
type Route struct {
	// Name identifies the route in logs and metrics.
	Name string
	// RateLimits are checked in order, keyed by client address and rule name.
	RateLimits []ratelimit.Rule
	// Identity requires a valid bearer token.
	Identity bool
	// Authorize is the route's guard; it requires Identity.
	Authorize Authorizer
}

// Request is what a handler receives once every guard has passed.
type Request[In any] struct {
	// Principal is nil on routes without Identity.
	Principal *domain.Principal
	Input     *In
	params    func(key string, defaultValue ...string) string
}

// Param returns a copy of a path parameter, safe to keep past the request.
func (r Request[In]) Param(key string) string {
	if r.params == nil {
		return ""
	}
	return strings.Clone(r.params(key))
}

// HandlerFunc is business logic behind the pipeline. A returned DomainError
// is passed to the client; any other error becomes INTERNAL_ERROR.
type HandlerFunc[In any] func(ctx context.Context, req Request[In]) (any, error)

// Pipeline holds the components shared by all routes.
type Pipeline struct {
	limiter   *ratelimit.Limiter
	authn     *auth.Authenticator
	logger    *zap.Logger
	metrics   *observability.Metrics
	clientKey func(c *fiber.Ctx) string
}

// New constructs a pipeline. The limiter is shared by every route built from it.
func New(limiter *ratelimit.Limiter, authn *auth.Authenticator, logger *zap.Logger, metrics *observability.Metrics) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		limiter:   limiter,
		authn:     authn,
		logger:    logger,
		metrics:   metrics,
		clientKey: func(c *fiber.Ctx) string { return c.IP() },
	}
}

type flow struct {
	c         *fiber.Ctx
	route     Route
	principal *domain.Principal
	input     any
	result    any
}

type step struct {
	stage Stage
	run   func(*flow) error
}

// Handle builds the fiber handler for route. It panics on a route that
// declares a guard without requiring identity.
func Handle[In any](p *Pipeline, route Route, h HandlerFunc[In]) fiber.Handler {
	if route.Authorize != nil && !route.Identity {
		panic(fmt.Sprintf("pipeline: route %q has a guard but no identity requirement", route.Name))
	}

	return func(c *fiber.Ctx) error {
		var in In
		f := &flow{c: c, route: route, input: &in}

		steps := []step{
			{StageRateLimit, p.rateLimit},
			{StageAuthenticate, p.authenticate},
			{StageAuthorize, p.authorize},
			{StageValidate, p.validate},
			{StageHandle, func(f *flow) error {
				out, err := h(f.c.UserContext(), Request[In]{Principal: f.principal, Input: &in, params: f.c.Params})
				if err != nil {
					return err
				}
				f.result = out
				return nil
			}},
		}
		return p.run(f, steps)
	}
}

func (p *Pipeline) run(f *flow, steps []step) error {
	for _, s := range steps {
		if err := f.c.UserContext().Err(); err != nil {
			return p.fail(f, s.stage, apperrors.NewInternalError(err))
		}
		if err := s.run(f); err != nil {
			return p.fail(f, s.stage, err)
		}
	}
	return envelope.OK(f.c, f.result)
}

func (p *Pipeline) fail(f *flow, stage Stage, err error) error {
	domainErr := apperrors.ToDomainError(err)
	p.metrics.RecordError(f.route.Name, f.c.Method(), domainErr.Code)
	if domainErr.HTTPStatus >= fiber.StatusInternalServerError {
		p.logger.Error("request failed",
			zap.String("route", f.route.Name),
			zap.String("stage", string(stage)),
			zap.Error(domainErr),
		)
	}
	return envelope.Fail(f.c, domainErr)
}

func (p *Pipeline) rateLimit(f *flow) error {
	if len(f.route.RateLimits) == 0 {
		return nil
	}
	client := p.clientKey(f.c)
	for _, rule := range f.route.RateLimits {
		res := p.limiter.CheckRule(client+":"+rule.Name, rule)
		f.c.Set(HeaderRateLimitLimit, strconv.Itoa(res.Limit))
		f.c.Set(HeaderRateLimitRemaining, strconv.Itoa(res.Remaining))
		f.c.Set(HeaderRateLimitReset, strconv.FormatInt(res.ResetAt, 10))
		if !res.Allowed {
			p.metrics.RecordRateLimited(rule.Name)
			f.c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(res.RetryAfter.Seconds())))
			return apperrors.NewRateLimited(apperrors.RateLimitDetails{
				Limit:     res.Limit,
				Remaining: 0,
				ResetAt:   res.ResetAt,
			})
		}
	}
	return nil
}

func (p *Pipeline) authenticate(f *flow) error {
	if !f.route.Identity {
		return nil
	}
	principal, err := p.authn.Authenticate(f.c.Get(fiber.HeaderAuthorization))
	if err != nil {
		p.metrics.RecordGuardDenial(string(StageAuthenticate), auth.DenyUnauthenticated.String())
		if errors.Is(err, auth.ErrMissingCredential) {
			return apperrors.NewUnauthorized("Missing or invalid Authorization header")
		}
		return apperrors.NewUnauthorized("Invalid or expired token")
	}
	f.principal = &principal
	return nil
}

func (p *Pipeline) authorize(f *flow) error {
	if f.route.Authorize == nil {
		return nil
	}
	decision := f.route.Authorize.Authorize(f.c, f.principal)
	if decision == auth.Allow {
		return nil
	}
	p.metrics.RecordGuardDenial(string(StageAuthorize), decision.String())
	if decision == auth.DenyUnauthenticated {
		return apperrors.NewUnauthorized("Unauthorized")
	}
	return apperrors.NewForbidden("Forbidden")
}

func (p *Pipeline) validate(f *flow) error {
	// Routes declared with struct{} take no input.
	if _, none := f.input.(*struct{}); none {
		return nil
	}
	switch f.c.Method() {
	case fiber.MethodGet, fiber.MethodHead, fiber.MethodDelete:
		if err := f.c.QueryParser(f.input); err != nil {
			return validation.Fields(apperrors.FieldError{Field: "query", Message: "Invalid query parameters"})
		}
	default:
		if len(f.c.Body()) > 0 {
			if err := f.c.BodyParser(f.input); err != nil {
				return validation.Fields(apperrors.FieldError{Field: "body", Message: "Invalid JSON payload"})
			}
		}
	}
	return validation.Struct(f.input)
}
