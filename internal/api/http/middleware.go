package http

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"github.com/spec-kit/school-service/internal/api/envelope"
	"github.com/spec-kit/school-service/internal/observability"
	apperrors "github.com/spec-kit/school-service/pkg/util"
)

// NewApp builds the fiber app whose error handler answers with the envelope,
// so failures raised outside the pipeline (unknown routes, oversized bodies)
// keep the same shape.
func NewApp(name string, logger *zap.Logger, metrics *observability.Metrics) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               name,
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return writeError(c, err, logger, metrics)
		},
	})
}

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	app.Use(requestid.New())
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(errorHandlingMiddleware(logger, metrics))
	app.Use(helmet.New(helmet.Config{
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		ReferrerPolicy:     "no-referrer",
	}))
	app.Use(cors.New(cors.Config{AllowOrigins: "*"}))
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
}

// RegisterFallback answers every unmatched route; register it last.
func RegisterFallback(app *fiber.App) {
	app.Use(func(c *fiber.Ctx) error {
		return envelope.Fail(c, apperrors.NewNotFound("Route").(*apperrors.DomainError))
	})
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(fmt.Errorf("panic: %v", r))
			}
			if err != nil {
				err = writeError(c, err, logger, metrics)
			}
		}()
		return c.Next()
	}
}

func writeError(c *fiber.Ctx, err error, logger *zap.Logger, metrics *observability.Metrics) error {
	domainErr := fromFiberError(err)
	metrics.RecordError(c.Route().Path, c.Method(), domainErr.Code)
	if domainErr.HTTPStatus >= fiber.StatusInternalServerError {
		logger.Error("request failed", zap.String("route", c.Route().Path), zap.String("path", c.Path()), zap.Error(domainErr))
	}
	return envelope.Fail(c, domainErr)
}

// fromFiberError keeps the status of framework errors and maps their codes.
func fromFiberError(err error) *apperrors.DomainError {
	var fe *fiber.Error
	if !errors.As(err, &fe) {
		return apperrors.ToDomainError(err)
	}
	switch fe.Code {
	case fiber.StatusNotFound:
		return apperrors.NewNotFound("Route").(*apperrors.DomainError)
	case fiber.StatusUnauthorized:
		return apperrors.NewUnauthorized(fe.Message).(*apperrors.DomainError)
	case fiber.StatusForbidden:
		return apperrors.NewForbidden(fe.Message).(*apperrors.DomainError)
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return apperrors.NewValidationError(fe.Message).(*apperrors.DomainError)
	}
	if fe.Code >= fiber.StatusInternalServerError {
		return apperrors.NewInternalError(fe).(*apperrors.DomainError)
	}
	return apperrors.NewDomainError("", fe.Message, fe.Code, nil)
}
