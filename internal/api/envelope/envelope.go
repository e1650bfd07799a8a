// Package envelope writes the response shape shared by every API route:
//
//	{"ok": true,  "data": ...}
//	{"ok": false, "error": {"code": ..., "message": ..., "details": ...}}
package envelope

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/school-service/pkg/util"
)

// Success is the envelope for a successful call.
type Success struct {
	OK   bool `json:"ok"`
	Data any  `json:"data"`
}

// Failure is the envelope for a failed call.
type Failure struct {
	OK    bool  `json:"ok"`
	Error Error `json:"error"`
}

// Error is the client-visible part of a DomainError.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// OK writes data with status 200.
func OK(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(Success{OK: true, Data: data})
}

// Fail writes err. The DomainError cause is never serialized.
func Fail(c *fiber.Ctx, err *apperrors.DomainError) error {
	return c.Status(err.HTTPStatus).JSON(Failure{
		Error: Error{Code: err.Code, Message: err.Message, Details: err.Details},
	})
}
