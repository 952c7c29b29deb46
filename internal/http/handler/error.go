package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"qualityweb/internal/apperror"
	"qualityweb/internal/http/middleware"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "DOCUMENT_NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// respondError maps a service error onto the taxonomy's status codes.
// Storage and unclassified errors are logged with their cause and reach the
// client only as INTERNAL_ERROR.
func respondError(c *fiber.Ctx, err error) error {
	ae, ok := apperror.As(err)
	if !ok {
		return internalError(c, err)
	}
	switch ae.Kind {
	case apperror.KindValidation:
		return writeError(c, fiber.StatusBadRequest, ae.Code, ae.Message)
	case apperror.KindAuth:
		return writeError(c, fiber.StatusUnauthorized, ae.Code, ae.Message)
	case apperror.KindForbidden:
		return writeError(c, fiber.StatusForbidden, ae.Code, ae.Message)
	case apperror.KindNotFound:
		return writeError(c, fiber.StatusNotFound, ae.Code, ae.Message)
	default:
		return internalError(c, err)
	}
}

func internalError(c *fiber.Ctx, err error) error {
	slog.Default().ErrorContext(c.UserContext(), "request failed",
		"method", c.Method(),
		"path", c.Path(),
		"error", err,
	)
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if !errors.As(err, &fe) {
			if _, ok := apperror.As(err); ok {
				return respondError(c, err)
			}
			return internalError(c, err)
		}

		switch fe.Code {
		case fiber.StatusBadRequest:
			return writeError(c, fe.Code, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, fe.Code, "UNAUTHORIZED", "missing or invalid token")
		case fiber.StatusNotFound:
			return writeError(c, fe.Code, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, fe.Code, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, fe.Code, "FILE_TOO_LARGE", "request body too large")
		case fiber.StatusUnprocessableEntity, fiber.StatusUnsupportedMediaType:
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body could not be parsed")
		default:
			if fe.Code < fiber.StatusInternalServerError {
				return writeError(c, fe.Code, "REQUEST_ERROR", fe.Message)
			}
			return internalError(c, err)
		}
	}
}
