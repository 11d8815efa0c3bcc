package serverutils

import (
	"errors"

	"notekeeper-be/internal/pkg/apperr"
	"notekeeper-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// NewErrorHandler maps errors returned by handlers onto response envelopes.
// Validation errors that a controller did not render itself still come
// back as a 400 carrying the field messages.
func NewErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		if verr, ok := apperr.AsValidation(err); ok {
			return ctx.Status(fiber.StatusBadRequest).JSON(BaseResponse[map[string][]string]{
				Success: false,
				Code:    fiber.StatusBadRequest,
				Message: "Validation failed",
				Data:    verr.Fields,
			})
		}

		var fe *fiber.Error
		switch {
		case errors.As(err, &fe):
			return ctx.Status(fe.Code).JSON(ErrorResponse(fe.Code, fe.Message))
		case errors.Is(err, apperr.ErrNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse(fiber.StatusNotFound, "Not found"))
		case errors.Is(err, apperr.ErrForbidden):
			return ctx.Status(fiber.StatusForbidden).JSON(ErrorResponse(fiber.StatusForbidden, "Permission denied"))
		case errors.Is(err, apperr.ErrUnauthorized):
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Authentication required"))
		}

		details := map[string]interface{}{
			"error":  err.Error(),
			"method": ctx.Method(),
			"path":   ctx.Path(),
		}
		var fsErr *apperr.FilesystemError
		if errors.As(err, &fsErr) {
			details["op"] = fsErr.Op
			details["key"] = fsErr.Key
		}
		log.Error("http", "unhandled error", details)

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(fiber.StatusInternalServerError, "Internal server error"))
	}
}
