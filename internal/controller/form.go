package controller

import (
	"notekeeper-be/internal/pkg/apperr"
	"notekeeper-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// renderForm re-renders a form for validation errors and passes anything
// else on to the error handler.
func renderForm[T any](ctx *fiber.Ctx, message string, view T, err error) error {
	verr, ok := apperr.AsValidation(err)
	if !ok {
		return err
	}
	return serverutils.RenderForm(ctx, message, view, verr)
}

// mustUserID is only called behind RequireAuth.
func mustUserID(ctx *fiber.Ctx) uuid.UUID {
	userId, _ := serverutils.CurrentUserID(ctx)
	return userId
}
