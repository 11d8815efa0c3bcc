package serverutils

import (
	"notekeeper-be/internal/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

type BaseResponse[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func SuccessResponse[T any](message string, data T) BaseResponse[T] {
	return BaseResponse[T]{
		Success: true,
		Code:    fiber.StatusOK,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) BaseResponse[any] {
	return BaseResponse[any]{
		Success: false,
		Code:    code,
		Message: message,
	}
}

// FormData is the body of a rendered form: the submitted (or initial)
// values plus any field errors.
type FormData[T any] struct {
	Form   T                   `json:"form"`
	Errors map[string][]string `json:"errors"`
}

// RenderForm answers with the form state. A nil verr renders a clean form.
func RenderForm[T any](ctx *fiber.Ctx, message string, form T, verr *apperr.ValidationError) error {
	errs := map[string][]string{}
	status := fiber.StatusOK
	success := true
	if verr != nil && !verr.Empty() {
		errs = verr.Fields
		status = fiber.StatusBadRequest
		success = false
	}
	return ctx.Status(status).JSON(BaseResponse[FormData[T]]{
		Success: success,
		Code:    status,
		Message: message,
		Data:    FormData[T]{Form: form, Errors: errs},
	})
}
