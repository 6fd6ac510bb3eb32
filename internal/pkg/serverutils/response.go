package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts errors that escape a handler into the
// standard response envelope instead of Fiber's plain-text default.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
		}

		return ctx.Status(code).JSON(fiber.Map{
			"success": false,
			"code":    code,
			"message": err.Error(),
		})
	}
}

func SuccessResponse(ctx *fiber.Ctx, message string, data interface{}) error {
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": message,
		"data":    data,
	})
}

func ErrorResponse(ctx *fiber.Ctx, code int, message string) error {
	return ctx.Status(code).JSON(fiber.Map{
		"success": false,
		"code":    code,
		"message": message,
	})
}
