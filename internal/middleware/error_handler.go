package middleware

import (
	"pomona-backend/internal/pkg/apperr"
	"pomona-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler is the global error handler. Fiber errors keep their code;
// apperr errors map through the taxonomy; everything else is a 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	} else if apperr.KindOf(err) != 0 {
		code = apperr.StatusCode(err)
		message = err.Error()
	}

	return response.Error(c, message, code, map[string]interface{}{})
}
