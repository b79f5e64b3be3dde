package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
)

// AllowMethods responde OPTIONS con 204 y cabeceras CORS permisivas, y 405 a cualquier método
// fuera de methods. Se usa con app.All para rutas que reciben métodos arbitrarios.
func AllowMethods(methods ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		allowed[m] = struct{}{}
	}
	allowHeader := strings.Join(append(append([]string{}, methods...), fiber.MethodOptions), ", ")

	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodOptions {
			c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
			c.Set(fiber.HeaderAccessControlAllowMethods, allowHeader)
			c.Set(fiber.HeaderAccessControlAllowHeaders, "Content-Type, Authorization, "+HeaderAPIKey)
			c.Set(fiber.HeaderAccessControlMaxAge, "3600")
			return c.SendStatus(fiber.StatusNoContent)
		}
		if _, ok := allowed[c.Method()]; !ok {
			c.Set(fiber.HeaderAllow, allowHeader)
			return c.Status(fiber.StatusMethodNotAllowed).JSON(dto.SaleResponse{
				Success: false,
				Error:   "método " + c.Method() + " no permitido",
			})
		}
		return c.Next()
	}
}
