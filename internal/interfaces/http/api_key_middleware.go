package http

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
)

// HeaderAPIKey cabecera con el secreto compartido de la app móvil.
const HeaderAPIKey = "x-api-key"

// APIKeyMiddleware exige x-api-key igual a key. Con key vacía no protege nada.
// OPTIONS pasa siempre para no romper el preflight CORS.
func APIKeyMiddleware(key string) fiber.Handler {
	expected := []byte(key)
	return func(c *fiber.Ctx) error {
		if len(expected) == 0 || c.Method() == fiber.MethodOptions {
			return c.Next()
		}
		got := []byte(c.Get(HeaderAPIKey))
		if subtle.ConstantTimeCompare(got, expected) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.SaleResponse{Success: false, Error: "no autorizado"})
		}
		return c.Next()
	}
}
