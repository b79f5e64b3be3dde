package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Ventas-api/internal/application/sale"
	"github.com/jhoicas/Ventas-api/internal/application/transfer"
	"github.com/jhoicas/Ventas-api/pkg/jwt"
	"github.com/jhoicas/Ventas-api/pkg/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ServiceName  string
	RegisterSale *sale.RegisterSaleUseCase
	SaleQuery    *sale.QueryUseCase
	Resubmit     *transfer.ResubmitUseCase // nil: endpoint de reintento deshabilitado
	SalesAPIKey  string
	JWTSecret    string
	Metrics      *metrics.Metrics
	Logger       zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Use(MetricsMiddleware(deps.Metrics))
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	apiKey := APIKeyMiddleware(deps.SalesAPIKey)
	saleHandler := NewSaleHandler(deps.RegisterSale, deps.SaleQuery, deps.Logger)

	// Registro de ventas: /registrarVenta se mantiene para versiones antiguas de la app móvil.
	for _, path := range []string{"/api/ventas", "/registrarVenta"} {
		app.All(path, AllowMethods(fiber.MethodPost), apiKey, saleHandler.Register)
	}

	ventas := app.Group("/api/ventas", apiKey)
	ventas.Get("/:id", saleHandler.GetByID)
	ventas.Get("/:id/recibo", saleHandler.Receipt)

	if deps.Resubmit != nil {
		transferHandler := NewTransferHandler(deps.Resubmit, deps.Logger)
		transfers := app.Group("/api/transferencias",
			AuthMiddleware(deps.JWTSecret),
			RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero),
		)
		transfers.Post("/:id/reintentar", transferHandler.Resubmit)
	}
}

// ErrorHandler responde errores no manejados con el mismo formato {success:false, error}.
func ErrorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := "error interno"
		if fe, ok := err.(*fiber.Error); ok {
			code = fe.Code
			msg = fe.Message
		} else {
			logger.Error().Err(err).Str("path", c.Path()).Msg("error no manejado")
		}
		return c.Status(code).JSON(fiber.Map{"success": false, "error": msg})
	}
}
