package http

import (
	"errors"
	"mime"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/sale"
	"github.com/jhoicas/Ventas-api/internal/domain"
)

const internalErrorMessage = "error interno al procesar la venta"

// SaleHandler maneja el registro y la consulta de ventas.
type SaleHandler struct {
	register *sale.RegisterSaleUseCase
	query    *sale.QueryUseCase
	logger   zerolog.Logger
}

// NewSaleHandler construye el handler.
func NewSaleHandler(register *sale.RegisterSaleUseCase, query *sale.QueryUseCase, logger zerolog.Logger) *SaleHandler {
	return &SaleHandler{register: register, query: query, logger: logger}
}

// Register godoc
// @Summary      Registrar venta
// @Tags         ventas
// @Security     ApiKey
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterSaleRequest  true  "Venta"
// @Success      200   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.SaleResponse
// @Failure      401   {object}  dto.SaleResponse
// @Failure      405   {object}  dto.SaleResponse
// @Failure      500   {object}  dto.SaleResponse
// @Router       /api/ventas [post]
func (h *SaleHandler) Register(c *fiber.Ctx) error {
	in, err := dto.ParseRegisterSaleRequest(c.Body())
	if err != nil {
		return h.fail(c, err)
	}
	ventaID, err := h.register.RegisterSaleFromRequest(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.SaleResponse{Success: true, VentaID: ventaID})
}

// GetByID godoc
// @Summary      Consultar venta
// @Tags         ventas
// @Security     ApiKey
// @Produce      json
// @Param        id   path  string  true  "Id de la venta (vendedor_local)"
// @Success      200  {object}  dto.SaleDetailResponse
// @Failure      404  {object}  dto.SaleResponse
// @Router       /api/ventas/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	s, err := h.query.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.SaleToResponse(s))
}

// Receipt godoc
// @Summary      Comprobante PDF de la venta
// @Tags         ventas
// @Security     ApiKey
// @Produce      application/pdf
// @Param        id   path  string  true  "Id de la venta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.SaleResponse
// @Router       /api/ventas/{id}/recibo [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	id := c.Params("id")
	pdf, err := h.query.Receipt(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, receiptDisposition(id))
	return c.Send(pdf)
}

// receiptDisposition cita el nombre de archivo; el id llega del path y puede traer comillas o ';'.
func receiptDisposition(id string) string {
	if v := mime.FormatMediaType("inline", map[string]string{"filename": "venta-" + id + ".pdf"}); v != "" {
		return v
	}
	return "inline"
}

func (h *SaleHandler) fail(c *fiber.Ctx, err error) error {
	status := saleErrorStatus(err)
	msg := err.Error()
	if status >= fiber.StatusInternalServerError {
		h.logger.Error().Err(err).Str("path", c.Path()).Msg("error interno en ventas")
		msg = internalErrorMessage
	}
	return c.Status(status).JSON(dto.SaleResponse{Success: false, Error: msg})
}

func saleErrorStatus(err error) int {
	switch {
	case errors.Is(err, dto.ErrProductosNotList), errors.Is(err, dto.ErrInvalidJSON), domain.IsClientError(err):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}
