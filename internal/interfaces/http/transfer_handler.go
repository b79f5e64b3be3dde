package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/transfer"
	"github.com/jhoicas/Ventas-api/internal/domain"
)

// TransferHandler operaciones de operador sobre órdenes de traslado.
type TransferHandler struct {
	resubmit *transfer.ResubmitUseCase
	logger   zerolog.Logger
}

// NewTransferHandler construye el handler.
func NewTransferHandler(resubmit *transfer.ResubmitUseCase, logger zerolog.Logger) *TransferHandler {
	return &TransferHandler{resubmit: resubmit, logger: logger}
}

// Resubmit godoc
// @Summary      Reintentar orden de traslado en ERROR
// @Tags         transferencias
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Id de la orden"
// @Success      200  {object}  dto.TransferResubmitResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transferencias/{id}/reintentar [post]
func (h *TransferHandler) Resubmit(c *fiber.Ctx) error {
	id := c.Params("id")
	result, order, err := h.resubmit.Resubmit(c.UserContext(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "orden de traslado no encontrada"})
		case errors.Is(err, domain.ErrConflict):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
		}
		h.logger.Error().Err(err).Str("orden_id", id).Msg("reintento de traslado fallido")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo reintentar la orden"})
	}

	h.logger.Info().
		Str("orden_id", id).
		Str("usuario", GetUserID(c)).
		Str("resultado", string(result)).
		Msg("orden de traslado reenviada")

	out := dto.TransferResubmitResponse{OrdenID: id, Resultado: string(result)}
	if order != nil {
		out.Estado = order.Status
		out.Error = order.ErrorMessage
	}
	return c.JSON(out)
}
