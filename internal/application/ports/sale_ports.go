package ports

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// SaleKeyCache recuerda claves de ventas ya confirmadas para responder reintentos sin abrir transacción.
// Solo se escribe después del Commit, así que un acierto siempre es una venta existente.
type SaleKeyCache interface {
	Lookup(ctx context.Context, saleID string) (bool, error)
	Remember(ctx context.Context, saleID string) error
}

// SaleEventPublisher publica el evento de venta registrada hacia otros sistemas.
type SaleEventPublisher interface {
	PublishSaleRegistered(ctx context.Context, event dto.SaleRegisteredEvent) error
}

// ReceiptGenerator genera el comprobante de una venta (PDF).
type ReceiptGenerator interface {
	GenerateReceipt(sale *entity.Sale) ([]byte, error)
}
