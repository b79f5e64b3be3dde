package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// MovementRepository define el puerto del log append-only de movimientos.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListBySale(ctx context.Context, saleID string) ([]*entity.StockMovement, error)
}
