package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia de ventas y sus líneas.
type SaleRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
	// Create inserta la cabecera y todas las líneas.
	Create(ctx context.Context, sale *entity.Sale) error
	// GetByID devuelve nil, nil si la venta no existe.
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
}
