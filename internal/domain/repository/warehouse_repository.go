package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// WarehouseRepository define el puerto de persistencia para almacenes.
type WarehouseRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	Upsert(ctx context.Context, warehouse *entity.Warehouse) error
}
