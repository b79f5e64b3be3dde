package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// StockRepository define el puerto del ledger de stock por producto+almacén.
// Solo se usa dentro de transacciones (TxRunner).
type StockRepository interface {
	// GetManyForUpdate lee y bloquea las entradas de varios productos en un almacén con una sola consulta.
	// Los productos sin entrada no aparecen en el mapa.
	GetManyForUpdate(ctx context.Context, warehouseID string, productIDs []string) (map[string]*entity.StockEntry, error)
	// GetForUpdate devuelve nil si no existe entrada para el par.
	GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.StockEntry, error)
	Save(ctx context.Context, entry *entity.StockEntry) error
}
