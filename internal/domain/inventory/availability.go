// Package inventory contiene las reglas del ledger compartidas por ventas, traslados y cargas.
package inventory

import (
	"fmt"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// Request cantidad que se quiere sacar de un almacén.
type Request struct {
	ProductID   string
	Name        string
	WarehouseID string
	Quantity    int64
}

// CheckAvailability valida que el producto exista, que tenga entrada en el ledger del almacén
// y que alcance la cantidad. Los errores cumplen errors.Is(err, domain.ErrPrecondition).
func CheckAvailability(req Request, product *entity.Product, entry *entity.StockEntry) error {
	if product == nil {
		return fmt.Errorf("%w: %s", domain.ErrProductNotFound, req.ProductID)
	}
	if entry == nil {
		return fmt.Errorf("%w para el producto %s en el almacén %s", domain.ErrStockEntryNotFound, req.ProductID, req.WarehouseID)
	}
	if entry.AvailableQuantity < req.Quantity {
		name := req.Name
		if name == "" {
			name = product.Name
		}
		return fmt.Errorf("%w para el producto %s (%s): disponible %d, solicitado %d",
			domain.ErrInsufficientStock, req.ProductID, name, entry.AvailableQuantity, req.Quantity)
	}
	return nil
}
