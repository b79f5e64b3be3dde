package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementTypeSale       = "SALE"       // venta desde el almacén del vendedor
	MovementTypeTransfer   = "TRANSFER"   // traslado entre almacenes
	MovementTypeAdjustment = "ADJUSTMENT" // carga inicial o ajuste manual
)

// StockMovement es un registro append-only de cada cambio en el ledger.
// Quantity es negativo cuando el stock sale del almacén y positivo cuando entra.
type StockMovement struct {
	ID            string
	Type          string
	ProductID     string
	ProductName   string
	UnitPrice     decimal.Decimal
	Quantity      int64
	WarehouseID   string
	WarehouseName string
	SellerID      string
	ClientID      string
	SaleID        string // venta u orden de traslado que originó el movimiento
	CreatedAt     time.Time
}
