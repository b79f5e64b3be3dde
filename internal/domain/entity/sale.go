package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta.
const (
	SaleStatusPending = "pendiente"
	SaleStatusPaid    = "pagada"
	SaleStatusError   = "error"
)

// Sale es una venta confirmada. ID es la clave de idempotencia (vendedor + venta local).
type Sale struct {
	ID            string
	LocalID       string
	ClientID      string
	ClientName    string
	SellerID      string
	WarehouseID   string
	PaymentMethod string
	Comments      string
	Total         decimal.Decimal
	TotalUnits    int64
	Status        string
	Synchronized  bool
	CreatedAt     time.Time
	Items         []SaleItem
}

// SaleItem es una línea de la venta, ya agrupada por producto.
type SaleItem struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int64
	ImageURL  string
}
