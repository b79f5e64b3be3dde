package entity

import "time"

// StockEntry es el contador de unidades disponibles de un producto en un almacén.
// AvailableQuantity nunca es negativo; solo se modifica dentro de una transacción.
type StockEntry struct {
	ProductID         string
	WarehouseID       string
	AvailableQuantity int64
	UpdatedAt         time.Time
}
