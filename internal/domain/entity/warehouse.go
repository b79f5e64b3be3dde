package entity

import "time"

// Warehouse es un almacén (bodega central o el almacén móvil de un vendedor).
type Warehouse struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
