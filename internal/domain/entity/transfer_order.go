package entity

import "time"

// Estados de una orden de traslado.
const (
	TransferStatusPending  = "PENDIENTE"
	TransferStatusAccepted = "ACCEPTED"
	TransferStatusError    = "ERROR"
)

// TransferOrder mueve stock de un almacén origen a uno destino cuando pasa a ACCEPTED.
// ExecutedAt marca que el traslado ya se aplicó al ledger.
type TransferOrder struct {
	ID                     string
	SourceWarehouseID      string
	DestinationWarehouseID string
	RequestedBy            string
	Status                 string
	ErrorMessage           string
	ErrorAt                *time.Time
	ExecutedAt             *time.Time
	Items                  []TransferItem
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// TransferItem es una línea de la orden de traslado.
type TransferItem struct {
	ProductID string
	Name      string
	Quantity  int64
}
