package dto

import (
	"strings"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// TransferOrderSnapshot estado de una orden de traslado en un instante (antes o después de un cambio).
type TransferOrderSnapshot struct {
	ID               string                `json:"id"`
	AlmacenOrigenID  string                `json:"almacenOrigenId"`
	AlmacenDestinoID string                `json:"almacenDestinoId"`
	SolicitadoPor    string                `json:"solicitadoPor,omitempty"`
	Estado           string                `json:"estado"`
	Productos        []TransferItemPayload `json:"productos"`
	ActualizadoEn    time.Time             `json:"actualizadoEn"`
}

// TransferItemPayload línea de producto de la orden.
type TransferItemPayload struct {
	ID       string `json:"id"`
	Nombre   string `json:"nombre"`
	Cantidad int64  `json:"cantidad"`
}

// TransferOrderChangeEvent mensaje de cambio de documento {before, after} recibido por la cola.
// Before es nil cuando la orden se crea.
type TransferOrderChangeEvent struct {
	Before *TransferOrderSnapshot `json:"before"`
	After  *TransferOrderSnapshot `json:"after"`
}

// ToEntity convierte el snapshot en la entidad de dominio.
func (s *TransferOrderSnapshot) ToEntity() *entity.TransferOrder {
	if s == nil {
		return nil
	}
	items := make([]entity.TransferItem, 0, len(s.Productos))
	for _, p := range s.Productos {
		items = append(items, entity.TransferItem{
			ProductID: strings.TrimSpace(p.ID),
			Name:      p.Nombre,
			Quantity:  p.Cantidad,
		})
	}
	return &entity.TransferOrder{
		ID:                     strings.TrimSpace(s.ID),
		SourceWarehouseID:      strings.TrimSpace(s.AlmacenOrigenID),
		DestinationWarehouseID: strings.TrimSpace(s.AlmacenDestinoID),
		RequestedBy:            s.SolicitadoPor,
		Status:                 strings.TrimSpace(s.Estado),
		Items:                  items,
		UpdatedAt:              s.ActualizadoEn,
	}
}

// SnapshotFromEntity construye el snapshot de una orden.
func SnapshotFromEntity(o *entity.TransferOrder) *TransferOrderSnapshot {
	if o == nil {
		return nil
	}
	items := make([]TransferItemPayload, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, TransferItemPayload{ID: it.ProductID, Nombre: it.Name, Cantidad: it.Quantity})
	}
	return &TransferOrderSnapshot{
		ID:               o.ID,
		AlmacenOrigenID:  o.SourceWarehouseID,
		AlmacenDestinoID: o.DestinationWarehouseID,
		SolicitadoPor:    o.RequestedBy,
		Estado:           o.Status,
		Productos:        items,
		ActualizadoEn:    o.UpdatedAt,
	}
}

// TransferResubmitResponse respuesta de POST /api/transferencias/:id/reintentar.
type TransferResubmitResponse struct {
	OrdenID   string `json:"ordenId"`
	Resultado string `json:"resultado"`
	Estado    string `json:"estado"`
	Error     string `json:"error,omitempty"`
}
