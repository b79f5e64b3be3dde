package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// TransferOrderRepository define el puerto de persistencia de órdenes de traslado.
type TransferOrderRepository interface {
	GetByID(ctx context.Context, id string) (*entity.TransferOrder, error)
	// GetForUpdate bloquea la orden durante la transacción del traslado.
	GetForUpdate(ctx context.Context, id string) (*entity.TransferOrder, error)
	Create(ctx context.Context, order *entity.TransferOrder) error
	MarkExecuted(ctx context.Context, id string, at time.Time) error
	// MarkError deja la orden en ERROR (estado terminal) con el mensaje y la fecha del fallo.
	MarkError(ctx context.Context, id, message string, at time.Time) error
	// UpdateStatus cambia el estado y limpia el error previo.
	UpdateStatus(ctx context.Context, id, status string, at time.Time) error
}
