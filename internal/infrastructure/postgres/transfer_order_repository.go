package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.TransferOrderRepository = (*TransferOrderRepo)(nil)

// TransferOrderRepo implementación de TransferOrderRepository sobre PostgreSQL.
type TransferOrderRepo struct {
	q Querier
}

// NewTransferOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferOrderRepository(q Querier) *TransferOrderRepo {
	return &TransferOrderRepo{q: q}
}

const selectTransferOrder = `
	SELECT id, source_warehouse_id, destination_warehouse_id, requested_by, status,
		error_message, error_at, executed_at, created_at, updated_at
	FROM transfer_orders WHERE id = $1`

// GetByID obtiene la orden con sus líneas. nil si no existe.
func (r *TransferOrderRepo) GetByID(ctx context.Context, id string) (*entity.TransferOrder, error) {
	return r.get(ctx, selectTransferOrder, id)
}

// GetForUpdate igual que GetByID pero bloquea la fila de la orden.
func (r *TransferOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.TransferOrder, error) {
	return r.get(ctx, selectTransferOrder+" FOR UPDATE", id)
}

func (r *TransferOrderRepo) get(ctx context.Context, query, id string) (*entity.TransferOrder, error) {
	var o entity.TransferOrder
	err := r.q.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.SourceWarehouseID, &o.DestinationWarehouseID, &o.RequestedBy, &o.Status,
		&o.ErrorMessage, &o.ErrorAt, &o.ExecutedAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer order: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT product_id, name, quantity
		FROM transfer_order_items WHERE order_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("get transfer order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.TransferItem
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan transfer order item: %w", err)
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get transfer order items: %w", err)
	}
	return &o, nil
}

// Create inserta la orden y sus líneas.
func (r *TransferOrderRepo) Create(ctx context.Context, o *entity.TransferOrder) error {
	query := `
		INSERT INTO transfer_orders (id, source_warehouse_id, destination_warehouse_id, requested_by, status,
			error_message, error_at, executed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.SourceWarehouseID, o.DestinationWarehouseID, o.RequestedBy, o.Status,
		o.ErrorMessage, o.ErrorAt, o.ExecutedAt, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transfer order: %w", err)
	}
	if len(o.Items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i, it := range o.Items {
		batch.Queue(`
			INSERT INTO transfer_order_items (order_id, position, product_id, name, quantity)
			VALUES ($1, $2, $3, $4, $5)`,
			o.ID, i, it.ProductID, it.Name, it.Quantity,
		)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range o.Items {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert transfer order item: %w", err)
		}
	}
	return nil
}

// MarkExecuted deja constancia de que el traslado ya se aplicó al ledger.
func (r *TransferOrderRepo) MarkExecuted(ctx context.Context, id string, at time.Time) error {
	return r.exec(ctx, "mark executed",
		`UPDATE transfer_orders SET executed_at = $2, updated_at = $2 WHERE id = $1`, id, at)
}

// MarkError pasa la orden a ERROR con el mensaje y la fecha del fallo.
func (r *TransferOrderRepo) MarkError(ctx context.Context, id, message string, at time.Time) error {
	return r.exec(ctx, "mark error", `
		UPDATE transfer_orders
		SET status = $2, error_message = $3, error_at = $4, updated_at = $4
		WHERE id = $1`, id, entity.TransferStatusError, message, at)
}

// UpdateStatus cambia el estado y limpia el error previo.
func (r *TransferOrderRepo) UpdateStatus(ctx context.Context, id, status string, at time.Time) error {
	return r.exec(ctx, "update status", `
		UPDATE transfer_orders
		SET status = $2, error_message = '', error_at = NULL, updated_at = $3
		WHERE id = $1`, id, status, at)
}

func (r *TransferOrderRepo) exec(ctx context.Context, op, query string, args ...any) error {
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("transfer order %s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transfer order %s: %w", op, domain.ErrNotFound)
	}
	return nil
}
