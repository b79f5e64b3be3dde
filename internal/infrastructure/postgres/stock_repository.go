package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// GetManyForUpdate bloquea las filas en orden de product_id para que dos transacciones no se crucen.
func (r *StockRepo) GetManyForUpdate(ctx context.Context, warehouseID string, productIDs []string) (map[string]*entity.StockEntry, error) {
	query := `
		SELECT product_id, warehouse_id, available_quantity, updated_at
		FROM stock_ledger
		WHERE warehouse_id = $1 AND product_id = ANY($2)
		ORDER BY product_id
		FOR UPDATE`
	rows, err := r.q.Query(ctx, query, warehouseID, productIDs)
	if err != nil {
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*entity.StockEntry, len(productIDs))
	for rows.Next() {
		var s entity.StockEntry
		if err := rows.Scan(&s.ProductID, &s.WarehouseID, &s.AvailableQuantity, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		out[s.ProductID] = &s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return out, nil
}

// GetForUpdate obtiene el stock y bloquea la fila para update (SELECT FOR UPDATE). nil si no existe.
func (r *StockRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.StockEntry, error) {
	query := `
		SELECT product_id, warehouse_id, available_quantity, updated_at
		FROM stock_ledger WHERE product_id = $1 AND warehouse_id = $2
		FOR UPDATE`
	var s entity.StockEntry
	err := r.q.QueryRow(ctx, query, productID, warehouseID).Scan(
		&s.ProductID, &s.WarehouseID, &s.AvailableQuantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return &s, nil
}

// Save inserta o actualiza la cantidad disponible (por producto y almacén).
// El CHECK (available_quantity >= 0) de la tabla rechaza cualquier cantidad negativa.
func (r *StockRepo) Save(ctx context.Context, entry *entity.StockEntry) error {
	query := `
		INSERT INTO stock_ledger (product_id, warehouse_id, available_quantity, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET available_quantity = EXCLUDED.available_quantity, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query, entry.ProductID, entry.WarehouseID, entry.AvailableQuantity, entry.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}
