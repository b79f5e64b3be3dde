package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo log append-only de movimientos de stock.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create inserta un movimiento.
func (r *MovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, type, product_id, product_name, unit_price, quantity,
			warehouse_id, warehouse_name, seller_id, client_id, sale_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.Type, m.ProductID, m.ProductName, m.UnitPrice, m.Quantity,
		m.WarehouseID, m.WarehouseName, m.SellerID, m.ClientID, m.SaleID, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// ListBySale lista los movimientos de una venta u orden de traslado.
func (r *MovementRepo) ListBySale(ctx context.Context, saleID string) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, type, product_id, product_name, unit_price, quantity,
			warehouse_id, warehouse_name, seller_id, client_id, sale_id, created_at
		FROM stock_movements WHERE sale_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(
			&m.ID, &m.Type, &m.ProductID, &m.ProductName, &m.UnitPrice, &m.Quantity,
			&m.WarehouseID, &m.WarehouseName, &m.SellerID, &m.ClientID, &m.SaleID, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
