package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Exists indica si ya hay una venta con esa clave.
func (r *SaleRepo) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sales WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("sale exists: %w", err)
	}
	return exists, nil
}

// Create inserta la cabecera y envía todas las líneas en un solo batch.
// Una inserción concurrente de la misma clave falla con 23505 y el TxRunner repite la transacción.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sales (id, local_id, client_id, client_name, seller_id, warehouse_id, payment_method,
			comments, total, total_units, status, synchronized, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.LocalID, s.ClientID, s.ClientName, s.SellerID, s.WarehouseID, s.PaymentMethod,
		s.Comments, s.Total, s.TotalUnits, s.Status, s.Synchronized, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	if len(s.Items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i, it := range s.Items {
		batch.Queue(`
			INSERT INTO sale_items (sale_id, position, product_id, name, unit_price, quantity, image_url)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			s.ID, i, it.ProductID, it.Name, it.UnitPrice, it.Quantity, it.ImageURL,
		)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range s.Items {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la venta con sus líneas. nil si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	query := `
		SELECT id, local_id, client_id, client_name, seller_id, warehouse_id, payment_method,
			comments, total, total_units, status, synchronized, created_at
		FROM sales WHERE id = $1`
	var s entity.Sale
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.LocalID, &s.ClientID, &s.ClientName, &s.SellerID, &s.WarehouseID, &s.PaymentMethod,
		&s.Comments, &s.Total, &s.TotalUnits, &s.Status, &s.Synchronized, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT product_id, name, unit_price, quantity, image_url
		FROM sale_items WHERE sale_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("get sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ProductID, &it.Name, &it.UnitPrice, &it.Quantity, &it.ImageURL); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		s.Items = append(s.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get sale items: %w", err)
	}
	return &s, nil
}
