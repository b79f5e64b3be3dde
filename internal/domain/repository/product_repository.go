package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// ProductRepository define el puerto de consulta del catálogo.
type ProductRepository interface {
	// GetMany devuelve los productos existentes indexados por ID; los inexistentes no aparecen.
	GetMany(ctx context.Context, ids []string) (map[string]*entity.Product, error)
	Upsert(ctx context.Context, product *entity.Product) error
}
