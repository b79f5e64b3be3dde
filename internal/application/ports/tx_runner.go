package ports

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// TxRepos agrupa los repositorios atados a una misma transacción.
type TxRepos struct {
	Stock      repository.StockRepository
	Sales      repository.SaleRepository
	Movements  repository.MovementRepository
	Products   repository.ProductRepository
	Warehouses repository.WarehouseRepository
	Transfers  repository.TransferOrderRepository
}

// TxRunner ejecuta fn dentro de una unidad atómica: todo lo que fn escribe se confirma
// junto o no se confirma. Si fn devuelve error se hace Rollback.
// fn puede ejecutarse más de una vez cuando el motor aborta por conflicto de concurrencia,
// por lo que no debe tener efectos fuera de los repos recibidos.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos TxRepos) error) error
}
