package memory

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/application/ports"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*committedSales)(nil)

// committedSales ejecuta cada operación como una transacción propia.
type committedSales struct{ s *Store }

func (c *committedSales) Exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := c.s.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		var err error
		ok, err = repos.Sales.Exists(ctx, id)
		return err
	})
	return ok, err
}

func (c *committedSales) Create(ctx context.Context, sale *entity.Sale) error {
	return c.s.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		return repos.Sales.Create(ctx, sale)
	})
}

func (c *committedSales) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := c.s.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		var err error
		out, err = repos.Sales.GetByID(ctx, id)
		return err
	})
	return out, err
}
