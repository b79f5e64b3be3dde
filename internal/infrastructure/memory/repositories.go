package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var (
	_ repository.StockRepository         = (*stockRepo)(nil)
	_ repository.SaleRepository          = (*saleRepo)(nil)
	_ repository.MovementRepository      = (*movementRepo)(nil)
	_ repository.ProductRepository       = (*productRepo)(nil)
	_ repository.WarehouseRepository     = (*warehouseRepo)(nil)
	_ repository.TransferOrderRepository = (*transferRepo)(nil)
)

type stockRepo struct{ st *state }

func (r *stockRepo) GetManyForUpdate(_ context.Context, warehouseID string, productIDs []string) (map[string]*entity.StockEntry, error) {
	out := make(map[string]*entity.StockEntry, len(productIDs))
	for _, id := range productIDs {
		if e, ok := r.st.stock[stockKey{id, warehouseID}]; ok {
			e := e
			out[id] = &e
		}
	}
	return out, nil
}

func (r *stockRepo) GetForUpdate(_ context.Context, productID, warehouseID string) (*entity.StockEntry, error) {
	e, ok := r.st.stock[stockKey{productID, warehouseID}]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (r *stockRepo) Save(_ context.Context, entry *entity.StockEntry) error {
	if entry.AvailableQuantity < 0 {
		return fmt.Errorf("save stock %s/%s: cantidad negativa", entry.ProductID, entry.WarehouseID)
	}
	r.st.stock[stockKey{entry.ProductID, entry.WarehouseID}] = *entry
	return nil
}

type saleRepo struct{ st *state }

func (r *saleRepo) Exists(_ context.Context, id string) (bool, error) {
	_, ok := r.st.sales[id]
	return ok, nil
}

func (r *saleRepo) Create(_ context.Context, sale *entity.Sale) error {
	if _, ok := r.st.sales[sale.ID]; ok {
		return fmt.Errorf("create sale %s: %w", sale.ID, domain.ErrDuplicate)
	}
	s := *sale
	s.Items = append([]entity.SaleItem(nil), sale.Items...)
	r.st.sales[s.ID] = s
	return nil
}

func (r *saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	s, ok := r.st.sales[id]
	if !ok {
		return nil, nil
	}
	s.Items = append([]entity.SaleItem(nil), s.Items...)
	return &s, nil
}

type movementRepo struct{ st *state }

func (r *movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	r.st.movements = append(r.st.movements, *m)
	return nil
}

func (r *movementRepo) ListBySale(_ context.Context, saleID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.st.movements {
		if m.SaleID == saleID {
			m := m
			out = append(out, &m)
		}
	}
	return out, nil
}

type productRepo struct{ st *state }

func (r *productRepo) GetMany(_ context.Context, ids []string) (map[string]*entity.Product, error) {
	out := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.st.products[id]; ok && p.Active {
			p := p
			out[id] = &p
		}
	}
	return out, nil
}

func (r *productRepo) Upsert(_ context.Context, p *entity.Product) error {
	r.st.products[p.ID] = *p
	return nil
}

type warehouseRepo struct{ st *state }

func (r *warehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	w, ok := r.st.warehouses[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *warehouseRepo) Upsert(_ context.Context, w *entity.Warehouse) error {
	r.st.warehouses[w.ID] = *w
	return nil
}

type transferRepo struct{ st *state }

func (r *transferRepo) GetByID(_ context.Context, id string) (*entity.TransferOrder, error) {
	o, ok := r.st.transfers[id]
	if !ok {
		return nil, nil
	}
	o.Items = append([]entity.TransferItem(nil), o.Items...)
	return &o, nil
}

func (r *transferRepo) GetForUpdate(ctx context.Context, id string) (*entity.TransferOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *transferRepo) Create(_ context.Context, o *entity.TransferOrder) error {
	if _, ok := r.st.transfers[o.ID]; ok {
		return fmt.Errorf("create transfer order %s: %w", o.ID, domain.ErrDuplicate)
	}
	c := *o
	c.Items = append([]entity.TransferItem(nil), o.Items...)
	r.st.transfers[c.ID] = c
	return nil
}

func (r *transferRepo) update(id string, fn func(o *entity.TransferOrder)) error {
	o, ok := r.st.transfers[id]
	if !ok {
		return fmt.Errorf("transfer order %s: %w", id, domain.ErrNotFound)
	}
	fn(&o)
	r.st.transfers[id] = o
	return nil
}

func (r *transferRepo) MarkExecuted(_ context.Context, id string, at time.Time) error {
	return r.update(id, func(o *entity.TransferOrder) {
		o.ExecutedAt = &at
		o.UpdatedAt = at
	})
}

func (r *transferRepo) MarkError(_ context.Context, id, message string, at time.Time) error {
	return r.update(id, func(o *entity.TransferOrder) {
		o.Status = entity.TransferStatusError
		o.ErrorMessage = message
		o.ErrorAt = &at
		o.UpdatedAt = at
	})
}

func (r *transferRepo) UpdateStatus(_ context.Context, id, status string, at time.Time) error {
	return r.update(id, func(o *entity.TransferOrder) {
		o.Status = status
		o.ErrorMessage = ""
		o.ErrorAt = nil
		o.UpdatedAt = at
	})
}

func sortedMovements(ms []entity.StockMovement) []entity.StockMovement {
	out := append([]entity.StockMovement(nil), ms...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}
