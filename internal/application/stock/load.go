package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/application/ports"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/sale"
)

// LoadRow fila de carga de catálogo + existencias (ej. exportada de una hoja de cálculo).
type LoadRow struct {
	ProductID     string
	Name          string
	Price         decimal.Decimal
	ImageURL      string
	WarehouseID   string
	WarehouseName string
	Quantity      int64
}

// LoadResult resumen de una carga.
type LoadResult struct {
	Rows        int
	Adjustments int // filas cuya cantidad cambió
}

// LoadUseCase fija el stock de varias filas en una sola transacción y registra un movimiento
// ADJUSTMENT con la diferencia firmada.
type LoadUseCase struct {
	tx     ports.TxRunner
	logger zerolog.Logger
	now    func() time.Time
}

// NewLoadUseCase construye el caso de uso.
func NewLoadUseCase(tx ports.TxRunner, logger zerolog.Logger) *LoadUseCase {
	return &LoadUseCase{tx: tx, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Load valida todas las filas antes de abrir la transacción.
func (uc *LoadUseCase) Load(ctx context.Context, rows []LoadRow) (LoadResult, error) {
	if len(rows) == 0 {
		return LoadResult{}, domain.Invalid("no hay filas para cargar")
	}
	for i := range rows {
		r := &rows[i]
		r.ProductID = sale.CanonicalProductID(r.ProductID)
		r.WarehouseID = sale.NormalizeID(r.WarehouseID)
		switch {
		case r.ProductID == "":
			return LoadResult{}, domain.Invalid("fila %d: id de producto obligatorio", i+1)
		case r.WarehouseID == "":
			return LoadResult{}, domain.Invalid("fila %d: almacén obligatorio", i+1)
		case r.Quantity < 0:
			return LoadResult{}, domain.Invalid("fila %d: la cantidad no puede ser negativa", i+1)
		case r.Price.IsNegative():
			return LoadResult{}, domain.Invalid("fila %d: el precio no puede ser negativo", i+1)
		}
	}

	var res LoadResult
	err := uc.tx.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		res = LoadResult{}
		now := uc.now()
		for _, r := range rows {
			if err := repos.Products.Upsert(ctx, &entity.Product{
				ID: r.ProductID, Name: r.Name, Price: r.Price, ImageURL: r.ImageURL,
				Active: true, CreatedAt: now, UpdatedAt: now,
			}); err != nil {
				return err
			}
			whName := r.WarehouseName
			if whName == "" {
				whName = r.WarehouseID
			}
			if err := repos.Warehouses.Upsert(ctx, &entity.Warehouse{ID: r.WarehouseID, Name: whName, CreatedAt: now, UpdatedAt: now}); err != nil {
				return err
			}

			entry, err := repos.Stock.GetForUpdate(ctx, r.ProductID, r.WarehouseID)
			if err != nil {
				return err
			}
			var before int64
			if entry == nil {
				entry = &entity.StockEntry{ProductID: r.ProductID, WarehouseID: r.WarehouseID}
			} else {
				before = entry.AvailableQuantity
			}
			entry.AvailableQuantity = r.Quantity
			entry.UpdatedAt = now
			if err := repos.Stock.Save(ctx, entry); err != nil {
				return err
			}
			res.Rows++

			delta := r.Quantity - before
			if delta == 0 {
				continue
			}
			res.Adjustments++
			if err := repos.Movements.Create(ctx, &entity.StockMovement{
				ID:            uuid.New().String(),
				Type:          entity.MovementTypeAdjustment,
				ProductID:     r.ProductID,
				ProductName:   r.Name,
				UnitPrice:     r.Price,
				Quantity:      delta,
				WarehouseID:   r.WarehouseID,
				WarehouseName: whName,
				CreatedAt:     now,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return LoadResult{}, err
	}
	uc.logger.Info().Int("filas", res.Rows).Int("ajustes", res.Adjustments).Msg("carga de stock aplicada")
	return res, nil
}
