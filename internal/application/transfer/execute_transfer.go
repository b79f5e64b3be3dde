package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Ventas-api/internal/application/ports"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/inventory"
	"github.com/jhoicas/Ventas-api/internal/domain/sale"
)

// ExecuteTransferUseCase aplica una orden de traslado aceptada al ledger en una sola transacción:
// descuenta el almacén origen, suma al destino y deja dos movimientos TRANSFER por producto.
type ExecuteTransferUseCase struct {
	tx     ports.TxRunner
	logger zerolog.Logger
	now    func() time.Time
}

// NewExecuteTransferUseCase construye el caso de uso.
func NewExecuteTransferUseCase(tx ports.TxRunner, logger zerolog.Logger) *ExecuteTransferUseCase {
	return &ExecuteTransferUseCase{tx: tx, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Execute aplica la orden. Devuelve false sin error si la orden ya se había aplicado.
// Si la orden no existe todavía se registra a partir de order.
func (uc *ExecuteTransferUseCase) Execute(ctx context.Context, order *entity.TransferOrder) (bool, error) {
	if order == nil || order.ID == "" {
		return false, domain.Invalid("orden de traslado sin id")
	}
	log := uc.logger.With().Str("orden_id", order.ID).Logger()

	var executed bool
	err := uc.tx.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		executed = false

		current, err := repos.Transfers.GetForUpdate(ctx, order.ID)
		if err != nil {
			return err
		}
		if current == nil {
			current = cloneOrder(order)
			current.Status = entity.TransferStatusAccepted
			if current.CreatedAt.IsZero() {
				current.CreatedAt = uc.now()
			}
			current.UpdatedAt = uc.now()
			if err := repos.Transfers.Create(ctx, current); err != nil {
				return err
			}
		}
		if current.ExecutedAt != nil {
			log.Info().Time("ejecutada_en", *current.ExecutedAt).Msg("traslado ya aplicado; se ignora")
			return nil
		}
		if err := uc.apply(ctx, log, repos, current); err != nil {
			return err
		}
		executed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return executed, nil
}

func (uc *ExecuteTransferUseCase) apply(ctx context.Context, log zerolog.Logger, repos ports.TxRepos, order *entity.TransferOrder) error {
	src, dst := sale.NormalizeID(order.SourceWarehouseID), sale.NormalizeID(order.DestinationWarehouseID)
	if src == "" || dst == "" {
		return domain.Invalid("la orden necesita almacén origen y destino")
	}
	if src == dst {
		return domain.Invalid("el almacén origen y destino son el mismo (%s)", src)
	}

	raw := make([]sale.Line, 0, len(order.Items))
	for _, it := range order.Items {
		raw = append(raw, sale.Line{ProductID: it.ProductID, Name: it.Name, Quantity: it.Quantity})
	}
	lines, err := sale.GroupLines(raw)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}

	srcStock, err := repos.Stock.GetManyForUpdate(ctx, src, ids)
	if err != nil {
		return err
	}
	dstStock, err := repos.Stock.GetManyForUpdate(ctx, dst, ids)
	if err != nil {
		return err
	}
	products, err := repos.Products.GetMany(ctx, ids)
	if err != nil {
		return err
	}

	for _, l := range lines {
		req := inventory.Request{ProductID: l.ProductID, Name: l.Name, WarehouseID: src, Quantity: l.Quantity}
		if err := inventory.CheckAvailability(req, products[l.ProductID], srcStock[l.ProductID]); err != nil {
			log.Warn().Err(err).Str("producto_id", l.ProductID).Int64("solicitado", l.Quantity).Msg("traslado rechazado en validación de stock")
			return err
		}
	}

	srcName, err := warehouseName(ctx, repos, src)
	if err != nil {
		return err
	}
	dstName, err := warehouseName(ctx, repos, dst)
	if err != nil {
		return err
	}

	now := uc.now()
	for _, l := range lines {
		product := products[l.ProductID]
		name := l.Name
		if name == "" {
			name = product.Name
		}

		out := srcStock[l.ProductID]
		out.AvailableQuantity -= l.Quantity
		out.UpdatedAt = now
		if err := repos.Stock.Save(ctx, out); err != nil {
			return err
		}

		in, ok := dstStock[l.ProductID]
		if !ok || in == nil {
			in = &entity.StockEntry{ProductID: l.ProductID, WarehouseID: dst}
		}
		in.AvailableQuantity += l.Quantity
		in.UpdatedAt = now
		if err := repos.Stock.Save(ctx, in); err != nil {
			return err
		}

		for _, m := range []struct {
			warehouseID, warehouseName string
			qty                        int64
		}{
			{src, srcName, -l.Quantity},
			{dst, dstName, l.Quantity},
		} {
			mov := &entity.StockMovement{
				ID:            uuid.New().String(),
				Type:          entity.MovementTypeTransfer,
				ProductID:     l.ProductID,
				ProductName:   name,
				UnitPrice:     product.Price,
				Quantity:      m.qty,
				WarehouseID:   m.warehouseID,
				WarehouseName: m.warehouseName,
				SellerID:      order.RequestedBy,
				SaleID:        order.ID,
				CreatedAt:     now,
			}
			if err := repos.Movements.Create(ctx, mov); err != nil {
				return err
			}
		}
	}

	if err := repos.Transfers.MarkExecuted(ctx, order.ID, now); err != nil {
		return fmt.Errorf("marcar orden ejecutada: %w", err)
	}
	log.Info().Str("origen", src).Str("destino", dst).Int("productos", len(lines)).Msg("traslado aplicado")
	return nil
}

func warehouseName(ctx context.Context, repos ports.TxRepos, id string) (string, error) {
	wh, err := repos.Warehouses.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if wh == nil || wh.Name == "" {
		return id, nil
	}
	return wh.Name, nil
}

func cloneOrder(o *entity.TransferOrder) *entity.TransferOrder {
	c := *o
	c.Items = append([]entity.TransferItem(nil), o.Items...)
	return &c
}
