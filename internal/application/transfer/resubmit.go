package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Ventas-api/internal/application/ports"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// ResubmitUseCase permite a un operador reenviar una orden en ERROR: la devuelve a ACCEPTED
// y pasa el cambio por el mismo disparador.
type ResubmitUseCase struct {
	tx      ports.TxRunner
	trigger *AcceptedTrigger
	now     func() time.Time
}

// NewResubmitUseCase construye el caso de uso.
func NewResubmitUseCase(tx ports.TxRunner, trigger *AcceptedTrigger) *ResubmitUseCase {
	return &ResubmitUseCase{tx: tx, trigger: trigger, now: func() time.Time { return time.Now().UTC() }}
}

// Resubmit devuelve el resultado del disparador y el estado final de la orden.
func (uc *ResubmitUseCase) Resubmit(ctx context.Context, orderID string) (Result, *entity.TransferOrder, error) {
	var change TransferOrderChange
	err := uc.tx.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		current, err := repos.Transfers.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("orden %s: %w", orderID, domain.ErrNotFound)
		}
		if current.Status != entity.TransferStatusError {
			return fmt.Errorf("%w: la orden %s está en %s, solo se reintentan órdenes en ERROR",
				domain.ErrConflict, orderID, current.Status)
		}
		now := uc.now()
		if err := repos.Transfers.UpdateStatus(ctx, orderID, entity.TransferStatusAccepted, now); err != nil {
			return err
		}
		after := cloneOrder(current)
		after.Status = entity.TransferStatusAccepted
		after.ErrorMessage = ""
		after.ErrorAt = nil
		after.UpdatedAt = now
		change = TransferOrderChange{Before: current, After: after}
		return nil
	})
	if err != nil {
		return ResultError, nil, err
	}

	result, err := uc.trigger.Handle(ctx, change)
	if err != nil {
		return result, nil, err
	}

	var final *entity.TransferOrder
	err = uc.tx.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		var err error
		final, err = repos.Transfers.GetByID(ctx, orderID)
		return err
	})
	return result, final, err
}
