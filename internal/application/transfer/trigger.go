package transfer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Ventas-api/internal/application/ports"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/pkg/metrics"
)

// Result resultado de procesar un cambio de orden.
type Result string

const (
	ResultIgnored  Result = metrics.TransferIgnored
	ResultExecuted Result = metrics.TransferExecuted
	ResultError    Result = metrics.TransferError
)

// TransferOrderChange par {antes, después} de una escritura sobre una orden. Before es nil al crearla.
type TransferOrderChange struct {
	Before *entity.TransferOrder
	After  *entity.TransferOrder
}

// IsAcceptedEdge es verdadero solo en la transición hacia ACCEPTED, no mientras la orden sigue en ACCEPTED.
func IsAcceptedEdge(before, after *entity.TransferOrder) bool {
	if after == nil || after.Status != entity.TransferStatusAccepted {
		return false
	}
	return before == nil || before.Status != entity.TransferStatusAccepted
}

// AcceptedTrigger ejecuta el traslado una vez por cada transición a ACCEPTED. Si el traslado
// falla la orden queda en ERROR con el mensaje; no se reintenta automáticamente.
type AcceptedTrigger struct {
	exec    *ExecuteTransferUseCase
	tx      ports.TxRunner
	logger  zerolog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewAcceptedTrigger construye el disparador. m puede ser nil.
func NewAcceptedTrigger(exec *ExecuteTransferUseCase, tx ports.TxRunner, logger zerolog.Logger, m *metrics.Metrics) *AcceptedTrigger {
	return &AcceptedTrigger{
		exec:    exec,
		tx:      tx,
		logger:  logger,
		metrics: m,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Handle procesa un cambio. El error solo se devuelve cuando no se pudo ni ejecutar ni dejar
// la orden en ERROR; quien entrega el evento debe reintentarlo.
func (t *AcceptedTrigger) Handle(ctx context.Context, change TransferOrderChange) (Result, error) {
	if !IsAcceptedEdge(change.Before, change.After) {
		t.metrics.RecordTransfer(metrics.TransferIgnored)
		return ResultIgnored, nil
	}
	log := t.logger.With().Str("orden_id", change.After.ID).Logger()

	executed, err := t.exec.Execute(ctx, change.After)
	if err == nil {
		if !executed {
			t.metrics.RecordTransfer(metrics.TransferIgnored)
			return ResultIgnored, nil
		}
		t.metrics.RecordTransfer(metrics.TransferExecuted)
		return ResultExecuted, nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ResultError, err
	}

	log.Error().Err(err).Msg("traslado fallido; la orden pasa a ERROR")
	if markErr := t.markError(ctx, change.After, err.Error()); markErr != nil {
		log.Error().Err(markErr).Msg("no se pudo marcar la orden en ERROR")
		return ResultError, fmt.Errorf("marcar orden %s en ERROR: %w", change.After.ID, markErr)
	}
	t.metrics.RecordTransfer(metrics.TransferError)
	return ResultError, nil
}

func (t *AcceptedTrigger) markError(ctx context.Context, order *entity.TransferOrder, message string) error {
	now := t.now()
	return t.tx.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		current, err := repos.Transfers.GetForUpdate(ctx, order.ID)
		if err != nil {
			return err
		}
		if current == nil {
			// La orden llegó solo por el evento y su creación se revirtió con el traslado.
			o := cloneOrder(order)
			o.Status = entity.TransferStatusError
			o.ErrorMessage = message
			o.ErrorAt = &now
			o.UpdatedAt = now
			if o.CreatedAt.IsZero() {
				o.CreatedAt = now
			}
			return repos.Transfers.Create(ctx, o)
		}
		return repos.Transfers.MarkError(ctx, order.ID, message, now)
	})
}
