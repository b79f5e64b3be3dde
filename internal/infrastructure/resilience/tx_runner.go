package resilience

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Ventas-api/internal/application/ports"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/pkg/metrics"
	"github.com/jhoicas/Ventas-api/pkg/resilience"
)

var _ ports.TxRunner = (*BreakerTxRunner)(nil)

// BreakerTxRunner protege un TxRunner con un circuit breaker. Solo los fallos de
// infraestructura abren el circuito; los errores de validación y precondición no cuentan.
type BreakerTxRunner struct {
	next ports.TxRunner
	cb   *resilience.CircuitBreaker
}

// NewBreakerTxRunner envuelve next con un breaker configurado con cfg.
func NewBreakerTxRunner(next ports.TxRunner, cfg resilience.Config, logger zerolog.Logger, m *metrics.Metrics) *BreakerTxRunner {
	cfg.IsSuccessful = IsSuccessful
	return &BreakerTxRunner{next: next, cb: resilience.NewCircuitBreaker(cfg, logger, m)}
}

// Run ejecuta la transacción a través del breaker.
func (r *BreakerTxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos ports.TxRepos) error) error {
	err := r.cb.Execute(func() error {
		return r.next.Run(ctx, fn)
	})
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return fmt.Errorf("%w: %w", domain.ErrUnavailable, err)
	}
	return err
}

// IsSuccessful indica si err no es un fallo de la base de datos.
func IsSuccessful(err error) bool {
	switch {
	case err == nil:
		return true
	case domain.IsClientError(err),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, context.Canceled):
		return true
	}
	return false
}
