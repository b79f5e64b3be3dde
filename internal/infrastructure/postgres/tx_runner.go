package postgres

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Ventas-api/internal/application/ports"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/pkg/metrics"
)

var _ ports.TxRunner = (*TxRunner)(nil)

const (
	defaultMaxAttempts = 5
	retryBaseDelay     = 20 * time.Millisecond
	retryMaxDelay      = time.Second
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL SERIALIZABLE y la repite
// cuando el motor la aborta por conflicto.
type TxRunner struct {
	pool        *pgxpool.Pool
	maxAttempts int
	logger      zerolog.Logger
	metrics     *metrics.Metrics
}

// NewTxRunner construye el runner con el pool. maxAttempts <= 0 usa el valor por defecto.
func NewTxRunner(pool *pgxpool.Pool, maxAttempts int, logger zerolog.Logger, m *metrics.Metrics) *TxRunner {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &TxRunner{pool: pool, maxAttempts: maxAttempts, logger: logger, metrics: m}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos ports.TxRepos) error) error {
	onRetry := func(attempt int, err error) {
		r.metrics.RecordTxRetry()
		r.logger.Debug().Err(err).Int("intento", attempt).Msg("conflicto de transacción; se reintenta")
	}
	return retry(ctx, r.maxAttempts, onRetry, func() error {
		return r.runOnce(ctx, fn)
	})
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(ctx context.Context, repos ports.TxRepos) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, Repos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Repos construye todos los repositorios sobre el mismo Querier (pool o tx).
func Repos(q Querier) ports.TxRepos {
	return ports.TxRepos{
		Stock:      NewStockRepository(q),
		Sales:      NewSaleRepository(q),
		Movements:  NewMovementRepository(q),
		Products:   NewProductRepository(q),
		Warehouses: NewWarehouseRepository(q),
		Transfers:  NewTransferOrderRepository(q),
	}
}

// retry repite op mientras falle con un error reintentable, con backoff exponencial y jitter.
// Al agotar los intentos devuelve domain.ErrTxConflict.
func retry(ctx context.Context, maxAttempts int, onRetry func(attempt int, err error), op func() error) error {
	for attempt := 1; ; attempt++ {
		err := op()
		if err == nil || !isRetryable(err) {
			return err
		}
		if attempt >= maxAttempts {
			return fmt.Errorf("%w (%d intentos): %v", domain.ErrTxConflict, attempt, err)
		}
		if onRetry != nil {
			onRetry(attempt, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff(attempt)):
		}
	}
}

func backoff(attempt int) time.Duration {
	d := retryBaseDelay << (attempt - 1)
	if d > retryMaxDelay || d <= 0 {
		d = retryMaxDelay
	}
	return d/2 + rand.N(d/2+1)
}
