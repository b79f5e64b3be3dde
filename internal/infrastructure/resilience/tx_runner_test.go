package resilience_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Ventas-api/internal/application/ports"
	"github.com/jhoicas/Ventas-api/internal/domain"
	infraresilience "github.com/jhoicas/Ventas-api/internal/infrastructure/resilience"
	"github.com/jhoicas/Ventas-api/pkg/resilience"
)

type fakeRunner struct {
	err   error
	calls int
}

func (f *fakeRunner) Run(ctx context.Context, fn func(ctx context.Context, repos ports.TxRepos) error) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return fn(ctx, ports.TxRepos{})
}

func breakerCfg() resilience.Config {
	cfg := resilience.DefaultConfig("tx")
	cfg.FailureThreshold = 2
	cfg.Timeout = time.Hour
	return cfg
}

func TestBreakerTxRunner_AbiertoDevuelveUnavailable(t *testing.T) {
	inner := &fakeRunner{err: errors.New("dial tcp: connection refused")}
	r := infraresilience.NewBreakerTxRunner(inner, breakerCfg(), zerolog.Nop(), nil)
	noop := func(context.Context, ports.TxRepos) error { return nil }

	assert.Error(t, r.Run(context.Background(), noop))
	assert.Error(t, r.Run(context.Background(), noop))

	err := r.Run(context.Background(), noop)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, 2, inner.calls)
}

func TestBreakerTxRunner_ErroresDeNegocioNoAbren(t *testing.T) {
	inner := &fakeRunner{}
	r := infraresilience.NewBreakerTxRunner(inner, breakerCfg(), zerolog.Nop(), nil)
	insufficient := func(context.Context, ports.TxRepos) error {
		return fmt.Errorf("P1: %w", domain.ErrInsufficientStock)
	}

	for i := 0; i < 5; i++ {
		err := r.Run(context.Background(), insufficient)
		assert.ErrorIs(t, err, domain.ErrPrecondition)
	}
	assert.Equal(t, 5, inner.calls)
}

func TestIsSuccessful(t *testing.T) {
	assert.True(t, infraresilience.IsSuccessful(nil))
	assert.True(t, infraresilience.IsSuccessful(domain.Invalid("x")))
	assert.True(t, infraresilience.IsSuccessful(domain.ErrStockEntryNotFound))
	assert.True(t, infraresilience.IsSuccessful(context.Canceled))
	assert.False(t, infraresilience.IsSuccessful(domain.ErrTxConflict))
	assert.False(t, infraresilience.IsSuccessful(errors.New("boom")))
}
