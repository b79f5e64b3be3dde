package resilience_test

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Ventas-api/pkg/resilience"
)

var errBD = errors.New("conexión rechazada")

func newBreaker(isSuccessful func(error) bool) *resilience.CircuitBreaker {
	cfg := resilience.DefaultConfig("test")
	cfg.FailureThreshold = 2
	cfg.Timeout = time.Hour
	cfg.IsSuccessful = isSuccessful
	return resilience.NewCircuitBreaker(cfg, zerolog.Nop(), nil)
}

func TestExecute_AbreTrasFallosConsecutivos(t *testing.T) {
	cb := newBreaker(nil)

	assert.ErrorIs(t, cb.Execute(func() error { return errBD }), errBD)
	assert.ErrorIs(t, cb.Execute(func() error { return errBD }), errBD)
	assert.Equal(t, gobreaker.StateOpen, cb.State())

	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.False(t, called)
}

func TestExecute_ErroresExitososNoAbren(t *testing.T) {
	errCliente := errors.New("stock insuficiente")
	cb := newBreaker(func(err error) bool { return err == nil || errors.Is(err, errCliente) })

	for i := 0; i < 5; i++ {
		assert.ErrorIs(t, cb.Execute(func() error { return errCliente }), errCliente)
	}
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}
