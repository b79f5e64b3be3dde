package resilience

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/jhoicas/Ventas-api/pkg/metrics"
)

// ErrCircuitOpen se devuelve cuando el breaker rechaza la llamada sin ejecutarla.
var ErrCircuitOpen = errors.New("circuit breaker abierto")

// Config configuración de un circuit breaker.
type Config struct {
	Name             string
	MaxRequests      uint32        // peticiones permitidas en half-open
	Interval         time.Duration // ventana para limpiar contadores en closed (0 = nunca)
	Timeout          time.Duration // tiempo en open antes de pasar a half-open
	FailureThreshold uint32        // fallos consecutivos para abrir
	// IsSuccessful decide qué errores NO cuentan como fallo. nil = solo err == nil es éxito.
	IsSuccessful func(err error) bool
}

// DefaultConfig valores por defecto.
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// CircuitBreaker envuelve gobreaker con logging y métricas.
type CircuitBreaker struct {
	cb     *gobreaker.CircuitBreaker
	name   string
	logger zerolog.Logger
}

// NewCircuitBreaker crea el breaker. m puede ser nil.
func NewCircuitBreaker(cfg Config, logger zerolog.Logger, m *metrics.Metrics) *CircuitBreaker {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("cambio de estado del circuit breaker")
			m.SetBreakerState(name, int(to))
		},
		IsSuccessful: cfg.IsSuccessful,
	}
	m.SetBreakerState(cfg.Name, int(gobreaker.StateClosed))
	return &CircuitBreaker{
		cb:     gobreaker.NewCircuitBreaker(settings),
		name:   cfg.Name,
		logger: logger,
	}
}

// Execute ejecuta fn a través del breaker. Con el breaker abierto devuelve ErrCircuitOpen sin ejecutar fn.
func (c *CircuitBreaker) Execute(fn func() error) error {
	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		c.logger.Warn().Str("breaker", c.name).Err(err).Msg("llamada rechazada por el circuit breaker")
		return fmt.Errorf("%w: %s", ErrCircuitOpen, c.name)
	}
	return err
}

// State estado actual del breaker.
func (c *CircuitBreaker) State() gobreaker.State {
	return c.cb.State()
}

// Name nombre del breaker.
func (c *CircuitBreaker) Name() string {
	return c.name
}
