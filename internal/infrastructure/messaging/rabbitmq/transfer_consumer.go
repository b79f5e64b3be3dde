package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/transfer"
)

// ChangeHandler procesa un cambio de orden de traslado.
type ChangeHandler interface {
	Handle(ctx context.Context, change transfer.TransferOrderChange) (transfer.Result, error)
}

type action int

const (
	actionAck action = iota
	actionRequeue
	actionDrop
)

func (a action) String() string {
	switch a {
	case actionAck:
		return "ack"
	case actionRequeue:
		return "requeue"
	default:
		return "drop"
	}
}

// TransferChangeConsumer consume {before, after} de órdenes de traslado con ack manual.
type TransferChangeConsumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	handler ChangeHandler
	logger  zerolog.Logger
}

// NewTransferChangeConsumer conecta, declara la cola durable y limita a un mensaje en vuelo.
func NewTransferChangeConsumer(url, queue string, handler ChangeHandler, logger zerolog.Logger) (*TransferChangeConsumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("conectar rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("abrir canal: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declarar cola %s: %w", queue, err)
	}
	// Un mensaje a la vez: los cambios de una misma orden se procesan en orden.
	if err := ch.Qos(1, 0, false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("qos: %w", err)
	}
	return &TransferChangeConsumer{
		conn:    conn,
		channel: ch,
		queue:   queue,
		handler: handler,
		logger:  logger,
	}, nil
}

// Run consume hasta que ctx se cancele o el canal se cierre.
func (c *TransferChangeConsumer) Run(ctx context.Context) error {
	deliveries, err := c.channel.Consume(c.queue, "ventas-api", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consumir %s: %w", c.queue, err)
	}
	c.logger.Info().Str("queue", c.queue).Msg("escuchando cambios de órdenes de traslado")

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("canal de entregas cerrado")
			}
			c.settle(d, c.decide(ctx, d.Body))
		}
	}
}

func (c *TransferChangeConsumer) settle(d amqp.Delivery, a action) {
	var err error
	switch a {
	case actionAck:
		err = d.Ack(false)
	case actionRequeue:
		err = d.Nack(false, true)
	default:
		err = d.Nack(false, false)
	}
	if err != nil {
		c.logger.Error().Err(err).Str("accion", a.String()).Msg("no se pudo confirmar el mensaje")
	}
}

// decide procesa el cuerpo y devuelve qué hacer con la entrega.
// Un mensaje mal formado se descarta; un fallo de infraestructura se reencola.
func (c *TransferChangeConsumer) decide(ctx context.Context, body []byte) action {
	var event dto.TransferOrderChangeEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.logger.Warn().Err(err).Msg("mensaje de traslado ilegible; se descarta")
		return actionDrop
	}
	if event.After == nil || event.After.ID == "" {
		c.logger.Warn().Msg("mensaje de traslado sin orden; se descarta")
		return actionDrop
	}

	result, err := c.handler.Handle(ctx, transfer.TransferOrderChange{
		Before: event.Before.ToEntity(),
		After:  event.After.ToEntity(),
	})
	if err != nil {
		c.logger.Error().Err(err).Str("orden_id", event.After.ID).Msg("cambio de orden no procesado; se reencola")
		return actionRequeue
	}
	c.logger.Debug().Str("orden_id", event.After.ID).Str("resultado", string(result)).Msg("cambio de orden procesado")
	return actionAck
}

// Close cierra canal y conexión.
func (c *TransferChangeConsumer) Close() error {
	var errs []error
	if c.channel != nil {
		errs = append(errs, c.channel.Close())
	}
	if c.conn != nil {
		errs = append(errs, c.conn.Close())
	}
	return errors.Join(errs...)
}
