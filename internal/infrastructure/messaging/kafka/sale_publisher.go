package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/ports"
	"github.com/jhoicas/Ventas-api/pkg/metrics"
)

const eventType = "venta.registrada"

// messageWriter abstrae kafka.Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// SalePublisher publica venta.registrada en un topic de Kafka, con el id de venta como clave.
type SalePublisher struct {
	writer  messageWriter
	topic   string
	metrics *metrics.Metrics
}

var _ ports.SaleEventPublisher = (*SalePublisher)(nil)

// NewSalePublisher crea un writer síncrono con acks de todas las réplicas.
func NewSalePublisher(brokers []string, topic string, m *metrics.Metrics) *SalePublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return &SalePublisher{writer: w, topic: topic, metrics: m}
}

// PublishSaleRegistered serializa el evento y lo escribe.
func (p *SalePublisher) PublishSaleRegistered(ctx context.Context, event dto.SaleRegisteredEvent) error {
	msg, err := buildSaleMessage(ctx, event)
	if err != nil {
		return err
	}
	err = p.writer.WriteMessages(ctx, msg)
	p.metrics.RecordPublish(p.topic, err == nil)
	if err != nil {
		return fmt.Errorf("publicar en %s: %w", p.topic, err)
	}
	return nil
}

// Close vacía y cierra el writer.
func (p *SalePublisher) Close() error {
	return p.writer.Close()
}

func buildSaleMessage(ctx context.Context, event dto.SaleRegisteredEvent) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("serializar evento: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.VentaID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "ce-type", Value: []byte(eventType)},
			{Key: "ce-source", Value: []byte("ventas-api")},
			{Key: "ce-id", Value: []byte(event.VentaID)},
			{Key: "ce-time", Value: []byte(event.Fecha.UTC().Format(time.RFC3339))},
			{Key: "content-type", Value: []byte("application/json")},
		},
		Time: event.Fecha,
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for k, v := range carrier {
		msg.Headers = append(msg.Headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	return msg, nil
}
