package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/pkg/metrics"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func sampleEvent() dto.SaleRegisteredEvent {
	return dto.SaleRegisteredEvent{
		VentaID:       "S1_L1",
		LocalSaleID:   "L1",
		VendedorID:    "S1",
		AlmacenID:     "W1",
		Total:         decimal.RequireFromString("15"),
		TotalUnidades: 3,
		Fecha:         time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestBuildSaleMessage_ClaveYCabeceras(t *testing.T) {
	msg, err := buildSaleMessage(context.Background(), sampleEvent())
	require.NoError(t, err)

	assert.Equal(t, "S1_L1", string(msg.Key))

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "venta.registrada", headers["ce-type"])
	assert.Equal(t, "2026-01-02T03:04:05Z", headers["ce-time"])

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, "S1_L1", body["ventaId"])
	assert.Equal(t, "15", body["total"])
}

func TestPublishSaleRegistered_RegistraMetrica(t *testing.T) {
	m := metrics.New("test")
	w := &fakeWriter{}
	p := &SalePublisher{writer: w, topic: "ventas.registradas", metrics: m}

	require.NoError(t, p.PublishSaleRegistered(context.Background(), sampleEvent()))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsPublished.WithLabelValues("ventas.registradas", "success")))

	w.err = errors.New("broker caído")
	err := p.PublishSaleRegistered(context.Background(), sampleEvent())
	assert.ErrorContains(t, err, "broker caído")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsPublished.WithLabelValues("ventas.registradas", "error")))
}
