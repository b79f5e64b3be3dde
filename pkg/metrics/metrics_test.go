package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Ventas-api/pkg/metrics"
)

func TestRecordSale_CuentaPorResultado(t *testing.T) {
	m := metrics.New("ventas")
	m.RecordSale(metrics.SaleCreated, 10*time.Millisecond)
	m.RecordSale(metrics.SaleCreated, 5*time.Millisecond)
	m.RecordSale(metrics.SaleDuplicate, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SalesTotal.WithLabelValues(metrics.SaleCreated)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SalesTotal.WithLabelValues(metrics.SaleDuplicate)))
}

func TestMetricsNil_NoPanica(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.RecordSale(metrics.SaleError, time.Second)
		m.RecordTransfer(metrics.TransferIgnored)
		m.RecordTxRetry()
		m.RecordCacheLookup(true)
		m.RecordPublish("t", false)
		m.SetBreakerState("tx", 2)
		m.RecordHTTPRequest("POST", "/api/ventas", 200, time.Millisecond)
	})
}
