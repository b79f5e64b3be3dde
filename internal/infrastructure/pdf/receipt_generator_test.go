package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

func TestGenerateReceipt_DevuelvePDF(t *testing.T) {
	sale := &entity.Sale{
		ID:            "S1_L1",
		LocalID:       "L1",
		ClientID:      "C1",
		ClientName:    "Ana",
		SellerID:      "S1",
		WarehouseID:   "W1",
		PaymentMethod: "efectivo",
		Comments:      "entregar en la tarde",
		Total:         decimal.RequireFromString("15"),
		TotalUnits:    3,
		Status:        entity.SaleStatusPaid,
		CreatedAt:     time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Items: []entity.SaleItem{
			{ProductID: "P1", Name: "Arroz", UnitPrice: decimal.RequireFromString("5"), Quantity: 3},
		},
	}

	out, err := NewReceiptGenerator("Tienda Centro").GenerateReceipt(sale)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateReceipt_VentaNula(t *testing.T) {
	_, err := NewReceiptGenerator("x").GenerateReceipt(nil)
	assert.Error(t, err)
}

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":        "0",
		"999":      "999",
		"25000":    "25.000",
		"1000000":  "1.000.000",
		"1234.5":   "1.234,50",
		"10.005":   "10,01",
		"-2500.25": "-2.500,25",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}
