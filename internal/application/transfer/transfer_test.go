package transfer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/ports"
	"github.com/jhoicas/Ventas-api/internal/application/transfer"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
)

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func newStore() *memory.Store {
	store := memory.NewStore()
	store.PutWarehouse(entity.Warehouse{ID: "BODEGA", Name: "Bodega central"})
	store.PutWarehouse(entity.Warehouse{ID: "W1", Name: "Camión 1"})
	store.PutProduct(entity.Product{ID: "P1", Name: "Arroz", Price: decimal.NewFromInt(5), Active: true})
	store.PutProduct(entity.Product{ID: "P2", Name: "Frijol", Price: decimal.NewFromInt(3), Active: true})
	store.PutStock(entity.StockEntry{ProductID: "P1", WarehouseID: "BODEGA", AvailableQuantity: 50})
	store.PutStock(entity.StockEntry{ProductID: "P2", WarehouseID: "BODEGA", AvailableQuantity: 2})
	store.PutStock(entity.StockEntry{ProductID: "P1", WarehouseID: "W1", AvailableQuantity: 1})
	return store
}

func order(status string, items ...entity.TransferItem) *entity.TransferOrder {
	return &entity.TransferOrder{
		ID:                     "T1",
		SourceWarehouseID:      "BODEGA",
		DestinationWarehouseID: "W1",
		RequestedBy:            "S1",
		Status:                 status,
		Items:                  items,
	}
}

func item(id string, qty int64) entity.TransferItem {
	return entity.TransferItem{ProductID: id, Quantity: qty}
}

func newTrigger(tx ports.TxRunner) *transfer.AcceptedTrigger {
	exec := transfer.NewExecuteTransferUseCase(tx, zerolog.Nop())
	return transfer.NewAcceptedTrigger(exec, tx, zerolog.Nop(), nil)
}

func qty(t *testing.T, store *memory.Store, productID, warehouseID string) int64 {
	t.Helper()
	q, ok := store.Stock(productID, warehouseID)
	require.True(t, ok, "sin entrada %s/%s", productID, warehouseID)
	return q
}

// ─────────────────────────────────────────────────────────────────────────────
// Flanco de subida
// ─────────────────────────────────────────────────────────────────────────────

func TestIsAcceptedEdge(t *testing.T) {
	pending := order(entity.TransferStatusPending)
	accepted := order(entity.TransferStatusAccepted)
	failed := order(entity.TransferStatusError)

	assert.True(t, transfer.IsAcceptedEdge(nil, accepted))
	assert.True(t, transfer.IsAcceptedEdge(pending, accepted))
	assert.True(t, transfer.IsAcceptedEdge(failed, accepted))
	assert.False(t, transfer.IsAcceptedEdge(accepted, accepted), "otra actualización de una orden ya aceptada")
	assert.False(t, transfer.IsAcceptedEdge(accepted, failed))
	assert.False(t, transfer.IsAcceptedEdge(nil, pending))
	assert.False(t, transfer.IsAcceptedEdge(pending, nil))
}

func TestHandle_SinFlancoNoHaceNada(t *testing.T) {
	store := newStore()
	store.PutTransferOrder(*order(entity.TransferStatusAccepted, item("P1", 5)))
	trigger := newTrigger(store)

	res, err := trigger.Handle(context.Background(), transfer.TransferOrderChange{
		Before: order(entity.TransferStatusAccepted, item("P1", 5)),
		After:  order(entity.TransferStatusAccepted, item("P1", 5)),
	})
	require.NoError(t, err)
	assert.Equal(t, transfer.ResultIgnored, res)
	assert.Equal(t, int64(50), qty(t, store, "P1", "BODEGA"))
	assert.Empty(t, store.Movements())
}

// ─────────────────────────────────────────────────────────────────────────────
// Ejecución
// ─────────────────────────────────────────────────────────────────────────────

func TestHandle_EjecutaTraslado(t *testing.T) {
	store := newStore()
	store.PutTransferOrder(*order(entity.TransferStatusPending, item("P1", 5), item("P2", 2)))
	trigger := newTrigger(store)

	res, err := trigger.Handle(context.Background(), transfer.TransferOrderChange{
		Before: order(entity.TransferStatusPending, item("P1", 5), item("P2", 2)),
		After:  order(entity.TransferStatusAccepted, item("P1", 5), item("P2", 2)),
	})
	require.NoError(t, err)
	assert.Equal(t, transfer.ResultExecuted, res)

	assert.Equal(t, int64(45), qty(t, store, "P1", "BODEGA"))
	assert.Equal(t, int64(6), qty(t, store, "P1", "W1"))
	assert.Equal(t, int64(0), qty(t, store, "P2", "BODEGA"))
	assert.Equal(t, int64(2), qty(t, store, "P2", "W1"), "crea la entrada destino")

	movs := store.Movements()
	require.Len(t, movs, 4)
	var sum int64
	for _, m := range movs {
		assert.Equal(t, entity.MovementTypeTransfer, m.Type)
		assert.Equal(t, "T1", m.SaleID)
		sum += m.Quantity
	}
	assert.Equal(t, int64(0), sum, "lo que sale del origen entra al destino")

	o := store.TransferOrder("T1")
	require.NotNil(t, o)
	assert.NotNil(t, o.ExecutedAt)
}

func TestHandle_EventoDuplicadoSeAplicaUnaVez(t *testing.T) {
	store := newStore()
	trigger := newTrigger(store)
	change := transfer.TransferOrderChange{
		Before: order(entity.TransferStatusPending, item("P1", 5)),
		After:  order(entity.TransferStatusAccepted, item("P1", 5)),
	}

	res, err := trigger.Handle(context.Background(), change)
	require.NoError(t, err)
	assert.Equal(t, transfer.ResultExecuted, res)

	res, err = trigger.Handle(context.Background(), change)
	require.NoError(t, err)
	assert.Equal(t, transfer.ResultIgnored, res)

	assert.Equal(t, int64(45), qty(t, store, "P1", "BODEGA"))
	assert.Len(t, store.Movements(), 2)
}

func TestHandle_OrdenEjecutadaQueVuelveAAceptadaNoSeRepite(t *testing.T) {
	store := newStore()
	trigger := newTrigger(store)

	res, err := trigger.Handle(context.Background(), transfer.TransferOrderChange{
		Before: order(entity.TransferStatusPending, item("P1", 5)),
		After:  order(entity.TransferStatusAccepted, item("P1", 5)),
	})
	require.NoError(t, err)
	require.Equal(t, transfer.ResultExecuted, res)

	// ACCEPTED -> PENDIENTE -> ACCEPTED: el segundo flanco encuentra executedAt
	res, err = trigger.Handle(context.Background(), transfer.TransferOrderChange{
		Before: order(entity.TransferStatusAccepted, item("P1", 5)),
		After:  order(entity.TransferStatusPending, item("P1", 5)),
	})
	require.NoError(t, err)
	assert.Equal(t, transfer.ResultIgnored, res)

	res, err = trigger.Handle(context.Background(), transfer.TransferOrderChange{
		Before: order(entity.TransferStatusPending, item("P1", 5)),
		After:  order(entity.TransferStatusAccepted, item("P1", 5)),
	})
	require.NoError(t, err)
	assert.Equal(t, transfer.ResultIgnored, res)

	assert.Equal(t, int64(45), qty(t, store, "P1", "BODEGA"))
	assert.Equal(t, int64(6), qty(t, store, "P1", "W1"))
	assert.Len(t, store.Movements(), 2)
}

// ─────────────────────────────────────────────────────────────────────────────
// Fallos
// ─────────────────────────────────────────────────────────────────────────────

func TestHandle_FalloMarcaError(t *testing.T) {
	store := newStore()
	store.PutTransferOrder(*order(entity.TransferStatusPending, item("P1", 5), item("P2", 3)))
	trigger := newTrigger(store)

	res, err := trigger.Handle(context.Background(), transfer.TransferOrderChange{
		Before: order(entity.TransferStatusPending, item("P1", 5), item("P2", 3)),
		After:  order(entity.TransferStatusAccepted, item("P1", 5), item("P2", 3)),
	})
	require.NoError(t, err)
	assert.Equal(t, transfer.ResultError, res)

	o := store.TransferOrder("T1")
	require.NotNil(t, o)
	assert.Equal(t, entity.TransferStatusError, o.Status)
	assert.Contains(t, o.ErrorMessage, "stock insuficiente")
	assert.NotNil(t, o.ErrorAt)
	assert.Nil(t, o.ExecutedAt)

	assert.Equal(t, int64(50), qty(t, store, "P1", "BODEGA"), "sin escrituras parciales")
	assert.Empty(t, store.Movements())
}

func TestHandle_FalloDeOrdenSoloEnEventoLaRegistraEnError(t *testing.T) {
	store := newStore()
	trigger := newTrigger(store)

	res, err := trigger.Handle(context.Background(), transfer.TransferOrderChange{
		After: order(entity.TransferStatusAccepted, item("PX", 1)),
	})
	require.NoError(t, err)
	assert.Equal(t, transfer.ResultError, res)

	o := store.TransferOrder("T1")
	require.NotNil(t, o)
	assert.Equal(t, entity.TransferStatusError, o.Status)
	assert.Contains(t, o.ErrorMessage, "producto no encontrado")
}

type failingRunner struct{ err error }

func (f failingRunner) Run(context.Context, func(context.Context, ports.TxRepos) error) error {
	return f.err
}

func TestHandle_SinPoderMarcarDevuelveError(t *testing.T) {
	boom := errors.New("conexión perdida")
	trigger := newTrigger(failingRunner{err: boom})

	res, err := trigger.Handle(context.Background(), transfer.TransferOrderChange{
		After: order(entity.TransferStatusAccepted, item("P1", 1)),
	})
	assert.Equal(t, transfer.ResultError, res)
	assert.ErrorIs(t, err, boom)
}

// ─────────────────────────────────────────────────────────────────────────────
// Reintento manual
// ─────────────────────────────────────────────────────────────────────────────

func TestResubmit_OrdenEnErrorSeEjecutaTrasCorregirStock(t *testing.T) {
	store := newStore()
	trigger := newTrigger(store)
	change := transfer.TransferOrderChange{
		Before: order(entity.TransferStatusPending, item("P2", 3)),
		After:  order(entity.TransferStatusAccepted, item("P2", 3)),
	}
	res, err := trigger.Handle(context.Background(), change)
	require.NoError(t, err)
	require.Equal(t, transfer.ResultError, res)

	store.PutStock(entity.StockEntry{ProductID: "P2", WarehouseID: "BODEGA", AvailableQuantity: 10})

	uc := transfer.NewResubmitUseCase(store, trigger)
	res, final, err := uc.Resubmit(context.Background(), "T1")
	require.NoError(t, err)
	assert.Equal(t, transfer.ResultExecuted, res)
	require.NotNil(t, final)
	assert.Equal(t, entity.TransferStatusAccepted, final.Status)
	assert.Empty(t, final.ErrorMessage)
	assert.NotNil(t, final.ExecutedAt)
	assert.Equal(t, int64(7), qty(t, store, "P2", "BODEGA"))
	assert.Equal(t, int64(3), qty(t, store, "P2", "W1"))
}

func TestResubmit_SoloOrdenesEnError(t *testing.T) {
	store := newStore()
	store.PutTransferOrder(*order(entity.TransferStatusAccepted, item("P1", 1)))
	uc := transfer.NewResubmitUseCase(store, newTrigger(store))

	_, _, err := uc.Resubmit(context.Background(), "T1")
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, _, err = uc.Resubmit(context.Background(), "T404")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExecute_MismoAlmacenEsInvalido(t *testing.T) {
	store := newStore()
	exec := transfer.NewExecuteTransferUseCase(store, zerolog.Nop())
	o := order(entity.TransferStatusAccepted, item("P1", 1))
	o.DestinationWarehouseID = "BODEGA"

	_, err := exec.Execute(context.Background(), o)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
