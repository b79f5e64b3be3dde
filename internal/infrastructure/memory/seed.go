package memory

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// Helpers para preparar y consultar datos fuera de una transacción (pruebas y modo memoria).

// PutProduct registra o reemplaza un producto.
func (s *Store) PutProduct(p entity.Product) {
	s.write(func(st *state) { st.products[p.ID] = p })
}

// PutWarehouse registra o reemplaza un almacén.
func (s *Store) PutWarehouse(w entity.Warehouse) {
	s.write(func(st *state) { st.warehouses[w.ID] = w })
}

// PutStock fija la cantidad disponible de un producto en un almacén.
func (s *Store) PutStock(e entity.StockEntry) {
	s.write(func(st *state) { st.stock[stockKey{e.ProductID, e.WarehouseID}] = e })
}

// PutTransferOrder registra o reemplaza una orden de traslado.
func (s *Store) PutTransferOrder(o entity.TransferOrder) {
	o.Items = append([]entity.TransferItem(nil), o.Items...)
	s.write(func(st *state) { st.transfers[o.ID] = o })
}

// Stock devuelve la cantidad disponible y si existe la entrada.
func (s *Store) Stock(productID, warehouseID string) (int64, bool) {
	var (
		qty int64
		ok  bool
	)
	s.read(func(st *state) {
		var e entity.StockEntry
		e, ok = st.stock[stockKey{productID, warehouseID}]
		qty = e.AvailableQuantity
	})
	return qty, ok
}

// Movements devuelve todos los movimientos ordenados por fecha.
func (s *Store) Movements() []entity.StockMovement {
	var out []entity.StockMovement
	s.read(func(st *state) { out = sortedMovements(st.movements) })
	return out
}

// SaleCount devuelve el número de ventas registradas.
func (s *Store) SaleCount() int {
	var n int
	s.read(func(st *state) { n = len(st.sales) })
	return n
}

// TransferOrder devuelve una copia de la orden o nil.
func (s *Store) TransferOrder(id string) *entity.TransferOrder {
	var out *entity.TransferOrder
	s.read(func(st *state) {
		out, _ = (&transferRepo{st: st}).GetByID(context.Background(), id)
	})
	return out
}

// Sales devuelve un repositorio de ventas de solo lectura sobre el estado confirmado.
func (s *Store) Sales() repository.SaleRepository {
	return &committedSales{s: s}
}
