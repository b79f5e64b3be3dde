// Package memory implementa los repositorios y el TxRunner en memoria.
// Se usa en pruebas y con STORAGE_DRIVER=memory.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Ventas-api/internal/application/ports"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

var _ ports.TxRunner = (*Store)(nil)

type stockKey struct {
	productID   string
	warehouseID string
}

// state es una foto completa de los datos; cada transacción trabaja sobre una copia.
type state struct {
	stock      map[stockKey]entity.StockEntry
	sales      map[string]entity.Sale
	movements  []entity.StockMovement
	products   map[string]entity.Product
	warehouses map[string]entity.Warehouse
	transfers  map[string]entity.TransferOrder
}

func newState() *state {
	return &state{
		stock:      make(map[stockKey]entity.StockEntry),
		sales:      make(map[string]entity.Sale),
		products:   make(map[string]entity.Product),
		warehouses: make(map[string]entity.Warehouse),
		transfers:  make(map[string]entity.TransferOrder),
	}
}

func (s *state) clone() *state {
	c := &state{
		stock:      make(map[stockKey]entity.StockEntry, len(s.stock)),
		sales:      make(map[string]entity.Sale, len(s.sales)),
		movements:  s.movements[:len(s.movements):len(s.movements)], // append-only: un append copia el arreglo
		products:   make(map[string]entity.Product, len(s.products)),
		warehouses: make(map[string]entity.Warehouse, len(s.warehouses)),
		transfers:  make(map[string]entity.TransferOrder, len(s.transfers)),
	}
	for k, v := range s.stock {
		c.stock[k] = v
	}
	for k, v := range s.sales {
		c.sales[k] = v // las ventas no se modifican después de crearse
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.warehouses {
		c.warehouses[k] = v
	}
	for k, v := range s.transfers {
		c.transfers[k] = v
	}
	return c
}

func (s *state) repos() ports.TxRepos {
	return ports.TxRepos{
		Stock:      &stockRepo{st: s},
		Sales:      &saleRepo{st: s},
		Movements:  &movementRepo{st: s},
		Products:   &productRepo{st: s},
		Warehouses: &warehouseRepo{st: s},
		Transfers:  &transferRepo{st: s},
	}
}

// Store guarda el estado y serializa las transacciones con un mutex.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn sobre una copia del estado y la publica solo si fn termina sin error.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos ports.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(ctx, work.repos()); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}

func (s *Store) read(fn func(st *state)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.st)
}

func (s *Store) write(fn func(st *state)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.st)
}
