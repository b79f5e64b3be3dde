package domain

import (
	"errors"
	"fmt"
)

// Categorías de error de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrPrecondition = errors.New("precondición no cumplida")
	ErrTxConflict   = errors.New("la transacción no pudo confirmarse tras varios intentos")
	ErrUnavailable  = errors.New("servicio no disponible")
)

// Fallos de precondición del ledger. Todos cumplen errors.Is(err, ErrPrecondition).
var (
	ErrProductNotFound    error = &Error{Kind: ErrPrecondition, Msg: "producto no encontrado"}
	ErrStockEntryNotFound error = &Error{Kind: ErrPrecondition, Msg: "sin registro de stock"}
	ErrInsufficientStock  error = &Error{Kind: ErrPrecondition, Msg: "stock insuficiente"}
)

// Error es un error con mensaje legible para el cliente, clasificado bajo una categoría (Kind).
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// Invalid construye un error de entrada inválida con un mensaje específico del campo.
func Invalid(format string, args ...any) error {
	return &Error{Kind: ErrInvalidInput, Msg: fmt.Sprintf(format, args...)}
}

// IsClientError indica si el error lo puede corregir quien llama (entrada o precondición).
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrPrecondition)
}
