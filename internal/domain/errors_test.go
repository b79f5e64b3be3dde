package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Ventas-api/internal/domain"
)

func TestPreconditionErrors_SeClasificanComoPrecondicion(t *testing.T) {
	for _, err := range []error{domain.ErrProductNotFound, domain.ErrStockEntryNotFound, domain.ErrInsufficientStock} {
		wrapped := fmt.Errorf("%w: producto P1", err)
		assert.True(t, errors.Is(wrapped, domain.ErrPrecondition), err.Error())
		assert.True(t, errors.Is(wrapped, err))
		assert.True(t, domain.IsClientError(wrapped))
	}
	assert.False(t, errors.Is(domain.ErrProductNotFound, domain.ErrInsufficientStock))
}

func TestInvalid_MensajePorCampo(t *testing.T) {
	err := domain.Invalid("%s es obligatorio", "vendedorId")
	assert.Equal(t, "vendedorId es obligatorio", err.Error())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.True(t, domain.IsClientError(err))
	assert.False(t, domain.IsClientError(errors.New("conexión rechazada")))
}
