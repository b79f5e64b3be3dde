package sale_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsale "github.com/jhoicas/Ventas-api/internal/application/sale"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

type fakeReceipts struct{ got *entity.Sale }

func (f *fakeReceipts) GenerateReceipt(s *entity.Sale) ([]byte, error) {
	f.got = s
	return []byte("%PDF-1.4"), nil
}

func TestQuery_GetByID(t *testing.T) {
	store := newStore(map[string]int64{"P1": 10})
	_, err := newUseCase(store).RegisterSale(context.Background(), input("L1", line("P1", 5, 3)))
	require.NoError(t, err)

	q := appsale.NewQueryUseCase(store.Sales(), nil)
	s, err := q.GetByID(context.Background(), "S1_L1")
	require.NoError(t, err)
	assert.Equal(t, "S1_L1", s.ID)

	_, err = q.GetByID(context.Background(), "S1_L9")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQuery_Receipt(t *testing.T) {
	store := newStore(map[string]int64{"P1": 10})
	_, err := newUseCase(store).RegisterSale(context.Background(), input("L1", line("P1", 5, 3)))
	require.NoError(t, err)

	receipts := &fakeReceipts{}
	q := appsale.NewQueryUseCase(store.Sales(), receipts)
	pdf, err := q.Receipt(context.Background(), "S1_L1")
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	require.NotNil(t, receipts.got)
	assert.Equal(t, "S1_L1", receipts.got.ID)

	_, err = appsale.NewQueryUseCase(store.Sales(), nil).Receipt(context.Background(), "S1_L1")
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}
