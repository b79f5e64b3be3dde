package sale

import (
	"context"
	"fmt"

	"github.com/jhoicas/Ventas-api/internal/application/ports"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// QueryUseCase consulta ventas confirmadas y genera su comprobante.
type QueryUseCase struct {
	sales    repository.SaleRepository
	receipts ports.ReceiptGenerator
}

// NewQueryUseCase construye el caso de uso. receipts puede ser nil si no se sirven comprobantes.
func NewQueryUseCase(sales repository.SaleRepository, receipts ports.ReceiptGenerator) *QueryUseCase {
	return &QueryUseCase{sales: sales, receipts: receipts}
}

// GetByID devuelve la venta con sus líneas o domain.ErrNotFound.
func (uc *QueryUseCase) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := uc.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

// Receipt genera el PDF del comprobante de la venta.
func (uc *QueryUseCase) Receipt(ctx context.Context, id string) ([]byte, error) {
	if uc.receipts == nil {
		return nil, fmt.Errorf("comprobantes: %w", domain.ErrUnavailable)
	}
	s, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.receipts.GenerateReceipt(s)
}
