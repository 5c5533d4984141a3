package sales

import (
	"context"

	"github.com/fitcompany/fitstock-api/internal/application/dto"
	"github.com/fitcompany/fitstock-api/internal/domain"
	"github.com/fitcompany/fitstock-api/internal/domain/repository"
)

// GetByID devuelve la venta con líneas y pagos.
func (uc *UseCase) GetByID(ctx context.Context, saleID int64) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	details, err := uc.saleRepo.GetDetails(ctx, saleID)
	if err != nil {
		return nil, err
	}
	payments, err := uc.payRepo.ListBySale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, details, payments, nil), nil
}

// List devuelve ventas filtradas por estado, crédito y rango de fechas.
// Es la vista de cartera: filter.IsCredit = true con estado PENDIENTE
// lista las ventas fiadas por cobrar.
func (uc *UseCase) List(ctx context.Context, filter repository.SaleFilter) ([]*dto.SaleResponse, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	sales, err := uc.saleRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SaleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, toSaleResponse(s, nil, nil, nil))
	}
	return out, nil
}
