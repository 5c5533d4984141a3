package purchases

import (
	"context"

	"github.com/fitcompany/fitstock-api/internal/application/dto"
	"github.com/fitcompany/fitstock-api/internal/domain"
	"github.com/fitcompany/fitstock-api/internal/domain/repository"
)

// GetByID devuelve la compra con sus líneas.
func (uc *UseCase) GetByID(ctx context.Context, purchaseID int64) (*dto.PurchaseResponse, error) {
	purchase, err := uc.purchaseRepo.GetByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, domain.ErrNotFound
	}
	details, err := uc.purchaseRepo.GetDetails(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	return toPurchaseResponse(purchase, details, nil), nil
}

// List devuelve compras por rango de fechas, más recientes primero.
func (uc *UseCase) List(ctx context.Context, filter repository.PurchaseFilter) ([]*dto.PurchaseResponse, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	purchases, err := uc.purchaseRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PurchaseResponse, 0, len(purchases))
	for _, p := range purchases {
		out = append(out, toPurchaseResponse(p, nil, nil))
	}
	return out, nil
}
