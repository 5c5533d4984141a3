package purchases

import (
	"context"
	"time"

	"github.com/fitcompany/fitstock-api/internal/application/dto"
	"github.com/fitcompany/fitstock-api/internal/domain/entity"
	"github.com/fitcompany/fitstock-api/internal/domain/repository"
)

// Create registra una compra como unidad todo-o-nada: valida el payload,
// verifica usuario y productos, persiste cabecera y líneas, acredita stock
// vía el ledger y evalúa umbrales (sobre-máximo es advertencia, no error).
func (uc *UseCase) Create(ctx context.Context, userID int64, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	requested, err := validateLines(in.Lines)
	if err != nil {
		return nil, err
	}
	purchaseDate, err := parsePurchaseDate(in.Date)
	if err != nil {
		return nil, err
	}
	total, err := computeTotal(in.Lines)
	if err != nil {
		return nil, err
	}
	if err := uc.resolveUser(ctx, userID); err != nil {
		return nil, err
	}

	now := time.Now()
	purchase := &entity.Purchase{
		PurchaseDate: purchaseDate,
		Total:        total,
		CreatedBy:    userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var details []*entity.PurchaseDetail
	var warnings []entity.Warning

	err = uc.txRunner.RunPurchases(ctx, func(
		purchaseRepo repository.PurchaseRepository,
		productRepo repository.ProductRepository,
	) error {
		ids := make(map[int64]struct{}, len(requested))
		for id := range requested {
			ids[id] = struct{}{}
		}
		products, err := lockProducts(ctx, productRepo, ids, true)
		if err != nil {
			return err
		}

		if err := purchaseRepo.Create(ctx, purchase); err != nil {
			return err
		}
		details = buildDetails(purchase.ID, in.Lines)
		if err := purchaseRepo.CreateDetails(ctx, purchase.ID, details); err != nil {
			return err
		}

		deltas := make(map[int64]int64, len(requested))
		for id, qty := range requested {
			deltas[id] = qty
		}
		warnings, err = applyDeltas(ctx, productRepo, products, deltas)
		return err
	})
	if err != nil {
		return nil, err
	}

	return toPurchaseResponse(purchase, details, warnings), nil
}
