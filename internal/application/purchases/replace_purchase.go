package purchases

import (
	"context"
	"time"

	"github.com/fitcompany/fitstock-api/internal/application/dto"
	"github.com/fitcompany/fitstock-api/internal/domain"
	"github.com/fitcompany/fitstock-api/internal/domain/entity"
	"github.com/fitcompany/fitstock-api/internal/domain/repository"
)

// Replace edita una compra como reversión + re-orquestación en una sola
// transacción. El delta neto por producto (nueva cantidad menos la anterior)
// se valida completo antes de escribir: si des-comprar dejara algún stock
// negativo, se rechaza con el faltante estructurado y nada se aplica.
func (uc *UseCase) Replace(ctx context.Context, userID, purchaseID int64, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
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

	var purchase *entity.Purchase
	var details []*entity.PurchaseDetail
	var warnings []entity.Warning

	err = uc.txRunner.RunPurchases(ctx, func(
		purchaseRepo repository.PurchaseRepository,
		productRepo repository.ProductRepository,
	) error {
		var err error
		purchase, err = purchaseRepo.GetByIDForUpdate(ctx, purchaseID)
		if err != nil {
			return err
		}
		if purchase == nil {
			return domain.ErrNotFound
		}

		oldDetails, err := purchaseRepo.GetDetails(ctx, purchaseID)
		if err != nil {
			return err
		}

		ids := make(map[int64]struct{}, len(requested)+len(oldDetails))
		deltas := make(map[int64]int64, len(requested)+len(oldDetails))
		for _, d := range oldDetails {
			ids[d.ProductID] = struct{}{}
			deltas[d.ProductID] -= d.Quantity
		}
		for id, qty := range requested {
			ids[id] = struct{}{}
			deltas[id] += qty
		}

		products, err := lockProducts(ctx, productRepo, ids, false)
		if err != nil {
			return err
		}
		// Los productos nuevos en esta versión sí deben estar activos.
		for id := range requested {
			if !products[id].Active {
				return domain.ErrNotFound
			}
		}

		if err := checkReversal(products, deltas); err != nil {
			return err
		}
		warnings, err = applyDeltas(ctx, productRepo, products, deltas)
		if err != nil {
			return err
		}

		if err := purchaseRepo.DeleteDetails(ctx, purchaseID); err != nil {
			return err
		}
		details = buildDetails(purchaseID, in.Lines)
		if err := purchaseRepo.CreateDetails(ctx, purchaseID, details); err != nil {
			return err
		}

		purchase.PurchaseDate = purchaseDate
		purchase.Total = total
		purchase.CreatedBy = userID
		purchase.UpdatedAt = time.Now()
		return purchaseRepo.UpdateHeader(ctx, purchase)
	})
	if err != nil {
		return nil, err
	}

	return toPurchaseResponse(purchase, details, warnings), nil
}

// Delete elimina una compra debitando del ledger las cantidades de sus
// líneas. Si parte de lo comprado ya se vendió, la reversión dejaría stock
// negativo: se rechaza completa con InsufficientStockError y el stock queda
// intacto.
func (uc *UseCase) Delete(ctx context.Context, purchaseID int64) (*dto.DeleteResponse, error) {
	var warnings []entity.Warning

	err := uc.txRunner.RunPurchases(ctx, func(
		purchaseRepo repository.PurchaseRepository,
		productRepo repository.ProductRepository,
	) error {
		purchase, err := purchaseRepo.GetByIDForUpdate(ctx, purchaseID)
		if err != nil {
			return err
		}
		if purchase == nil {
			return domain.ErrNotFound
		}

		details, err := purchaseRepo.GetDetails(ctx, purchaseID)
		if err != nil {
			return err
		}

		ids := make(map[int64]struct{}, len(details))
		deltas := make(map[int64]int64, len(details))
		for _, d := range details {
			ids[d.ProductID] = struct{}{}
			deltas[d.ProductID] -= d.Quantity
		}

		products, err := lockProducts(ctx, productRepo, ids, false)
		if err != nil {
			return err
		}
		if err := checkReversal(products, deltas); err != nil {
			return err
		}
		warnings, err = applyDeltas(ctx, productRepo, products, deltas)
		if err != nil {
			return err
		}

		if err := purchaseRepo.DeleteDetails(ctx, purchaseID); err != nil {
			return err
		}
		return purchaseRepo.Delete(ctx, purchaseID)
	})
	if err != nil {
		return nil, err
	}

	return &dto.DeleteResponse{Warnings: warnings}, nil
}
