package sales

import (
	"context"

	"github.com/fitcompany/fitstock-api/internal/application/dto"
	"github.com/fitcompany/fitstock-api/internal/domain"
	"github.com/fitcompany/fitstock-api/internal/domain/entity"
	"github.com/fitcompany/fitstock-api/internal/domain/repository"
)

// Delete elimina una venta devolviendo al ledger exactamente las cantidades
// de sus líneas, en la misma transacción que borra cabecera, líneas y abonos,
// de modo que la reversión ocurre exactamente una vez por baja lógica.
// Una advertencia de sobre-máximo aquí es esperable y nunca bloquea:
// devolver stock no puede fallar por exceso.
func (uc *UseCase) Delete(ctx context.Context, saleID int64) (*dto.DeleteResponse, error) {
	var warnings []entity.Warning

	err := uc.txRunner.RunSales(ctx, func(
		saleRepo repository.SaleRepository,
		paymentRepo repository.PaymentRepository,
		productRepo repository.ProductRepository,
	) error {
		sale, err := saleRepo.GetByIDForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}

		details, err := saleRepo.GetDetails(ctx, saleID)
		if err != nil {
			return err
		}

		deltas := make(map[int64]int64, len(details))
		ids := make(map[int64]struct{}, len(details))
		for _, d := range details {
			deltas[d.ProductID] += d.Quantity
			ids[d.ProductID] = struct{}{}
		}
		products, err := lockProducts(ctx, productRepo, ids, false)
		if err != nil {
			return err
		}

		warnings, err = applyDeltas(ctx, productRepo, products, deltas)
		if err != nil {
			return err
		}

		// El ledger de abonos desaparece junto con la venta que lo originó.
		if err := paymentRepo.DeleteBySale(ctx, saleID); err != nil {
			return err
		}
		if err := saleRepo.DeleteDetails(ctx, saleID); err != nil {
			return err
		}
		return saleRepo.Delete(ctx, saleID)
	})
	if err != nil {
		return nil, err
	}

	return &dto.DeleteResponse{Warnings: warnings}, nil
}
