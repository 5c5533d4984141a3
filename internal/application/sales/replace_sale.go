package sales

import (
	"context"
	"time"

	"github.com/fitcompany/fitstock-api/internal/application/dto"
	"github.com/fitcompany/fitstock-api/internal/domain"
	"github.com/fitcompany/fitstock-api/internal/domain/entity"
	"github.com/fitcompany/fitstock-api/internal/domain/repository"
)

// Replace edita una venta como reversión + re-orquestación dentro de una
// sola transacción: las cantidades de la versión anterior entran a la guarda
// como asignación previa, de modo que reemplazar una línea por una cantidad
// igual o menor nunca falla por el débito viejo aún sin devolver. Las líneas
// se reemplazan completas; la cabecera conserva su id y su folio.
//
// Los abonos ya registrados se conservan: el nuevo total debe cubrirlos
// (domain.ErrBalanceExceeded si no), y saldo y estado se recalculan.
func (uc *UseCase) Replace(ctx context.Context, userID, saleID int64, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	requested, err := validateLines(in.Lines)
	if err != nil {
		return nil, err
	}
	saleDate, err := parseSaleDate(in.Date)
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

	var sale *entity.Sale
	var details []*entity.SaleDetail
	var payments []*entity.Payment
	var warnings []entity.Warning

	err = uc.txRunner.RunSales(ctx, func(
		saleRepo repository.SaleRepository,
		paymentRepo repository.PaymentRepository,
		productRepo repository.ProductRepository,
	) error {
		var err error
		sale, err = saleRepo.GetByIDForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.Status == entity.SaleStatusCancelled {
			return domain.ErrTerminalState
		}

		oldDetails, err := saleRepo.GetDetails(ctx, saleID)
		if err != nil {
			return err
		}

		// Asignación previa: cantidades de la versión que se reemplaza.
		prior := make(map[int64]int64, len(oldDetails))
		for _, d := range oldDetails {
			prior[d.ProductID] += d.Quantity
		}

		ids := make(map[int64]struct{}, len(requested)+len(prior))
		for id := range requested {
			ids[id] = struct{}{}
		}
		for id := range prior {
			ids[id] = struct{}{}
		}
		products, err := lockProducts(ctx, productRepo, ids, false)
		if err != nil {
			return err
		}
		// Solo los productos de la nueva versión deben estar activos: un
		// producto desactivado que sale de la venta solo necesita su reversión.
		for id := range requested {
			if !products[id].Active {
				return domain.ErrNotFound
			}
		}

		if err := checkOversell(requested, products, prior); err != nil {
			return err
		}

		// Los abonos existentes deben caber en el nuevo total.
		paid, err := paymentRepo.SumBySale(ctx, saleID)
		if err != nil {
			return err
		}
		if paid.GreaterThan(total) {
			return domain.ErrBalanceExceeded
		}

		// Delta neto por producto: devolución de la versión vieja menos el
		// débito de la nueva, aplicado una sola vez por fila para que un
		// estado intermedio jamás viole la no-negatividad.
		deltas := make(map[int64]int64, len(ids))
		for id, qty := range prior {
			deltas[id] += qty
		}
		for id, qty := range requested {
			deltas[id] -= qty
		}
		warnings, err = applyDeltas(ctx, productRepo, products, deltas)
		if err != nil {
			return err
		}

		if err := saleRepo.DeleteDetails(ctx, saleID); err != nil {
			return err
		}
		details = buildDetails(saleID, in.Lines)
		if err := saleRepo.CreateDetails(ctx, saleID, details); err != nil {
			return err
		}

		sale.SaleDate = saleDate
		sale.Total = total
		sale.BalanceRemaining = total.Sub(paid)
		sale.IsCredit = paid.LessThan(total)
		if in.CustomerDescription != "" {
			sale.CustomerDescription = in.CustomerDescription
		}
		if sale.IsCredit && sale.CustomerDescription == "" {
			return domain.NewValidation("una venta fiada requiere la descripción del cliente")
		}
		if sale.BalanceRemaining.IsZero() {
			sale.Status = entity.SaleStatusPaid
		} else {
			sale.Status = entity.SaleStatusPending
		}
		sale.CreatedBy = userID
		sale.UpdatedAt = time.Now()
		if err := saleRepo.UpdateHeader(ctx, sale); err != nil {
			return err
		}

		payments, err = paymentRepo.ListBySale(ctx, saleID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return toSaleResponse(sale, details, payments, warnings), nil
}
