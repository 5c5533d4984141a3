package sales

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fitcompany/fitstock-api/internal/application/dto"
	"github.com/fitcompany/fitstock-api/internal/domain"
	"github.com/fitcompany/fitstock-api/internal/domain/entity"
	"github.com/fitcompany/fitstock-api/internal/domain/repository"
)

// Create registra una venta como unidad todo-o-nada: valida el payload,
// resuelve referencias, ejecuta la guarda de sobreventa con las filas de
// producto bloqueadas, persiste cabecera, líneas y pagos, debita stock vía
// el ledger y evalúa umbrales. Cualquier fallo revierte la unidad completa.
//
// Si Σ(pagos) < total la venta queda fiada (estado PENDIENTE) y exige
// descripción del cliente; si Σ(pagos) = total queda PAGADA con saldo cero;
// Σ(pagos) > total se rechaza: una venta de contado no da cambio.
func (uc *UseCase) Create(ctx context.Context, userID int64, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
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
	paid, err := uc.validatePayments(ctx, in.Payments)
	if err != nil {
		return nil, err
	}

	if paid.GreaterThan(total) {
		return nil, domain.NewValidation("los pagos (%s) exceden el total de la venta (%s)", paid, total)
	}
	isCredit := paid.LessThan(total)
	if isCredit && in.CustomerDescription == "" {
		return nil, domain.NewValidation("una venta fiada requiere la descripción del cliente")
	}

	balance := total.Sub(paid)
	status := entity.SaleStatusPaid
	if isCredit {
		status = entity.SaleStatusPending
	}

	now := time.Now()
	sale := &entity.Sale{
		SaleDate:            saleDate,
		Total:               total,
		IsCredit:            isCredit,
		CustomerDescription: in.CustomerDescription,
		BalanceRemaining:    balance,
		Status:              status,
		CreatedBy:           userID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	var details []*entity.SaleDetail
	var payments []*entity.Payment
	var warnings []entity.Warning

	err = uc.txRunner.RunSales(ctx, func(
		saleRepo repository.SaleRepository,
		paymentRepo repository.PaymentRepository,
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

		if err := checkOversell(requested, products, nil); err != nil {
			return err
		}

		if err := saleRepo.Create(ctx, sale); err != nil {
			return err
		}

		details = buildDetails(sale.ID, in.Lines)
		if err := saleRepo.CreateDetails(ctx, sale.ID, details); err != nil {
			return err
		}

		deltas := make(map[int64]int64, len(requested))
		for id, qty := range requested {
			deltas[id] = -qty
		}
		warnings, err = applyDeltas(ctx, productRepo, products, deltas)
		if err != nil {
			return err
		}

		for _, p := range in.Payments {
			payment := &entity.Payment{
				SaleID:          sale.ID,
				PaymentMethodID: p.PaymentMethodID,
				Amount:          p.Amount,
				Note:            p.Note,
				CreatedAt:       now,
			}
			if err := paymentRepo.Create(ctx, payment); err != nil {
				return err
			}
			payments = append(payments, payment)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toSaleResponse(sale, details, payments, warnings), nil
}

func buildDetails(saleID int64, lines []dto.SaleLineRequest) []*entity.SaleDetail {
	details := make([]*entity.SaleDetail, 0, len(lines))
	for _, l := range lines {
		details = append(details, &entity.SaleDetail{
			SaleID:    saleID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity)),
		})
	}
	return details
}
