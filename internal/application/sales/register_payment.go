package sales

import (
	"context"
	"time"

	"github.com/fitcompany/fitstock-api/internal/application/dto"
	"github.com/fitcompany/fitstock-api/internal/domain"
	"github.com/fitcompany/fitstock-api/internal/domain/entity"
	"github.com/fitcompany/fitstock-api/internal/domain/repository"
)

// RegisterPayment aplica un abono a una venta fiada.
// Máquina de estados: PENDIENTE → PAGADA cuando el saldo llega exactamente a
// cero; PAGADA y CANCELADA son terminales y rechazan cualquier abono.
// Un monto negativo es una corrección contable: el ledger de pagos es
// append-only, así que el error se compensa con una fila nueva en vez de
// mutar o borrar el abono equivocado. La corrección no puede dejar el
// acumulado de pagos por debajo de cero.
func (uc *UseCase) RegisterPayment(ctx context.Context, saleID int64, in dto.RegisterPaymentRequest) (*dto.RegisterPaymentResponse, error) {
	if in.Amount.IsZero() {
		return nil, domain.NewValidation("el monto del abono no puede ser cero")
	}
	if in.Amount.Abs().GreaterThan(maxSaleTotal) {
		return nil, domain.NewValidation("el monto del abono está fuera de rango")
	}
	method, err := uc.methodRepo.GetByID(ctx, in.PaymentMethodID)
	if err != nil {
		return nil, err
	}
	if method == nil || !method.Active {
		return nil, domain.ErrNotFound
	}

	var resp *dto.RegisterPaymentResponse

	err = uc.txRunner.RunSales(ctx, func(
		saleRepo repository.SaleRepository,
		paymentRepo repository.PaymentRepository,
		_ repository.ProductRepository,
	) error {
		sale, err := saleRepo.GetByIDForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.IsTerminal() {
			return domain.ErrTerminalState
		}

		balanceBefore := sale.BalanceRemaining
		balanceAfter := balanceBefore.Sub(in.Amount)

		if in.Amount.IsPositive() && in.Amount.GreaterThan(balanceBefore) {
			return domain.ErrBalanceExceeded
		}
		if in.Amount.IsNegative() && balanceAfter.GreaterThan(sale.Total) {
			return domain.NewValidation("la corrección excede lo abonado hasta ahora")
		}

		payment := &entity.Payment{
			SaleID:          saleID,
			PaymentMethodID: in.PaymentMethodID,
			Amount:          in.Amount,
			Note:            in.Note,
			CreatedAt:       time.Now(),
		}
		if err := paymentRepo.Create(ctx, payment); err != nil {
			return err
		}

		status := entity.SaleStatusPending
		statusChanged := false
		if balanceAfter.IsZero() {
			status = entity.SaleStatusPaid
			statusChanged = true
		}
		if err := saleRepo.UpdateSettlement(ctx, saleID, balanceAfter, status); err != nil {
			return err
		}

		resp = &dto.RegisterPaymentResponse{
			Payment: dto.SalePaymentResponse{
				ID:              payment.ID,
				PaymentMethodID: payment.PaymentMethodID,
				Amount:          payment.Amount,
				Note:            payment.Note,
			},
			BalanceBefore: balanceBefore,
			BalanceAfter:  balanceAfter,
			Status:        status,
			StatusChanged: statusChanged,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
