package sales

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fitcompany/fitstock-api/internal/application/dto"
	"github.com/fitcompany/fitstock-api/internal/domain"
	"github.com/fitcompany/fitstock-api/internal/domain/entity"
	"github.com/fitcompany/fitstock-api/internal/domain/repository"
	"github.com/fitcompany/fitstock-api/internal/domain/stock"
)

// Límites de payload, heredados de la operación del negocio.
const (
	maxLineItems = 200
	maxQuantity  = 999_999
)

var (
	maxUnitPrice = decimal.NewFromInt(99_999_999)
	maxSaleTotal = decimal.NewFromInt(99_999_999)
)

// UseCase orquesta ventas: creación, reemplazo, eliminación y abonos.
// Toda mutación de stock pasa por el ledger (ApplyStockDelta) dentro de una
// transacción con las filas de producto bloqueadas hasta el commit.
type UseCase struct {
	txRunner   TxRunner
	userRepo   repository.UserRepository
	methodRepo repository.PaymentMethodRepository
	saleRepo   repository.SaleRepository
	payRepo    repository.PaymentRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	userRepo repository.UserRepository,
	methodRepo repository.PaymentMethodRepository,
	saleRepo repository.SaleRepository,
	payRepo repository.PaymentRepository,
) *UseCase {
	return &UseCase{
		txRunner:   txRunner,
		userRepo:   userRepo,
		methodRepo: methodRepo,
		saleRepo:   saleRepo,
		payRepo:    payRepo,
	}
}

// validateLines valida formato y rangos de las líneas y devuelve las
// cantidades agregadas por producto (rechazando productos repetidos).
func validateLines(lines []dto.SaleLineRequest) (map[int64]int64, error) {
	if len(lines) == 0 {
		return nil, domain.NewValidation("debes incluir al menos un producto en la venta")
	}
	if len(lines) > maxLineItems {
		return nil, domain.NewValidation("la venta no puede tener más de %d ítems", maxLineItems)
	}
	guardLines := make([]stock.Line, 0, len(lines))
	for i, l := range lines {
		if l.ProductID <= 0 {
			return nil, domain.NewValidation("el producto del ítem #%d no es válido", i+1)
		}
		if l.Quantity < 1 || l.Quantity > maxQuantity {
			return nil, domain.NewValidation("la cantidad del ítem #%d debe estar entre 1 y %d", i+1, maxQuantity)
		}
		if !l.UnitPrice.IsPositive() || l.UnitPrice.GreaterThan(maxUnitPrice) {
			return nil, domain.NewValidation("el precio unitario del ítem #%d está fuera de rango", i+1)
		}
		guardLines = append(guardLines, stock.Line{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return stock.AggregateLines(guardLines)
}

// parseSaleDate interpreta la fecha del payload (vacía = hoy) y rechaza
// fechas futuras. Hoy se resuelve en la zona local, no sobre el día UTC.
func parseSaleDate(raw string) (time.Time, error) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if raw == "" {
		return today, nil
	}
	d, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return time.Time{}, domain.NewValidation("fecha inválida, formato esperado YYYY-MM-DD")
	}
	if d.After(today) {
		return time.Time{}, domain.NewValidation("la fecha no puede ser futura")
	}
	return d, nil
}

// computeTotal calcula total = Σ(cantidad × precio unitario) y lo valida.
func computeTotal(lines []dto.SaleLineRequest) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity)))
	}
	if total.GreaterThan(maxSaleTotal) {
		return decimal.Decimal{}, domain.NewValidation("el total de la venta excede el límite permitido")
	}
	return total, nil
}

// resolveUser verifica que el usuario actuante exista y esté activo.
func (uc *UseCase) resolveUser(ctx context.Context, userID int64) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil || !user.Active {
		return domain.ErrNotFound
	}
	return nil
}

// validatePayments valida los pagos iniciales de una venta y devuelve su suma.
// Cada método referenciado debe existir y estar activo.
func (uc *UseCase) validatePayments(ctx context.Context, payments []dto.SalePaymentRequest) (decimal.Decimal, error) {
	sum := decimal.Zero
	for i, p := range payments {
		if !p.Amount.IsPositive() {
			return decimal.Decimal{}, domain.NewValidation("el monto del pago #%d debe ser positivo", i+1)
		}
		method, err := uc.methodRepo.GetByID(ctx, p.PaymentMethodID)
		if err != nil {
			return decimal.Decimal{}, err
		}
		if method == nil || !method.Active {
			return decimal.Decimal{}, domain.ErrNotFound
		}
		sum = sum.Add(p.Amount)
	}
	return sum, nil
}

func sortedIDs(ids map[int64]struct{}) []int64 {
	sorted := make([]int64, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return sorted
}

// lockProducts bloquea las filas de producto en orden de id. requireActive
// aplica a los productos que la operación vende; revertir el débito de un
// producto desactivado después de la venta sigue siendo válido.
func lockProducts(ctx context.Context, productRepo repository.ProductRepository, ids map[int64]struct{}, requireActive bool) (map[int64]*entity.Product, error) {
	sorted := sortedIDs(ids)

	products, err := productRepo.GetManyForUpdate(ctx, sorted)
	if err != nil {
		return nil, err
	}
	for _, id := range sorted {
		p, ok := products[id]
		if !ok || (requireActive && !p.Active) {
			return nil, domain.ErrNotFound
		}
	}
	return products, nil
}

// applyDeltas aplica los deltas netos por producto vía el ledger y evalúa
// los umbrales sobre el stock resultante. Un delta neto cero no toca la fila.
func applyDeltas(ctx context.Context, productRepo repository.ProductRepository, products map[int64]*entity.Product, deltas map[int64]int64) ([]entity.Warning, error) {
	ids := make([]int64, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var warnings []entity.Warning
	for _, id := range ids {
		delta := deltas[id]
		if delta == 0 {
			continue
		}
		after, err := productRepo.ApplyStockDelta(ctx, id, delta)
		if err != nil {
			return nil, err
		}
		p := products[id]
		if w := stock.EvaluateThreshold(id, after, p.StockMin, p.StockMax); w != nil {
			warnings = append(warnings, *w)
		}
	}
	return warnings, nil
}

// checkOversell corre la guarda de sobreventa y materializa el error
// estructurado con la lista de faltantes. Nil significa que la venta procede.
func checkOversell(requested map[int64]int64, products map[int64]*entity.Product, prior map[int64]int64) error {
	deficits := stock.CheckAvailability(requested, products, prior)
	if len(deficits) == 0 {
		return nil
	}
	return &domain.InsufficientStockError{Items: deficits}
}

func toSaleResponse(sale *entity.Sale, details []*entity.SaleDetail, payments []*entity.Payment, warnings []entity.Warning) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:                  sale.ID,
		Folio:               sale.Folio,
		Date:                sale.SaleDate.Format("2006-01-02"),
		Total:               sale.Total,
		IsCredit:            sale.IsCredit,
		CustomerDescription: sale.CustomerDescription,
		BalanceRemaining:    sale.BalanceRemaining,
		Status:              sale.Status,
		Lines:               make([]dto.SaleLineResponse, 0, len(details)),
		Payments:            make([]dto.SalePaymentResponse, 0, len(payments)),
		Warnings:            warnings,
	}
	for _, d := range details {
		resp.Lines = append(resp.Lines, dto.SaleLineResponse{
			ProductID: d.ProductID,
			Quantity:  d.Quantity,
			UnitPrice: d.UnitPrice,
			Subtotal:  d.Subtotal,
		})
	}
	for _, p := range payments {
		resp.Payments = append(resp.Payments, dto.SalePaymentResponse{
			ID:              p.ID,
			PaymentMethodID: p.PaymentMethodID,
			Amount:          p.Amount,
			Note:            p.Note,
		})
	}
	return resp
}
