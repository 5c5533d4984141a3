package purchases

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

const (
	maxLineItems = 200
	maxQuantity  = 999_999
)

var (
	maxUnitCost      = decimal.NewFromInt(99_999_999)
	maxPurchaseTotal = decimal.NewFromInt(99_999_999)
)

// UseCase orquesta compras a proveedor. El efecto sobre el stock es el
// inverso de una venta: crear acredita unidades y revertir las debita, por
// lo que la reversión sí puede fallar cuando el stock comprado ya se vendió.
type UseCase struct {
	txRunner     TxRunner
	userRepo     repository.UserRepository
	purchaseRepo repository.PurchaseRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner, userRepo repository.UserRepository, purchaseRepo repository.PurchaseRepository) *UseCase {
	return &UseCase{txRunner: txRunner, userRepo: userRepo, purchaseRepo: purchaseRepo}
}

// validateLines valida las líneas y agrega cantidades por producto, con la
// misma política que ventas: producto repetido en la petición se rechaza.
func validateLines(lines []dto.PurchaseLineRequest) (map[int64]int64, error) {
	if len(lines) == 0 {
		return nil, domain.NewValidation("debes incluir al menos un producto en la compra")
	}
	if len(lines) > maxLineItems {
		return nil, domain.NewValidation("la compra no puede tener más de %d ítems", maxLineItems)
	}
	guardLines := make([]stock.Line, 0, len(lines))
	for i, l := range lines {
		if l.ProductID <= 0 {
			return nil, domain.NewValidation("el producto del ítem #%d no es válido", i+1)
		}
		if l.Quantity < 1 || l.Quantity > maxQuantity {
			return nil, domain.NewValidation("la cantidad del ítem #%d debe estar entre 1 y %d", i+1, maxQuantity)
		}
		if !l.UnitCost.IsPositive() || l.UnitCost.GreaterThan(maxUnitCost) {
			return nil, domain.NewValidation("el costo unitario del ítem #%d está fuera de rango", i+1)
		}
		guardLines = append(guardLines, stock.Line{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return stock.AggregateLines(guardLines)
}

// parsePurchaseDate resuelve hoy en la zona local, igual que en ventas.
func parsePurchaseDate(raw string) (time.Time, error) {
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

func computeTotal(lines []dto.PurchaseLineRequest) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.UnitCost.Mul(decimal.NewFromInt(l.Quantity)))
	}
	if total.GreaterThan(maxPurchaseTotal) {
		return decimal.Decimal{}, domain.NewValidation("el total de la compra excede el límite permitido")
	}
	return total, nil
}

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

func sortedIDs(ids map[int64]struct{}) []int64 {
	sorted := make([]int64, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return sorted
}

// lockProducts bloquea las filas de producto en orden de id. requireActive
// aplica al crear; una reversión acepta productos ya desactivados.
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

// checkReversal verifica que debitar las cantidades netas no deje ningún
// stock negativo. El stock comprado y ya revendido no puede "des-comprarse":
// ese faltante es un error bloqueante, no una advertencia.
func checkReversal(products map[int64]*entity.Product, deltas map[int64]int64) error {
	var deficits []domain.StockDeficit
	ids := make([]int64, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		delta := deltas[id]
		if delta >= 0 {
			continue
		}
		p := products[id]
		if p.StockCurrent+delta < 0 {
			deficits = append(deficits, domain.StockDeficit{
				ProductID:   id,
				ProductName: p.Name,
				Requested:   -delta,
				Available:   p.StockCurrent,
				Deficit:     -delta - p.StockCurrent,
			})
		}
	}
	if len(deficits) > 0 {
		return &domain.InsufficientStockError{Items: deficits}
	}
	return nil
}

// applyDeltas aplica los deltas netos vía el ledger y evalúa los umbrales
// sobre el stock resultante.
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

func buildDetails(purchaseID int64, lines []dto.PurchaseLineRequest) []*entity.PurchaseDetail {
	details := make([]*entity.PurchaseDetail, 0, len(lines))
	for _, l := range lines {
		details = append(details, &entity.PurchaseDetail{
			PurchaseID: purchaseID,
			ProductID:  l.ProductID,
			Quantity:   l.Quantity,
			UnitCost:   l.UnitCost,
			Subtotal:   l.UnitCost.Mul(decimal.NewFromInt(l.Quantity)),
		})
	}
	return details
}

func toPurchaseResponse(p *entity.Purchase, details []*entity.PurchaseDetail, warnings []entity.Warning) *dto.PurchaseResponse {
	resp := &dto.PurchaseResponse{
		ID:       p.ID,
		Folio:    p.Folio,
		Date:     p.PurchaseDate.Format("2006-01-02"),
		Total:    p.Total,
		Lines:    make([]dto.PurchaseLineResponse, 0, len(details)),
		Warnings: warnings,
	}
	for _, d := range details {
		resp.Lines = append(resp.Lines, dto.PurchaseLineResponse{
			ProductID: d.ProductID,
			Quantity:  d.Quantity,
			UnitCost:  d.UnitCost,
			Subtotal:  d.Subtotal,
		})
	}
	return resp
}
