package purchases

import (
	"context"

	"github.com/fitcompany/fitstock-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Misma garantía de atomicidad que en ventas.
type TxRunner interface {
	RunPurchases(ctx context.Context, fn func(
		purchaseRepo repository.PurchaseRepository,
		productRepo repository.ProductRepository,
	) error) error
}
