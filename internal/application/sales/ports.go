package sales

import (
	"context"

	"github.com/fitcompany/fitstock-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad de cabecera, líneas,
// deltas de stock y pagos: o se aplica todo, o nada.
type TxRunner interface {
	RunSales(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		paymentRepo repository.PaymentRepository,
		productRepo repository.ProductRepository,
	) error) error
}
