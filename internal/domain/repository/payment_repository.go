package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fitcompany/fitstock-api/internal/domain/entity"
)

// PaymentRepository persiste abonos. Solo inserción y lectura: los pagos
// son un ledger append-only, las correcciones entran como filas nuevas.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	ListBySale(ctx context.Context, saleID int64) ([]*entity.Payment, error)

	// SumBySale devuelve Σ(amount) de los abonos de la venta; cero si no hay.
	SumBySale(ctx context.Context, saleID int64) (decimal.Decimal, error)

	// DeleteBySale elimina los abonos junto con su venta. Es la única baja
	// permitida: el ledger de pagos desaparece solo con la venta que lo originó.
	DeleteBySale(ctx context.Context, saleID int64) error
}

// PaymentMethodRepository resuelve métodos de pago de referencia.
type PaymentMethodRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.PaymentMethod, error)
	ListActive(ctx context.Context) ([]*entity.PaymentMethod, error)
}
