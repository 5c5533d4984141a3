package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment representa un abono aplicado a una venta fiada.
// La tabla es append-only: los pagos nunca se editan ni se borran;
// una corrección se modela como un nuevo abono con monto negativo.
type Payment struct {
	ID              string // UUID
	SaleID          int64
	PaymentMethodID int64
	Amount          decimal.Decimal
	Note            string
	CreatedAt       time.Time
}

// PaymentMethod es dato de referencia (efectivo, transferencia, etc.).
type PaymentMethod struct {
	ID     int64
	Name   string
	Active bool
}
