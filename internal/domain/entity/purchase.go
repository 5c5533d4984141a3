package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase representa la cabecera de una compra a proveedor.
// Las compras siempre son de contado (nunca fiado) y su efecto sobre el
// stock es el inverso de una venta: cada línea suma unidades.
type Purchase struct {
	ID           int64
	Folio        string
	PurchaseDate time.Time
	Total        decimal.Decimal
	CreatedBy    int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PurchaseDetail representa una línea de compra. Subtotal es derivado
// (Quantity × UnitCost) e inmutable.
type PurchaseDetail struct {
	ID         int64
	PurchaseID int64
	ProductID  int64
	Quantity   int64
	UnitCost   decimal.Decimal
	Subtotal   decimal.Decimal
}
