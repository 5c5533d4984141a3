package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta. PAID y CANCELLED son terminales:
// no aceptan más abonos ni cambios de estado.
const (
	SaleStatusPending   = "PENDIENTE"
	SaleStatusPaid      = "PAGADA"
	SaleStatusCancelled = "CANCELADA"
)

// Sale representa la cabecera de una venta.
// Invariantes: BalanceRemaining = Total − Σ(pagos); Status = PAGADA ⟺ BalanceRemaining = 0.
// IsCredit (fiado) es verdadero cuando los pagos al crear fueron menores al total;
// en ese caso CustomerDescription es obligatorio.
type Sale struct {
	ID                  int64
	Folio               string
	SaleDate            time.Time
	Total               decimal.Decimal
	IsCredit            bool
	CustomerDescription string
	BalanceRemaining    decimal.Decimal
	Status              string
	CreatedBy           int64
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// SaleDetail representa una línea de venta. Subtotal es derivado
// (Quantity × UnitPrice) e inmutable: una edición reemplaza todas las
// líneas de la venta, nunca muta cantidades en sitio.
type SaleDetail struct {
	ID        int64
	SaleID    int64
	ProductID int64
	Quantity  int64
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// IsTerminal indica si la venta ya no admite mutaciones (abonos, edición).
func (s *Sale) IsTerminal() bool {
	return s.Status == SaleStatusPaid || s.Status == SaleStatusCancelled
}
