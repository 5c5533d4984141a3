package dto

import (
	"github.com/shopspring/decimal"

	"github.com/fitcompany/fitstock-api/internal/domain/entity"
)

// SaleLineRequest es una línea de venta del payload HTTP.
type SaleLineRequest struct {
	ProductID int64           `json:"id_producto"`
	Quantity  int64           `json:"cantidad"`
	UnitPrice decimal.Decimal `json:"precio_unitario"`
}

// SalePaymentRequest es un pago incluido al crear la venta.
type SalePaymentRequest struct {
	PaymentMethodID int64           `json:"id_metodo_pago"`
	Amount          decimal.Decimal `json:"monto"`
	Note            string          `json:"observaciones"`
}

// CreateSaleRequest es el payload de POST /api/ventas y PUT /api/ventas/:id.
// Si Date viene vacío se usa la fecha actual; nunca puede ser futura.
// Si Σ(pagos) < total la venta es fiada y CustomerDescription es obligatorio.
type CreateSaleRequest struct {
	Date                string               `json:"fecha_venta"`
	CustomerDescription string               `json:"cliente_desc"`
	Lines               []SaleLineRequest    `json:"detalles"`
	Payments            []SalePaymentRequest `json:"pagos"`
}

// RegisterPaymentRequest es el payload de POST /api/ventas/:id/abonos.
type RegisterPaymentRequest struct {
	PaymentMethodID int64           `json:"id_metodo_pago"`
	Amount          decimal.Decimal `json:"monto"`
	Note            string          `json:"observaciones"`
}

// SaleResponse es la vista de una venta con líneas, pagos y advertencias.
type SaleResponse struct {
	ID                  int64                 `json:"id_venta"`
	Folio               string                `json:"folio"`
	Date                string                `json:"fecha_venta"`
	Total               decimal.Decimal       `json:"total"`
	IsCredit            bool                  `json:"es_fiado"`
	CustomerDescription string                `json:"cliente_desc,omitempty"`
	BalanceRemaining    decimal.Decimal       `json:"saldo_pendiente"`
	Status              string                `json:"estado"`
	Lines               []SaleLineResponse    `json:"detalles"`
	Payments            []SalePaymentResponse `json:"pagos"`
	Warnings            []entity.Warning      `json:"warnings,omitempty"`
}

// SaleLineResponse es una línea de venta persistida.
type SaleLineResponse struct {
	ProductID int64           `json:"id_producto"`
	Quantity  int64           `json:"cantidad"`
	UnitPrice decimal.Decimal `json:"precio_unitario"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SalePaymentResponse es un abono persistido.
type SalePaymentResponse struct {
	ID              string          `json:"id_abono"`
	PaymentMethodID int64           `json:"id_metodo_pago"`
	Amount          decimal.Decimal `json:"monto"`
	Note            string          `json:"observaciones,omitempty"`
}

// RegisterPaymentResponse reporta el abono y el movimiento del saldo.
type RegisterPaymentResponse struct {
	Payment       SalePaymentResponse `json:"abono"`
	BalanceBefore decimal.Decimal     `json:"saldo_anterior"`
	BalanceAfter  decimal.Decimal     `json:"saldo_nuevo"`
	Status        string              `json:"estado"`
	StatusChanged bool                `json:"estado_cambio"`
}

// DeleteResponse reporta las advertencias de la reversión de stock.
type DeleteResponse struct {
	Warnings []entity.Warning `json:"warnings,omitempty"`
}
