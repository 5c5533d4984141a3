package dto

import (
	"github.com/shopspring/decimal"

	"github.com/fitcompany/fitstock-api/internal/domain/entity"
)

// PurchaseLineRequest es una línea de compra del payload HTTP.
type PurchaseLineRequest struct {
	ProductID int64           `json:"id_producto"`
	Quantity  int64           `json:"cantidad"`
	UnitCost  decimal.Decimal `json:"costo_unitario"`
}

// CreatePurchaseRequest es el payload de POST /api/compras y PUT /api/compras/:id.
type CreatePurchaseRequest struct {
	Date  string                `json:"fecha_compra"`
	Lines []PurchaseLineRequest `json:"detalles"`
}

// PurchaseResponse es la vista de una compra con líneas y advertencias.
type PurchaseResponse struct {
	ID       int64                  `json:"id_compra"`
	Folio    string                 `json:"folio"`
	Date     string                 `json:"fecha_compra"`
	Total    decimal.Decimal        `json:"total"`
	Lines    []PurchaseLineResponse `json:"detalles"`
	Warnings []entity.Warning       `json:"warnings,omitempty"`
}

// PurchaseLineResponse es una línea de compra persistida.
type PurchaseLineResponse struct {
	ProductID int64           `json:"id_producto"`
	Quantity  int64           `json:"cantidad"`
	UnitCost  decimal.Decimal `json:"costo_unitario"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}
