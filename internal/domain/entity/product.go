package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo con su stock autoritativo.
// StockCurrent solo se muta a través del delta atómico del ledger
// (ProductRepository.ApplyStockDelta), nunca por asignación directa.
// Invariantes: 0 <= StockCurrent; StockMin <= StockMax.
type Product struct {
	ID           int64
	Name         string
	CostPrice    decimal.Decimal
	SalePrice    decimal.Decimal
	StockCurrent int64
	StockMin     int64
	StockMax     int64
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
