package entity

// Códigos de advertencia de umbrales de stock.
const (
	WarningStockBelowMin = "STOCK_BELOW_MIN"
	WarningStockAboveMax = "STOCK_ABOVE_MAX"
)

// WarningMeta detalla el producto y el umbral cruzado.
type WarningMeta struct {
	ProductID int64 `json:"producto_id"`
	Limit     int64 `json:"limite"`
	After     int64 `json:"stock_resultante"`
}

// Warning es un aviso informativo adjunto a un resultado exitoso.
// Nunca bloquea el commit de la transacción que lo originó.
type Warning struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Meta    WarningMeta `json:"meta"`
}
