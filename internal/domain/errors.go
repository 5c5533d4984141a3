package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrBalanceExceeded   = errors.New("el monto excede el saldo pendiente")
	ErrTerminalState     = errors.New("la venta está en un estado terminal")
	ErrIntegrity         = errors.New("violación de integridad en almacenamiento")
)

// StockDeficit describe el faltante de un producto al validar una venta
// o al revertir una compra. Requested y Available quedan en unidades.
type StockDeficit struct {
	ProductID   int64  `json:"producto_id"`
	ProductName string `json:"nombre"`
	Requested   int64  `json:"solicitado"`
	Available   int64  `json:"disponible"`
	Deficit     int64  `json:"deficit"`
}

// InsufficientStockError agrupa todos los productos sin stock suficiente.
// La operación se rechaza completa: nunca se aplica una parte de la transacción.
type InsufficientStockError struct {
	Items []StockDeficit
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente en %d producto(s)", len(e.Items))
}

// Unwrap permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// ValidationError señala un payload malformado o fuera de rango,
// detectado antes de cualquier I/O.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidation construye un ValidationError con formato.
func NewValidation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
