package dto

import "github.com/fitcompany/fitstock-api/internal/domain"

// ErrorResponse es la forma estándar de error de la API: código estable,
// mensaje legible y, cuando aplica, los faltantes por producto.
type ErrorResponse struct {
	Code    string                `json:"code"`
	Message string                `json:"message"`
	Items   []domain.StockDeficit `json:"items,omitempty"`
}
