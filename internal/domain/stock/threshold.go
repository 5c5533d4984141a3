package stock

import "github.com/fitcompany/fitstock-api/internal/domain/entity"

// EvaluateThreshold clasifica el stock resultante de una mutación contra los
// umbrales configurados del producto. Devuelve a lo sumo una advertencia:
// un mismo delta no puede violar ambos rangos. Nil significa dentro de rango.
// Las advertencias son informativas y jamás afectan el commit.
func EvaluateThreshold(productID, after, min, max int64) *entity.Warning {
	switch {
	case after < min:
		return &entity.Warning{
			Code:    entity.WarningStockBelowMin,
			Message: "El stock quedó por debajo del mínimo configurado.",
			Meta:    entity.WarningMeta{ProductID: productID, Limit: min, After: after},
		}
	case after > max:
		return &entity.Warning{
			Code:    entity.WarningStockAboveMax,
			Message: "El stock quedó por encima del máximo configurado.",
			Meta:    entity.WarningMeta{ProductID: productID, Limit: max, After: after},
		}
	default:
		return nil
	}
}
