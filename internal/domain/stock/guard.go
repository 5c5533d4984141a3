package stock

import (
	"sort"

	"github.com/fitcompany/fitstock-api/internal/domain"
	"github.com/fitcompany/fitstock-api/internal/domain/entity"
)

// Line es una cantidad solicitada sobre un producto.
type Line struct {
	ProductID int64
	Quantity  int64
}

// AggregateLines valida y agrupa las líneas por producto.
// Política uniforme para ventas y compras: un producto repetido en la misma
// petición se rechaza; la agregación es responsabilidad del caller.
func AggregateLines(lines []Line) (map[int64]int64, error) {
	requested := make(map[int64]int64, len(lines))
	for _, l := range lines {
		if _, dup := requested[l.ProductID]; dup {
			return nil, domain.NewValidation("el producto %d aparece en más de una línea", l.ProductID)
		}
		requested[l.ProductID] = l.Quantity
	}
	return requested, nil
}

// CheckAvailability decide si una venta puede proceder sin dejar stock
// negativo. Para cada producto compara lo solicitado contra
// disponible = stock actual + asignación previa (cantidades de la versión
// anterior de la misma venta cuando se trata de una edición; cero al crear).
// Devuelve la lista de faltantes; vacía significa que la venta procede.
// Los stocks deben leerse con bloqueo de fila sostenido hasta el commit.
func CheckAvailability(requested map[int64]int64, products map[int64]*entity.Product, prior map[int64]int64) []domain.StockDeficit {
	var deficits []domain.StockDeficit
	for productID, qty := range requested {
		available := prior[productID]
		name := ""
		if p, ok := products[productID]; ok {
			available += p.StockCurrent
			name = p.Name
		}
		if qty > available {
			deficits = append(deficits, domain.StockDeficit{
				ProductID:   productID,
				ProductName: name,
				Requested:   qty,
				Available:   available,
				Deficit:     qty - available,
			})
		}
	}
	// Orden determinista para respuestas y tests estables.
	sort.Slice(deficits, func(i, j int) bool { return deficits[i].ProductID < deficits[j].ProductID })
	return deficits
}
