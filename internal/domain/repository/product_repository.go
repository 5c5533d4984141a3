package repository

import (
	"context"

	"github.com/fitcompany/fitstock-api/internal/domain/entity"
)

// ProductRepository es el puerto del ledger de stock sobre productos.
// GetManyForUpdate y ApplyStockDelta solo tienen sentido dentro de una
// transacción (TxRunner); las lecturas simples aceptan pool o tx.
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Product, error)

	// GetManyForUpdate lee y bloquea (SELECT ... FOR UPDATE) las filas de los
	// productos indicados, en orden de id para evitar deadlocks entre
	// transacciones concurrentes. El bloqueo se sostiene hasta el commit.
	GetManyForUpdate(ctx context.Context, ids []int64) (map[int64]*entity.Product, error)

	// ApplyStockDelta suma delta (negativo para débitos) a stock_current y
	// devuelve la cantidad resultante. Si el resultado violara el CHECK de
	// no-negatividad, devuelve domain.ErrIntegrity sin aplicar nada.
	ApplyStockDelta(ctx context.Context, id int64, delta int64) (int64, error)
}
