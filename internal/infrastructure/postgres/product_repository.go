package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fitcompany/fitstock-api/internal/domain"
	"github.com/fitcompany/fitstock-api/internal/domain/entity"
	"github.com/fitcompany/fitstock-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, name, cost_price, sale_price, stock_current, stock_min, stock_max, active, created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.CostPrice, &p.SalePrice,
		&p.StockCurrent, &p.StockMin, &p.StockMax, &p.Active,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID obtiene un producto por ID. Devuelve nil sin error si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetManyForUpdate lee y bloquea las filas de producto indicadas.
// El ORDER BY id fija el orden de adquisición de los bloqueos: dos
// transacciones que toquen los mismos productos no pueden entrelazarse.
func (r *ProductRepo) GetManyForUpdate(ctx context.Context, ids []int64) (map[int64]*entity.Product, error) {
	if len(ids) == 0 {
		return map[int64]*entity.Product{}, nil
	}
	query := `
		SELECT ` + productColumns + `
		FROM products WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("lock products: %w", err)
	}
	defer rows.Close()

	products := make(map[int64]*entity.Product, len(ids))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

// ApplyStockDelta suma delta a stock_current en un único UPDATE y devuelve
// la cantidad resultante. El CHECK de no-negatividad de la tabla es la última
// barrera: si se viola, se devuelve ErrIntegrity y la tx hará rollback.
func (r *ProductRepo) ApplyStockDelta(ctx context.Context, id int64, delta int64) (int64, error) {
	query := `
		UPDATE products
		SET stock_current = stock_current + $2, updated_at = now()
		WHERE id = $1
		RETURNING stock_current`
	var after int64
	err := r.q.QueryRow(ctx, query, id, delta).Scan(&after)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		if isCheckViolation(err) {
			return 0, domain.ErrIntegrity
		}
		return 0, fmt.Errorf("apply stock delta: %w", err)
	}
	return after, nil
}
