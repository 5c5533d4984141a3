package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/fitcompany/fitstock-api/internal/domain"
	"github.com/fitcompany/fitstock-api/internal/domain/entity"
	"github.com/fitcompany/fitstock-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo implementación de PurchaseRepository sobre PostgreSQL (usable con pool o tx).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador de compras. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

const purchaseColumns = `id, folio, purchase_date, total, created_by, created_at, updated_at`

func scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	var p entity.Purchase
	err := row.Scan(&p.ID, &p.Folio, &p.PurchaseDate, &p.Total, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste la cabecera y asigna el folio consecutivo CMP-NNNNNN.
func (r *PurchaseRepo) Create(ctx context.Context, purchase *entity.Purchase) error {
	query := `
		INSERT INTO purchases (purchase_date, total, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		purchase.PurchaseDate, purchase.Total, purchase.CreatedBy,
	).Scan(&purchase.ID, &purchase.CreatedAt, &purchase.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}

	err = r.q.QueryRow(ctx,
		`UPDATE purchases SET folio = 'CMP-' || lpad($1::text, 6, '0') WHERE id = $1 RETURNING folio`,
		purchase.ID,
	).Scan(&purchase.Folio)
	if err != nil {
		return fmt.Errorf("assign purchase folio: %w", err)
	}
	return nil
}

// GetByID obtiene una compra por ID. Devuelve nil sin error si no existe.
func (r *PurchaseRepo) GetByID(ctx context.Context, id int64) (*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = $1`
	p, err := scanPurchase(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return p, nil
}

// GetByIDForUpdate obtiene la cabecera y bloquea la fila hasta el commit.
func (r *PurchaseRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = $1 FOR UPDATE`
	p, err := scanPurchase(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase for update: %w", err)
	}
	return p, nil
}

// UpdateHeader reescribe los campos mutables de la cabecera al reemplazar la compra.
func (r *PurchaseRepo) UpdateHeader(ctx context.Context, purchase *entity.Purchase) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE purchases
		SET purchase_date = $2, total = $3, created_by = $4, updated_at = now()
		WHERE id = $1`,
		purchase.ID, purchase.PurchaseDate, purchase.Total, purchase.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("update purchase header: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la cabecera. Las líneas se borran antes, en la misma tx.
func (r *PurchaseRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM purchases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve compras filtradas por rango de fechas, más recientes primero.
func (r *PurchaseRepo) List(ctx context.Context, filter repository.PurchaseFilter) ([]*entity.Purchase, error) {
	builder := sq.Select(purchaseColumns).
		From("purchases").
		OrderBy("purchase_date DESC, id DESC").
		PlaceholderFormat(sq.Dollar)

	if filter.From != nil {
		builder = builder.Where(sq.GtOrEq{"purchase_date": *filter.From})
	}
	if filter.To != nil {
		builder = builder.Where(sq.LtOrEq{"purchase_date": *filter.To})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build purchase list query: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	var purchases []*entity.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		purchases = append(purchases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate purchases: %w", err)
	}
	return purchases, nil
}

// CreateDetails inserta las líneas de la compra.
func (r *PurchaseRepo) CreateDetails(ctx context.Context, purchaseID int64, details []*entity.PurchaseDetail) error {
	for _, d := range details {
		err := r.q.QueryRow(ctx, `
			INSERT INTO purchase_details (purchase_id, product_id, quantity, unit_cost, subtotal)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			purchaseID, d.ProductID, d.Quantity, d.UnitCost, d.Subtotal,
		).Scan(&d.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.NewValidation("producto repetido en la compra")
			}
			return fmt.Errorf("insert purchase detail: %w", err)
		}
		d.PurchaseID = purchaseID
	}
	return nil
}

// GetDetails devuelve las líneas de la compra en orden de inserción.
func (r *PurchaseRepo) GetDetails(ctx context.Context, purchaseID int64) ([]*entity.PurchaseDetail, error) {
	query := `
		SELECT id, purchase_id, product_id, quantity, unit_cost, subtotal
		FROM purchase_details WHERE purchase_id = $1
		ORDER BY id`
	rows, err := r.q.Query(ctx, query, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("get purchase details: %w", err)
	}
	defer rows.Close()

	var details []*entity.PurchaseDetail
	for rows.Next() {
		var d entity.PurchaseDetail
		if err := rows.Scan(&d.ID, &d.PurchaseID, &d.ProductID, &d.Quantity, &d.UnitCost, &d.Subtotal); err != nil {
			return nil, fmt.Errorf("scan purchase detail: %w", err)
		}
		details = append(details, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate purchase details: %w", err)
	}
	return details, nil
}

// DeleteDetails elimina todas las líneas de la compra.
func (r *PurchaseRepo) DeleteDetails(ctx context.Context, purchaseID int64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM purchase_details WHERE purchase_id = $1`, purchaseID)
	if err != nil {
		return fmt.Errorf("delete purchase details: %w", err)
	}
	return nil
}
