package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/fitcompany/fitstock-api/internal/domain"
	"github.com/fitcompany/fitstock-api/internal/domain/entity"
	"github.com/fitcompany/fitstock-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, folio, sale_date, total, is_credit, customer_description, balance_remaining, status, created_by, created_at, updated_at`

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(
		&s.ID, &s.Folio, &s.SaleDate, &s.Total, &s.IsCredit,
		&s.CustomerDescription, &s.BalanceRemaining, &s.Status,
		&s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create persiste la cabecera y asigna el folio consecutivo VTA-NNNNNN
// derivado del id que entrega la secuencia.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	query := `
		INSERT INTO sales (sale_date, total, is_credit, customer_description, balance_remaining, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		sale.SaleDate, sale.Total, sale.IsCredit, sale.CustomerDescription,
		sale.BalanceRemaining, sale.Status, sale.CreatedBy,
	).Scan(&sale.ID, &sale.CreatedAt, &sale.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}

	err = r.q.QueryRow(ctx,
		`UPDATE sales SET folio = 'VTA-' || lpad($1::text, 6, '0') WHERE id = $1 RETURNING folio`,
		sale.ID,
	).Scan(&sale.Folio)
	if err != nil {
		return fmt.Errorf("assign sale folio: %w", err)
	}
	return nil
}

// GetByID obtiene una venta por ID. Devuelve nil sin error si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id int64) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	s, err := scanSale(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// GetByIDForUpdate obtiene la cabecera y bloquea la fila hasta el commit.
func (r *SaleRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1 FOR UPDATE`
	s, err := scanSale(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale for update: %w", err)
	}
	return s, nil
}

// UpdateSettlement actualiza saldo y estado tras registrar un abono.
func (r *SaleRepo) UpdateSettlement(ctx context.Context, id int64, balance decimal.Decimal, status string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE sales SET balance_remaining = $2, status = $3, updated_at = now() WHERE id = $1`,
		id, balance, status,
	)
	if err != nil {
		return fmt.Errorf("update sale settlement: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateHeader reescribe los campos mutables de la cabecera al reemplazar la venta.
func (r *SaleRepo) UpdateHeader(ctx context.Context, sale *entity.Sale) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE sales
		SET sale_date = $2, total = $3, is_credit = $4, customer_description = $5,
		    balance_remaining = $6, status = $7, created_by = $8, updated_at = now()
		WHERE id = $1`,
		sale.ID, sale.SaleDate, sale.Total, sale.IsCredit, sale.CustomerDescription,
		sale.BalanceRemaining, sale.Status, sale.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("update sale header: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la cabecera. Las líneas y abonos se borran antes, en la misma tx.
func (r *SaleRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve ventas filtradas, más recientes primero.
func (r *SaleRepo) List(ctx context.Context, filter repository.SaleFilter) ([]*entity.Sale, error) {
	builder := sq.Select(saleColumns).
		From("sales").
		OrderBy("sale_date DESC, id DESC").
		PlaceholderFormat(sq.Dollar)

	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": filter.Status})
	}
	if filter.IsCredit != nil {
		builder = builder.Where(sq.Eq{"is_credit": *filter.IsCredit})
	}
	if filter.From != nil {
		builder = builder.Where(sq.GtOrEq{"sale_date": *filter.From})
	}
	if filter.To != nil {
		builder = builder.Where(sq.LtOrEq{"sale_date": *filter.To})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sale list query: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var sales []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales: %w", err)
	}
	return sales, nil
}

// CreateDetails inserta las líneas de la venta.
func (r *SaleRepo) CreateDetails(ctx context.Context, saleID int64, details []*entity.SaleDetail) error {
	for _, d := range details {
		err := r.q.QueryRow(ctx, `
			INSERT INTO sale_details (sale_id, product_id, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			saleID, d.ProductID, d.Quantity, d.UnitPrice, d.Subtotal,
		).Scan(&d.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.NewValidation("producto repetido en la venta")
			}
			return fmt.Errorf("insert sale detail: %w", err)
		}
		d.SaleID = saleID
	}
	return nil
}

// GetDetails devuelve las líneas de la venta en orden de inserción.
func (r *SaleRepo) GetDetails(ctx context.Context, saleID int64) ([]*entity.SaleDetail, error) {
	query := `
		SELECT id, sale_id, product_id, quantity, unit_price, subtotal
		FROM sale_details WHERE sale_id = $1
		ORDER BY id`
	rows, err := r.q.Query(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("get sale details: %w", err)
	}
	defer rows.Close()

	var details []*entity.SaleDetail
	for rows.Next() {
		var d entity.SaleDetail
		if err := rows.Scan(&d.ID, &d.SaleID, &d.ProductID, &d.Quantity, &d.UnitPrice, &d.Subtotal); err != nil {
			return nil, fmt.Errorf("scan sale detail: %w", err)
		}
		details = append(details, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sale details: %w", err)
	}
	return details, nil
}

// DeleteDetails elimina todas las líneas de la venta.
func (r *SaleRepo) DeleteDetails(ctx context.Context, saleID int64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM sale_details WHERE sale_id = $1`, saleID)
	if err != nil {
		return fmt.Errorf("delete sale details: %w", err)
	}
	return nil
}
