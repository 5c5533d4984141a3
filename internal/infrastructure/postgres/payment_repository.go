package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fitcompany/fitstock-api/internal/domain/entity"
	"github.com/fitcompany/fitstock-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación de PaymentRepository sobre PostgreSQL (usable con pool o tx).
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador de abonos. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

// Create inserta un abono. Genera el UUID si el caller no trae uno.
func (r *PaymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	query := `
		INSERT INTO payments (id, sale_id, payment_method_id, amount, note)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`
	err := r.q.QueryRow(ctx, query,
		payment.ID, payment.SaleID, payment.PaymentMethodID, payment.Amount, payment.Note,
	).Scan(&payment.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// ListBySale devuelve los abonos de la venta en orden cronológico.
func (r *PaymentRepo) ListBySale(ctx context.Context, saleID int64) ([]*entity.Payment, error) {
	query := `
		SELECT id, sale_id, payment_method_id, amount, note, created_at
		FROM payments WHERE sale_id = $1
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []*entity.Payment
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(&p.ID, &p.SaleID, &p.PaymentMethodID, &p.Amount, &p.Note, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}
	return payments, nil
}

// SumBySale devuelve Σ(amount) de los abonos de la venta; cero si no hay.
func (r *PaymentRepo) SumBySale(ctx context.Context, saleID int64) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE sale_id = $1`,
		saleID,
	).Scan(&sum)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("sum payments: %w", err)
	}
	return sum, nil
}

// DeleteBySale elimina los abonos junto con su venta.
func (r *PaymentRepo) DeleteBySale(ctx context.Context, saleID int64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM payments WHERE sale_id = $1`, saleID)
	if err != nil {
		return fmt.Errorf("delete payments: %w", err)
	}
	return nil
}
