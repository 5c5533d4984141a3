package sales_test

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fitcompany/fitstock-api/internal/domain"
	"github.com/fitcompany/fitstock-api/internal/domain/entity"
	"github.com/fitcompany/fitstock-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria: un único store implementa los puertos de persistencia y
// el TxRunner toma un snapshot al comenzar y lo restaura si fn falla, para
// reproducir la semántica todo-o-nada de una transacción real.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	products map[int64]*entity.Product
	sales    map[int64]*entity.Sale
	details  map[int64][]*entity.SaleDetail
	payments map[int64][]*entity.Payment
	users    map[int64]*entity.User
	methods  map[int64]*entity.PaymentMethod

	nextSaleID    int64
	nextPaymentID int64
}

func newMemStore() *memStore {
	return &memStore{
		products: map[int64]*entity.Product{},
		sales:    map[int64]*entity.Sale{},
		details:  map[int64][]*entity.SaleDetail{},
		payments: map[int64][]*entity.Payment{},
		users:    map[int64]*entity.User{},
		methods:  map[int64]*entity.PaymentMethod{},
	}
}

func (s *memStore) snapshot() *memStore {
	cp := newMemStore()
	cp.nextSaleID = s.nextSaleID
	cp.nextPaymentID = s.nextPaymentID
	for id, p := range s.products {
		c := *p
		cp.products[id] = &c
	}
	for id, v := range s.sales {
		c := *v
		cp.sales[id] = &c
	}
	for id, ds := range s.details {
		for _, d := range ds {
			c := *d
			cp.details[id] = append(cp.details[id], &c)
		}
	}
	for id, ps := range s.payments {
		for _, p := range ps {
			c := *p
			cp.payments[id] = append(cp.payments[id], &c)
		}
	}
	for id, u := range s.users {
		c := *u
		cp.users[id] = &c
	}
	for id, m := range s.methods {
		c := *m
		cp.methods[id] = &c
	}
	return cp
}

func (s *memStore) restore(from *memStore) {
	s.products = from.products
	s.sales = from.sales
	s.details = from.details
	s.payments = from.payments
	s.users = from.users
	s.methods = from.methods
	s.nextSaleID = from.nextSaleID
	s.nextPaymentID = from.nextPaymentID
}

// ── ProductRepository ─────────────────────────────────────────────────────────

func (s *memStore) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (s *memStore) GetManyForUpdate(_ context.Context, ids []int64) (map[int64]*entity.Product, error) {
	out := make(map[int64]*entity.Product, len(ids))
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			c := *p
			out[id] = &c
		}
	}
	return out, nil
}

func (s *memStore) ApplyStockDelta(_ context.Context, id int64, delta int64) (int64, error) {
	p, ok := s.products[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	after := p.StockCurrent + delta
	if after < 0 {
		return 0, domain.ErrIntegrity
	}
	p.StockCurrent = after
	return after, nil
}

// ── SaleRepository ────────────────────────────────────────────────────────────

func (s *memStore) Create(_ context.Context, sale *entity.Sale) error {
	s.nextSaleID++
	sale.ID = s.nextSaleID
	sale.Folio = fmt.Sprintf("VTA-%06d", sale.ID)
	c := *sale
	s.sales[sale.ID] = &c
	return nil
}

func (s *memStore) getSale(id int64) *entity.Sale {
	v, ok := s.sales[id]
	if !ok {
		return nil
	}
	c := *v
	return &c
}

func (s *memStore) GetSaleByID(_ context.Context, id int64) (*entity.Sale, error) {
	return s.getSale(id), nil
}

func (s *memStore) GetByIDForUpdate(_ context.Context, id int64) (*entity.Sale, error) {
	return s.getSale(id), nil
}

func (s *memStore) UpdateSettlement(_ context.Context, id int64, balance decimal.Decimal, status string) error {
	v, ok := s.sales[id]
	if !ok {
		return domain.ErrNotFound
	}
	v.BalanceRemaining = balance
	v.Status = status
	v.UpdatedAt = time.Now()
	return nil
}

func (s *memStore) UpdateHeader(_ context.Context, sale *entity.Sale) error {
	if _, ok := s.sales[sale.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *sale
	s.sales[sale.ID] = &c
	return nil
}

func (s *memStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.sales[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.sales, id)
	return nil
}

func (s *memStore) List(_ context.Context, filter repository.SaleFilter) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, v := range s.sales {
		if filter.Status != "" && v.Status != filter.Status {
			continue
		}
		if filter.IsCredit != nil && v.IsCredit != *filter.IsCredit {
			continue
		}
		c := *v
		out = append(out, &c)
	}
	return out, nil
}

func (s *memStore) CreateDetails(_ context.Context, saleID int64, details []*entity.SaleDetail) error {
	for _, d := range details {
		c := *d
		c.SaleID = saleID
		s.details[saleID] = append(s.details[saleID], &c)
	}
	return nil
}

func (s *memStore) GetDetails(_ context.Context, saleID int64) ([]*entity.SaleDetail, error) {
	var out []*entity.SaleDetail
	for _, d := range s.details[saleID] {
		c := *d
		out = append(out, &c)
	}
	return out, nil
}

func (s *memStore) DeleteDetails(_ context.Context, saleID int64) error {
	delete(s.details, saleID)
	return nil
}

// ── PaymentRepository ─────────────────────────────────────────────────────────

func (s *memStore) CreatePayment(_ context.Context, payment *entity.Payment) error {
	s.nextPaymentID++
	if payment.ID == "" {
		payment.ID = fmt.Sprintf("pago-%04d", s.nextPaymentID)
	}
	c := *payment
	s.payments[payment.SaleID] = append(s.payments[payment.SaleID], &c)
	return nil
}

func (s *memStore) ListBySale(_ context.Context, saleID int64) ([]*entity.Payment, error) {
	var out []*entity.Payment
	for _, p := range s.payments[saleID] {
		c := *p
		out = append(out, &c)
	}
	return out, nil
}

func (s *memStore) SumBySale(_ context.Context, saleID int64) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range s.payments[saleID] {
		sum = sum.Add(p.Amount)
	}
	return sum, nil
}

func (s *memStore) DeleteBySale(_ context.Context, saleID int64) error {
	delete(s.payments, saleID)
	return nil
}

// ── Adaptadores de puerto ─────────────────────────────────────────────────────
// memStore tiene GetByID ocupado por productos, así que los puertos con firmas
// en conflicto se exponen con wrappers chiquitos.

type saleRepoFake struct{ s *memStore }

func (r saleRepoFake) Create(ctx context.Context, sale *entity.Sale) error { return r.s.Create(ctx, sale) }
func (r saleRepoFake) GetByID(ctx context.Context, id int64) (*entity.Sale, error) {
	return r.s.GetSaleByID(ctx, id)
}
func (r saleRepoFake) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Sale, error) {
	return r.s.GetByIDForUpdate(ctx, id)
}
func (r saleRepoFake) UpdateSettlement(ctx context.Context, id int64, balance decimal.Decimal, status string) error {
	return r.s.UpdateSettlement(ctx, id, balance, status)
}
func (r saleRepoFake) UpdateHeader(ctx context.Context, sale *entity.Sale) error {
	return r.s.UpdateHeader(ctx, sale)
}
func (r saleRepoFake) Delete(ctx context.Context, id int64) error { return r.s.Delete(ctx, id) }
func (r saleRepoFake) List(ctx context.Context, filter repository.SaleFilter) ([]*entity.Sale, error) {
	return r.s.List(ctx, filter)
}
func (r saleRepoFake) CreateDetails(ctx context.Context, saleID int64, details []*entity.SaleDetail) error {
	return r.s.CreateDetails(ctx, saleID, details)
}
func (r saleRepoFake) GetDetails(ctx context.Context, saleID int64) ([]*entity.SaleDetail, error) {
	return r.s.GetDetails(ctx, saleID)
}
func (r saleRepoFake) DeleteDetails(ctx context.Context, saleID int64) error {
	return r.s.DeleteDetails(ctx, saleID)
}

type paymentRepoFake struct{ s *memStore }

func (r paymentRepoFake) Create(ctx context.Context, payment *entity.Payment) error {
	return r.s.CreatePayment(ctx, payment)
}
func (r paymentRepoFake) ListBySale(ctx context.Context, saleID int64) ([]*entity.Payment, error) {
	return r.s.ListBySale(ctx, saleID)
}
func (r paymentRepoFake) SumBySale(ctx context.Context, saleID int64) (decimal.Decimal, error) {
	return r.s.SumBySale(ctx, saleID)
}
func (r paymentRepoFake) DeleteBySale(ctx context.Context, saleID int64) error {
	return r.s.DeleteBySale(ctx, saleID)
}

type userRepoFake struct{ s *memStore }

func (r userRepoFake) GetByID(_ context.Context, id int64) (*entity.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

type methodRepoFake struct{ s *memStore }

func (r methodRepoFake) GetByID(_ context.Context, id int64) (*entity.PaymentMethod, error) {
	m, ok := r.s.methods[id]
	if !ok {
		return nil, nil
	}
	c := *m
	return &c, nil
}

func (r methodRepoFake) ListActive(_ context.Context) ([]*entity.PaymentMethod, error) {
	var out []*entity.PaymentMethod
	for _, m := range r.s.methods {
		if m.Active {
			c := *m
			out = append(out, &c)
		}
	}
	return out, nil
}

// fakeTxRunner implementa sales.TxRunner con rollback por snapshot.
type fakeTxRunner struct{ s *memStore }

func (r fakeTxRunner) RunSales(ctx context.Context, fn func(
	saleRepo repository.SaleRepository,
	paymentRepo repository.PaymentRepository,
	productRepo repository.ProductRepository,
) error) error {
	snap := r.s.snapshot()
	if err := fn(saleRepoFake{r.s}, paymentRepoFake{r.s}, r.s); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}
