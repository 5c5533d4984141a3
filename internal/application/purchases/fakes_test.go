package purchases_test

import (
	"context"
	"fmt"

	"github.com/fitcompany/fitstock-api/internal/domain"
	"github.com/fitcompany/fitstock-api/internal/domain/entity"
	"github.com/fitcompany/fitstock-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria con rollback por snapshot, misma mecánica que en ventas.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	products  map[int64]*entity.Product
	purchases map[int64]*entity.Purchase
	details   map[int64][]*entity.PurchaseDetail
	users     map[int64]*entity.User

	nextPurchaseID int64
}

func newMemStore() *memStore {
	return &memStore{
		products:  map[int64]*entity.Product{},
		purchases: map[int64]*entity.Purchase{},
		details:   map[int64][]*entity.PurchaseDetail{},
		users:     map[int64]*entity.User{},
	}
}

func (s *memStore) snapshot() *memStore {
	cp := newMemStore()
	cp.nextPurchaseID = s.nextPurchaseID
	for id, p := range s.products {
		c := *p
		cp.products[id] = &c
	}
	for id, p := range s.purchases {
		c := *p
		cp.purchases[id] = &c
	}
	for id, ds := range s.details {
		for _, d := range ds {
			c := *d
			cp.details[id] = append(cp.details[id], &c)
		}
	}
	for id, u := range s.users {
		c := *u
		cp.users[id] = &c
	}
	return cp
}

func (s *memStore) restore(from *memStore) {
	s.products = from.products
	s.purchases = from.purchases
	s.details = from.details
	s.users = from.users
	s.nextPurchaseID = from.nextPurchaseID
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

// ── PurchaseRepository ────────────────────────────────────────────────────────

type purchaseRepoFake struct{ s *memStore }

func (r purchaseRepoFake) Create(_ context.Context, purchase *entity.Purchase) error {
	r.s.nextPurchaseID++
	purchase.ID = r.s.nextPurchaseID
	purchase.Folio = fmt.Sprintf("CMP-%06d", purchase.ID)
	c := *purchase
	r.s.purchases[purchase.ID] = &c
	return nil
}

func (r purchaseRepoFake) GetByID(_ context.Context, id int64) (*entity.Purchase, error) {
	p, ok := r.s.purchases[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r purchaseRepoFake) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Purchase, error) {
	return r.GetByID(ctx, id)
}

func (r purchaseRepoFake) UpdateHeader(_ context.Context, purchase *entity.Purchase) error {
	if _, ok := r.s.purchases[purchase.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *purchase
	r.s.purchases[purchase.ID] = &c
	return nil
}

func (r purchaseRepoFake) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.purchases[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.purchases, id)
	return nil
}

func (r purchaseRepoFake) List(_ context.Context, _ repository.PurchaseFilter) ([]*entity.Purchase, error) {
	var out []*entity.Purchase
	for _, p := range r.s.purchases {
		c := *p
		out = append(out, &c)
	}
	return out, nil
}

func (r purchaseRepoFake) CreateDetails(_ context.Context, purchaseID int64, details []*entity.PurchaseDetail) error {
	for _, d := range details {
		c := *d
		c.PurchaseID = purchaseID
		r.s.details[purchaseID] = append(r.s.details[purchaseID], &c)
	}
	return nil
}

func (r purchaseRepoFake) GetDetails(_ context.Context, purchaseID int64) ([]*entity.PurchaseDetail, error) {
	var out []*entity.PurchaseDetail
	for _, d := range r.s.details[purchaseID] {
		c := *d
		out = append(out, &c)
	}
	return out, nil
}

func (r purchaseRepoFake) DeleteDetails(_ context.Context, purchaseID int64) error {
	delete(r.s.details, purchaseID)
	return nil
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

// fakeTxRunner implementa purchases.TxRunner con rollback por snapshot.
type fakeTxRunner struct{ s *memStore }

func (r fakeTxRunner) RunPurchases(ctx context.Context, fn func(
	purchaseRepo repository.PurchaseRepository,
	productRepo repository.ProductRepository,
) error) error {
	snap := r.s.snapshot()
	if err := fn(purchaseRepoFake{r.s}, r.s); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}
