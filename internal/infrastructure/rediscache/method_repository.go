package rediscache

import (
	"context"
	"fmt"
	"time"

	"github.com/fitcompany/fitstock-api/internal/domain/entity"
	"github.com/fitcompany/fitstock-api/internal/domain/repository"
)

var _ repository.PaymentMethodRepository = (*CachedMethodRepository)(nil)

// CachedMethodRepository decora un PaymentMethodRepository con un cache
// de lectura. Los fallos del cache no bloquean: se cae a la fuente.
type CachedMethodRepository struct {
	inner repository.PaymentMethodRepository
	cache MethodCache
	ttl   time.Duration
}

// NewCachedMethodRepository construye el decorador.
func NewCachedMethodRepository(inner repository.PaymentMethodRepository, cache MethodCache, ttl time.Duration) *CachedMethodRepository {
	return &CachedMethodRepository{inner: inner, cache: cache, ttl: ttl}
}

func methodKey(id int64) string {
	return fmt.Sprintf("payment_method:%d", id)
}

// GetByID resuelve primero desde el cache y cae a la fuente en miss o error.
func (r *CachedMethodRepository) GetByID(ctx context.Context, id int64) (*entity.PaymentMethod, error) {
	if m, ok, err := r.cache.Get(ctx, methodKey(id)); err == nil && ok {
		return m, nil
	}
	m, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m != nil {
		_ = r.cache.Set(ctx, methodKey(id), m, r.ttl)
	}
	return m, nil
}

// ListActive siempre va a la fuente: el listado es poco frecuente y cachearlo
// complicaría la invalidación por método.
func (r *CachedMethodRepository) ListActive(ctx context.Context) ([]*entity.PaymentMethod, error) {
	return r.inner.ListActive(ctx)
}
