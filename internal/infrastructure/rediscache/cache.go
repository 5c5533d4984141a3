package rediscache

import (
	"context"
	"time"

	"github.com/fitcompany/fitstock-api/internal/domain/entity"
)

// MethodCache cachea métodos de pago, dato de referencia que cambia poco
// pero se resuelve en cada venta y cada abono.
type MethodCache interface {
	Get(ctx context.Context, key string) (*entity.PaymentMethod, bool, error)
	Set(ctx context.Context, key string, value *entity.PaymentMethod, ttl time.Duration) error
}

// NoopMethodCache desactiva el cacheo cuando Redis no está configurado.
type NoopMethodCache struct{}

func (NoopMethodCache) Get(_ context.Context, _ string) (*entity.PaymentMethod, bool, error) {
	return nil, false, nil
}

func (NoopMethodCache) Set(_ context.Context, _ string, _ *entity.PaymentMethod, _ time.Duration) error {
	return nil
}
