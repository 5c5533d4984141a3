package rediscache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitcompany/fitstock-api/internal/domain/entity"
	"github.com/fitcompany/fitstock-api/internal/infrastructure/rediscache"
)

// sourceFake cuenta cuántas veces se consulta la fuente de verdad.
type sourceFake struct {
	methods map[int64]*entity.PaymentMethod
	hits    int
}

func (s *sourceFake) GetByID(_ context.Context, id int64) (*entity.PaymentMethod, error) {
	s.hits++
	m, ok := s.methods[id]
	if !ok {
		return nil, nil
	}
	c := *m
	return &c, nil
}

func (s *sourceFake) ListActive(_ context.Context) ([]*entity.PaymentMethod, error) {
	s.hits++
	var out []*entity.PaymentMethod
	for _, m := range s.methods {
		if m.Active {
			c := *m
			out = append(out, &c)
		}
	}
	return out, nil
}

func newCachedRepo(t *testing.T) (*rediscache.CachedMethodRepository, *sourceFake, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	source := &sourceFake{methods: map[int64]*entity.PaymentMethod{
		1: {ID: 1, Name: "Efectivo", Active: true},
	}}
	cache := rediscache.NewRedisMethodCache(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = cache.Close() })
	return rediscache.NewCachedMethodRepository(source, cache, time.Minute), source, mr
}

func TestGetByID_SegundaLecturaVieneDelCache(t *testing.T) {
	repo, source, _ := newCachedRepo(t)
	ctx := context.Background()

	m1, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, m1)
	assert.Equal(t, 1, source.hits)

	m2, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, m2)
	assert.Equal(t, "Efectivo", m2.Name)
	assert.Equal(t, 1, source.hits, "el segundo GetByID no debe tocar la fuente")
}

func TestGetByID_MissNoSeCachea(t *testing.T) {
	repo, source, _ := newCachedRepo(t)
	ctx := context.Background()

	m, err := repo.GetByID(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, m)
	assert.Equal(t, 1, source.hits)

	// Un método inexistente se vuelve a consultar: el miss no se cachea.
	_, err = repo.GetByID(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, 2, source.hits)
}

func TestGetByID_RedisCaidoCaeALaFuente(t *testing.T) {
	repo, source, mr := newCachedRepo(t)
	ctx := context.Background()

	mr.Close()
	m, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, 1, source.hits)
}

func TestNoopCache_SiempreVaALaFuente(t *testing.T) {
	source := &sourceFake{methods: map[int64]*entity.PaymentMethod{
		1: {ID: 1, Name: "Efectivo", Active: true},
	}}
	repo := rediscache.NewCachedMethodRepository(source, rediscache.NoopMethodCache{}, time.Minute)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	_, err = repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, source.hits)
}
