package purchases_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitcompany/fitstock-api/internal/application/dto"
	"github.com/fitcompany/fitstock-api/internal/application/purchases"
	"github.com/fitcompany/fitstock-api/internal/domain"
	"github.com/fitcompany/fitstock-api/internal/domain/entity"
)

const testUserID = int64(1)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func newTestUseCase(products ...*entity.Product) (*purchases.UseCase, *memStore) {
	store := newMemStore()
	store.users[testUserID] = &entity.User{ID: testUserID, Name: "Bodeguero", Active: true}
	for _, p := range products {
		store.products[p.ID] = p
	}
	uc := purchases.NewUseCase(fakeTxRunner{store}, userRepoFake{store}, purchaseRepoFake{store})
	return uc, store
}

func product(id, stock, min, max int64) *entity.Product {
	return &entity.Product{
		ID:           id,
		Name:         "Producto",
		CostPrice:    d(50),
		StockCurrent: stock,
		StockMin:     min,
		StockMax:     max,
		Active:       true,
	}
}

func line(productID, qty, cost int64) dto.PurchaseLineRequest {
	return dto.PurchaseLineRequest{ProductID: productID, Quantity: qty, UnitCost: d(cost)}
}

func mustCreate(t *testing.T, uc *purchases.UseCase, lines ...dto.PurchaseLineRequest) *dto.PurchaseResponse {
	t.Helper()
	resp, err := uc.Create(context.Background(), testUserID, dto.CreatePurchaseRequest{Lines: lines})
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_AcreditaStockYAsignaFolio(t *testing.T) {
	uc, store := newTestUseCase(product(1, 2, 0, 100))

	resp := mustCreate(t, uc, line(1, 8, 50))

	assert.Equal(t, "CMP-000001", resp.Folio)
	assert.True(t, resp.Total.Equal(d(400)))
	require.Len(t, resp.Lines, 1)
	assert.True(t, resp.Lines[0].Subtotal.Equal(d(400)))
	assert.Equal(t, int64(10), store.products[1].StockCurrent)
	assert.Empty(t, resp.Warnings)
}

func TestCreate_AdvertenciaSobreMaximoNoBloquea(t *testing.T) {
	uc, store := newTestUseCase(product(1, 5, 0, 10))

	resp := mustCreate(t, uc, line(1, 20, 50))

	assert.Equal(t, int64(25), store.products[1].StockCurrent)
	require.Len(t, resp.Warnings, 1)
	assert.Equal(t, entity.WarningStockAboveMax, resp.Warnings[0].Code)
	assert.Equal(t, int64(10), resp.Warnings[0].Meta.Limit)
	assert.Equal(t, int64(25), resp.Warnings[0].Meta.After)
}

func TestCreate_FechaDeHoyEsValida(t *testing.T) {
	uc, _ := newTestUseCase(product(1, 5, 0, 100))
	req := dto.CreatePurchaseRequest{
		Date:  time.Now().Format("2006-01-02"),
		Lines: []dto.PurchaseLineRequest{line(1, 1, 50)},
	}

	resp, err := uc.Create(context.Background(), testUserID, req)
	require.NoError(t, err)
	assert.Equal(t, req.Date, resp.Date)
}

func TestCreate_Validaciones(t *testing.T) {
	uc, _ := newTestUseCase(product(1, 5, 0, 100))
	ctx := context.Background()

	casos := []struct {
		nombre string
		req    dto.CreatePurchaseRequest
	}{
		{"sin líneas", dto.CreatePurchaseRequest{}},
		{"producto repetido", dto.CreatePurchaseRequest{Lines: []dto.PurchaseLineRequest{line(1, 1, 50), line(1, 2, 50)}}},
		{"cantidad cero", dto.CreatePurchaseRequest{Lines: []dto.PurchaseLineRequest{line(1, 0, 50)}}},
		{"costo cero", dto.CreatePurchaseRequest{Lines: []dto.PurchaseLineRequest{line(1, 1, 0)}}},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			_, err := uc.Create(ctx, testUserID, c.req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	// Producto inexistente.
	_, err := uc.Create(ctx, testUserID, dto.CreatePurchaseRequest{Lines: []dto.PurchaseLineRequest{line(99, 1, 50)}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Usuario inexistente.
	_, err = uc.Create(ctx, 99, dto.CreatePurchaseRequest{Lines: []dto.PurchaseLineRequest{line(1, 1, 50)}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Replace
// ──────────────────────────────────────────────────────────────────────────────

func TestReplace_AplicaDeltaNeto(t *testing.T) {
	uc, store := newTestUseCase(product(1, 0, 0, 100), product(2, 0, 0, 100))
	created := mustCreate(t, uc, line(1, 10, 50))
	require.Equal(t, int64(10), store.products[1].StockCurrent)

	// La nueva versión baja el producto 1 a 4 unidades y agrega el 2.
	resp, err := uc.Replace(context.Background(), testUserID, created.ID, dto.CreatePurchaseRequest{
		Lines: []dto.PurchaseLineRequest{line(1, 4, 50), line(2, 6, 30)},
	})
	require.NoError(t, err)
	assert.True(t, resp.Total.Equal(d(380)))
	assert.Equal(t, int64(4), store.products[1].StockCurrent)
	assert.Equal(t, int64(6), store.products[2].StockCurrent)
}

func TestReplace_ReversionConStockVendidoFalla(t *testing.T) {
	// Compra de 10; luego "se venden" 8 (stock queda en 2). Reducir la
	// compra a 1 requeriría debitar 9 con solo 2 disponibles.
	uc, store := newTestUseCase(product(1, 0, 0, 100))
	created := mustCreate(t, uc, line(1, 10, 50))
	store.products[1].StockCurrent = 2

	_, err := uc.Replace(context.Background(), testUserID, created.ID, dto.CreatePurchaseRequest{
		Lines: []dto.PurchaseLineRequest{line(1, 1, 50)},
	})
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	require.Len(t, stockErr.Items, 1)
	assert.Equal(t, int64(9), stockErr.Items[0].Requested)
	assert.Equal(t, int64(2), stockErr.Items[0].Available)
	assert.Equal(t, int64(7), stockErr.Items[0].Deficit)

	assert.Equal(t, int64(2), store.products[1].StockCurrent, "nada aplicado")
	details, _ := purchaseRepoFake{store}.GetDetails(context.Background(), created.ID)
	require.Len(t, details, 1)
	assert.Equal(t, int64(10), details[0].Quantity, "las líneas originales siguen intactas")
}

func TestReplace_CompraInexistente(t *testing.T) {
	uc, _ := newTestUseCase(product(1, 0, 0, 100))
	_, err := uc.Replace(context.Background(), testUserID, 999, dto.CreatePurchaseRequest{
		Lines: []dto.PurchaseLineRequest{line(1, 1, 50)},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReplace_ProductoNuevoInactivoFalla(t *testing.T) {
	uc, store := newTestUseCase(product(1, 0, 0, 100), product(2, 0, 0, 100))
	created := mustCreate(t, uc, line(1, 5, 50))

	store.products[2].Active = false
	_, err := uc.Replace(context.Background(), testUserID, created.ID, dto.CreatePurchaseRequest{
		Lines: []dto.PurchaseLineRequest{line(2, 3, 30)},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestDelete_DebitaStockExacto(t *testing.T) {
	uc, store := newTestUseCase(product(1, 3, 0, 100))
	created := mustCreate(t, uc, line(1, 7, 50))
	require.Equal(t, int64(10), store.products[1].StockCurrent)

	_, err := uc.Delete(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), store.products[1].StockCurrent)
	assert.Empty(t, store.purchases)
}

func TestDelete_StockYaVendidoBloqueaLaReversion(t *testing.T) {
	uc, store := newTestUseCase(product(1, 0, 0, 100))
	created := mustCreate(t, uc, line(1, 10, 50))
	// Se venden 4 de las 10 compradas.
	store.products[1].StockCurrent = 6

	_, err := uc.Delete(context.Background(), created.ID)
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, int64(10), stockErr.Items[0].Requested)
	assert.Equal(t, int64(6), stockErr.Items[0].Available)
	assert.Equal(t, int64(4), stockErr.Items[0].Deficit)

	// La compra sigue existiendo y el stock no se tocó.
	assert.Equal(t, int64(6), store.products[1].StockCurrent)
	assert.Contains(t, store.purchases, created.ID)
}

func TestDelete_ProductoDesactivadoNoImpideLaReversion(t *testing.T) {
	uc, store := newTestUseCase(product(1, 0, 0, 100))
	created := mustCreate(t, uc, line(1, 5, 50))

	store.products[1].Active = false
	_, err := uc.Delete(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), store.products[1].StockCurrent)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestGetByID_DevuelveLineas(t *testing.T) {
	uc, _ := newTestUseCase(product(1, 0, 0, 100))
	created := mustCreate(t, uc, line(1, 5, 50))

	resp, err := uc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, resp.ID)
	assert.Equal(t, created.Folio, resp.Folio)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, int64(5), resp.Lines[0].Quantity)

	_, err = uc.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
