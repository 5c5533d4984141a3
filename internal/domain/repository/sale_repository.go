package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fitcompany/fitstock-api/internal/domain/entity"
)

// SaleFilter filtra el listado de ventas. Los punteros nil no filtran.
type SaleFilter struct {
	Status   string
	IsCredit *bool
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

// SaleRepository persiste cabeceras y líneas de venta.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id int64) (*entity.Sale, error)

	// GetByIDForUpdate bloquea la cabecera para mutarla (abonos, edición,
	// eliminación) sin carreras entre peticiones concurrentes.
	GetByIDForUpdate(ctx context.Context, id int64) (*entity.Sale, error)

	// UpdateSettlement actualiza saldo y estado tras registrar un abono.
	UpdateSettlement(ctx context.Context, id int64, balance decimal.Decimal, status string) error

	// UpdateHeader reescribe total, saldo y estado al reemplazar la venta.
	UpdateHeader(ctx context.Context, sale *entity.Sale) error

	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter SaleFilter) ([]*entity.Sale, error)

	CreateDetails(ctx context.Context, saleID int64, details []*entity.SaleDetail) error
	GetDetails(ctx context.Context, saleID int64) ([]*entity.SaleDetail, error)
	DeleteDetails(ctx context.Context, saleID int64) error
}
