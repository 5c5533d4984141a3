package repository

import (
	"context"
	"time"

	"github.com/fitcompany/fitstock-api/internal/domain/entity"
)

// PurchaseFilter filtra el listado de compras.
type PurchaseFilter struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// PurchaseRepository persiste cabeceras y líneas de compra.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	GetByID(ctx context.Context, id int64) (*entity.Purchase, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*entity.Purchase, error)
	UpdateHeader(ctx context.Context, purchase *entity.Purchase) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter PurchaseFilter) ([]*entity.Purchase, error)

	CreateDetails(ctx context.Context, purchaseID int64, details []*entity.PurchaseDetail) error
	GetDetails(ctx context.Context, purchaseID int64) ([]*entity.PurchaseDetail, error)
	DeleteDetails(ctx context.Context, purchaseID int64) error
}
