package repository

import (
	"context"

	"github.com/fitcompany/fitstock-api/internal/domain/entity"
)

// UserRepository resuelve el usuario actuante. El núcleo solo necesita
// verificar existencia y estado activo antes de registrar una transacción.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.User, error)
}
