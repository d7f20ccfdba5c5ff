package repository

import (
	"context"

	"github.com/jhoicas/stockboard-api/internal/domain/entity"
)

// AccountRepository define el puerto de persistencia para cuentas registradas.
// Create devuelve *domain.DuplicateKeyError si el email ya existe.
// FindByEmail devuelve (nil, nil) si no hay cuenta.
type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account) error
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)
}
