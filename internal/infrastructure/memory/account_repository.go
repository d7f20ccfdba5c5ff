package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/jhoicas/stockboard-api/internal/domain"
	"github.com/jhoicas/stockboard-api/internal/domain/entity"
	"github.com/jhoicas/stockboard-api/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

// AccountRepo cuentas registradas indexadas por email normalizado.
type AccountRepo struct {
	mu      sync.RWMutex
	byEmail map[string]entity.Account
}

// NewAccountRepository construye el repositorio de cuentas en memoria.
func NewAccountRepository() *AccountRepo {
	return &AccountRepo{byEmail: map[string]entity.Account{}}
}

// Create persiste una cuenta nueva.
func (r *AccountRepo) Create(_ context.Context, account *entity.Account) error {
	key := normalizeEmail(account.Email)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[key]; exists {
		return &domain.DuplicateKeyError{Kind: "account", Key: "email", Value: key}
	}
	r.byEmail[key] = *account
	return nil
}

// FindByEmail obtiene una cuenta por email; (nil, nil) si no existe.
func (r *AccountRepo) FindByEmail(_ context.Context, email string) (*entity.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
