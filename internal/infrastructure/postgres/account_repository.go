package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockboard-api/internal/domain"
	"github.com/jhoicas/stockboard-api/internal/domain/entity"
	"github.com/jhoicas/stockboard-api/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

// AccountRepo implementación del puerto AccountRepository sobre PostgreSQL.
type AccountRepo struct {
	db querier
}

// NewAccountRepository construye el adaptador de persistencia para cuentas.
func NewAccountRepository(db querier) *AccountRepo {
	return &AccountRepo{db: db}
}

// Create persiste una nueva cuenta. El email se guarda en minúsculas.
func (r *AccountRepo) Create(ctx context.Context, account *entity.Account) error {
	email := strings.ToLower(strings.TrimSpace(account.Email))
	query := `
		INSERT INTO accounts (id, email, name, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.Exec(ctx, query,
		account.ID, email, account.Name, account.PasswordHash, account.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateKeyError{Kind: "account", Key: "email", Value: email}
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// FindByEmail obtiene una cuenta por email; (nil, nil) si no existe.
func (r *AccountRepo) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	query := `
		SELECT id, email, name, password_hash, created_at
		FROM accounts WHERE email = $1 LIMIT 1`
	var a entity.Account
	err := r.db.QueryRow(ctx, query, strings.ToLower(strings.TrimSpace(email))).Scan(
		&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account by email: %w", err)
	}
	return &a, nil
}
