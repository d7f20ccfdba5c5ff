package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockboard-api/internal/domain/repository"
)

var _ repository.SlotStore = (*SlotStore)(nil)

// SlotStore implementación del puerto SlotStore sobre la tabla session_slots.
type SlotStore struct {
	db querier
}

// NewSlotStore construye el adaptador; db suele ser un *pgxpool.Pool.
func NewSlotStore(db querier) *SlotStore {
	return &SlotStore{db: db}
}

func (s *SlotStore) Load(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(ctx, `SELECT value FROM session_slots WHERE slot_key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session slot: %w", err)
	}
	return value, nil
}

func (s *SlotStore) Save(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO session_slots (slot_key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (slot_key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	if _, err := s.db.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("upsert session slot: %w", err)
	}
	return nil
}

func (s *SlotStore) Clear(ctx context.Context, key string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM session_slots WHERE slot_key = $1`, key); err != nil {
		return fmt.Errorf("delete session slot: %w", err)
	}
	return nil
}
