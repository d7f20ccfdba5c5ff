// Package redisstore guarda los slots de sesión en Redis, para compartir la identidad
// entre varias instancias de la API.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/stockboard-api/internal/domain/repository"
	"github.com/jhoicas/stockboard-api/pkg/config"
)

const slotSegment = "slot"

var _ repository.SlotStore = (*SlotStore)(nil)

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	Del(context.Context, ...string) *redis.IntCmd
}

// SlotStore implementación de repository.SlotStore sobre Redis.
type SlotStore struct {
	store  cmdable
	raw    *redis.Client
	prefix string
	ttl    time.Duration
}

// New abre la conexión, verifica con PING y devuelve el store.
func New(ctx context.Context, cfg config.RedisConfig, ttl time.Duration) (*SlotStore, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &SlotStore{store: raw, raw: raw, prefix: cfg.KeyPrefix, ttl: ttl}, nil
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" && cfg.Addr == "" {
		return nil, errors.New("redis url or address is required")
	}
	if cfg.URL != "" {
		opts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		if opts.DB == 0 {
			opts.DB = cfg.DB
		}
		return opts, nil
	}
	return &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}, nil
}

// Key devuelve la clave Redis de un slot: <prefix>:slot:<key>.
func (s *SlotStore) Key(key string) string {
	parts := make([]string, 0, 3)
	if s.prefix != "" {
		parts = append(parts, s.prefix)
	}
	parts = append(parts, slotSegment, key)
	return strings.Join(parts, ":")
}

func (s *SlotStore) Load(ctx context.Context, key string) ([]byte, error) {
	if s.store == nil {
		return nil, errors.New("redis client not initialized")
	}
	b, err := s.store.Get(ctx, s.Key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get slot: %w", err)
	}
	return b, nil
}

func (s *SlotStore) Save(ctx context.Context, key string, value []byte) error {
	if s.store == nil {
		return errors.New("redis client not initialized")
	}
	if err := s.store.Set(ctx, s.Key(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set slot: %w", err)
	}
	return nil
}

func (s *SlotStore) Clear(ctx context.Context, key string) error {
	if s.store == nil {
		return errors.New("redis client not initialized")
	}
	if err := s.store.Del(ctx, s.Key(key)).Err(); err != nil {
		return fmt.Errorf("redis del slot: %w", err)
	}
	return nil
}

// Ping verifica la conexión (health check).
func (s *SlotStore) Ping(ctx context.Context) error {
	if s.store == nil {
		return errors.New("redis client not initialized")
	}
	return s.store.Ping(ctx).Err()
}

// Close libera la conexión subyacente.
func (s *SlotStore) Close() error {
	if s.raw == nil {
		return nil
	}
	return s.raw.Close()
}
