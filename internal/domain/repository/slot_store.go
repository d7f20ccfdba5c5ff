package repository

import "context"

// SlotStore almacén clave-valor donde se refleja la identidad de sesión.
// Load devuelve (nil, nil) si la clave no existe.
type SlotStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Clear(ctx context.Context, key string) error
}
