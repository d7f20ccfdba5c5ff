package repository

import (
	"context"

	"github.com/jhoicas/stockboard-api/internal/domain/entity"
)

// Patch transforma una copia del registro existente. Si devuelve error el registro no cambia.
type Patch func(current entity.Record) (entity.Record, error)

// RecordStore define el puerto del almacén autoritativo de registros (DIP).
// List devuelve los registros en orden de inserción.
// Insert falla con *domain.DuplicateKeyError si el id o alguna clave única ya existe en ese tipo.
// Update falla con *domain.NotFoundError si el id no existe. Remove es idempotente.
type RecordStore interface {
	List(ctx context.Context, kind entity.Kind) ([]entity.Record, error)
	Get(ctx context.Context, kind entity.Kind, id string) (entity.Record, error)
	Insert(ctx context.Context, rec entity.Record) error
	Update(ctx context.Context, kind entity.Kind, id string, patch Patch) (entity.Record, error)
	Remove(ctx context.Context, kind entity.Kind, id string) error
}

// TxRunner ejecuta una función con acceso exclusivo al store.
// Si fn retorna error, todos los cambios hechos dentro de fn se descartan.
type TxRunner interface {
	Run(ctx context.Context, fn func(store RecordStore) error) error
}
