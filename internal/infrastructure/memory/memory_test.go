package memory_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockboard-api/internal/domain"
	"github.com/jhoicas/stockboard-api/internal/domain/entity"
	"github.com/jhoicas/stockboard-api/internal/domain/repository"
	"github.com/jhoicas/stockboard-api/internal/infrastructure/memory"
)

func warehouse(id, code string) entity.Warehouse {
	return entity.Warehouse{ID: id, Name: "Bodega " + id, ShortCode: code, Address: "Calle 1"}
}

func listIDs(t *testing.T, s repository.RecordStore, kind entity.Kind) []string {
	t.Helper()
	recs, err := s.List(context.Background(), kind)
	require.NoError(t, err)
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.RecordID())
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// RecordStore
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordStore_InsertConservaOrden(t *testing.T) {
	ctx := context.Background()
	s := memory.NewRecordStore()
	for _, w := range []entity.Warehouse{warehouse("c", "CC"), warehouse("a", "AA"), warehouse("b", "BB")} {
		require.NoError(t, s.Insert(ctx, w))
	}
	assert.Equal(t, []string{"c", "a", "b"}, listIDs(t, s, entity.KindWarehouse))
}

func TestRecordStore_ClaveUnicaDuplicada(t *testing.T) {
	ctx := context.Background()
	s := memory.NewRecordStore()
	require.NoError(t, s.Insert(ctx, warehouse("1", "MW")))

	err := s.Insert(ctx, warehouse("2", "mw"))
	var dup *domain.DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "shortCode", dup.Key)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	err = s.Insert(ctx, warehouse("1", "ZZ"))
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "id", dup.Key)

	assert.Equal(t, []string{"1"}, listIDs(t, s, entity.KindWarehouse), "el store no cambia")
}

func TestRecordStore_ClavesPorTipo(t *testing.T) {
	ctx := context.Background()
	s := memory.NewRecordStore()
	require.NoError(t, s.Insert(ctx, entity.Operation{ID: "r1", Direction: entity.DirectionIn, Reference: "X"}))
	require.NoError(t, s.Insert(ctx, entity.Operation{ID: "d1", Direction: entity.DirectionOut, Reference: "X"}),
		"la unicidad es por tipo de registro")
	assert.Equal(t, []string{"r1"}, listIDs(t, s, entity.KindReceipt))
	assert.Equal(t, []string{"d1"}, listIDs(t, s, entity.KindDelivery))
}

func TestRecordStore_Update(t *testing.T) {
	ctx := context.Background()
	s := memory.NewRecordStore()
	require.NoError(t, s.Insert(ctx, warehouse("1", "MW")))
	require.NoError(t, s.Insert(ctx, warehouse("2", "SS")))

	rec, err := s.Update(ctx, entity.KindWarehouse, "1", func(cur entity.Record) (entity.Record, error) {
		w := cur.(entity.Warehouse)
		w.ShortCode = "NEW"
		return w, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "NEW", rec.(entity.Warehouse).ShortCode)

	// El código anterior queda libre.
	require.NoError(t, s.Insert(ctx, warehouse("3", "MW")))

	_, err = s.Update(ctx, entity.KindWarehouse, "1", func(cur entity.Record) (entity.Record, error) {
		w := cur.(entity.Warehouse)
		w.ShortCode = "SS"
		return w, nil
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = s.Update(ctx, entity.KindWarehouse, "nope", func(cur entity.Record) (entity.Record, error) { return cur, nil })
	assert.ErrorIs(t, err, domain.ErrNotFound)

	boom := errors.New("boom")
	_, err = s.Update(ctx, entity.KindWarehouse, "2", func(entity.Record) (entity.Record, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	got, err := s.Get(ctx, entity.KindWarehouse, "2")
	require.NoError(t, err)
	assert.Equal(t, "SS", got.(entity.Warehouse).ShortCode)
	assert.Equal(t, []string{"1", "2", "3"}, listIDs(t, s, entity.KindWarehouse))
}

func TestRecordStore_RemoveIdempotente(t *testing.T) {
	ctx := context.Background()
	s := memory.NewRecordStore()
	require.NoError(t, s.Insert(ctx, warehouse("1", "MW")))
	require.NoError(t, s.Remove(ctx, entity.KindWarehouse, "1"))
	require.NoError(t, s.Remove(ctx, entity.KindWarehouse, "1"))
	assert.Empty(t, listIDs(t, s, entity.KindWarehouse))
	require.NoError(t, s.Insert(ctx, warehouse("2", "MW")), "la clave única se libera al eliminar")
}

func TestRecordStore_TipoDesconocido(t *testing.T) {
	_, err := memory.NewRecordStore().List(context.Background(), "invoice")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "kind", verr.Field)
}

func TestRecordStore_RunRevierteEnError(t *testing.T) {
	ctx := context.Background()
	s := memory.NewRecordStore()
	require.NoError(t, s.Insert(ctx, warehouse("1", "MW")))

	err := s.Run(ctx, func(tx repository.RecordStore) error {
		require.NoError(t, tx.Insert(ctx, warehouse("2", "SS")))
		require.NoError(t, tx.Remove(ctx, entity.KindWarehouse, "1"))
		return tx.Insert(ctx, warehouse("3", "SS"))
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Equal(t, []string{"1"}, listIDs(t, s, entity.KindWarehouse))

	err = s.Run(ctx, func(tx repository.RecordStore) error {
		return tx.Insert(ctx, warehouse("2", "SS"))
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, listIDs(t, s, entity.KindWarehouse))
}

func TestRecordStore_RunRevierteEnPanic(t *testing.T) {
	ctx := context.Background()
	s := memory.NewRecordStore()
	assert.Panics(t, func() {
		_ = s.Run(ctx, func(tx repository.RecordStore) error {
			_ = tx.Insert(ctx, warehouse("1", "MW"))
			panic("fallo")
		})
	})
	assert.Empty(t, listIDs(t, s, entity.KindWarehouse))
}

func TestRecordStore_InsercionesConcurrentes(t *testing.T) {
	ctx := context.Background()
	s := memory.NewRecordStore()
	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.Run(ctx, func(tx repository.RecordStore) error {
				return tx.Insert(ctx, entity.StockItem{ID: string(rune('a' + i)), SKU: "SKU-UNICO"})
			})
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, domain.ErrDuplicate)
		}
	}
	assert.Equal(t, 1, ok, "solo una inserción con el mismo SKU puede ganar")
	assert.Len(t, listIDs(t, s, entity.KindStockItem), 1)
}

func TestRecordStore_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := memory.NewRecordStore()
	assert.ErrorIs(t, s.Insert(ctx, warehouse("1", "MW")), context.Canceled)
}

// ──────────────────────────────────────────────────────────────────────────────
// SlotStore / AccountRepo
// ──────────────────────────────────────────────────────────────────────────────

func TestSlotStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := memory.NewSlotStore(0)

	v, err := s.Load(ctx, "user:1")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, s.Save(ctx, "user:1", []byte(`{"id":"1"}`)))
	v, err = s.Load(ctx, "user:1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1"}`, string(v))

	require.NoError(t, s.Clear(ctx, "user:1"))
	v, err = s.Load(ctx, "user:1")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSlotStore_ExpiraSegunTTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 11, 20, 10, 0, 0, 0, time.UTC)
	s := memory.NewSlotStore(time.Minute).WithClock(func() time.Time { return now })

	require.NoError(t, s.Save(ctx, "user:1", []byte(`{"id":"1"}`)))
	now = now.Add(59 * time.Second)
	v, err := s.Load(ctx, "user:1")
	require.NoError(t, err)
	assert.NotNil(t, v)

	now = now.Add(time.Second)
	v, err = s.Load(ctx, "user:1")
	require.NoError(t, err)
	assert.Nil(t, v, "un slot vencido se lee como ausente")
	assert.Equal(t, 0, s.Len())
}

func TestSlotStore_SaveDescartaVencidos(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 11, 20, 10, 0, 0, 0, time.UTC)
	s := memory.NewSlotStore(time.Minute).WithClock(func() time.Time { return now })

	for i := 0; i < 100; i++ {
		require.NoError(t, s.Save(ctx, fmt.Sprintf("user:%d", i), []byte("{}")))
	}
	assert.Equal(t, 100, s.Len())

	now = now.Add(2 * time.Minute)
	require.NoError(t, s.Save(ctx, "user:nuevo", []byte("{}")))
	assert.Equal(t, 1, s.Len(), "los slots vencidos no se acumulan")
}

func TestSlotStore_SinTTLNoExpira(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 11, 20, 10, 0, 0, 0, time.UTC)
	s := memory.NewSlotStore(0).WithClock(func() time.Time { return now })

	require.NoError(t, s.Save(ctx, "user:1", []byte("{}")))
	now = now.AddDate(1, 0, 0)
	v, err := s.Load(ctx, "user:1")
	require.NoError(t, err)
	assert.NotNil(t, v)
}

func TestAccountRepo_EmailUnico(t *testing.T) {
	ctx := context.Background()
	r := memory.NewAccountRepository()
	require.NoError(t, r.Create(ctx, &entity.Account{ID: "1", Email: "ana@example.com"}))
	assert.ErrorIs(t, r.Create(ctx, &entity.Account{ID: "2", Email: " ANA@example.com"}), domain.ErrDuplicate)

	a, err := r.FindByEmail(ctx, "Ana@Example.com")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "1", a.ID)

	a, err = r.FindByEmail(ctx, "otro@example.com")
	require.NoError(t, err)
	assert.Nil(t, a)
}
