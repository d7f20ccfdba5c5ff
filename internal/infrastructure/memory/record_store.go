// Package memory implementa los puertos de persistencia en memoria de proceso.
// Es el backend por defecto del Record Store: nada de lo que guarda sobrevive a un reinicio.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/jhoicas/stockboard-api/internal/domain"
	"github.com/jhoicas/stockboard-api/internal/domain/entity"
	"github.com/jhoicas/stockboard-api/internal/domain/repository"
)

var (
	_ repository.RecordStore = (*RecordStore)(nil)
	_ repository.TxRunner    = (*RecordStore)(nil)
)

// collection registros de un solo tipo, en orden de inserción, con índices de claves únicas.
type collection struct {
	order []string
	byID  map[string]entity.Record
	keys  map[string]map[string]string // campo -> valor -> id
}

func newCollection() *collection {
	return &collection{
		byID: map[string]entity.Record{},
		keys: map[string]map[string]string{},
	}
}

// clone copia la colección. Los registros son valores, basta con copiar los mapas.
func (c *collection) clone() *collection {
	out := &collection{
		order: slices.Clone(c.order),
		byID:  make(map[string]entity.Record, len(c.byID)),
		keys:  make(map[string]map[string]string, len(c.keys)),
	}
	for id, rec := range c.byID {
		out.byID[id] = rec
	}
	for field, idx := range c.keys {
		cp := make(map[string]string, len(idx))
		for v, id := range idx {
			cp[v] = id
		}
		out.keys[field] = cp
	}
	return out
}

func (c *collection) owner(field, value string) (string, bool) {
	idx, ok := c.keys[field]
	if !ok {
		return "", false
	}
	id, ok := idx[value]
	return id, ok
}

func (c *collection) index(rec entity.Record) {
	for field, value := range rec.UniqueKeys() {
		idx, ok := c.keys[field]
		if !ok {
			idx = map[string]string{}
			c.keys[field] = idx
		}
		idx[value] = rec.RecordID()
	}
}

func (c *collection) unindex(rec entity.Record) {
	for field, value := range rec.UniqueKeys() {
		if idx, ok := c.keys[field]; ok && idx[value] == rec.RecordID() {
			delete(idx, value)
		}
	}
}

// state conjunto de colecciones; las operaciones no toman locks.
type state map[entity.Kind]*collection

func newState() state {
	st := make(state, len(entity.Kinds))
	for _, k := range entity.Kinds {
		st[k] = newCollection()
	}
	return st
}

func (st state) clone() state {
	out := make(state, len(st))
	for k, c := range st {
		out[k] = c.clone()
	}
	return out
}

func (st state) collection(kind entity.Kind) (*collection, error) {
	c, ok := st[kind]
	if !ok {
		return nil, &domain.ValidationError{Field: "kind", Reason: "tipo desconocido " + string(kind)}
	}
	return c, nil
}

func (st state) list(kind entity.Kind) ([]entity.Record, error) {
	c, err := st.collection(kind)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Record, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out, nil
}

func (st state) get(kind entity.Kind, id string) (entity.Record, error) {
	c, err := st.collection(kind)
	if err != nil {
		return nil, err
	}
	rec, ok := c.byID[id]
	if !ok {
		return nil, &domain.NotFoundError{Kind: string(kind), ID: id}
	}
	return rec, nil
}

func (st state) insert(rec entity.Record) error {
	if rec == nil {
		return &domain.ValidationError{Field: "record", Reason: "vacío"}
	}
	kind := rec.Kind()
	c, err := st.collection(kind)
	if err != nil {
		return err
	}
	id := rec.RecordID()
	if id == "" {
		return &domain.ValidationError{Field: "id", Reason: "requerido"}
	}
	if _, exists := c.byID[id]; exists {
		return &domain.DuplicateKeyError{Kind: string(kind), Key: "id", Value: id}
	}
	for field, value := range rec.UniqueKeys() {
		if _, taken := c.owner(field, value); taken {
			return &domain.DuplicateKeyError{Kind: string(kind), Key: field, Value: value}
		}
	}
	c.order = append(c.order, id)
	c.byID[id] = rec
	c.index(rec)
	return nil
}

func (st state) update(kind entity.Kind, id string, patch repository.Patch) (entity.Record, error) {
	c, err := st.collection(kind)
	if err != nil {
		return nil, err
	}
	current, ok := c.byID[id]
	if !ok {
		return nil, &domain.NotFoundError{Kind: string(kind), ID: id}
	}
	next, err := patch(current)
	if err != nil {
		return nil, err
	}
	if next == nil || next.Kind() != kind || next.RecordID() != id {
		return nil, &domain.ValidationError{Field: "id", Reason: "el parche no puede cambiar tipo ni id"}
	}
	for field, value := range next.UniqueKeys() {
		if owner, taken := c.owner(field, value); taken && owner != id {
			return nil, &domain.DuplicateKeyError{Kind: string(kind), Key: field, Value: value}
		}
	}
	c.unindex(current)
	c.byID[id] = next
	c.index(next)
	return next, nil
}

func (st state) remove(kind entity.Kind, id string) error {
	c, err := st.collection(kind)
	if err != nil {
		return err
	}
	rec, ok := c.byID[id]
	if !ok {
		return nil
	}
	c.unindex(rec)
	delete(c.byID, id)
	if i := slices.Index(c.order, id); i >= 0 {
		c.order = slices.Delete(c.order, i, i+1)
	}
	return nil
}

// RecordStore almacén autoritativo de registros en memoria, seguro para uso concurrente.
// Implementa además repository.TxRunner: Run serializa las mutaciones bajo el lock de escritura
// y restaura el estado previo si fn falla.
type RecordStore struct {
	mu sync.RWMutex
	st state
}

// NewRecordStore construye un store vacío con una colección por tipo conocido.
func NewRecordStore() *RecordStore {
	return &RecordStore{st: newState()}
}

// List devuelve los registros de kind en orden de inserción.
func (s *RecordStore) List(ctx context.Context, kind entity.Kind) ([]entity.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.list(kind)
}

// Get obtiene un registro por id.
func (s *RecordStore) Get(ctx context.Context, kind entity.Kind, id string) (entity.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.get(kind, id)
}

// Insert agrega un registro al final de su colección.
func (s *RecordStore) Insert(ctx context.Context, rec entity.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.insert(rec)
}

// Update aplica patch al registro id; conserva su posición en el orden de inserción.
func (s *RecordStore) Update(ctx context.Context, kind entity.Kind, id string, patch repository.Patch) (entity.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.update(kind, id, patch)
}

// Remove elimina un registro; no falla si no existe.
func (s *RecordStore) Remove(ctx context.Context, kind entity.Kind, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.remove(kind, id)
}

// Run ejecuta fn con acceso exclusivo. Si fn retorna error (o hace panic) el estado vuelve
// a la instantánea tomada al inicio.
func (s *RecordStore) Run(ctx context.Context, fn func(store repository.RecordStore) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	defer func() {
		if p := recover(); p != nil {
			s.st = snapshot
			panic(p)
		}
		if err != nil {
			s.st = snapshot
		}
	}()
	return fn(&txView{st: s.st})
}

// txView vista del store dentro de Run; el lock ya lo tiene el RecordStore.
type txView struct {
	st state
}

func (v *txView) List(ctx context.Context, kind entity.Kind) ([]entity.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return v.st.list(kind)
}

func (v *txView) Get(ctx context.Context, kind entity.Kind, id string) (entity.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return v.st.get(kind, id)
}

func (v *txView) Insert(ctx context.Context, rec entity.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return v.st.insert(rec)
}

func (v *txView) Update(ctx context.Context, kind entity.Kind, id string, patch repository.Patch) (entity.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return v.st.update(kind, id, patch)
}

func (v *txView) Remove(ctx context.Context, kind entity.Kind, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return v.st.remove(kind, id)
}
