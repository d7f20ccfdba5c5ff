package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/jhoicas/stockboard-api/internal/domain/repository"
)

var _ repository.SlotStore = (*SlotStore)(nil)

// SlotStore slots de sesión en memoria. Se pierden al reiniciar el proceso.
// Con ttl > 0 cada Save fija la expiración del slot; un slot vencido se lee como ausente
// y se descarta en la siguiente pasada de limpieza.
type SlotStore struct {
	ttl time.Duration
	now func() time.Time

	mu        sync.RWMutex
	slots     map[string]slot
	lastSweep time.Time
}

type slot struct {
	value   []byte
	expires time.Time // cero = sin expiración
}

func (s slot) expired(now time.Time) bool {
	return !s.expires.IsZero() && !now.Before(s.expires)
}

// NewSlotStore construye un SlotStore vacío. ttl <= 0 desactiva la expiración.
func NewSlotStore(ttl time.Duration) *SlotStore {
	return &SlotStore{ttl: ttl, now: time.Now, slots: map[string]slot{}}
}

// WithClock reemplaza el reloj (tests).
func (s *SlotStore) WithClock(now func() time.Time) *SlotStore {
	s.now = now
	return s
}

// Len cantidad de slots guardados, vencidos incluidos hasta la próxima limpieza.
func (s *SlotStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.slots)
}

func (s *SlotStore) Load(_ context.Context, key string) ([]byte, error) {
	now := s.now()
	s.mu.RLock()
	v, ok := s.slots[key]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if v.expired(now) {
		s.mu.Lock()
		if cur, ok := s.slots[key]; ok && cur.expired(now) {
			delete(s.slots, key)
		}
		s.mu.Unlock()
		return nil, nil
	}
	return slices.Clone(v.value), nil
}

func (s *SlotStore) Save(_ context.Context, key string, value []byte) error {
	now := s.now()
	entry := slot{value: slices.Clone(value)}
	if s.ttl > 0 {
		entry.expires = now.Add(s.ttl)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(now)
	s.slots[key] = entry
	return nil
}

func (s *SlotStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, key)
	return nil
}

// sweepLocked descarta los slots vencidos, a lo sumo una vez por ttl.
func (s *SlotStore) sweepLocked(now time.Time) {
	if s.ttl <= 0 || now.Sub(s.lastSweep) < s.ttl {
		return
	}
	s.lastSweep = now
	for k, v := range s.slots {
		if v.expired(now) {
			delete(s.slots, k)
		}
	}
}
