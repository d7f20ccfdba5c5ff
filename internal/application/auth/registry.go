package auth

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/stockboard-api/internal/domain"
	"github.com/jhoicas/stockboard-api/internal/domain/entity"
)

// SessionRegistry Holders de los clientes con un login o signup en curso. El cliente se
// identifica con el claim sid del token. Una vez emitido el token el Holder se olvida:
// el slot user:<clientID> es la única fuente de la sesión y Authenticate lo relee.
type SessionRegistry struct {
	deps Deps

	mu      sync.Mutex
	holders map[string]*Holder
}

// NewSessionRegistry construye el registro vacío.
func NewSessionRegistry(deps Deps) *SessionRegistry {
	return &SessionRegistry{deps: deps.withDefaults(), holders: map[string]*Holder{}}
}

// SlotKeyFor clave del slot de un cliente: user:<clientID>.
func SlotKeyFor(clientID string) string {
	return SlotKey + ":" + clientID
}

// Open crea un cliente nuevo con su Holder anónimo. Quien llama debe hacer Forget al terminar.
func (r *SessionRegistry) Open() (string, *Holder) {
	clientID := uuid.NewString()
	h := NewHolder(SlotKeyFor(clientID), r.deps)
	r.mu.Lock()
	r.holders[clientID] = h
	r.mu.Unlock()
	return clientID, h
}

// Holder devuelve el Holder de clientID si está registrado.
func (r *SessionRegistry) Holder(clientID string) (*Holder, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.holders[clientID]
	return h, ok
}

// Forget olvida el Holder de clientID (no toca el slot).
func (r *SessionRegistry) Forget(clientID string) {
	r.mu.Lock()
	delete(r.holders, clientID)
	r.mu.Unlock()
}

// Len cantidad de clientes con un login o signup en curso.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.holders)
}

// Authenticate resuelve la identidad vigente de clientID releyendo su slot con un Holder
// transitorio. Si el slot está vacío o venció se devuelve *domain.AuthError.
func (r *SessionRegistry) Authenticate(ctx context.Context, clientID string) (entity.Identity, error) {
	if clientID == "" {
		return entity.Identity{}, &domain.AuthError{Reason: "sesión requerida"}
	}
	h, known := r.Holder(clientID)
	if !known {
		h = NewHolder(SlotKeyFor(clientID), r.deps)
	}
	id, ok, err := h.Current(ctx)
	if err != nil {
		return entity.Identity{}, err
	}
	if !ok {
		r.deps.Metrics.ObserveSession("rejected")
		return entity.Identity{}, &domain.AuthError{Reason: "sesión finalizada"}
	}
	return id, nil
}
