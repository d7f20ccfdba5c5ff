package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stockboard-api/internal/application/async"
	"github.com/jhoicas/stockboard-api/internal/domain"
	"github.com/jhoicas/stockboard-api/internal/domain/entity"
	"github.com/jhoicas/stockboard-api/internal/domain/repository"
	"github.com/jhoicas/stockboard-api/pkg/logger"
	"github.com/jhoicas/stockboard-api/pkg/metrics"
)

// SlotKey clave del slot persistido donde se refleja la identidad.
const SlotKey = "user"

// State estado de la sesión de un cliente.
type State string

const (
	StateAnonymous      State = "anonymous"
	StateAuthenticating State = "authenticating"
	StateAuthenticated  State = "authenticated"
)

// Deps colaboradores compartidos por todos los Holder.
type Deps struct {
	Slots     repository.SlotStore
	Accounts  repository.AccountRepository
	Scheduler async.Scheduler
	Logger    *logger.Logger
	Metrics   *metrics.Metrics
	HashCost  int // 0 = bcrypt.DefaultCost
}

func (d Deps) withDefaults() Deps {
	if d.Scheduler == nil {
		d.Scheduler = async.Immediate{}
	}
	if d.Logger == nil {
		d.Logger = logger.Nop()
	}
	if d.HashCost == 0 {
		d.HashCost = bcrypt.DefaultCost
	}
	return d
}

// Holder máquina de estados de la sesión de un cliente:
//
//	Anonymous --login/signup--> Authenticating --ok--> Authenticated
//	                                 \--error--> Anonymous
//	Authenticated --logout--> Anonymous
//
// La identidad se refleja en el slot key; Current relee el slot en cada llamada.
type Holder struct {
	key  string
	deps Deps

	mu       sync.Mutex
	state    State
	identity entity.Identity
}

// NewHolder construye un Holder anónimo para el slot key.
func NewHolder(key string, deps Deps) *Holder {
	return &Holder{key: key, deps: deps.withDefaults(), state: StateAnonymous}
}

// State devuelve el estado actual sin consultar el slot.
func (h *Holder) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Identity devuelve la identidad en memoria; ok es false si no está autenticado.
func (h *Holder) Identity() (entity.Identity, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.identity, h.state == StateAuthenticated
}

// Login autentica con email y password. Un email sin cuenta registrada siempre entra;
// si hay cuenta, el password debe coincidir con su hash.
func (h *Holder) Login(ctx context.Context, email, password string) (entity.Identity, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		h.reset()
		return entity.Identity{}, &domain.AuthError{Reason: "email y password son requeridos"}
	}
	return h.transition(ctx, "login", func(ctx context.Context) (entity.Identity, error) {
		return h.authenticate(ctx, email, password)
	})
}

// Signup registra una cuenta nueva y deja la sesión autenticada con ella.
func (h *Holder) Signup(ctx context.Context, email, password, name string) (entity.Identity, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if email == "" || password == "" || name == "" {
		h.reset()
		return entity.Identity{}, &domain.AuthError{Reason: "email, password y name son requeridos"}
	}
	return h.transition(ctx, "signup", func(ctx context.Context) (entity.Identity, error) {
		return h.register(ctx, email, password, name)
	})
}

// Logout vuelve a Anonymous y borra el slot, sin importar el estado previo.
func (h *Holder) Logout(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = StateAnonymous
	h.identity = entity.Identity{}
	h.deps.Metrics.ObserveSession("logout")
	if err := h.deps.Slots.Clear(ctx, h.key); err != nil {
		return fmt.Errorf("limpiar slot de sesión: %w", err)
	}
	return nil
}

// Restore relee el slot (equivalente a recargar la página): slot vacío o ilegible fuerza Anonymous.
func (h *Holder) Restore(ctx context.Context) (entity.Identity, bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state == StateAuthenticating {
		return entity.Identity{}, false, nil
	}
	raw, err := h.deps.Slots.Load(ctx, h.key)
	if err != nil {
		return entity.Identity{}, false, fmt.Errorf("leer slot de sesión: %w", err)
	}
	id, ok := decodeIdentity(raw)
	if !ok {
		if raw != nil {
			h.deps.Logger.Warn().Str("slot", h.key).Msg("slot de sesión ilegible, se ignora")
		}
		h.state = StateAnonymous
		h.identity = entity.Identity{}
		return entity.Identity{}, false, nil
	}
	h.state = StateAuthenticated
	h.identity = id
	return id, true, nil
}

// Current identidad vigente según el slot persistido.
func (h *Holder) Current(ctx context.Context) (entity.Identity, bool, error) {
	return h.Restore(ctx)
}

func (h *Holder) reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != StateAuthenticating {
		h.state = StateAnonymous
		h.identity = entity.Identity{}
	}
}

// transition corre fn como tarea asíncrona con el Holder en Authenticating.
func (h *Holder) transition(ctx context.Context, event string, fn func(context.Context) (entity.Identity, error)) (entity.Identity, error) {
	h.mu.Lock()
	if h.state == StateAuthenticating {
		h.mu.Unlock()
		return entity.Identity{}, &domain.AuthError{Reason: "autenticación en curso"}
	}
	h.state = StateAuthenticating
	h.identity = entity.Identity{}
	h.mu.Unlock()

	task := async.Start(ctx, h.deps.Scheduler, fn)
	id, err := task.Await(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()
	if err == nil {
		err = h.persist(ctx, id)
	}
	if err != nil {
		h.state = StateAnonymous
		h.deps.Metrics.ObserveSession(event + "_failed")
		return entity.Identity{}, err
	}
	h.state = StateAuthenticated
	h.identity = id
	h.deps.Metrics.ObserveSession(event)
	h.deps.Logger.Info().Str("event", event).Str("user_id", id.ID).Msg("sesión iniciada")
	return id, nil
}

func (h *Holder) persist(ctx context.Context, id entity.Identity) error {
	b, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("serializar identidad: %w", err)
	}
	if err := h.deps.Slots.Save(ctx, h.key, b); err != nil {
		return fmt.Errorf("guardar slot de sesión: %w", err)
	}
	return nil
}

func (h *Holder) authenticate(ctx context.Context, email, password string) (entity.Identity, error) {
	if h.deps.Accounts != nil {
		account, err := h.deps.Accounts.FindByEmail(ctx, email)
		if err != nil {
			return entity.Identity{}, err
		}
		if account != nil {
			if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
				return entity.Identity{}, &domain.AuthError{Reason: "credenciales inválidas"}
			}
			return account.Identity(), nil
		}
	}
	return entity.Identity{ID: uuid.NewString(), Email: email, Name: localPart(email)}, nil
}

func (h *Holder) register(ctx context.Context, email, password, name string) (entity.Identity, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.deps.HashCost)
	if err != nil {
		return entity.Identity{}, fmt.Errorf("hashear password: %w", err)
	}
	account := &entity.Account{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if h.deps.Accounts != nil {
		if err := h.deps.Accounts.Create(ctx, account); err != nil {
			return entity.Identity{}, err
		}
	}
	return account.Identity(), nil
}

func decodeIdentity(raw []byte) (entity.Identity, bool) {
	if len(raw) == 0 {
		return entity.Identity{}, false
	}
	var id entity.Identity
	if err := json.Unmarshal(raw, &id); err != nil {
		return entity.Identity{}, false
	}
	if id.ID == "" || id.Email == "" {
		return entity.Identity{}, false
	}
	return id, true
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// localPart nombre visible por defecto: lo que va antes de la arroba.
func localPart(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
