package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stockboard-api/internal/application/auth"
	"github.com/jhoicas/stockboard-api/internal/domain"
	"github.com/jhoicas/stockboard-api/internal/domain/entity"
	"github.com/jhoicas/stockboard-api/internal/infrastructure/memory"
)

// manualScheduler retiene cada trabajo hasta que el test lo ejecuta.
type manualScheduler struct {
	jobs chan func()
}

func newManualScheduler() *manualScheduler {
	return &manualScheduler{jobs: make(chan func(), 1)}
}

func (s *manualScheduler) Schedule(ctx context.Context, job func(ctx context.Context)) {
	s.jobs <- func() { job(ctx) }
}

type failingSlots struct{}

func (failingSlots) Load(context.Context, string) ([]byte, error) { return nil, errors.New("load") }
func (failingSlots) Save(context.Context, string, []byte) error   { return errors.New("save") }
func (failingSlots) Clear(context.Context, string) error          { return errors.New("clear") }

func testDeps() (auth.Deps, *memory.SlotStore) {
	slots := memory.NewSlotStore(0)
	return auth.Deps{
		Slots:    slots,
		Accounts: memory.NewAccountRepository(),
		HashCost: bcrypt.MinCost,
	}, slots
}

func TestHolder_LoginCamposVacios_QuedaAnonimo(t *testing.T) {
	deps, slots := testDeps()
	h := auth.NewHolder(auth.SlotKey, deps)

	for _, tc := range []struct{ email, password string }{
		{"", "secret"},
		{"ana@example.com", ""},
		{"   ", "secret"},
	} {
		_, err := h.Login(context.Background(), tc.email, tc.password)
		var authErr *domain.AuthError
		require.ErrorAs(t, err, &authErr)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.Equal(t, auth.StateAnonymous, h.State())
	}

	raw, err := slots.Load(context.Background(), auth.SlotKey)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestHolder_LoginEmailDesconocido_UsaParteLocal(t *testing.T) {
	deps, slots := testDeps()
	h := auth.NewHolder(auth.SlotKey, deps)

	id, err := h.Login(context.Background(), "Ana.Perez@Example.com", "whatever")
	require.NoError(t, err)
	assert.NotEmpty(t, id.ID)
	assert.Equal(t, "ana.perez@example.com", id.Email)
	assert.Equal(t, "ana.perez", id.Name)
	assert.Equal(t, auth.StateAuthenticated, h.State())

	raw, err := slots.Load(context.Background(), auth.SlotKey)
	require.NoError(t, err)
	var persisted entity.Identity
	require.NoError(t, json.Unmarshal(raw, &persisted))
	assert.Equal(t, id, persisted)
}

func TestHolder_SignupLuegoLogin_VerificaPassword(t *testing.T) {
	deps, _ := testDeps()
	ctx := context.Background()

	h := auth.NewHolder("user:a", deps)
	created, err := h.Signup(ctx, "ana@example.com", "s3cret", "Ana")
	require.NoError(t, err)
	assert.Equal(t, "Ana", created.Name)

	other := auth.NewHolder("user:b", deps)
	_, err = other.Login(ctx, "ana@example.com", "wrong")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, auth.StateAnonymous, other.State())

	got, err := other.Login(ctx, "ANA@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestHolder_SignupValidacionYDuplicado(t *testing.T) {
	deps, _ := testDeps()
	ctx := context.Background()
	h := auth.NewHolder(auth.SlotKey, deps)

	_, err := h.Signup(ctx, "ana@example.com", "pw", " ")
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = h.Signup(ctx, "ana@example.com", "pw", "Ana")
	require.NoError(t, err)

	again := auth.NewHolder("user:other", deps)
	_, err = again.Signup(ctx, "ana@example.com", "pw2", "Ana Two")
	require.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Equal(t, auth.StateAnonymous, again.State())
}

func TestHolder_AutenticandoMientrasTareaPendiente(t *testing.T) {
	deps, _ := testDeps()
	sched := newManualScheduler()
	deps.Scheduler = sched
	h := auth.NewHolder(auth.SlotKey, deps)

	type result struct {
		id  entity.Identity
		err error
	}
	done := make(chan result, 1)
	go func() {
		id, err := h.Login(context.Background(), "ana@example.com", "pw")
		done <- result{id, err}
	}()

	job := <-sched.jobs
	assert.Equal(t, auth.StateAuthenticating, h.State())

	_, err := h.Login(context.Background(), "ana@example.com", "pw")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, auth.StateAuthenticating, h.State())

	job()
	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, auth.StateAuthenticated, h.State())
	got, ok := h.Identity()
	assert.True(t, ok)
	assert.Equal(t, res.id, got)
}

func TestHolder_LogoutLimpiaSlot(t *testing.T) {
	deps, slots := testDeps()
	ctx := context.Background()
	h := auth.NewHolder(auth.SlotKey, deps)

	_, err := h.Login(ctx, "ana@example.com", "pw")
	require.NoError(t, err)

	require.NoError(t, h.Logout(ctx))
	assert.Equal(t, auth.StateAnonymous, h.State())

	raw, err := slots.Load(ctx, auth.SlotKey)
	require.NoError(t, err)
	assert.Nil(t, raw)

	_, ok, err := h.Current(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	// Logout desde Anonymous también es válido.
	require.NoError(t, h.Logout(ctx))
}

func TestHolder_CurrentReleeSlot(t *testing.T) {
	deps, slots := testDeps()
	ctx := context.Background()
	h := auth.NewHolder(auth.SlotKey, deps)

	id, err := h.Login(ctx, "ana@example.com", "pw")
	require.NoError(t, err)

	require.NoError(t, slots.Clear(ctx, auth.SlotKey))
	_, ok, err := h.Current(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, auth.StateAnonymous, h.State())

	// Recargar: otro Holder sobre el mismo slot recupera la identidad.
	raw, _ := json.Marshal(id)
	require.NoError(t, slots.Save(ctx, auth.SlotKey, raw))
	reloaded := auth.NewHolder(auth.SlotKey, deps)
	got, ok, err := reloaded.Restore(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, id, got)
	assert.Equal(t, auth.StateAuthenticated, reloaded.State())
}

func TestHolder_SlotCorrupto_EsAnonimo(t *testing.T) {
	deps, slots := testDeps()
	ctx := context.Background()
	require.NoError(t, slots.Save(ctx, auth.SlotKey, []byte("{not json")))

	h := auth.NewHolder(auth.SlotKey, deps)
	_, ok, err := h.Restore(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, auth.StateAnonymous, h.State())
}

func TestHolder_FallaAlPersistir_QuedaAnonimo(t *testing.T) {
	h := auth.NewHolder(auth.SlotKey, auth.Deps{Slots: failingSlots{}, HashCost: bcrypt.MinCost})

	_, err := h.Login(context.Background(), "ana@example.com", "pw")
	require.Error(t, err)
	assert.Equal(t, auth.StateAnonymous, h.State())
}

func TestHolder_ContextoCancelado(t *testing.T) {
	deps, _ := testDeps()
	h := auth.NewHolder(auth.SlotKey, deps)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Login(ctx, "ana@example.com", "pw")
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, auth.StateAnonymous, h.State())
}
