package auth

import (
	"context"

	"github.com/jhoicas/stockboard-api/internal/application/dto"
	"github.com/jhoicas/stockboard-api/internal/domain/entity"
	"github.com/jhoicas/stockboard-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: signup, login, logout y sesión actual.
// Cada login o signup abre un cliente nuevo en el registro; el token lleva su id en el claim sid.
// El registro solo retiene al cliente mientras dura el login.
type AuthUseCase struct {
	registry *SessionRegistry
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(registry *SessionRegistry, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{registry: registry, jwtCfg: jwtCfg}
}

// Login inicia sesión y devuelve token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	clientID, h := uc.registry.Open()
	id, err := h.Login(ctx, in.Email, in.Password)
	if err != nil {
		uc.registry.Forget(clientID)
		return nil, err
	}
	return uc.issue(ctx, clientID, h, id)
}

// Signup registra la cuenta, inicia sesión y devuelve token + usuario.
func (uc *AuthUseCase) Signup(ctx context.Context, in dto.SignupRequest) (*dto.LoginResponse, error) {
	clientID, h := uc.registry.Open()
	id, err := h.Signup(ctx, in.Email, in.Password, in.Name)
	if err != nil {
		uc.registry.Forget(clientID)
		return nil, err
	}
	return uc.issue(ctx, clientID, h, id)
}

// Logout termina la sesión de clientID; los tokens emitidos para él dejan de valer.
func (uc *AuthUseCase) Logout(ctx context.Context, clientID string) error {
	h, ok := uc.registry.Holder(clientID)
	if !ok {
		h = NewHolder(SlotKeyFor(clientID), uc.registry.deps)
	}
	err := h.Logout(ctx)
	uc.registry.Forget(clientID)
	return err
}

// Current devuelve el usuario de la sesión activa de clientID.
func (uc *AuthUseCase) Current(ctx context.Context, clientID string) (*dto.UserResponse, error) {
	id, err := uc.registry.Authenticate(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return toUserResponse(id), nil
}

// Authenticate lo usa el middleware HTTP para validar que la sesión sigue activa.
func (uc *AuthUseCase) Authenticate(ctx context.Context, clientID string) (entity.Identity, error) {
	return uc.registry.Authenticate(ctx, clientID)
}

func (uc *AuthUseCase) issue(ctx context.Context, clientID string, h *Holder, id entity.Identity) (*dto.LoginResponse, error) {
	defer uc.registry.Forget(clientID)
	token, err := jwt.Generate(uc.jwtCfg.Secret, id.ID, clientID, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		_ = h.Logout(ctx)
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: *toUserResponse(id)}, nil
}

func toUserResponse(id entity.Identity) *dto.UserResponse {
	return &dto.UserResponse{ID: id.ID, Email: id.Email, Name: id.Name}
}
