package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
// Los errores tipados de abajo se comparan con estos centinelas vía errors.Is.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// ValidationError campo faltante o mal formado en una entrada del usuario.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("campo inválido: %s", e.Field)
	}
	return fmt.Sprintf("campo inválido: %s (%s)", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// DuplicateKeyError violación de una clave única dentro de un tipo de registro.
type DuplicateKeyError struct {
	Kind  string
	Key   string
	Value string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s duplicado: %s=%q ya existe", e.Kind, e.Key, e.Value)
}

func (e *DuplicateKeyError) Is(target error) bool { return target == ErrDuplicate }

// NotFoundError referencia a un registro que no existe (o ya no existe).
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q no encontrado", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// InvalidTransitionError avance de estado no permitido (p. ej. desde Delivered).
type InvalidTransitionError struct {
	Kind string
	ID   string
	From string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s %q no puede avanzar desde %s", e.Kind, e.ID, e.From)
}

func (e *InvalidTransitionError) Is(target error) bool { return target == ErrConflict }

// AuthError credenciales vacías o incorrectas.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	if e.Reason == "" {
		return "autenticación fallida"
	}
	return "autenticación fallida: " + e.Reason
}

func (e *AuthError) Is(target error) bool { return target == ErrUnauthorized }
