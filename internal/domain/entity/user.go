package entity

import "time"

// Identity identidad autenticada de un cliente. Es lo que se refleja en el slot persistido "user".
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Account cuenta registrada vía signup; permite verificar logins posteriores.
type Account struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string // bcrypt hash, nunca plano
	CreatedAt    time.Time
}

// Identity devuelve la identidad pública de la cuenta.
func (a *Account) Identity() Identity {
	return Identity{ID: a.ID, Email: a.Email, Name: a.Name}
}
