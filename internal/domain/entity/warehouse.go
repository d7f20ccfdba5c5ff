package entity

import (
	"strings"
	"time"
)

// ShortCodeMaxLen longitud máxima del código corto de una bodega.
const ShortCodeMaxLen = 5

// Warehouse representa una bodega o ubicación de almacenamiento.
// ShortCode se guarda siempre en mayúsculas y es único sin distinguir mayúsculas.
type Warehouse struct {
	ID        string
	Name      string
	ShortCode string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (w Warehouse) Kind() Kind       { return KindWarehouse }
func (w Warehouse) RecordID() string { return w.ID }

func (w Warehouse) UniqueKeys() map[string]string {
	return map[string]string{"shortCode": strings.ToUpper(w.ShortCode)}
}
