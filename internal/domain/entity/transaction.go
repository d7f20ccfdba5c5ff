package entity

import "time"

// TransactionType dirección de un movimiento de stock.
type TransactionType string

const (
	TransactionIn  TransactionType = "in"  // entrada
	TransactionOut TransactionType = "out" // salida
)

// Transaction movimiento de stock inmutable. Quantity siempre es positiva; la dirección va en Type.
type Transaction struct {
	ID        string
	Type      TransactionType
	Product   string
	Quantity  int
	Date      time.Time
	Reference string
}

func (t Transaction) Kind() Kind       { return KindTransaction }
func (t Transaction) RecordID() string { return t.ID }

func (t Transaction) UniqueKeys() map[string]string {
	return map[string]string{"reference": t.Reference}
}
