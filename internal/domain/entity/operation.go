package entity

import "time"

// OperationStatus estado de una recepción o entrega.
type OperationStatus string

const (
	StatusDraft     OperationStatus = "Draft"
	StatusPending   OperationStatus = "Pending"
	StatusReady     OperationStatus = "Ready"
	StatusDelivered OperationStatus = "Delivered"
)

// OperationStatuses progresión fija, solo hacia adelante.
var OperationStatuses = []OperationStatus{StatusDraft, StatusPending, StatusReady, StatusDelivered}

// Direction sentido de la operación: IN (recepción) u OUT (entrega).
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// DirectionOf devuelve la dirección de un tipo de operación.
func DirectionOf(k Kind) (Direction, bool) {
	switch k {
	case KindReceipt:
		return DirectionIn, true
	case KindDelivery:
		return DirectionOut, true
	}
	return "", false
}

// Operation recepción (WH/IN/NNNN) o entrega (WH/OUT/NNNN) de mercancía.
type Operation struct {
	ID           string
	Direction    Direction
	Reference    string
	From         string
	To           string
	Contact      string
	ScheduleDate time.Time
	Status       OperationStatus
	CreatedAt    time.Time
}

func (o Operation) Kind() Kind {
	if o.Direction == DirectionOut {
		return KindDelivery
	}
	return KindReceipt
}

func (o Operation) RecordID() string { return o.ID }

func (o Operation) UniqueKeys() map[string]string {
	return map[string]string{"reference": o.Reference}
}
