package inventory

import (
	"math"

	"github.com/jhoicas/stockboard-api/internal/domain/entity"
)

// MaxQuantity tope de cualquier cantidad de stock (existencias, umbrales y movimientos).
const MaxQuantity = math.MaxInt32

// DeriveStatus calcula el estado de stock a partir de los umbrales:
//
//	critical  si current < min × 0.5
//	low       si current < min
//	optimal   en otro caso
//
// Con min >= 0, current < min-min/2 equivale a 2×current < min sin multiplicar.
func DeriveStatus(current, min int) entity.StockStatus {
	switch {
	case current < min-min/2:
		return entity.StockCritical
	case current < min:
		return entity.StockLow
	default:
		return entity.StockOptimal
	}
}

// NextStatus devuelve el siguiente estado en Draft→Pending→Ready→Delivered.
// ok es false si s ya es el último estado o no es un estado conocido.
func NextStatus(s entity.OperationStatus) (next entity.OperationStatus, ok bool) {
	for i, st := range entity.OperationStatuses {
		if st == s && i+1 < len(entity.OperationStatuses) {
			return entity.OperationStatuses[i+1], true
		}
	}
	return "", false
}
