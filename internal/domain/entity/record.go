package entity

// Kind identifica el tipo de registro dentro del Record Store.
type Kind string

// Tipos de registro soportados.
const (
	KindStockItem   Kind = "stock_item"
	KindTransaction Kind = "transaction"
	KindReceipt     Kind = "receipt"
	KindDelivery    Kind = "delivery"
	KindWarehouse   Kind = "warehouse"
)

// Kinds lista todos los tipos de registro en orden estable.
var Kinds = []Kind{KindStockItem, KindTransaction, KindReceipt, KindDelivery, KindWarehouse}

// Valid indica si k es un tipo conocido.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// DateLayout formato de fechas de calendario (scheduleDate, fecha de transacción).
const DateLayout = "2006-01-02"

// Record es la variante etiquetada común a todas las entidades del Record Store.
// UniqueKeys devuelve las claves únicas ya normalizadas (sin incluir el id).
type Record interface {
	Kind() Kind
	RecordID() string
	UniqueKeys() map[string]string
}
