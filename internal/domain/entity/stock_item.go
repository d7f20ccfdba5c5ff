package entity

import "time"

// StockStatus nivel de stock de un producto respecto a sus umbrales.
type StockStatus string

const (
	StockOptimal  StockStatus = "optimal"
	StockLow      StockStatus = "low"
	StockCritical StockStatus = "critical"
)

// StockStatuses orden canónico de los estados de stock.
var StockStatuses = []StockStatus{StockOptimal, StockLow, StockCritical}

// StockItem representa el stock actual de un producto (SKU único).
// Status se deriva de CurrentStock y MinStock en cada escritura.
type StockItem struct {
	ID           string
	ProductName  string
	SKU          string
	CurrentStock int
	MinStock     int
	MaxStock     int
	Unit         string
	Status       StockStatus
	LastUpdated  time.Time
}

func (s StockItem) Kind() Kind       { return KindStockItem }
func (s StockItem) RecordID() string { return s.ID }

func (s StockItem) UniqueKeys() map[string]string {
	return map[string]string{"sku": s.SKU}
}
