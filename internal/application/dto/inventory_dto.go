package dto

import "time"

// StockItemResponse salida de un producto en stock.
type StockItemResponse struct {
	ID           string    `json:"id"`
	ProductName  string    `json:"productName"`
	SKU          string    `json:"sku"`
	CurrentStock int       `json:"currentStock"`
	MinStock     int       `json:"minStock"`
	MaxStock     int       `json:"maxStock"`
	Unit         string    `json:"unit"`
	Status       string    `json:"status"`
	LastUpdated  time.Time `json:"lastUpdated"`
}

// TransactionResponse salida de un movimiento de stock. Date en formato YYYY-MM-DD.
type TransactionResponse struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Product   string `json:"product"`
	Quantity  int    `json:"quantity"`
	Date      string `json:"date"`
	Reference string `json:"reference"`
}

// OperationResponse salida de una recepción o entrega. ScheduleDate en formato YYYY-MM-DD.
type OperationResponse struct {
	ID           string    `json:"id"`
	Reference    string    `json:"reference"`
	From         string    `json:"from"`
	To           string    `json:"to"`
	Contact      string    `json:"contact"`
	ScheduleDate string    `json:"scheduleDate"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// StockSummaryResponse tarjetas de resumen del tablero de stock.
type StockSummaryResponse struct {
	TotalProducts int `json:"totalProducts"`
	LowStockItems int `json:"lowStockItems"`
	TotalUnits    int `json:"totalUnits"`
	AvgStockLevel int `json:"avgStockLevel"`
}

// MovementResponse movimiento registrado y el producto con su stock ajustado.
type MovementResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	StockItem   StockItemResponse   `json:"stockItem"`
}
