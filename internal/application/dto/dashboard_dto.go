package dto

// DashboardResponse respuesta de GET /api/dashboard.
type DashboardResponse struct {
	Summary            StockSummaryResponse  `json:"summary"`
	StockByStatus      []GroupCount          `json:"stockByStatus"`
	LowStock           []StockItemResponse   `json:"lowStock"` // low + critical, para la tabla de alertas
	Receipts           []GroupCount          `json:"receipts"`
	Deliveries         []GroupCount          `json:"deliveries"`
	RecentTransactions []TransactionResponse `json:"recentTransactions"`
	StockFlow          []FlowPoint           `json:"stockFlow"`
}

// FlowPoint unidades que entraron y salieron en una fecha (gráfico de movimientos).
type FlowPoint struct {
	Date string `json:"date"`
	In   int    `json:"in"`
	Out  int    `json:"out"`
	Net  int    `json:"net"`
}
