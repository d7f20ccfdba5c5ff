package inventory

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockboard-api/internal/domain/entity"
)

// Summary estadísticas del tablero de stock.
type Summary struct {
	TotalProducts int
	LowStockItems int
	TotalUnits    int
	AvgStockLevel int
}

// ComputeSummary calcula el resumen de stock.
// AvgStockLevel = round(TotalUnits / TotalProducts), 0 si no hay productos.
// La suma se acumula en decimal; un total fuera del rango de int se satura.
func ComputeSummary(items []entity.StockItem) Summary {
	s := Summary{TotalProducts: len(items)}
	total := decimal.Zero
	for _, it := range items {
		if it.Status == entity.StockLow || it.Status == entity.StockCritical {
			s.LowStockItems++
		}
		total = total.Add(decimal.NewFromInt(int64(it.CurrentStock)))
	}
	s.TotalUnits = saturate(total)
	if s.TotalProducts == 0 {
		return s
	}
	avg := total.Div(decimal.NewFromInt(int64(s.TotalProducts))).Round(0)
	s.AvgStockLevel = saturate(avg)
	return s
}

var (
	maxInt = decimal.NewFromInt(int64(math.MaxInt))
	minInt = decimal.NewFromInt(int64(math.MinInt))
)

func saturate(d decimal.Decimal) int {
	switch {
	case d.GreaterThan(maxInt):
		return math.MaxInt
	case d.LessThan(minInt):
		return math.MinInt
	}
	return int(d.IntPart())
}
