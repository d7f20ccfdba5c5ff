package dto

import (
	"github.com/jhoicas/stockboard-api/internal/domain/entity"
	"github.com/jhoicas/stockboard-api/internal/domain/inventory"
)

func FromStockItem(s entity.StockItem) StockItemResponse {
	return StockItemResponse{
		ID:           s.ID,
		ProductName:  s.ProductName,
		SKU:          s.SKU,
		CurrentStock: s.CurrentStock,
		MinStock:     s.MinStock,
		MaxStock:     s.MaxStock,
		Unit:         s.Unit,
		Status:       string(s.Status),
		LastUpdated:  s.LastUpdated,
	}
}

func FromTransaction(t entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:        t.ID,
		Type:      string(t.Type),
		Product:   t.Product,
		Quantity:  t.Quantity,
		Date:      t.Date.Format(entity.DateLayout),
		Reference: t.Reference,
	}
}

func FromOperation(o entity.Operation) OperationResponse {
	return OperationResponse{
		ID:           o.ID,
		Reference:    o.Reference,
		From:         o.From,
		To:           o.To,
		Contact:      o.Contact,
		ScheduleDate: o.ScheduleDate.Format(entity.DateLayout),
		Status:       string(o.Status),
		CreatedAt:    o.CreatedAt,
	}
}

func FromWarehouse(w entity.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		ID:        w.ID,
		Name:      w.Name,
		ShortCode: w.ShortCode,
		Address:   w.Address,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func FromSummary(s inventory.Summary) StockSummaryResponse {
	return StockSummaryResponse{
		TotalProducts: s.TotalProducts,
		LowStockItems: s.LowStockItems,
		TotalUnits:    s.TotalUnits,
		AvgStockLevel: s.AvgStockLevel,
	}
}

// FromRecord convierte cualquier registro a su DTO; nil si el tipo no es conocido.
func FromRecord(rec entity.Record) any {
	switch r := rec.(type) {
	case entity.StockItem:
		return FromStockItem(r)
	case entity.Transaction:
		return FromTransaction(r)
	case entity.Operation:
		return FromOperation(r)
	case entity.Warehouse:
		return FromWarehouse(r)
	}
	return nil
}

// MapSlice aplica fn a cada elemento.
func MapSlice[T, R any](in []T, fn func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}

// Kanban arma la vista agrupada a partir de grupos ya ordenados.
func Kanban[S ~string, T, R any](groups []inventory.Group[S, T], fn func(T) R) KanbanResponse[R] {
	out := KanbanResponse[R]{Groups: make([]GroupResponse[R], 0, len(groups))}
	for _, g := range groups {
		out.Groups = append(out.Groups, GroupResponse[R]{
			Status: string(g.Status),
			Count:  len(g.Records),
			Items:  MapSlice(g.Records, fn),
		})
		out.Total += len(g.Records)
	}
	return out
}

// Counts cuenta registros por estado, en el orden de groups.
func Counts[S ~string, T any](groups []inventory.Group[S, T]) []GroupCount {
	out := make([]GroupCount, 0, len(groups))
	for _, g := range groups {
		out = append(out, GroupCount{Status: string(g.Status), Count: len(g.Records)})
	}
	return out
}
