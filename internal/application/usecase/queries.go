package usecase

import (
	"context"
	"slices"

	"github.com/jhoicas/stockboard-api/internal/domain/entity"
	"github.com/jhoicas/stockboard-api/internal/domain/inventory"
)

// Las consultas recalculan las vistas derivadas en cada lectura; nada se cachea.

// GetRecord devuelve el registro id de kind.
func (uc *RecordUseCase) GetRecord(ctx context.Context, kind entity.Kind, id string) (entity.Record, error) {
	return uc.store.Get(ctx, kind, id)
}

// ListStock productos filtrados por nombre o SKU.
func (uc *RecordUseCase) ListStock(ctx context.Context, q string) ([]entity.StockItem, error) {
	items, err := listAs[entity.StockItem](ctx, uc.store, entity.KindStockItem)
	if err != nil {
		return nil, err
	}
	return slices.Collect(inventory.FilterBySubstring(items, q,
		func(s entity.StockItem) string { return s.ProductName },
		func(s entity.StockItem) string { return s.SKU },
	)), nil
}

// ListTransactions movimientos filtrados por producto o referencia.
func (uc *RecordUseCase) ListTransactions(ctx context.Context, q string) ([]entity.Transaction, error) {
	txs, err := listAs[entity.Transaction](ctx, uc.store, entity.KindTransaction)
	if err != nil {
		return nil, err
	}
	return slices.Collect(inventory.FilterBySubstring(txs, q,
		func(t entity.Transaction) string { return t.Product },
		func(t entity.Transaction) string { return t.Reference },
	)), nil
}

// ListOperations recepciones o entregas filtradas por referencia o contacto.
func (uc *RecordUseCase) ListOperations(ctx context.Context, kind entity.Kind, q string) ([]entity.Operation, error) {
	if _, ok := entity.DirectionOf(kind); !ok {
		return nil, unknownKind(kind)
	}
	ops, err := listAs[entity.Operation](ctx, uc.store, kind)
	if err != nil {
		return nil, err
	}
	return slices.Collect(inventory.FilterBySubstring(ops, q,
		func(o entity.Operation) string { return o.Reference },
		func(o entity.Operation) string { return o.Contact },
	)), nil
}

// ListWarehouses bodegas filtradas por nombre, código o dirección.
func (uc *RecordUseCase) ListWarehouses(ctx context.Context, q string) ([]entity.Warehouse, error) {
	ws, err := listAs[entity.Warehouse](ctx, uc.store, entity.KindWarehouse)
	if err != nil {
		return nil, err
	}
	return slices.Collect(inventory.FilterBySubstring(ws, q,
		func(w entity.Warehouse) string { return w.Name },
		func(w entity.Warehouse) string { return w.ShortCode },
		func(w entity.Warehouse) string { return w.Address },
	)), nil
}

// OperationGroups operaciones (ya filtradas por q) agrupadas por estado en orden canónico.
func (uc *RecordUseCase) OperationGroups(ctx context.Context, kind entity.Kind, q string) ([]inventory.Group[entity.OperationStatus, entity.Operation], error) {
	ops, err := uc.ListOperations(ctx, kind, q)
	if err != nil {
		return nil, err
	}
	return inventory.OrderedGroups(inventory.GroupOperations(ops), entity.OperationStatuses), nil
}

// StockGroups productos (ya filtrados por q) agrupados por estado de stock.
func (uc *RecordUseCase) StockGroups(ctx context.Context, q string) ([]inventory.Group[entity.StockStatus, entity.StockItem], error) {
	items, err := uc.ListStock(ctx, q)
	if err != nil {
		return nil, err
	}
	return inventory.OrderedGroups(inventory.GroupStock(items), entity.StockStatuses), nil
}

// StockSummary tarjetas de resumen sobre todos los productos.
func (uc *RecordUseCase) StockSummary(ctx context.Context) (inventory.Summary, error) {
	items, err := listAs[entity.StockItem](ctx, uc.store, entity.KindStockItem)
	if err != nil {
		return inventory.Summary{}, err
	}
	return inventory.ComputeSummary(items), nil
}
