// Package analytics arma el tablero principal: tarjetas de resumen, estados de stock,
// kanban de recepciones y entregas, últimos movimientos y gráfico de flujo.
//
// Cada colección se lee por separado y en paralelo, sin una transacción común. Un
// movimiento registrado a mitad de GetSummary puede verse en los productos y no en los
// movimientos (o al revés); la siguiente lectura ya es coherente. El tablero nunca
// bloquea a las mutaciones.
package analytics

import (
	"context"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stockboard-api/internal/application/dto"
	"github.com/jhoicas/stockboard-api/internal/domain/entity"
	"github.com/jhoicas/stockboard-api/internal/domain/inventory"
)

const dashboardRecentTransactions = 5 // movimientos en el widget "recientes"

// RecordReader lecturas que necesita el tablero (lo implementa usecase.RecordUseCase).
type RecordReader interface {
	ListStock(ctx context.Context, q string) ([]entity.StockItem, error)
	ListTransactions(ctx context.Context, q string) ([]entity.Transaction, error)
	ListOperations(ctx context.Context, kind entity.Kind, q string) ([]entity.Operation, error)
}

// DashboardUseCase genera el resumen del tablero.
type DashboardUseCase struct {
	records RecordReader
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(records RecordReader) *DashboardUseCase {
	return &DashboardUseCase{records: records}
}

// GetSummary construye el DashboardResponse.
//
// Cuatro lecturas en paralelo, cada una con su propia instantánea del store:
//  1. productos     → Summary + StockByStatus + LowStock
//  2. movimientos   → RecentTransactions + StockFlow
//  3. recepciones   → Receipts (conteo por estado)
//  4. entregas      → Deliveries (conteo por estado)
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardResponse, error) {
	var (
		items      []entity.StockItem
		txs        []entity.Transaction
		receipts   []entity.Operation
		deliveries []entity.Operation
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = uc.records.ListStock(gctx, "")
		return err
	})
	g.Go(func() error {
		var err error
		txs, err = uc.records.ListTransactions(gctx, "")
		return err
	})
	g.Go(func() error {
		var err error
		receipts, err = uc.records.ListOperations(gctx, entity.KindReceipt, "")
		return err
	})
	g.Go(func() error {
		var err error
		deliveries, err = uc.records.ListOperations(gctx, entity.KindDelivery, "")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	stockGroups := inventory.OrderedGroups(inventory.GroupStock(items), entity.StockStatuses)
	lowStock := make([]dto.StockItemResponse, 0)
	for _, it := range items {
		if it.Status == entity.StockLow || it.Status == entity.StockCritical {
			lowStock = append(lowStock, dto.FromStockItem(it))
		}
	}

	return &dto.DashboardResponse{
		Summary:            dto.FromSummary(inventory.ComputeSummary(items)),
		StockByStatus:      dto.Counts(stockGroups),
		LowStock:           lowStock,
		Receipts:           dto.Counts(inventory.OrderedGroups(inventory.GroupOperations(receipts), entity.OperationStatuses)),
		Deliveries:         dto.Counts(inventory.OrderedGroups(inventory.GroupOperations(deliveries), entity.OperationStatuses)),
		RecentTransactions: dto.MapSlice(RecentTransactions(txs, dashboardRecentTransactions), dto.FromTransaction),
		StockFlow:          StockFlow(txs),
	}, nil
}

// RecentTransactions los n movimientos más recientes por fecha. Con la misma fecha
// gana el registrado después.
func RecentTransactions(txs []entity.Transaction, n int) []entity.Transaction {
	out := slices.Clone(txs)
	slices.Reverse(out)
	slices.SortStableFunc(out, func(a, b entity.Transaction) int {
		return b.Date.Compare(a.Date)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// StockFlow unidades de entrada y salida por día, en orden cronológico.
func StockFlow(txs []entity.Transaction) []dto.FlowPoint {
	byDay := map[time.Time]*dto.FlowPoint{}
	var days []time.Time
	for _, t := range txs {
		y, m, d := t.Date.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		p, ok := byDay[day]
		if !ok {
			p = &dto.FlowPoint{Date: day.Format(entity.DateLayout)}
			byDay[day] = p
			days = append(days, day)
		}
		if t.Type == entity.TransactionIn {
			p.In += t.Quantity
		} else {
			p.Out += t.Quantity
		}
		p.Net = p.In - p.Out
	}
	slices.SortFunc(days, func(a, b time.Time) int { return a.Compare(b) })
	out := make([]dto.FlowPoint, 0, len(days))
	for _, d := range days {
		out = append(out, *byDay[d])
	}
	return out
}
