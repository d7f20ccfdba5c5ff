// Package seed carga los datos de ejemplo del tablero: productos, movimientos,
// recepciones, entregas y bodegas.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stockboard-api/internal/domain/entity"
	"github.com/jhoicas/stockboard-api/internal/domain/inventory"
	"github.com/jhoicas/stockboard-api/internal/domain/repository"
)

type stockSeed struct {
	name          string
	sku           string
	current, minQ int
	maxQ          int
}

var stockItems = []stockSeed{
	{"Wireless Headphones", "WH-001", 45, 20, 100},
	{"USB-C Cables", "UC-002", 12, 30, 150},
	{"Phone Cases", "PC-003", 2, 25, 200},
	{"Screen Protectors", "SP-004", 78, 40, 120},
	{"Power Banks", "PB-005", 23, 15, 80},
}

type transactionSeed struct {
	typ       entity.TransactionType
	product   string
	quantity  int
	date      string
	reference string
}

var transactions = []transactionSeed{
	{entity.TransactionIn, "Wireless Headphones", 25, "2025-11-20", "PO-2025-001"},
	{entity.TransactionOut, "USB-C Cables", 18, "2025-11-19", "SO-2025-045"},
	{entity.TransactionIn, "Phone Cases", 50, "2025-11-19", "PO-2025-002"},
	{entity.TransactionOut, "Screen Protectors", 12, "2025-11-18", "SO-2025-044"},
	{entity.TransactionIn, "Power Banks", 30, "2025-11-18", "PO-2025-003"},
	{entity.TransactionOut, "Wireless Headphones", 8, "2025-11-17", "SO-2025-043"},
}

type operationSeed struct {
	from, to, contact string
	scheduleDate      string
	status            entity.OperationStatus
	createdAt         string
}

var receipts = []operationSeed{
	{"vendor", "WH/Stock1", "Azure Interior", "2025-11-25", entity.StatusReady, "2025-11-20"},
	{"vendor", "WH/Stock1", "Majestic Otter", "2025-11-26", entity.StatusReady, "2025-11-20"},
	{"vendor", "WH/Stock2", "Swift Whale", "2025-11-27", entity.StatusPending, "2025-11-19"},
	{"supplier", "WH/Stock1", "Pleased Pigeon", "2025-11-28", entity.StatusPending, "2025-11-19"},
	{"vendor", "WH/Stock3", "Happy Hippo", "2025-11-29", entity.StatusDelivered, "2025-11-18"},
	{"partner", "WH/Stock2", "Lucky Lion", "2025-11-30", entity.StatusReady, "2025-11-18"},
}

var deliveries = []operationSeed{
	{"WH/Stock1", "vendor", "Azure Interior", "2025-11-25", entity.StatusReady, "2025-11-20"},
	{"WH/Stock1", "vendor", "Majestic Otter", "2025-11-26", entity.StatusReady, "2025-11-20"},
	{"WH/Stock2", "customer", "Swift Whale", "2025-11-27", entity.StatusPending, "2025-11-19"},
	{"WH/Stock1", "retailer", "Pleased Pigeon", "2025-11-28", entity.StatusPending, "2025-11-19"},
	{"WH/Stock3", "vendor", "Happy Hippo", "2025-11-29", entity.StatusDelivered, "2025-11-18"},
	{"WH/Stock2", "partner", "Lucky Lion", "2025-11-30", entity.StatusReady, "2025-11-18"},
}

var warehouses = []struct{ name, code, address string }{
	{"Main Warehouse", "MW", "123 Industrial Ave, NY 10001"},
	{"Secondary Storage", "SS", "456 Commerce St, NJ 07001"},
}

// Records arma el conjunto de ejemplo. now se usa como lastUpdated de los productos
// y como fecha de alta de las bodegas. El estado de stock se deriva de los umbrales.
func Records(now time.Time) []entity.Record {
	var recs []entity.Record
	for _, s := range stockItems {
		recs = append(recs, entity.StockItem{
			ID:           uuid.NewString(),
			ProductName:  s.name,
			SKU:          s.sku,
			CurrentStock: s.current,
			MinStock:     s.minQ,
			MaxStock:     s.maxQ,
			Unit:         "pcs",
			Status:       inventory.DeriveStatus(s.current, s.minQ),
			LastUpdated:  now,
		})
	}
	for _, t := range transactions {
		recs = append(recs, entity.Transaction{
			ID:        uuid.NewString(),
			Type:      t.typ,
			Product:   t.product,
			Quantity:  t.quantity,
			Date:      mustDate(t.date),
			Reference: t.reference,
		})
	}
	recs = appendOperations(recs, entity.DirectionIn, receipts)
	recs = appendOperations(recs, entity.DirectionOut, deliveries)
	for _, w := range warehouses {
		recs = append(recs, entity.Warehouse{
			ID:        uuid.NewString(),
			Name:      w.name,
			ShortCode: w.code,
			Address:   w.address,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return recs
}

func appendOperations(recs []entity.Record, dir entity.Direction, seeds []operationSeed) []entity.Record {
	for i, o := range seeds {
		recs = append(recs, entity.Operation{
			ID:           uuid.NewString(),
			Direction:    dir,
			Reference:    inventory.FormatReference(dir, i+1),
			From:         o.from,
			To:           o.to,
			Contact:      o.contact,
			ScheduleDate: mustDate(o.scheduleDate),
			Status:       o.status,
			CreatedAt:    mustDate(o.createdAt),
		})
	}
	return recs
}

// Load inserta el conjunto de ejemplo en una sola transacción. Si el store ya tiene
// productos no hace nada y devuelve 0.
func Load(ctx context.Context, tx repository.TxRunner, now time.Time) (int, error) {
	inserted := 0
	err := tx.Run(ctx, func(s repository.RecordStore) error {
		existing, err := s.List(ctx, entity.KindStockItem)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return nil
		}
		for _, rec := range Records(now) {
			if err := s.Insert(ctx, rec); err != nil {
				return fmt.Errorf("seed %s %s: %w", rec.Kind(), rec.RecordID(), err)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

func mustDate(s string) time.Time {
	t, err := time.ParseInLocation(entity.DateLayout, s, time.UTC)
	if err != nil {
		panic(fmt.Sprintf("seed: fecha inválida %q", s))
	}
	return t
}
