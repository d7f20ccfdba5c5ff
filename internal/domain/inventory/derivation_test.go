package inventory_test

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockboard-api/internal/domain/entity"
	"github.com/jhoicas/stockboard-api/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// DeriveStatus / NextStatus
// ──────────────────────────────────────────────────────────────────────────────

func TestDeriveStatus_Umbrales(t *testing.T) {
	cases := []struct {
		current, min int
		want         entity.StockStatus
	}{
		{2, 25, entity.StockCritical},
		{45, 20, entity.StockOptimal},
		{12, 30, entity.StockCritical}, // 12 < 15
		{15, 30, entity.StockLow},
		{29, 30, entity.StockLow},
		{30, 30, entity.StockOptimal},
		{0, 0, entity.StockOptimal},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, inventory.DeriveStatus(tc.current, tc.min),
			"current=%d min=%d", tc.current, tc.min)
	}
}

func TestDeriveStatus_ValoresExtremosNoDesbordan(t *testing.T) {
	assert.Equal(t, entity.StockOptimal, inventory.DeriveStatus(math.MaxInt, 10))
	assert.Equal(t, entity.StockOptimal, inventory.DeriveStatus(inventory.MaxQuantity, inventory.MaxQuantity))
	assert.Equal(t, entity.StockLow, inventory.DeriveStatus(inventory.MaxQuantity-1, inventory.MaxQuantity))
	assert.Equal(t, entity.StockCritical, inventory.DeriveStatus(inventory.MaxQuantity/2, inventory.MaxQuantity))
	assert.Equal(t, entity.StockLow, inventory.DeriveStatus(inventory.MaxQuantity/2+1, inventory.MaxQuantity))
}

func TestNextStatus_Progresion(t *testing.T) {
	s := entity.StatusDraft
	var visited []entity.OperationStatus
	for {
		next, ok := inventory.NextStatus(s)
		if !ok {
			break
		}
		visited = append(visited, next)
		s = next
	}
	assert.Equal(t, []entity.OperationStatus{entity.StatusPending, entity.StatusReady, entity.StatusDelivered}, visited)

	_, ok := inventory.NextStatus("Cancelled")
	assert.False(t, ok, "un estado desconocido no avanza")
}

// ──────────────────────────────────────────────────────────────────────────────
// FilterBySubstring
// ──────────────────────────────────────────────────────────────────────────────

func sampleOperations() []entity.Operation {
	return []entity.Operation{
		{ID: "1", Reference: "WH/IN/0001", Contact: "Azure Interior", Status: entity.StatusReady},
		{ID: "2", Reference: "WH/IN/0002", Contact: "Majestic Otter", Status: entity.StatusReady},
		{ID: "3", Reference: "WH/IN/0003", Contact: "Swift Whale", Status: entity.StatusPending},
		{ID: "4", Reference: "WH/IN/0004", Contact: "Pleased Pigeon", Status: entity.StatusPending},
		{ID: "5", Reference: "WH/IN/0005", Contact: "Happy Hippo", Status: entity.StatusDelivered},
	}
}

func byRefOrContact() []func(entity.Operation) string {
	return []func(entity.Operation) string{
		func(o entity.Operation) string { return o.Reference },
		func(o entity.Operation) string { return o.Contact },
	}
}

func ids(ops []entity.Operation) []string {
	out := make([]string, 0, len(ops))
	for _, o := range ops {
		out = append(out, o.ID)
	}
	return out
}

func TestFilterBySubstring_QueryVaciaDevuelveTodo(t *testing.T) {
	ops := sampleOperations()
	got := slices.Collect(inventory.FilterBySubstring(ops, "", byRefOrContact()...))
	assert.Equal(t, ops, got)
}

func TestFilterBySubstring_SinDistinguirMayusculas(t *testing.T) {
	ops := sampleOperations()
	got := slices.Collect(inventory.FilterBySubstring(ops, "HIPPO", byRefOrContact()...))
	assert.Equal(t, []string{"5"}, ids(got))

	got = slices.Collect(inventory.FilterBySubstring(ops, "wh/in/000", byRefOrContact()...))
	assert.Len(t, got, 5)

	got = slices.Collect(inventory.FilterBySubstring(ops, "p", byRefOrContact()...))
	assert.Equal(t, []string{"3", "4", "5"}, ids(got), "conserva el orden de entrada")
}

func TestFilterBySubstring_Reiniciable(t *testing.T) {
	seq := inventory.FilterBySubstring(sampleOperations(), "otter", byRefOrContact()...)
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"2"}, ids(first))
}

func TestFilterBySubstring_CorteTemprano(t *testing.T) {
	n := 0
	for range inventory.FilterBySubstring(sampleOperations(), "", byRefOrContact()...) {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

// ──────────────────────────────────────────────────────────────────────────────
// GroupByStatus
// ──────────────────────────────────────────────────────────────────────────────

func TestGroupOperations_ParticionExhaustivaYDisjunta(t *testing.T) {
	ops := sampleOperations()
	ops = append(ops, entity.Operation{ID: "6", Status: "Archived"})
	groups := inventory.GroupOperations(ops)

	for _, s := range entity.OperationStatuses {
		_, ok := groups[s]
		assert.True(t, ok, "el estado %s debe aparecer aunque esté vacío", s)
	}
	assert.Empty(t, groups[entity.StatusDraft])
	assert.Equal(t, []string{"1", "2"}, ids(groups[entity.StatusReady]))

	seen := map[string]int{}
	total := 0
	for _, members := range groups {
		for _, o := range members {
			seen[o.ID]++
			total++
		}
	}
	assert.Equal(t, len(ops), total)
	for id, count := range seen {
		assert.Equal(t, 1, count, "el registro %s aparece en más de un grupo", id)
	}
}

func TestOrderedGroups_OrdenCanonico(t *testing.T) {
	ops := append(sampleOperations(), entity.Operation{ID: "6", Status: "Archived"})
	ordered := inventory.OrderedGroups(inventory.GroupOperations(ops), entity.OperationStatuses)
	require.Len(t, ordered, 5)
	assert.Equal(t, entity.StatusDraft, ordered[0].Status)
	assert.Equal(t, entity.StatusDelivered, ordered[3].Status)
	assert.Equal(t, entity.OperationStatus("Archived"), ordered[4].Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// ComputeSummary
// ──────────────────────────────────────────────────────────────────────────────

func TestComputeSummary_Vacio(t *testing.T) {
	s := inventory.ComputeSummary(nil)
	assert.Equal(t, 0, s.TotalProducts)
	assert.Equal(t, 0, s.AvgStockLevel)
	assert.Equal(t, 0, s.TotalUnits)
}

func TestComputeSummary_Valores(t *testing.T) {
	items := []entity.StockItem{
		{CurrentStock: 45, Status: entity.StockOptimal},
		{CurrentStock: 12, Status: entity.StockLow},
		{CurrentStock: 2, Status: entity.StockCritical},
		{CurrentStock: 78, Status: entity.StockOptimal},
		{CurrentStock: 23, Status: entity.StockOptimal},
	}
	s := inventory.ComputeSummary(items)
	assert.Equal(t, 5, s.TotalProducts)
	assert.Equal(t, 2, s.LowStockItems)
	assert.Equal(t, 160, s.TotalUnits)
	assert.Equal(t, 32, s.AvgStockLevel)
}

func TestComputeSummary_TotalesGrandesNoDesbordan(t *testing.T) {
	items := []entity.StockItem{{CurrentStock: math.MaxInt}, {CurrentStock: math.MaxInt}}
	s := inventory.ComputeSummary(items)
	assert.Equal(t, math.MaxInt, s.TotalUnits, "el total se satura")
	assert.Equal(t, math.MaxInt, s.AvgStockLevel)

	capped := []entity.StockItem{{CurrentStock: inventory.MaxQuantity}, {CurrentStock: inventory.MaxQuantity}}
	s = inventory.ComputeSummary(capped)
	assert.Equal(t, 2*inventory.MaxQuantity, s.TotalUnits)
	assert.Equal(t, inventory.MaxQuantity, s.AvgStockLevel)
}

func TestComputeSummary_RedondeoMitadHaciaArriba(t *testing.T) {
	items := []entity.StockItem{{CurrentStock: 1}, {CurrentStock: 2}}
	assert.Equal(t, 2, inventory.ComputeSummary(items).AvgStockLevel, "1.5 redondea a 2")
}

// ──────────────────────────────────────────────────────────────────────────────
// Referencias
// ──────────────────────────────────────────────────────────────────────────────

func TestNextReference(t *testing.T) {
	existing := []string{"WH/IN/0001", "WH/IN/0007", "WH/OUT/0009", "basura"}
	assert.Equal(t, "WH/IN/0008", inventory.NextReference(entity.DirectionIn, existing))
	assert.Equal(t, "WH/OUT/0010", inventory.NextReference(entity.DirectionOut, existing))
	assert.Equal(t, "WH/OUT/0001", inventory.NextReference(entity.DirectionOut, nil))
}

func TestParseReference(t *testing.T) {
	dir, n, ok := inventory.ParseReference("WH/OUT/0042")
	require.True(t, ok)
	assert.Equal(t, entity.DirectionOut, dir)
	assert.Equal(t, 42, n)

	for _, bad := range []string{"WH/IN/12", "wh/in/0001", "WH/XX/0001", ""} {
		_, _, ok := inventory.ParseReference(bad)
		assert.False(t, ok, bad)
	}
}

func TestNextTransactionReference(t *testing.T) {
	existing := []string{"PO-2025-001", "PO-2025-003", "SO-2025-045", "PO-2024-099"}
	assert.Equal(t, "PO-2025-004", inventory.NextTransactionReference(entity.TransactionIn, 2025, existing))
	assert.Equal(t, "SO-2025-046", inventory.NextTransactionReference(entity.TransactionOut, 2025, existing))
	assert.Equal(t, "PO-2026-001", inventory.NextTransactionReference(entity.TransactionIn, 2026, existing))
}
