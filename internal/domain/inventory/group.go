package inventory

import (
	"slices"

	"github.com/jhoicas/stockboard-api/internal/domain/entity"
)

// Group un estado con sus registros, para respuestas con orden estable.
type Group[S ~string, T any] struct {
	Status  S
	Records []T
}

// GroupByStatus particiona records por estado. Todos los estados de statuses aparecen
// (vacíos si no hay coincidencias) y cada grupo conserva el orden relativo de entrada.
// Un estado fuera de statuses recibe su propio grupo: la partición siempre es exhaustiva.
func GroupByStatus[T any, S ~string](records []T, statuses []S, status func(T) S) map[S][]T {
	groups := make(map[S][]T, len(statuses))
	for _, s := range statuses {
		groups[s] = []T{}
	}
	for _, r := range records {
		s := status(r)
		groups[s] = append(groups[s], r)
	}
	return groups
}

// GroupOperations agrupa recepciones o entregas por estado (vista kanban).
func GroupOperations(ops []entity.Operation) map[entity.OperationStatus][]entity.Operation {
	return GroupByStatus(ops, entity.OperationStatuses, func(o entity.Operation) entity.OperationStatus { return o.Status })
}

// GroupStock agrupa productos por estado de stock.
func GroupStock(items []entity.StockItem) map[entity.StockStatus][]entity.StockItem {
	return GroupByStatus(items, entity.StockStatuses, func(s entity.StockItem) entity.StockStatus { return s.Status })
}

// OrderedGroups devuelve los grupos en el orden canónico dado; los estados extra van al final, ordenados.
func OrderedGroups[S ~string, T any](groups map[S][]T, order []S) []Group[S, T] {
	out := make([]Group[S, T], 0, len(groups))
	seen := make(map[S]bool, len(order))
	for _, s := range order {
		if recs, ok := groups[s]; ok {
			out = append(out, Group[S, T]{Status: s, Records: recs})
			seen[s] = true
		}
	}
	var extra []S
	for s := range groups {
		if !seen[s] {
			extra = append(extra, s)
		}
	}
	slices.Sort(extra)
	for _, s := range extra {
		out = append(out, Group[S, T]{Status: s, Records: groups[s]})
	}
	return out
}
