package inventory

import (
	"iter"
	"strings"

	"golang.org/x/text/cases"
)

// FilterBySubstring filtra records cuyo valor en alguno de los campos contiene query,
// sin distinguir mayúsculas (case folding Unicode). Una query vacía devuelve todo sin cambios.
//
// La secuencia es perezosa y se puede recorrer varias veces.
func FilterBySubstring[T any](records []T, query string, fields ...func(T) string) iter.Seq[T] {
	return func(yield func(T) bool) {
		if query == "" {
			for _, r := range records {
				if !yield(r) {
					return
				}
			}
			return
		}
		// Caser tiene estado: uno por recorrido.
		fold := cases.Fold()
		needle := fold.String(query)
		for _, r := range records {
			if !matchesAny(r, needle, fold, fields) {
				continue
			}
			if !yield(r) {
				return
			}
		}
	}
}

func matchesAny[T any](r T, needle string, fold cases.Caser, fields []func(T) string) bool {
	for _, field := range fields {
		if strings.Contains(fold.String(field(r)), needle) {
			return true
		}
	}
	return false
}
