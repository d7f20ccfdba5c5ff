package inventory

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jhoicas/stockboard-api/internal/domain/entity"
)

var operationRefPattern = regexp.MustCompile(`^WH/(IN|OUT)/(\d{4,})$`)

// ParseReference descompone una referencia WH/IN/NNNN o WH/OUT/NNNN.
func ParseReference(ref string) (dir entity.Direction, seq int, ok bool) {
	m := operationRefPattern.FindStringSubmatch(ref)
	if m == nil {
		return "", 0, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, false
	}
	return entity.Direction(m[1]), n, true
}

// FormatReference arma la referencia con secuencia de 4 dígitos.
func FormatReference(dir entity.Direction, seq int) string {
	return fmt.Sprintf("WH/%s/%04d", dir, seq)
}

// NextReference devuelve la siguiente referencia libre para dir: máximo existente + 1.
func NextReference(dir entity.Direction, existing []string) string {
	last := 0
	for _, ref := range existing {
		d, n, ok := ParseReference(ref)
		if ok && d == dir && n > last {
			last = n
		}
	}
	return FormatReference(dir, last+1)
}

// NextTransactionReference genera PO-YYYY-NNN (entradas) o SO-YYYY-NNN (salidas).
func NextTransactionReference(t entity.TransactionType, year int, existing []string) string {
	prefix := "SO"
	if t == entity.TransactionIn {
		prefix = "PO"
	}
	head := fmt.Sprintf("%s-%d-", prefix, year)
	last := 0
	for _, ref := range existing {
		rest, found := strings.CutPrefix(ref, head)
		if !found {
			continue
		}
		if n, err := strconv.Atoi(rest); err == nil && n > last {
			last = n
		}
	}
	return fmt.Sprintf("%s%03d", head, last+1)
}
