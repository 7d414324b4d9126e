package schema

import (
	"sort"
	"strconv"
	"strings"

	"github.com/tabql-org/tabql/engine"
)

// ============================================================================
// SCHEMA INFERENCE — Single-row heuristic classification
// ============================================================================
// Classifies each column from the first data row only. A numeric-looking
// first value can mask a mixed column; that trade-off is part of the
// contract — callers wanting a full-column scan must sample upstream.
// ============================================================================

// Infer derives a column-type profile from a row set.
// One descriptor per key of the first row, in sorted name order.
// Returns an empty slice for empty input; never errors.
func Infer(rows []engine.Row) []ColumnDescriptor {
	if len(rows) == 0 {
		return []ColumnDescriptor{}
	}

	first := rows[0]
	names := make([]string, 0, len(first))
	for name := range first {
		names = append(names, name)
	}
	sort.Strings(names)

	cols := make([]ColumnDescriptor, 0, len(names))
	for _, name := range names {
		val := first[name]
		cols = append(cols, ColumnDescriptor{
			Name:   name,
			Type:   classify(val),
			Sample: val.String(),
		})
	}
	return cols
}

// classify maps a first-row cell to a field type:
// number value → number; boolean → boolean; ISO-like date → date;
// string that parses fully as a number → number; everything else → string.
func classify(v engine.Value) FieldType {
	switch v.Kind() {
	case engine.KindNumber:
		return FieldNumber
	case engine.KindBool:
		return FieldBoolean
	case engine.KindDate:
		return FieldDate
	}

	s := strings.TrimSpace(v.String())
	if engine.LooksLikeDate(s) {
		return FieldDate
	}
	if s != "" {
		if _, err := strconv.ParseFloat(s, 64); err == nil {
			return FieldNumber
		}
	}
	return FieldString
}
