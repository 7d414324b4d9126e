package helpers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/tabql-org/tabql/engine"
)

// ============================================================================
// CSV HELPER — Parses CSV bytes into []engine.Row
// ============================================================================
// The consumer reads the CSV from wherever it lives (upload, file, S3).
// This helper converts the raw bytes into tagged rows: numeric cells
// become numbers, ISO-like dates become dates, booleans become booleans,
// everything else stays a string. Header names are snake_cased so query
// keywords match column names.
// ============================================================================

// ParseCSV parses CSV bytes into rows plus the normalized column order.
// Malformed data rows are skipped; a missing header or zero data rows is
// an error.
func ParseCSV(data []byte) ([]engine.Row, []string, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))

	headers, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	keys := make([]string, len(headers))
	for i, h := range headers {
		keys[i] = ToSnakeCase(strings.TrimSpace(h))
	}

	var rows []engine.Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}

		row := make(engine.Row, len(keys))
		for i, val := range record {
			if i >= len(keys) {
				break
			}
			row[keys[i]] = classifyCell(strings.TrimSpace(val))
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("CSV has no data rows")
	}
	return rows, keys, nil
}

// classifyCell tags a raw cell: bools, dates, and numbers keep their
// kind, everything else is a string.
func classifyCell(s string) engine.Value {
	switch strings.ToLower(s) {
	case "true", "yes":
		return engine.BoolValue(true)
	case "false", "no":
		return engine.BoolValue(false)
	}
	return engine.ClassifyString(s)
}

// ToSnakeCase converts "Column Name" → "column_name".
func ToSnakeCase(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}
