package schema

// ============================================================================
// SCHEMA — Column-type profile of a dataset
// ============================================================================
// Inferred from data at ingestion. The resolver uses descriptors to build
// model prompts and to match query words against columns; the engine never
// reads the schema — intents carry plain column names.
// ============================================================================

// FieldType classifies a column.
type FieldType string

const (
	FieldString  FieldType = "string"
	FieldNumber  FieldType = "number"
	FieldDate    FieldType = "date"
	FieldBoolean FieldType = "boolean"
)

// ColumnDescriptor describes one dataset column.
// Immutable once created; one per column.
type ColumnDescriptor struct {
	Name   string    `json:"name"`
	Type   FieldType `json:"type"`
	Sample string    `json:"sample"`
}

// Names returns all column names in schema order.
func Names(cols []ColumnDescriptor) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

// NumericColumns returns the columns typed as numbers, in schema order.
func NumericColumns(cols []ColumnDescriptor) []ColumnDescriptor {
	var out []ColumnDescriptor
	for _, c := range cols {
		if c.Type == FieldNumber {
			out = append(out, c)
		}
	}
	return out
}
