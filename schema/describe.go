package schema

import (
	"fmt"
	"strings"
)

// ============================================================================
// SCHEMA DESCRIPTION — Prompt-facing textual rendering
// ============================================================================
// What the model sees: column names, types, and one sample value per
// column. Never raw data.
// ============================================================================

// Describe renders the schema as a block of text for model prompts.
func Describe(cols []ColumnDescriptor) string {
	var b strings.Builder

	b.WriteString("COLUMNS:\n")
	for _, c := range cols {
		b.WriteString(fmt.Sprintf("- \"%s\" (%s)", c.Name, c.Type))
		if c.Sample != "" {
			b.WriteString(fmt.Sprintf(" — sample: %q", c.Sample))
		}
		b.WriteString("\n")
	}
	return b.String()
}
