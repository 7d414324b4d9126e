package resolver

import (
	"fmt"
	"strings"
	"time"

	"github.com/tabql-org/tabql/schema"
)

// ============================================================================
// PROMPT BUILDER — Schema-driven prompt for intent resolution
// ============================================================================
// The model is a translator only: it returns a fixed-shape JSON intent and
// never computes values. Total data sent per query: the question plus
// ~100-500 bytes of column metadata.
// ============================================================================

// BuildPrompt generates the system prompt for the intent resolver.
func BuildPrompt(cols []schema.ColumnDescriptor, query string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf(`You are a query translator for a tabular data analysis tool.

CURRENT DATE: %s

YOUR ROLE:
Translate the user's natural language question into a structured query
intent that a local aggregation engine will execute. You are a TRANSLATOR
ONLY — do NOT compute any values.

`, time.Now().Format("2006-01-02")))

	b.WriteString(schema.Describe(cols))
	b.WriteString("\n")

	b.WriteString(`RESPONSE FORMAT (ALWAYS valid JSON, no markdown):
{
  "sql": "human-readable SQL describing the query (display only, never executed)",
  "aggregationType": "sum|avg|count",
  "groupByField": "column name to group by, or empty string",
  "aggregateField": "numeric column to aggregate, or empty string",
  "chartType": "bar|line|pie"
}

RULES:
1. "aggregationType":
   - "sum" for totals ("total cost", "how much")
   - "avg" for averages ("average price")
   - "count" for counting ("how many") — leave "aggregateField" empty
2. "groupByField" must be a column name from COLUMNS, or empty when the
   question asks for a single overall value.
3. "aggregateField" must be a number-typed column from COLUMNS.
4. "chartType":
   - time-series or trend intent → "line"
   - distribution or percentage intent → "pie"
   - comparison/aggregation (default) → "bar"
5. "sql" should read like standard SQL over a table named "dataset",
   including GROUP BY and ORDER BY when grouping. Add LIMIT only when the
   user asks for a top-N.

`)

	b.WriteString("USER QUERY: " + query + "\n\nRespond with valid JSON only:")
	return b.String()
}
