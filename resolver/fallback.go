package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/tabql-org/tabql/engine"
	"github.com/tabql-org/tabql/schema"
)

// ============================================================================
// FALLBACK RESOLVER — Tier 2 deterministic keyword rules
// ============================================================================
// Total by construction: any query over any schema yields a complete
// QueryIntent, with count-over-all-rows as the floor. Zero external
// dependencies, at the cost of precision.
// ============================================================================

// Keyword tables. Order matters — first match wins.
var (
	lineKeywords = []string{"trend", "over time", "time"}
	pieKeywords  = []string{"distribution", "breakdown", "pie"}

	// Category-ish column name fragments, in priority order.
	groupPriorities = []string{"indication", "treatment", "type", "category", "brand", "substance"}

	// avg before sum so "average cost" resolves to avg.
	avgKeywords = []string{"average", "avg"}
	sumKeywords = []string{"cost", "sum", "total"}

	// Numeric-ish column name fragments for the aggregate column.
	measureFragments = []string{"cost", "price", "value", "amount"}
)

// Fallback resolves intents from lower-cased substring matching.
type Fallback struct{}

// NewFallback creates the deterministic resolver.
func NewFallback() *Fallback { return &Fallback{} }

// Resolve implements Resolver. It never returns an error.
func (f *Fallback) Resolve(_ context.Context, query string, cols []schema.ColumnDescriptor) (*engine.QueryIntent, error) {
	q := strings.ToLower(query)

	intent := engine.QueryIntent{
		Chart:        pickChart(q),
		GroupByField: pickGroupColumn(q, cols),
	}

	intent.Aggregation, intent.AggregateField = pickAggregation(q, cols)
	intent.SQL = buildSQL(intent)
	return &intent, nil
}

// ============================================================================
// SELECTION RULES
// ============================================================================

// pickChart maps query phrasing to a chart type:
// trend wording → line, distribution wording → pie, otherwise bar.
func pickChart(q string) engine.ChartType {
	for _, kw := range lineKeywords {
		if strings.Contains(q, kw) {
			return engine.ChartLine
		}
	}
	for _, kw := range pieKeywords {
		if strings.Contains(q, kw) {
			return engine.ChartPie
		}
	}
	return engine.ChartBar
}

// pickGroupColumn selects the group-by column. First pass prefers a
// priority-fragment column whose full name also appears in the query;
// second pass takes the first column containing any priority fragment.
func pickGroupColumn(q string, cols []schema.ColumnDescriptor) string {
	for _, fragment := range groupPriorities {
		for _, c := range cols {
			name := strings.ToLower(c.Name)
			if strings.Contains(name, fragment) && strings.Contains(q, name) {
				return c.Name
			}
		}
	}
	for _, fragment := range groupPriorities {
		for _, c := range cols {
			if strings.Contains(strings.ToLower(c.Name), fragment) {
				return c.Name
			}
		}
	}
	return ""
}

// pickAggregation selects the aggregate function and column.
// Count over all rows is the floor when no keyword or candidate matches.
func pickAggregation(q string, cols []schema.ColumnDescriptor) (engine.AggregationType, string) {
	wantsAvg := containsAny(q, avgKeywords)
	wantsSum := containsAny(q, sumKeywords)
	if !wantsAvg && !wantsSum {
		return engine.AggCount, ""
	}

	candidate := pickMeasureColumn(cols)
	if candidate == "" {
		return engine.AggCount, ""
	}
	if wantsAvg {
		return engine.AggAvg, candidate
	}
	return engine.AggSum, candidate
}

// pickMeasureColumn returns the first column whose name contains a
// measure fragment.
func pickMeasureColumn(cols []schema.ColumnDescriptor) string {
	for _, fragment := range measureFragments {
		for _, c := range cols {
			if strings.Contains(strings.ToLower(c.Name), fragment) {
				return c.Name
			}
		}
	}
	return ""
}

func containsAny(q string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

// ============================================================================
// DISPLAY SQL
// ============================================================================

// buildSQL renders the intent as human-readable SQL. Display only — the
// engine never executes it.
func buildSQL(intent engine.QueryIntent) string {
	agg := intent.AggregateColumn()

	var expr string
	switch intent.Aggregation {
	case engine.AggSum:
		expr = fmt.Sprintf("SUM(%s) AS %s", intent.AggregateField, agg)
	case engine.AggAvg:
		expr = fmt.Sprintf("AVG(%s) AS %s", intent.AggregateField, agg)
	default:
		expr = "COUNT(*) AS count"
	}

	if intent.GroupByField == "" {
		return fmt.Sprintf("SELECT %s FROM dataset", expr)
	}
	return fmt.Sprintf("SELECT %s, %s FROM dataset GROUP BY %s ORDER BY %s DESC",
		intent.GroupByField, expr, intent.GroupByField, agg)
}
