package engine

// ============================================================================
// ENGINE TYPES — Query intents and display shapes
// ============================================================================
// QueryIntent is the contract between the resolver chain and the engine.
// The resolver (model-backed or deterministic) produces it; Aggregate
// consumes it. The SQL field is a human-readable rendering for display —
// it is never executed.
// ============================================================================

// AggregationType is how rows combine within a group.
type AggregationType string

const (
	AggSum   AggregationType = "sum"
	AggAvg   AggregationType = "avg"
	AggCount AggregationType = "count"
)

// Valid reports whether the aggregation is one of the known kinds.
func (a AggregationType) Valid() bool {
	return a == AggSum || a == AggAvg || a == AggCount
}

// ChartType is the resolver's chart hint.
type ChartType string

const (
	ChartBar  ChartType = "bar"
	ChartLine ChartType = "line"
	ChartPie  ChartType = "pie"
)

// Valid reports whether the chart type is one of the known kinds.
func (c ChartType) Valid() bool {
	return c == ChartBar || c == ChartLine || c == ChartPie
}

// DisplayType is the chosen presentation shape for a result.
type DisplayType string

const (
	DisplayNumber DisplayType = "number"
	DisplayChart  DisplayType = "chart"
	DisplayTable  DisplayType = "table"
)

// QueryIntent is the structured interpretation of a natural-language query.
// Produced fresh per query; consumed immediately by Aggregate.
type QueryIntent struct {
	SQL            string          `json:"sql"`
	Aggregation    AggregationType `json:"aggregationType"`
	GroupByField   string          `json:"groupByField,omitempty"`
	AggregateField string          `json:"aggregateField,omitempty"`
	Chart          ChartType       `json:"chartType"`
}

// AggregateColumn returns the synthesized name the aggregate value is
// reported under: total_<field> for sum, avg_<field> for average, or
// "count" when counting.
func (qi QueryIntent) AggregateColumn() string {
	switch qi.Aggregation {
	case AggSum:
		if qi.AggregateField != "" {
			return "total_" + qi.AggregateField
		}
	case AggAvg:
		if qi.AggregateField != "" {
			return "avg_" + qi.AggregateField
		}
	}
	return "count"
}

// ResultColumns returns the deterministic column order of Aggregate's
// output rows: the group column first (when grouping), then the aggregate
// column. Consumers needing "the first two fields" use this instead of
// relying on map iteration order.
func ResultColumns(intent QueryIntent) []string {
	if intent.GroupByField != "" {
		return []string{intent.GroupByField, intent.AggregateColumn()}
	}
	return []string{intent.AggregateColumn()}
}
