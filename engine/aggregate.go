package engine

import (
	"regexp"
	"sort"
	"strconv"
)

// ============================================================================
// AGGREGATION ENGINE — Grouping, accumulation, ordering, truncation
// ============================================================================
// Pipeline: group → accumulate → synthesize rows → sort → truncate.
// Groups are discovered in row order so that ties after the descending
// value sort keep a stable, reproducible order.
// ============================================================================

// group accumulates a running sum and row count for one distinct value of
// the group-by column. Built and discarded within a single Aggregate call.
type group struct {
	key   string
	sum   float64
	count int
}

// implicitGroupKey labels the single group used when no grouping is
// requested.
const implicitGroupKey = "All"

// DefaultMaxRows caps ungoverned result sets for display purposes.
const DefaultMaxRows = 20

// Aggregate executes a QueryIntent against a row set and returns an
// ordered result: one row per group, sorted descending by the aggregate
// value. Non-numeric or missing aggregate cells contribute zero — a group
// with no numeric values reports 0, never an error.
func Aggregate(rows []Row, intent QueryIntent, opts ...Option) []Row {
	cfg := applyOptions(opts)

	// 1. Group in discovery order.
	byKey := make(map[string]*group)
	order := make([]*group, 0)

	for _, row := range rows {
		key := implicitGroupKey
		if intent.GroupByField != "" {
			key = row[intent.GroupByField].String()
		}
		g, ok := byKey[key]
		if !ok {
			g = &group{key: key}
			byKey[key] = g
			order = append(order, g)
		}
		if intent.AggregateField != "" {
			g.sum += row[intent.AggregateField].Float()
		}
		g.count++
	}

	// 2. Synthesize one row per group.
	aggCol := intent.AggregateColumn()
	out := make([]Row, 0, len(order))
	for _, g := range order {
		row := Row{aggCol: NumberValue(aggregateValue(g, intent.Aggregation))}
		if intent.GroupByField != "" {
			row[intent.GroupByField] = StringValue(g.key)
		}
		out = append(out, row)
	}

	// 3. Sort descending by aggregate value; ties keep discovery order.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i][aggCol].Float() > out[j][aggCol].Float()
	})

	// 4. Truncate: an explicit LIMIT in the display SQL wins, otherwise
	// cap at the configured maximum.
	limit := cfg.MaxRows
	if n, ok := limitFromSQL(intent.SQL); ok {
		limit = n
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out
}

func aggregateValue(g *group, agg AggregationType) float64 {
	switch agg {
	case AggSum:
		return g.sum
	case AggAvg:
		if g.count == 0 {
			return 0
		}
		return g.sum / float64(g.count)
	case AggCount:
		return float64(g.count)
	default:
		return g.sum
	}
}

var limitRegex = regexp.MustCompile(`(?i)\bLIMIT\s+(\d+)`)

// limitFromSQL extracts a numeric LIMIT clause from the display SQL.
func limitFromSQL(sql string) (int, bool) {
	m := limitRegex.FindStringSubmatch(sql)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
