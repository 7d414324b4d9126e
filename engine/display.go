package engine

import "strings"

// ============================================================================
// DISPLAY CLASSIFIER — number vs table vs chart
// ============================================================================
// Precedence, checked in order:
//   1. single row with a single field        → number
//   2. explicit listing intent in the query  → table
//   3. grouped aggregation                   → chart (always)
//   4. large ungrouped result                → table
//   5. default                               → chart
//
// Rules 1 and 3 are the query-visible guarantees; the row threshold and
// the listing keyword lists are tunable policy.
// ============================================================================

// DefaultRowThreshold is the ungrouped row count above which a result is
// shown as a table rather than a chart.
const DefaultRowThreshold = 20

// Classifier decides the presentation shape for a result set.
// The zero value is not usable; call NewClassifier.
type Classifier struct {
	RowThreshold int
	listMarkers  []string
}

// NewClassifier returns a classifier with the default thresholds.
func NewClassifier() *Classifier {
	return &Classifier{
		RowThreshold: DefaultRowThreshold,
		listMarkers:  []string{"show", "list", "give me all"},
	}
}

// Classify picks a display type from result shape and query phrasing.
func (c *Classifier) Classify(query string, intent QueryIntent, result []Row) DisplayType {
	// Rule 1: a single value always wins.
	if len(result) == 1 && len(result[0]) == 1 {
		return DisplayNumber
	}

	// Rule 2: the user explicitly asked for raw rows.
	if c.hasListingIntent(query) {
		return DisplayTable
	}

	// Rule 3: grouped aggregations are always visualized, regardless of
	// row count.
	if intent.GroupByField != "" && intent.Aggregation != "" {
		return DisplayChart
	}

	// Rule 4: too many ungrouped rows to chart meaningfully.
	if len(result) > c.RowThreshold {
		return DisplayTable
	}

	return DisplayChart
}

// hasListingIntent matches "filter" combined with a listing verb.
func (c *Classifier) hasListingIntent(query string) bool {
	q := strings.ToLower(query)
	if !strings.Contains(q, "filter") {
		return false
	}
	for _, marker := range c.listMarkers {
		if strings.Contains(q, marker) {
			return true
		}
	}
	return false
}
