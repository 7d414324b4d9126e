package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func manyRows(n int) []Row {
	rows := make([]Row, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, Row{
			"k": StringValue(fmt.Sprintf("g%02d", i)),
			"v": NumberValue(float64(i)),
		})
	}
	return rows
}

func TestClassifySingleValueAlwaysNumber(t *testing.T) {
	c := NewClassifier()
	single := []Row{{"count": NumberValue(42)}}

	// Regardless of query text — even listing phrasing.
	queries := []string{
		"how many rows",
		"filter and show everything",
		"distribution of things",
	}
	for _, q := range queries {
		got := c.Classify(q, QueryIntent{Aggregation: AggCount}, single)
		assert.Equal(t, DisplayNumber, got, "query %q", q)
	}
}

func TestClassifyListingIntent(t *testing.T) {
	c := NewClassifier()
	result := manyRows(3)

	tests := []struct {
		query string
		want  DisplayType
	}{
		{"filter and show rows over 100", DisplayTable},
		{"filter then list matching entries", DisplayTable},
		{"filter: give me all records", DisplayTable},
		{"show everything", DisplayChart},  // no "filter"
		{"filter by region", DisplayChart}, // no listing verb
	}

	for _, tt := range tests {
		got := c.Classify(tt.query, QueryIntent{Aggregation: AggCount}, result)
		assert.Equal(t, tt.want, got, "query %q", tt.query)
	}
}

func TestClassifyGroupedAlwaysChart(t *testing.T) {
	c := NewClassifier()
	intent := QueryIntent{
		Aggregation:    AggSum,
		GroupByField:   "k",
		AggregateField: "v",
	}

	// 50 rows, still a chart: grouped aggregations are always visualized.
	got := c.Classify("sum of v by k", intent, manyRows(50))
	assert.Equal(t, DisplayChart, got)
}

func TestClassifyLargeUngroupedIsTable(t *testing.T) {
	c := NewClassifier()
	intent := QueryIntent{Aggregation: AggCount}

	assert.Equal(t, DisplayTable, c.Classify("all rows", intent, manyRows(21)))
	assert.Equal(t, DisplayChart, c.Classify("all rows", intent, manyRows(20)))
}

func TestClassifyThresholdIsTunable(t *testing.T) {
	c := NewClassifier()
	c.RowThreshold = 5

	intent := QueryIntent{Aggregation: AggCount}
	assert.Equal(t, DisplayTable, c.Classify("rows", intent, manyRows(6)))
	assert.Equal(t, DisplayChart, c.Classify("rows", intent, manyRows(5)))
}
