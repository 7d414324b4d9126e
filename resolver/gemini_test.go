package resolver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabql-org/tabql/engine"
)

func TestParseIntentPlainJSON(t *testing.T) {
	response := `{
		"sql": "SELECT indication, SUM(cost) AS total_cost FROM dataset GROUP BY indication",
		"aggregationType": "sum",
		"groupByField": "indication",
		"aggregateField": "cost",
		"chartType": "bar"
	}`

	intent, err := parseIntent(response, pharmaSchema())
	require.NoError(t, err)
	assert.Equal(t, engine.AggSum, intent.Aggregation)
	assert.Equal(t, "indication", intent.GroupByField)
	assert.Equal(t, "cost", intent.AggregateField)
	assert.Equal(t, engine.ChartBar, intent.Chart)
}

func TestParseIntentStripsMarkdownFences(t *testing.T) {
	response := "```json\n{\"sql\":\"SELECT COUNT(*) AS count FROM dataset\",\"aggregationType\":\"count\",\"chartType\":\"pie\"}\n```"

	intent, err := parseIntent(response, pharmaSchema())
	require.NoError(t, err)
	assert.Equal(t, engine.AggCount, intent.Aggregation)
	assert.Equal(t, engine.ChartPie, intent.Chart)
}

func TestParseIntentDefaults(t *testing.T) {
	// Omitted aggregation with an aggregate field defaults to sum;
	// omitted chart type defaults to bar.
	intent, err := parseIntent(`{"sql":"","aggregateField":"cost"}`, pharmaSchema())
	require.NoError(t, err)
	assert.Equal(t, engine.AggSum, intent.Aggregation)
	assert.Equal(t, engine.ChartBar, intent.Chart)

	// Omitted aggregation without a field defaults to count.
	intent, err = parseIntent(`{"sql":""}`, pharmaSchema())
	require.NoError(t, err)
	assert.Equal(t, engine.AggCount, intent.Aggregation)
}

func TestParseIntentFailures(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"not json", "I think you want a bar chart of costs."},
		{"unknown aggregation", `{"aggregationType":"median","aggregateField":"cost"}`},
		{"unknown chart type", `{"aggregationType":"count","chartType":"scatter"}`},
		{"unknown group column", `{"aggregationType":"count","groupByField":"nope"}`},
		{"unknown aggregate column", `{"aggregationType":"sum","aggregateField":"nope"}`},
		{"sum without column", `{"aggregationType":"sum"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseIntent(tt.response, pharmaSchema())
			assert.Error(t, err)
		})
	}
}

// geminiStub serves a canned model reply in the Gemini wire shape.
func geminiStub(t *testing.T, reply string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		resp := map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": reply}},
				}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestGeminiResolveHappyPath(t *testing.T) {
	reply := `{"sql":"SELECT indication, AVG(cost) AS avg_cost FROM dataset GROUP BY indication","aggregationType":"avg","groupByField":"indication","aggregateField":"cost","chartType":"pie"}`
	srv := geminiStub(t, reply, http.StatusOK)
	defer srv.Close()

	g := NewGemini(Config{APIKey: "test-key", Endpoint: srv.URL})
	intent, err := g.Resolve(context.Background(), "average cost by indication", pharmaSchema())
	require.NoError(t, err)

	assert.Equal(t, engine.AggAvg, intent.Aggregation)
	assert.Equal(t, "indication", intent.GroupByField)
	assert.Equal(t, engine.ChartPie, intent.Chart)
}

func TestGeminiResolveBackendError(t *testing.T) {
	srv := geminiStub(t, "", http.StatusInternalServerError)
	defer srv.Close()

	g := NewGemini(Config{APIKey: "test-key", Endpoint: srv.URL})
	_, err := g.Resolve(context.Background(), "total cost", pharmaSchema())
	assert.Error(t, err)
}

func TestGeminiResolveNoAPIKey(t *testing.T) {
	g := NewGemini(Config{})
	_, err := g.Resolve(context.Background(), "total cost", pharmaSchema())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no API key")
}
