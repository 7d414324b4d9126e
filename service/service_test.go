package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabql-org/tabql/config"
	"github.com/tabql-org/tabql/engine"
)

const pharmaCSV = `brand,indication,cost
Ozempic,Diabetes,150
Keytruda,Cancer,5000
Opdivo,Cancer,3000
`

// newOfflineService builds a service with no API key so the resolver
// chain is the deterministic tier alone and runs reproducibly.
func newOfflineService(t *testing.T) *Service {
	t.Helper()
	t.Setenv(config.APIKeyEnv, "")
	return New(config.Default())
}

func ingestPharma(t *testing.T, svc *Service) string {
	t.Helper()
	res := svc.IngestCSV([]byte(pharmaCSV), "drugs.csv")
	require.True(t, res.Success, "ingest failed: %s / %s", res.Error, res.Details)
	return res.DatasetID
}

func TestQueryTotalCostByIndication(t *testing.T) {
	svc := newOfflineService(t)
	id := ingestPharma(t, svc)

	res := svc.Query(context.Background(), Request{
		Query:     "total cost by indication",
		DatasetID: id,
	})
	require.True(t, res.Success, "query failed: %s / %s", res.Error, res.Details)

	require.Len(t, res.Result, 2)
	assert.Equal(t, "Cancer", res.Result[0]["indication"].String())
	assert.Equal(t, 8000.0, res.Result[0]["total_cost"].Float())
	assert.Equal(t, "Diabetes", res.Result[1]["indication"].String())
	assert.Equal(t, 150.0, res.Result[1]["total_cost"].Float())

	assert.Equal(t, engine.DisplayChart, res.DisplayType)
	assert.Contains(t, res.SQL, "GROUP BY indication")
	assert.Equal(t, "Sum of cost grouped by indication", res.Interpretation)
	require.NotNil(t, res.Intent)
	assert.Equal(t, engine.AggSum, res.Intent.Aggregation)
}

func TestQueryAverageCost(t *testing.T) {
	svc := newOfflineService(t)
	id := ingestPharma(t, svc)

	res := svc.Query(context.Background(), Request{
		Query:     "average cost by indication",
		DatasetID: id,
	})
	require.True(t, res.Success)

	require.Len(t, res.Result, 2)
	assert.Equal(t, 4000.0, res.Result[0]["avg_cost"].Float())
	assert.Equal(t, 150.0, res.Result[1]["avg_cost"].Float())
}

func TestQueryCountIsSingleNumber(t *testing.T) {
	svc := newOfflineService(t)

	// No category-ish column names, so the deterministic resolver counts
	// over the whole dataset instead of grouping.
	ingest := svc.IngestCSV([]byte("name,score\na,1\nb,2\nc,3\n"), "scores.csv")
	require.True(t, ingest.Success)

	res := svc.Query(context.Background(), Request{
		Query:     "how many records are there",
		DatasetID: ingest.DatasetID,
	})
	require.True(t, res.Success)

	require.Len(t, res.Result, 1)
	assert.Equal(t, 3.0, res.Result[0]["count"].Float())
	assert.Equal(t, engine.DisplayNumber, res.DisplayType)
	assert.Equal(t, "Count of rows across the whole dataset", res.Interpretation)
}

func TestQueryUnknownDataset(t *testing.T) {
	svc := newOfflineService(t)
	ingestPharma(t, svc)

	res := svc.Query(context.Background(), Request{
		Query:     "total cost",
		DatasetID: "no-such-id",
	})
	assert.False(t, res.Success)
	assert.Equal(t, "Dataset not found or empty", res.Error)
}

func TestIngestRejectsUnparsableCSV(t *testing.T) {
	svc := newOfflineService(t)

	res := svc.IngestCSV([]byte("header_only\n"), "empty.csv")
	assert.False(t, res.Success)
	assert.Equal(t, "Failed to parse CSV file", res.Error)
	assert.Empty(t, res.DatasetID)
}

func TestIngestPreviewIsCapped(t *testing.T) {
	csv := "n\n"
	for i := 0; i < 12; i++ {
		csv += "1\n"
	}

	svc := newOfflineService(t)
	res := svc.IngestCSV([]byte(csv), "numbers.csv")
	require.True(t, res.Success)

	assert.Equal(t, 12, res.RowCount)
	assert.Len(t, res.Preview, config.Default().PreviewRows)
}

func TestChartFallsBackWithoutKey(t *testing.T) {
	svc := newOfflineService(t)
	id := ingestPharma(t, svc)

	analysis := svc.Query(context.Background(), Request{
		Query:     "total cost by indication",
		DatasetID: id,
	})
	require.True(t, analysis.Success)

	chart := svc.Chart(context.Background(), ChartRequest{
		Query:  "total cost by indication",
		Intent: *analysis.Intent,
		Result: analysis.Result,
	})

	assert.True(t, chart.Success)
	assert.False(t, chart.Generated)
	require.NotNil(t, chart.Spec)
	assert.Equal(t, "indication", chart.Spec.XField)
	assert.Equal(t, "total_cost", chart.Spec.YField)
	assert.Contains(t, chart.Error, "no API key")
}
