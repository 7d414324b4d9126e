package service

import (
	"context"
	"fmt"
	"log"

	"github.com/tabql-org/tabql/chartgen"
	"github.com/tabql-org/tabql/config"
	"github.com/tabql-org/tabql/dataset"
	"github.com/tabql-org/tabql/engine"
	"github.com/tabql-org/tabql/helpers"
	"github.com/tabql-org/tabql/resolver"
	"github.com/tabql-org/tabql/schema"
)

// ============================================================================
// SERVICE — The collaborator-facing surface
// ============================================================================
// Wires store → resolver chain → aggregation engine → display classifier
// → chart generation. Every failure crossing this boundary is a structured
// result with a Success flag; nothing panics outward.
//
// Each query is one request-scoped call chain. The store is the only
// shared state, and stored rows are read-only after ingestion.
// ============================================================================

// Service answers natural-language questions about ingested datasets.
type Service struct {
	cfg        config.Config
	store      *dataset.Store
	resolver   resolver.Resolver
	generator  chartgen.Generator
	classifier *engine.Classifier
}

// New builds a service from configuration. The model tiers activate only
// when an API key is present in the environment; without one the resolver
// chain is the deterministic tier alone and chart generation reports
// failure.
func New(cfg config.Config) *Service {
	apiKey := config.APIKey()

	classifier := engine.NewClassifier()
	classifier.RowThreshold = cfg.RowThreshold

	return &Service{
		cfg:   cfg,
		store: dataset.NewStore(),
		resolver: resolver.Default(resolver.Config{
			APIKey:   apiKey,
			Model:    cfg.Model,
			Endpoint: cfg.Endpoint,
			Timeout:  cfg.ResolveTimeout,
		}),
		generator: chartgen.NewGemini(chartgen.Config{
			APIKey:   apiKey,
			Model:    cfg.Model,
			Endpoint: cfg.Endpoint,
			Timeout:  cfg.ChartTimeout,
		}),
		classifier: classifier,
	}
}

// Store exposes the dataset store for collaborators that manage lifecycle
// directly (listing, eviction).
func (s *Service) Store() *dataset.Store { return s.store }

// ============================================================================
// INGESTION
// ============================================================================

// IngestResult is the obligation back to the ingestion collaborator.
type IngestResult struct {
	Success   bool                      `json:"success"`
	DatasetID string                    `json:"datasetId,omitempty"`
	Schema    []schema.ColumnDescriptor `json:"schema,omitempty"`
	RowCount  int                       `json:"rowCount,omitempty"`
	Preview   []engine.Row              `json:"preview,omitempty"`
	Error     string                    `json:"error,omitempty"`
	Details   string                    `json:"details,omitempty"`
}

// IngestRows stores a parsed row set under a fresh dataset id.
func (s *Service) IngestRows(rows []engine.Row, name string) IngestResult {
	ds, err := s.store.Add(name, rows)
	if err != nil {
		return IngestResult{
			Success: false,
			Error:   "No valid data found in file",
			Details: err.Error(),
		}
	}

	preview := ds.Rows
	if len(preview) > s.cfg.PreviewRows {
		preview = preview[:s.cfg.PreviewRows]
	}

	log.Printf("📊 tabql: ingested %q — %d rows, %d columns (id=%s)",
		name, ds.RowCount(), len(ds.Schema), ds.ID)

	return IngestResult{
		Success:   true,
		DatasetID: ds.ID,
		Schema:    ds.Schema,
		RowCount:  ds.RowCount(),
		Preview:   preview,
	}
}

// IngestCSV parses CSV bytes and stores the resulting rows.
func (s *Service) IngestCSV(data []byte, name string) IngestResult {
	rows, _, err := helpers.ParseCSV(data)
	if err != nil {
		return IngestResult{
			Success: false,
			Error:   "Failed to parse CSV file",
			Details: err.Error(),
		}
	}
	return s.IngestRows(rows, name)
}

// ============================================================================
// QUERY
// ============================================================================

// Request is what the query UI collaborator supplies.
type Request struct {
	Query     string `json:"query"`
	DatasetID string `json:"datasetId"`
}

// AnalysisResult is the query outcome, success or failure.
// Superseded by the next query's result; the caller holds it for
// rendering and export.
type AnalysisResult struct {
	Success        bool               `json:"success"`
	SQL            string             `json:"sql,omitempty"`
	Result         []engine.Row       `json:"result,omitempty"`
	DisplayType    engine.DisplayType `json:"displayType,omitempty"`
	Interpretation string             `json:"interpretation,omitempty"`
	Explanations   string             `json:"explanations,omitempty"`
	Error          string             `json:"error,omitempty"`
	Details        string             `json:"details,omitempty"`

	// Intent is the resolved structured interpretation, kept for the
	// chart path and for display.
	Intent *engine.QueryIntent `json:"intent,omitempty"`
}

// Query runs the full pipeline for one question. The resolver chain ends
// in the deterministic tier, so once the dataset is found the aggregation
// path always runs; no automatic retries are performed.
func (s *Service) Query(ctx context.Context, req Request) AnalysisResult {
	ds, ok := s.store.Get(req.DatasetID)
	if !ok || ds.RowCount() == 0 {
		return AnalysisResult{
			Success: false,
			Error:   "Dataset not found or empty",
			Details: fmt.Sprintf("no dataset with id %q", req.DatasetID),
		}
	}

	intent, err := s.resolver.Resolve(ctx, req.Query, ds.Schema)
	if err != nil {
		// Only reachable with a custom chain that lacks the fallback tier.
		return AnalysisResult{
			Success: false,
			Error:   "Could not interpret query",
			Details: err.Error(),
		}
	}

	result := engine.Aggregate(ds.Rows, *intent, engine.WithMaxRows(s.cfg.MaxResultRows))
	display := s.classifier.Classify(req.Query, *intent, result)

	log.Printf("🔧 tabql: %q → agg=%s group=%q rows=%d display=%s",
		req.Query, intent.Aggregation, intent.GroupByField, len(result), display)

	return AnalysisResult{
		Success:        true,
		SQL:            intent.SQL,
		Result:         result,
		DisplayType:    display,
		Interpretation: interpret(*intent),
		Intent:         intent,
	}
}

// interpret renders the intent as a one-line human-readable summary.
func interpret(intent engine.QueryIntent) string {
	var what string
	switch intent.Aggregation {
	case engine.AggSum:
		what = fmt.Sprintf("Sum of %s", intent.AggregateField)
	case engine.AggAvg:
		what = fmt.Sprintf("Average of %s", intent.AggregateField)
	default:
		what = "Count of rows"
	}
	if intent.GroupByField != "" {
		return fmt.Sprintf("%s grouped by %s", what, intent.GroupByField)
	}
	return what + " across the whole dataset"
}

// ============================================================================
// CHART
// ============================================================================

// ChartRequest asks for a chart spec for a previous analysis.
type ChartRequest struct {
	Query  string
	Intent engine.QueryIntent
	Result []engine.Row
}

// ChartResponse carries a renderable chart spec. Generated reports
// whether the model produced it; on a model failure the deterministic
// fallback spec is returned and Error records why.
type ChartResponse struct {
	Success   bool           `json:"success"`
	Spec      *chartgen.Spec `json:"spec,omitempty"`
	Generated bool           `json:"generated"`
	Error     string         `json:"error,omitempty"`
}

// Chart produces a chart spec for an analysis result.
func (s *Service) Chart(ctx context.Context, req ChartRequest) ChartResponse {
	gen := s.generator.Generate(ctx, chartgen.Request{
		Query:  req.Query,
		Intent: req.Intent,
		Result: req.Result,
	})
	if gen.Success {
		return ChartResponse{Success: true, Spec: gen.Spec, Generated: true}
	}

	log.Printf("⚠️ tabql chartgen: falling back to chart primitives: %s", gen.Error)
	fallback := chartgen.FallbackSpec(req.Intent)
	return ChartResponse{
		Success:   true,
		Spec:      &fallback,
		Generated: false,
		Error:     gen.Error,
	}
}
