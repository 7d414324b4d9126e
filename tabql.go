// Package tabql answers natural-language questions about tabular data.
//
// Usage:
//
//	import "github.com/tabql-org/tabql/service"
//
//	svc := service.New(config.Default())
//	ingest := svc.IngestCSV(csvBytes, "sales")
//	answer := svc.Query(ctx, service.Request{
//	    Query:     "total cost by indication",
//	    DatasetID: ingest.DatasetID,
//	})
//
// A question is resolved into a QueryIntent (group-by column, aggregate
// function, aggregate column, chart type) by a two-tier resolver chain —
// model-backed first, deterministic keyword rules second — then executed
// locally by the aggregation engine. The engine never executes SQL; the
// SQL string on the intent exists only for display.
//
// Chart rendering is the consumer's job. The chartgen package produces a
// constrained declarative chart spec (type + field mappings), never
// executable code.
package tabql
