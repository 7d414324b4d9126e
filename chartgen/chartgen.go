package chartgen

import (
	"context"
	"fmt"

	"github.com/tabql-org/tabql/engine"
	"github.com/tabql-org/tabql/schema"
)

// ============================================================================
// CHART GENERATION — Declarative chart specs, never executable code
// ============================================================================
// The rendering collaborator draws pixels from a Spec: a chart type plus
// field mappings and a small enumerated set of style options. Model output
// is validated against the result columns before it ever leaves this
// package, closing the execute-untrusted-output hole a free-form code
// generator would open.
// ============================================================================

// Spec tells the rendering collaborator what to draw.
type Spec struct {
	Type       engine.ChartType `json:"type"`
	XField     string           `json:"xField"`
	YField     string           `json:"yField"`
	Title      string           `json:"title,omitempty"`
	ShowLegend bool             `json:"showLegend"`
}

// Request carries everything the generator may look at.
type Request struct {
	Query   string
	Columns []schema.ColumnDescriptor
	Intent  engine.QueryIntent
	Result  []engine.Row
}

// Result is the generator outcome. On failure Spec is nil and Error is a
// non-empty description; callers fall back to FallbackSpec.
type Result struct {
	Success bool   `json:"success"`
	Spec    *Spec  `json:"spec,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Generator produces a chart spec for a result set.
type Generator interface {
	Generate(ctx context.Context, req Request) Result
}

// ============================================================================
// FALLBACK — fixed chart primitives
// ============================================================================

// FallbackSpec derives a chart spec directly from the intent's
// deterministic result columns: the group column on the X axis, the
// aggregate column on the Y axis. Always succeeds.
func FallbackSpec(intent engine.QueryIntent) Spec {
	cols := engine.ResultColumns(intent)

	spec := Spec{
		Type:       intent.Chart,
		ShowLegend: intent.Chart == engine.ChartPie,
	}
	if !spec.Type.Valid() {
		spec.Type = engine.ChartBar
	}

	if len(cols) >= 2 {
		spec.XField = cols[0]
		spec.YField = cols[1]
	} else if len(cols) == 1 {
		spec.XField = cols[0]
		spec.YField = cols[0]
	}
	return spec
}

// Validate checks a spec against the columns present in the result rows.
func Validate(spec *Spec, intent engine.QueryIntent) error {
	if spec == nil {
		return fmt.Errorf("empty chart spec")
	}
	if !spec.Type.Valid() {
		return fmt.Errorf("unknown chart type %q", spec.Type)
	}
	allowed := make(map[string]bool)
	for _, c := range engine.ResultColumns(intent) {
		allowed[c] = true
	}
	if !allowed[spec.XField] {
		return fmt.Errorf("xField %q is not a result column", spec.XField)
	}
	if !allowed[spec.YField] {
		return fmt.Errorf("yField %q is not a result column", spec.YField)
	}
	return nil
}
