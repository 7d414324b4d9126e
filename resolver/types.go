package resolver

import (
	"context"
	"time"

	"github.com/tabql-org/tabql/engine"
	"github.com/tabql-org/tabql/schema"
)

// ============================================================================
// RESOLVER — Natural language → QueryIntent
// ============================================================================
// The model-backed resolver is the ONLY component in the query path that
// calls an external service. It receives the schema description plus the
// user's question, never raw data.
//
// Each tier returns a success/failure outcome; the Chain explicitly
// selects the next tier on failure, so the fallback policy is visible and
// testable without a backend.
// ============================================================================

// Resolver translates a natural-language query into a QueryIntent.
// Implementations: Gemini (tier 1), Fallback (tier 2, deterministic).
type Resolver interface {
	// Resolve produces a complete QueryIntent or an error.
	// The context bounds any backend wait; a timed-out call is a failure,
	// never a block.
	Resolve(ctx context.Context, query string, cols []schema.ColumnDescriptor) (*engine.QueryIntent, error)
}

// Config holds the model backend configuration.
type Config struct {
	APIKey   string        // provider API key; empty disables the model tier
	Model    string        // model name (default "gemini-2.0-flash")
	Endpoint string        // API endpoint override (empty = default)
	Timeout  time.Duration // per-call bound (default 10s)
}

// Available reports whether the model tier can be attempted at all.
func (c Config) Available() bool { return c.APIKey != "" }
