package resolver

import (
	"context"
	"fmt"
	"log"

	"github.com/tabql-org/tabql/engine"
	"github.com/tabql-org/tabql/schema"
)

// ============================================================================
// RESOLVER CHAIN — Explicit tier selection
// ============================================================================
// Tries each tier in order and moves on when one fails. With Fallback as
// the last tier the chain is total; Resolve then cannot fail. No retries —
// a failed tier is skipped, the user's manual re-ask is the retry.
// ============================================================================

// Chain is an ordered list of resolvers tried until one succeeds.
type Chain struct {
	tiers []Resolver
}

// NewChain builds a chain from tiers in priority order.
func NewChain(tiers ...Resolver) *Chain {
	return &Chain{tiers: tiers}
}

// Default returns the standard two-tier chain: model-backed resolution
// when a key is configured, deterministic keyword rules always.
func Default(cfg Config) *Chain {
	if cfg.Available() {
		return NewChain(NewGemini(cfg), NewFallback())
	}
	return NewChain(NewFallback())
}

// Resolve implements Resolver over the whole chain.
func (c *Chain) Resolve(ctx context.Context, query string, cols []schema.ColumnDescriptor) (*engine.QueryIntent, error) {
	var lastErr error
	for i, tier := range c.tiers {
		intent, err := tier.Resolve(ctx, query, cols)
		if err == nil {
			return intent, nil
		}
		lastErr = err
		log.Printf("⚠️ tabql resolver: tier %d failed, falling through: %v", i+1, err)
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("resolver chain has no tiers")
	}
	return nil, fmt.Errorf("all resolver tiers failed: %w", lastErr)
}
