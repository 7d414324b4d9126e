package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabql-org/tabql/engine"
	"github.com/tabql-org/tabql/schema"
)

type failingResolver struct {
	calls int
}

func (f *failingResolver) Resolve(ctx context.Context, query string, cols []schema.ColumnDescriptor) (*engine.QueryIntent, error) {
	f.calls++
	return nil, errors.New("tier down")
}

func TestChainFallsThroughToNextTier(t *testing.T) {
	broken := &failingResolver{}
	chain := NewChain(broken, NewFallback())

	intent, err := chain.Resolve(context.Background(), "total cost by indication", pharmaSchema())
	require.NoError(t, err)
	assert.Equal(t, 1, broken.calls)
	assert.Equal(t, engine.AggSum, intent.Aggregation)
	assert.Equal(t, "indication", intent.GroupByField)
}

func TestChainAllTiersFail(t *testing.T) {
	chain := NewChain(&failingResolver{}, &failingResolver{})

	_, err := chain.Resolve(context.Background(), "anything", pharmaSchema())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tier down")
}

func TestChainFirstTierWinShortCircuits(t *testing.T) {
	second := &failingResolver{}
	chain := NewChain(NewFallback(), second)

	_, err := chain.Resolve(context.Background(), "count of rows", pharmaSchema())
	require.NoError(t, err)
	assert.Equal(t, 0, second.calls)
}

func TestDefaultChainWithoutKeyIsFallbackOnly(t *testing.T) {
	chain := Default(Config{})
	require.Len(t, chain.tiers, 1)
	_, ok := chain.tiers[0].(*Fallback)
	assert.True(t, ok)
}

func TestDefaultChainWithKeyPutsModelFirst(t *testing.T) {
	chain := Default(Config{APIKey: "test-key"})
	require.Len(t, chain.tiers, 2)
	_, ok := chain.tiers[0].(*Gemini)
	assert.True(t, ok)
	_, ok = chain.tiers[1].(*Fallback)
	assert.True(t, ok)
}
