package dataset

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tabql-org/tabql/engine"
	"github.com/tabql-org/tabql/schema"
)

// ============================================================================
// DATASET STORE — Process-lifetime keyed row sets
// ============================================================================
// An explicit store handle, not a package global. Rows are immutable after
// ingestion, so concurrent queries against the same id only ever read;
// concurrent ingests mint fresh uuids and never collide. Nothing survives
// a restart — eviction is the process exiting.
// ============================================================================

// Sentinel errors callers branch on.
var (
	ErrNotFound = errors.New("dataset not found")
	ErrEmpty    = errors.New("dataset has no rows")
)

// Dataset is an ingested row set plus its inferred schema.
// Rows and Schema are fixed after creation.
type Dataset struct {
	ID        string                    `json:"id"`
	Name      string                    `json:"name"`
	Rows      []engine.Row              `json:"-"`
	Schema    []schema.ColumnDescriptor `json:"schema"`
	CreatedAt time.Time                 `json:"createdAt"`
}

// RowCount returns the fixed number of rows.
func (d *Dataset) RowCount() int { return len(d.Rows) }

// Store owns all datasets for the process lifetime.
type Store struct {
	mu       sync.RWMutex
	datasets map[string]*Dataset
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{datasets: make(map[string]*Dataset)}
}

// Add ingests a row set under a fresh id. Zero rows is fatal to the
// ingestion and creates no entry. Keys absent from the inferred schema are
// dropped so every stored row's key set is a subset of the schema.
func (s *Store) Add(name string, rows []engine.Row) (*Dataset, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("cannot ingest %q: %w", name, ErrEmpty)
	}

	cols := schema.Infer(rows)
	known := make(map[string]bool, len(cols))
	for _, c := range cols {
		known[c.Name] = true
	}

	clean := make([]engine.Row, len(rows))
	for i, row := range rows {
		cleaned := make(engine.Row, len(row))
		for k, v := range row {
			if known[k] {
				cleaned[k] = v
			}
		}
		clean[i] = cleaned
	}

	ds := &Dataset{
		ID:        uuid.NewString(),
		Name:      name,
		Rows:      clean,
		Schema:    cols,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.datasets[ds.ID] = ds
	s.mu.Unlock()

	return ds, nil
}

// Get returns the dataset for an id. It never substitutes another
// dataset: an unknown id is simply not found.
func (s *Store) Get(id string) (*Dataset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ds, ok := s.datasets[id]
	return ds, ok
}

// Remove evicts a dataset. Removing an unknown id is a no-op.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.datasets, id)
}

// List returns all datasets in no particular order.
func (s *Store) List() []*Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Dataset, 0, len(s.datasets))
	for _, ds := range s.datasets {
		out = append(out, ds)
	}
	return out
}

// Len returns the number of stored datasets.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.datasets)
}
