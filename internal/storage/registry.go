// Package storage holds the dataset registry: the backing store for
// ingested datasets behind the session cache. Two backends exist, a
// process-local map (the default, nothing durable) and a SQLite store.
package storage

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"pizzapulse/internal/core"
)

// ErrDatasetNotFound is returned when no dataset exists for a key.
var ErrDatasetNotFound = errors.New("dataset not found")

// DatasetInfo is the registry listing entry for one dataset.
type DatasetInfo struct {
	Key        string    `json:"key"`
	Rows       int       `json:"rows"`
	IngestedAt time.Time `json:"ingested_at"`
}

// Registry stores normalized datasets keyed by content hash.
type Registry interface {
	Put(ctx context.Context, ds *core.Dataset) error
	Get(ctx context.Context, key string) (*core.Dataset, error)
	List(ctx context.Context) ([]DatasetInfo, error)
	Close() error
}

// MemoryRegistry is the default in-process registry. Datasets are
// immutable so it hands out the stored pointer directly.
type MemoryRegistry struct {
	mu       sync.RWMutex
	datasets map[string]*core.Dataset
}

// NewMemoryRegistry creates an empty in-process registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		datasets: make(map[string]*core.Dataset),
	}
}

// Put stores a dataset. Re-putting the same key is a no-op: content
// hashing guarantees identical bytes produce identical datasets.
func (r *MemoryRegistry) Put(_ context.Context, ds *core.Dataset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.datasets[ds.Key]; exists {
		return nil
	}
	r.datasets[ds.Key] = ds
	return nil
}

// Get returns the dataset for a key, or ErrDatasetNotFound.
func (r *MemoryRegistry) Get(_ context.Context, key string) (*core.Dataset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ds, ok := r.datasets[key]
	if !ok {
		return nil, ErrDatasetNotFound
	}
	return ds, nil
}

// List returns all stored datasets, oldest first.
func (r *MemoryRegistry) List(_ context.Context) ([]DatasetInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	infos := make([]DatasetInfo, 0, len(r.datasets))
	for _, ds := range r.datasets {
		infos = append(infos, DatasetInfo{
			Key:        ds.Key,
			Rows:       len(ds.Rows),
			IngestedAt: ds.IngestedAt,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].IngestedAt.Before(infos[j].IngestedAt) })
	return infos, nil
}

// Close is a no-op for the memory backend.
func (r *MemoryRegistry) Close() error {
	return nil
}
