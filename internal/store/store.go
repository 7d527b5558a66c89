// Package store keeps loaded datasets in memory for the HTTP service.
package store

import (
	"cmp"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/baditaflorin/go_cra_records/internal/core/domain"
	"github.com/google/uuid"
)

// ErrDatasetNotFound is returned for unknown dataset IDs.
var ErrDatasetNotFound = errors.New("dataset not found")

// Dataset is a normalized table together with its upload metadata.
type Dataset struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Size     int          `json:"size"`
	LoadedAt time.Time    `json:"loaded_at"`
	Table    domain.Table `json:"-"`
}

// Info summarizes a dataset without its rows.
type Info struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Size     int       `json:"size"`
	Rows     int       `json:"rows"`
	Columns  []string  `json:"columns"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Info returns the dataset summary.
func (d *Dataset) Info() Info {
	return Info{
		ID:       d.ID,
		Name:     d.Name,
		Size:     d.Size,
		Rows:     d.Table.Len(),
		Columns:  d.Table.Schema.Names(),
		LoadedAt: d.LoadedAt,
	}
}

// Store is a concurrency-safe in-memory dataset registry.
type Store struct {
	mu       sync.RWMutex
	datasets map[string]*Dataset
	now      func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{
		datasets: make(map[string]*Dataset),
		now:      time.Now,
	}
}

// Put registers table under a fresh random ID and returns the dataset.
func (s *Store) Put(name string, size int, table domain.Table) *Dataset {
	d := &Dataset{
		ID:       uuid.NewString(),
		Name:     name,
		Size:     size,
		LoadedAt: s.now(),
		Table:    table,
	}

	s.mu.Lock()
	s.datasets[d.ID] = d
	s.mu.Unlock()

	return d
}

// Get returns the dataset with the given ID.
func (s *Store) Get(id string) (*Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.datasets[id]
	if !ok {
		return nil, ErrDatasetNotFound
	}
	return d, nil
}

// Delete removes the dataset with the given ID.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.datasets[id]; !ok {
		return ErrDatasetNotFound
	}
	delete(s.datasets, id)
	return nil
}

// List returns summaries of every dataset, oldest first.
func (s *Store) List() []Info {
	s.mu.RLock()
	infos := make([]Info, 0, len(s.datasets))
	for _, d := range s.datasets {
		infos = append(infos, d.Info())
	}
	s.mu.RUnlock()

	slices.SortFunc(infos, func(a, b Info) int {
		if c := a.LoadedAt.Compare(b.LoadedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return infos
}

