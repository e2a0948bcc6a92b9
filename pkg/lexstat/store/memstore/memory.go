package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cognicore/lexstat/pkg/lexstat/internalerr"
	"github.com/cognicore/lexstat/pkg/lexstat/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu       sync.RWMutex
	ids      *store.IDSource
	datasets map[string]*dataset
}

type dataset struct {
	name    string
	created time.Time
	docs    []store.Doc
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		ids:      store.NewIDSource(),
		datasets: make(map[string]*dataset),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// CreateDataset registers an empty dataset and returns its ID.
func (s *Store) CreateDataset(ctx context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.ids.Next()
	s.datasets[id] = &dataset{name: name, created: time.Now().UTC()}
	return id, nil
}

// AddDoc appends a document to a dataset.
func (s *Store) AddDoc(ctx context.Context, datasetID string, d store.Doc) (string, error) {
	if err := d.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", internalerr.ErrInvalidInput, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ds, ok := s.datasets[datasetID]
	if !ok {
		return "", fmt.Errorf("dataset %s: %w", datasetID, internalerr.ErrNotFound)
	}
	if d.ID == "" {
		d.ID = s.ids.Next()
	}
	ds.docs = append(ds.docs, store.CopyDoc(d))
	return d.ID, nil
}

// Dataset returns a snapshot of a dataset's documents.
func (s *Store) Dataset(ctx context.Context, id string) (store.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ds, ok := s.datasets[id]
	if !ok {
		return store.Dataset{}, fmt.Errorf("dataset %s: %w", id, internalerr.ErrNotFound)
	}

	docs := make([]store.Doc, len(ds.docs))
	for i, d := range ds.docs {
		docs[i] = store.CopyDoc(d)
	}
	return store.Dataset{ID: id, Name: ds.name, Docs: docs}, nil
}

// Datasets lists every dataset, oldest first.
func (s *Store) Datasets(ctx context.Context) ([]store.DatasetInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.DatasetInfo, 0, len(s.datasets))
	for id, ds := range s.datasets {
		out = append(out, store.DatasetInfo{
			ID:        id,
			Name:      ds.name,
			Size:      len(ds.docs),
			CreatedAt: ds.created,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// NewDataset is a test helper: it creates a dataset holding one document
// per text and returns the snapshot.
func (s *Store) NewDataset(ctx context.Context, name string, texts ...string) (store.Dataset, error) {
	id, err := s.CreateDataset(ctx, name)
	if err != nil {
		return store.Dataset{}, err
	}
	for _, text := range texts {
		if _, err := s.AddDoc(ctx, id, store.Doc{Text: text}); err != nil {
			return store.Dataset{}, err
		}
	}
	return s.Dataset(ctx, id)
}
