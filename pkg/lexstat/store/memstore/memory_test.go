package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/cognicore/lexstat/pkg/lexstat/internalerr"
	"github.com/cognicore/lexstat/pkg/lexstat/store"
)

var _ store.Store = (*Store)(nil)

func TestMemstoreDatasetRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := New()

	id, err := st.CreateDataset(ctx, "darwin")
	if err != nil {
		t.Fatalf("CreateDataset: %v", err)
	}

	docs := []store.Doc{
		{Title: "Origin", Text: "the cat sat", Fields: map[string]string{"year": "1859"}},
		{Title: "Descent", Text: "the dog sat", Fields: map[string]string{"year": "1871"}},
	}
	for _, d := range docs {
		if _, err := st.AddDoc(ctx, id, d); err != nil {
			t.Fatalf("AddDoc: %v", err)
		}
	}

	ds, err := st.Dataset(ctx, id)
	if err != nil {
		t.Fatalf("Dataset: %v", err)
	}
	if ds.Name != "darwin" || ds.Len() != 2 {
		t.Fatalf("unexpected dataset %+v", ds)
	}
	if ds.Docs[0].Title != "Origin" || ds.Docs[1].Field("year") != "1871" {
		t.Error("documents should keep insertion order and fields")
	}
	if ds.Docs[0].ID == "" {
		t.Error("documents should be assigned IDs")
	}

	// Snapshots must not alias store state.
	ds.Docs[0].Fields["year"] = "2000"
	again, _ := st.Dataset(ctx, id)
	if again.Docs[0].Field("year") != "1859" {
		t.Error("mutating a snapshot changed the store")
	}
}

func TestMemstoreNotFound(t *testing.T) {
	ctx := context.Background()
	st := New()

	if _, err := st.Dataset(ctx, "missing"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := st.AddDoc(ctx, "missing", store.Doc{Text: "x"}); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemstoreRejectsEmptyDoc(t *testing.T) {
	ctx := context.Background()
	st := New()
	id, _ := st.CreateDataset(ctx, "x")
	if _, err := st.AddDoc(ctx, id, store.Doc{}); err == nil {
		t.Error("empty document should be rejected")
	}
}

func TestMemstoreDatasetsListing(t *testing.T) {
	ctx := context.Background()
	st := New()
	if _, err := st.NewDataset(ctx, "a", "one", "two"); err != nil {
		t.Fatal(err)
	}
	if _, err := st.NewDataset(ctx, "b", "three"); err != nil {
		t.Fatal(err)
	}

	infos, err := st.Datasets(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 2 || infos[0].Name != "a" || infos[0].Size != 2 || infos[1].Size != 1 {
		t.Errorf("unexpected listing %+v", infos)
	}
}
