package store

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Store is the document store the analyzers read datasets from.
type Store interface {
	Close() error

	// Datasets
	CreateDataset(ctx context.Context, name string) (string, error)
	Dataset(ctx context.Context, id string) (Dataset, error)
	Datasets(ctx context.Context) ([]DatasetInfo, error)

	// Docs are appended to a dataset; insertion order is preserved.
	AddDoc(ctx context.Context, datasetID string, d Doc) (string, error)
}

// Doc represents a stored document
type Doc struct {
	ID     string
	Title  string
	Text   string
	Fields map[string]string // metadata such as "year", "authors", "journal"
}

// Field returns a metadata value, or "" when unset.
func (d Doc) Field(name string) string {
	if d.Fields == nil {
		return ""
	}
	return d.Fields[name]
}

// Validate checks if the document has required fields
func (d Doc) Validate() error {
	if strings.TrimSpace(d.Text) == "" {
		return errors.New("doc text is required")
	}
	return nil
}

// Dataset is an ordered, immutable snapshot of documents.
type Dataset struct {
	ID   string
	Name string
	Docs []Doc
}

// Len returns the number of documents.
func (d Dataset) Len() int {
	return len(d.Docs)
}

// DatasetInfo summarizes a dataset without loading its documents.
type DatasetInfo struct {
	ID        string
	Name      string
	Size      int
	CreatedAt time.Time
}

// CopyDoc returns a deep copy of d.
func CopyDoc(d Doc) Doc {
	out := d
	if d.Fields != nil {
		out.Fields = make(map[string]string, len(d.Fields))
		for k, v := range d.Fields {
			out.Fields[k] = v
		}
	}
	return out
}
