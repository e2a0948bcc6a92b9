// Package postgres provides a PostgreSQL-backed document store for
// corpora shared between several analysis hosts.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/cognicore/lexstat/pkg/lexstat/internalerr"
	"github.com/cognicore/lexstat/pkg/lexstat/store"
)

type pgStore struct {
	db  *sql.DB
	ids *store.IDSource
}

// Open connects to PostgreSQL, verifies the connection and creates the
// schema if needed.
func Open(ctx context.Context, dsn string) (store.Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping postgres: %v", internalerr.ErrStoreUnavailable, err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &pgStore{db: db, ids: store.NewIDSource()}, nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS datasets (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS docs (
	id TEXT NOT NULL,
	dataset_id TEXT NOT NULL REFERENCES datasets(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	body TEXT NOT NULL,
	PRIMARY KEY(dataset_id, id),
	UNIQUE(dataset_id, position)
);

CREATE TABLE IF NOT EXISTS doc_fields (
	dataset_id TEXT NOT NULL,
	doc_id TEXT NOT NULL,
	name TEXT NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY(dataset_id, doc_id, name),
	FOREIGN KEY(dataset_id, doc_id) REFERENCES docs(dataset_id, id) ON DELETE CASCADE
);
`)
	return err
}

func (s *pgStore) Close() error {
	return s.db.Close()
}

func (s *pgStore) CreateDataset(ctx context.Context, name string) (string, error) {
	id := s.ids.Next()
	if _, err := s.db.ExecContext(ctx, `INSERT INTO datasets (id, name) VALUES ($1, $2)`, id, name); err != nil {
		return "", err
	}
	return id, nil
}

func (s *pgStore) AddDoc(ctx context.Context, datasetID string, d store.Doc) (string, error) {
	if err := d.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", internalerr.ErrInvalidInput, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	// Lock the dataset row so concurrent appends get distinct positions.
	var locked string
	err = tx.QueryRowContext(ctx, `SELECT id FROM datasets WHERE id = $1 FOR UPDATE`, datasetID).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("dataset %s: %w", datasetID, internalerr.ErrNotFound)
	}
	if err != nil {
		return "", err
	}

	if d.ID == "" {
		d.ID = s.ids.Next()
	}
	_, err = tx.ExecContext(ctx, `
INSERT INTO docs (id, dataset_id, position, title, body)
VALUES ($1, $2, (SELECT COALESCE(MAX(position), -1) + 1 FROM docs WHERE dataset_id = $2), $3, $4)`,
		d.ID, datasetID, d.Title, d.Text)
	if err != nil {
		return "", err
	}

	for name, value := range d.Fields {
		if name == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO doc_fields (dataset_id, doc_id, name, value) VALUES ($1, $2, $3, $4)`,
			datasetID, d.ID, name, value); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return d.ID, nil
}

func (s *pgStore) Dataset(ctx context.Context, id string) (store.Dataset, error) {
	ds := store.Dataset{ID: id}
	err := s.db.QueryRowContext(ctx, `SELECT name FROM datasets WHERE id = $1`, id).Scan(&ds.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Dataset{}, fmt.Errorf("dataset %s: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Dataset{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, body FROM docs WHERE dataset_id = $1 ORDER BY position`, id)
	if err != nil {
		return store.Dataset{}, err
	}
	index := make(map[string]int)
	for rows.Next() {
		var d store.Doc
		if err := rows.Scan(&d.ID, &d.Title, &d.Text); err != nil {
			rows.Close()
			return store.Dataset{}, err
		}
		index[d.ID] = len(ds.Docs)
		ds.Docs = append(ds.Docs, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return store.Dataset{}, err
	}

	fieldRows, err := s.db.QueryContext(ctx, `
SELECT doc_id, name, value FROM doc_fields WHERE dataset_id = $1`, id)
	if err != nil {
		return store.Dataset{}, err
	}
	defer fieldRows.Close()
	for fieldRows.Next() {
		var docID, name, value string
		if err := fieldRows.Scan(&docID, &name, &value); err != nil {
			return store.Dataset{}, err
		}
		i, ok := index[docID]
		if !ok {
			continue
		}
		if ds.Docs[i].Fields == nil {
			ds.Docs[i].Fields = make(map[string]string)
		}
		ds.Docs[i].Fields[name] = value
	}
	return ds, fieldRows.Err()
}

func (s *pgStore) Datasets(ctx context.Context) ([]store.DatasetInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT ds.id, ds.name, ds.created_at, COUNT(d.id)
FROM datasets ds LEFT JOIN docs d ON d.dataset_id = ds.id
GROUP BY ds.id, ds.name, ds.created_at
ORDER BY ds.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.DatasetInfo
	for rows.Next() {
		var info store.DatasetInfo
		if err := rows.Scan(&info.ID, &info.Name, &info.CreatedAt, &info.Size); err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, rows.Err()
}
