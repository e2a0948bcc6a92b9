package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/lexstat/pkg/lexstat/internalerr"
	"github.com/cognicore/lexstat/pkg/lexstat/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db  *sql.DB
	ids *store.IDSource
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db, ids: store.NewIDSource()}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS datasets (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS docs (
	id TEXT NOT NULL,
	dataset_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	title TEXT,
	body TEXT NOT NULL,
	PRIMARY KEY(dataset_id, id),
	UNIQUE(dataset_id, position),
	FOREIGN KEY(dataset_id) REFERENCES datasets(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS doc_fields (
	dataset_id TEXT NOT NULL,
	doc_id TEXT NOT NULL,
	name TEXT NOT NULL,
	value TEXT NOT NULL,
	UNIQUE(dataset_id, doc_id, name),
	FOREIGN KEY(dataset_id, doc_id) REFERENCES docs(dataset_id, id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_docs_dataset ON docs(dataset_id, position);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// CreateDataset inserts an empty dataset
func (s *sqliteStore) CreateDataset(ctx context.Context, name string) (string, error) {
	id := s.ids.Next()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO datasets (id, name, created_at) VALUES (?, ?, ?)`,
		id, name, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return "", err
	}
	return id, nil
}

// AddDoc appends a document (and its fields) to a dataset
func (s *sqliteStore) AddDoc(ctx context.Context, datasetID string, d store.Doc) (string, error) {
	if err := d.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", internalerr.ErrInvalidInput, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM datasets WHERE id = ?`, datasetID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("dataset %s: %w", datasetID, internalerr.ErrNotFound)
	}
	if err != nil {
		return "", err
	}

	if d.ID == "" {
		d.ID = s.ids.Next()
	}

	const stmt = `
INSERT INTO docs (id, dataset_id, position, title, body)
VALUES (?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM docs WHERE dataset_id = ?), ?, ?);
`
	if _, err := tx.ExecContext(ctx, stmt, d.ID, datasetID, datasetID, d.Title, d.Text); err != nil {
		return "", err
	}

	if err := insertFields(ctx, tx, datasetID, d.ID, d.Fields); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return d.ID, nil
}

func insertFields(ctx context.Context, tx *sql.Tx, datasetID, docID string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO doc_fields (dataset_id, doc_id, name, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for name, value := range fields {
		if name == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, datasetID, docID, name, value); err != nil {
			return err
		}
	}
	return nil
}

// Dataset loads every document of a dataset in insertion order
func (s *sqliteStore) Dataset(ctx context.Context, id string) (store.Dataset, error) {
	ds := store.Dataset{ID: id}
	err := s.db.QueryRowContext(ctx, `SELECT name FROM datasets WHERE id = ?`, id).Scan(&ds.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Dataset{}, fmt.Errorf("dataset %s: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Dataset{}, err
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, COALESCE(title, ''), body
FROM docs
WHERE dataset_id = ?
ORDER BY position;
`, id)
	if err != nil {
		return store.Dataset{}, err
	}
	defer rows.Close()

	index := make(map[string]int)
	for rows.Next() {
		var d store.Doc
		if err := rows.Scan(&d.ID, &d.Title, &d.Text); err != nil {
			return store.Dataset{}, err
		}
		index[d.ID] = len(ds.Docs)
		ds.Docs = append(ds.Docs, d)
	}
	if err := rows.Err(); err != nil {
		return store.Dataset{}, err
	}

	if err := s.loadFields(ctx, id, ds.Docs, index); err != nil {
		return store.Dataset{}, err
	}
	return ds, nil
}

func (s *sqliteStore) loadFields(ctx context.Context, datasetID string, docs []store.Doc, index map[string]int) error {
	rows, err := s.db.QueryContext(ctx, `
SELECT doc_id, name, value
FROM doc_fields
WHERE dataset_id = ?;
`, datasetID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var docID, name, value string
		if err := rows.Scan(&docID, &name, &value); err != nil {
			return err
		}
		i, ok := index[docID]
		if !ok {
			continue
		}
		if docs[i].Fields == nil {
			docs[i].Fields = make(map[string]string)
		}
		docs[i].Fields[name] = value
	}
	return rows.Err()
}

// Datasets lists datasets with their document counts
func (s *sqliteStore) Datasets(ctx context.Context) ([]store.DatasetInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT ds.id, ds.name, ds.created_at, COUNT(d.id)
FROM datasets ds
LEFT JOIN docs d ON d.dataset_id = ds.id
GROUP BY ds.id, ds.name, ds.created_at
ORDER BY ds.id;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.DatasetInfo
	for rows.Next() {
		var info store.DatasetInfo
		var created string
		if err := rows.Scan(&info.ID, &info.Name, &created, &info.Size); err != nil {
			return nil, err
		}
		if ts, err := time.Parse(time.RFC3339Nano, created); err == nil {
			info.CreatedAt = ts
		}
		out = append(out, info)
	}
	return out, rows.Err()
}
