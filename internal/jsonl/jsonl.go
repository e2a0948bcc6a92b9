// Package jsonl reads corpora stored one JSON document per line.
package jsonl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/cognicore/lexstat/pkg/lexstat/ingest"
	"github.com/cognicore/lexstat/pkg/lexstat/store"
)

// Record is one line of a corpus file. Text holds plain text; HTML, when
// set instead, is stripped of markup on conversion.
type Record struct {
	ID     string            `json:"id"`
	Title  string            `json:"title"`
	Text   string            `json:"text"`
	HTML   string            `json:"html"`
	Year   json.Number       `json:"year"`
	Fields map[string]string `json:"fields"`
}

// Doc converts the record into a store document. Year is folded into the
// fields.
func (r Record) Doc() (store.Doc, error) {
	d := store.Doc{ID: r.ID, Title: r.Title, Text: r.Text}

	if strings.TrimSpace(d.Text) == "" && r.HTML != "" {
		text, err := ingest.ExtractText(strings.NewReader(r.HTML))
		if err != nil {
			return store.Doc{}, fmt.Errorf("extract html: %w", err)
		}
		d.Text = text
	}

	if len(r.Fields) > 0 || r.Year != "" {
		d.Fields = make(map[string]string, len(r.Fields)+1)
		for k, v := range r.Fields {
			d.Fields[k] = v
		}
		if r.Year != "" {
			d.Fields["year"] = r.Year.String()
		}
	}
	return d, nil
}

// maxLine bounds a single record.
const maxLine = 64 << 20

// Read parses records from r. Malformed or empty lines are skipped with a
// warning; name identifies the source in log messages.
func Read(r io.Reader, name string) ([]store.Doc, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxLine)

	var docs []store.Doc
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}

		var rec Record
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			slog.Warn("skipping malformed JSON", "source", name, "line", line, "error", err)
			continue
		}
		d, err := rec.Doc()
		if err != nil {
			slog.Warn("skipping record", "source", name, "line", line, "error", err)
			continue
		}
		if err := d.Validate(); err != nil {
			slog.Warn("skipping record", "source", name, "line", line, "error", err)
			continue
		}
		docs = append(docs, d)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("no valid documents found in %s", name)
	}
	return docs, nil
}

// LoadFile reads a JSONL corpus from disk.
func LoadFile(path string) ([]store.Doc, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, path)
}
