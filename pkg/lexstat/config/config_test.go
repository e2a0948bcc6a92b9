package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/lexstat/pkg/lexstat/internalerr"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Driver != "sqlite" {
		t.Errorf("expected sqlite store, got %q", cfg.Store.Driver)
	}
	if cfg.Analysis.Window != 200 {
		t.Errorf("expected window 200, got %d", cfg.Analysis.Window)
	}
	if cfg.Analysis.Scorer != "log_likelihood" {
		t.Errorf("expected log_likelihood, got %q", cfg.Analysis.Scorer)
	}
	if cfg.Analysis.Parallelism < 1 {
		t.Errorf("parallelism should default to GOMAXPROCS, got %d", cfg.Analysis.Parallelism)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "lexstat.yaml", `logging:
  level: debug
  format: json
store:
  driver: memory
analysis:
  stemming: stem
  scorer: mi
  num_pairs: 10
  window: 50
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging not loaded: %+v", cfg.Logging)
	}
	if cfg.Store.Driver != "memory" {
		t.Errorf("expected memory store, got %q", cfg.Store.Driver)
	}
	if cfg.Analysis.NumPairs != 10 || cfg.Analysis.Window != 50 {
		t.Errorf("analysis not loaded: %+v", cfg.Analysis)
	}
	// Unset keys keep their defaults
	if cfg.Analysis.ZetaMaxMarkers != 1000 {
		t.Errorf("expected default zeta markers, got %d", cfg.Analysis.ZetaMaxMarkers)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LEXSTAT_STORE_DRIVER", "MEMORY")
	t.Setenv("LEXSTAT_WINDOW", "25")
	t.Setenv("LEXSTAT_PARALLELISM", "not-a-number")
	t.Setenv("LEXSTAT_SCORER", "t_score")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Driver != "memory" {
		t.Errorf("expected memory, got %q", cfg.Store.Driver)
	}
	if cfg.Analysis.Window != 25 {
		t.Errorf("expected window 25, got %d", cfg.Analysis.Window)
	}
	if cfg.Analysis.Parallelism < 1 {
		t.Errorf("bad override should be ignored, got %d", cfg.Analysis.Parallelism)
	}
	if cfg.Analysis.Scorer != "t_score" {
		t.Errorf("expected t_score, got %q", cfg.Analysis.Scorer)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown driver", func(c *Config) { c.Store.Driver = "mongo" }},
		{"missing dsn", func(c *Config) { c.Store.DSN = "" }},
		{"bad stemming", func(c *Config) { c.Analysis.Stemming = "both" }},
		{"lemma without lexicon", func(c *Config) { c.Analysis.Stemming = "lemma" }},
		{"unknown scorer", func(c *Config) { c.Analysis.Scorer = "dice" }},
		{"zero window", func(c *Config) { c.Analysis.Window = 0 }},
		{"zero ngram", func(c *Config) { c.Analysis.NgramSize = 0 }},
		{"zero parallelism", func(c *Config) { c.Analysis.Parallelism = 0 }},
		{"zero markers", func(c *Config) { c.Analysis.ZetaMaxMarkers = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, internalerr.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadStoplist(t *testing.T) {
	path := writeFile(t, "stoplist.yaml", `terms:
  - the
  - a
  - and
`)

	sl, err := LoadStoplist(path)
	if err != nil {
		t.Fatalf("Failed to load stoplist: %v", err)
	}

	if len(sl.Terms) != 3 {
		t.Errorf("Expected 3 terms, got %d", len(sl.Terms))
	}

	expected := map[string]bool{"the": true, "a": true, "and": true}
	for _, term := range sl.Terms {
		if !expected[term] {
			t.Errorf("Unexpected term: %s", term)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
