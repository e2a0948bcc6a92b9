// Package config loads lexstat configuration from YAML with LEXSTAT_*
// environment overrides, and builds the runtime components it describes.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/lexstat/pkg/lexstat/association"
	"github.com/cognicore/lexstat/pkg/lexstat/ingest"
	"github.com/cognicore/lexstat/pkg/lexstat/internalerr"
)

// Config is the top-level configuration.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Store    StoreConfig    `yaml:"store"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Lexicon  LexiconConfig  `yaml:"lexicon"`
	Stoplist StoplistConfig `yaml:"stoplist"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// StoreConfig selects the document store.
type StoreConfig struct {
	Driver string `yaml:"driver"` // sqlite | postgres | memory
	DSN    string `yaml:"dsn"`
}

// AnalysisConfig holds the defaults for every analysis.
type AnalysisConfig struct {
	Stemming       string `yaml:"stemming"` // none | stem | lemma
	Scorer         string `yaml:"scorer"`
	NumPairs       int    `yaml:"num_pairs"`
	Window         int    `yaml:"window"`
	NgramSize      int    `yaml:"ngram_size"`
	Parallelism    int    `yaml:"parallelism"`
	ZetaMaxMarkers int    `yaml:"zeta_max_markers"`
}

// LexiconConfig points at a lemma dictionary.
type LexiconConfig struct {
	Path string `yaml:"path"`
}

// StoplistConfig selects stop words: a bundled list by language and/or a
// YAML file of extra terms.
type StoplistConfig struct {
	Language string `yaml:"language"`
	Path     string `yaml:"path"`
}

// MetricsConfig controls the Prometheus endpoint. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Load reads a YAML config file (if provided), applies environment-variable
// overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Store: StoreConfig{
			Driver: "sqlite",
			DSN:    "lexstat.db",
		},
		Analysis: AnalysisConfig{
			Stemming:       "none",
			Scorer:         "log_likelihood",
			NumPairs:       50,
			Window:         200,
			NgramSize:      1,
			Parallelism:    runtime.GOMAXPROCS(0),
			ZetaMaxMarkers: 1000,
		},
	}
}

// Validate rejects contradictory or out-of-range settings.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "sqlite", "postgres":
		if c.Store.DSN == "" {
			return fmt.Errorf("%w: store %s needs a dsn", internalerr.ErrInvalidConfig, c.Store.Driver)
		}
	case "memory":
	default:
		return fmt.Errorf("%w: unknown store driver %q", internalerr.ErrInvalidConfig, c.Store.Driver)
	}

	a := c.Analysis
	mode, err := ingest.ParseStemming(a.Stemming)
	if err != nil {
		return err
	}
	if mode == ingest.StemLemma && c.Lexicon.Path == "" {
		return fmt.Errorf("%w: lemma stemming needs lexicon.path", internalerr.ErrInvalidConfig)
	}
	if _, err := association.ByName(a.Scorer); err != nil {
		return err
	}
	if a.Window <= 0 {
		return fmt.Errorf("%w: window must be positive, got %d", internalerr.ErrInvalidConfig, a.Window)
	}
	if a.NgramSize < 1 {
		return fmt.Errorf("%w: ngram_size must be at least 1, got %d", internalerr.ErrInvalidConfig, a.NgramSize)
	}
	if a.Parallelism < 1 {
		return fmt.Errorf("%w: parallelism must be at least 1, got %d", internalerr.ErrInvalidConfig, a.Parallelism)
	}
	if a.ZetaMaxMarkers < 1 {
		return fmt.Errorf("%w: zeta_max_markers must be at least 1, got %d", internalerr.ErrInvalidConfig, a.ZetaMaxMarkers)
	}
	return nil
}

// applyEnvOverrides reads LEXSTAT_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LEXSTAT_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LEXSTAT_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("LEXSTAT_STORE_DRIVER"); v != "" {
		cfg.Store.Driver = strings.ToLower(v)
	}
	if v := os.Getenv("LEXSTAT_STORE_DSN"); v != "" {
		cfg.Store.DSN = v
	}
	if v := os.Getenv("LEXSTAT_STEMMING"); v != "" {
		cfg.Analysis.Stemming = v
	}
	if v := os.Getenv("LEXSTAT_SCORER"); v != "" {
		cfg.Analysis.Scorer = v
	}
	if v := os.Getenv("LEXSTAT_PARALLELISM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.Parallelism = n
		}
	}
	if v := os.Getenv("LEXSTAT_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.Window = n
		}
	}
	if v := os.Getenv("LEXSTAT_LEXICON_PATH"); v != "" {
		cfg.Lexicon.Path = v
	}
	if v := os.Getenv("LEXSTAT_STOPLIST_LANGUAGE"); v != "" {
		cfg.Stoplist.Language = v
	}
	if v := os.Getenv("LEXSTAT_STOPLIST_PATH"); v != "" {
		cfg.Stoplist.Path = v
	}
	if v := os.Getenv("LEXSTAT_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
}

// Stoplist is a YAML file of stop words.
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, err
	}

	return &sl, nil
}
