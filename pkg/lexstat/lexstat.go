// Package lexstat is the entry point to the corpus statistics engine. An
// Engine resolves datasets from a document store, runs the analyzers with
// the configured defaults, and logs and records metrics for every run.
package lexstat

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cognicore/lexstat/pkg/lexstat/association"
	"github.com/cognicore/lexstat/pkg/lexstat/collocation"
	"github.com/cognicore/lexstat/pkg/lexstat/config"
	"github.com/cognicore/lexstat/pkg/lexstat/cooccurrence"
	"github.com/cognicore/lexstat/pkg/lexstat/fieldcount"
	"github.com/cognicore/lexstat/pkg/lexstat/ingest"
	"github.com/cognicore/lexstat/pkg/lexstat/internalerr"
	"github.com/cognicore/lexstat/pkg/lexstat/logger"
	"github.com/cognicore/lexstat/pkg/lexstat/metrics"
	"github.com/cognicore/lexstat/pkg/lexstat/progress"
	"github.com/cognicore/lexstat/pkg/lexstat/store"
	"github.com/cognicore/lexstat/pkg/lexstat/store/memstore"
	"github.com/cognicore/lexstat/pkg/lexstat/store/postgres"
	"github.com/cognicore/lexstat/pkg/lexstat/store/sqlite"
	"github.com/cognicore/lexstat/pkg/lexstat/wordlist"
	"github.com/cognicore/lexstat/pkg/lexstat/zeta"
)

// Engine is the main facade.
type Engine struct {
	store   store.Store
	cfg     *config.Config
	comp    *config.Components
	metrics *metrics.Metrics
	log     *slog.Logger
}

// Options configures an Engine
type Options struct {
	Store      store.Store
	Config     *config.Config     // nil uses config.Default()
	Components *config.Components // nil loads them from Config
	Metrics    *metrics.Metrics   // optional
	Logger     *slog.Logger       // nil uses the default logger
}

// New creates an Engine with the given dependencies
func New(opts Options) (*Engine, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("%w: engine needs a store", internalerr.ErrInvalidConfig)
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	comp := opts.Components
	if comp == nil {
		var err error
		comp, err = (&config.Loader{Config: cfg}).Load()
		if err != nil {
			return nil, err
		}
	}
	log := opts.Logger
	if log == nil {
		log = logger.WithComponent("engine")
	}
	return &Engine{store: opts.Store, cfg: cfg, comp: comp, metrics: opts.Metrics, log: log}, nil
}

// Open connects to the configured store and builds an Engine on it.
func Open(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	st, err := OpenStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	e, err := New(Options{Store: st, Config: cfg, Metrics: m})
	if err != nil {
		st.Close()
		return nil, err
	}
	return e, nil
}

// OpenStore opens the store a StoreConfig describes.
func OpenStore(ctx context.Context, sc config.StoreConfig) (store.Store, error) {
	switch sc.Driver {
	case "sqlite":
		return sqlite.OpenSQLite(ctx, sc.DSN)
	case "postgres":
		return postgres.Open(ctx, sc.DSN)
	case "memory":
		return memstore.New(), nil
	}
	return nil, fmt.Errorf("%w: unknown store driver %q", internalerr.ErrInvalidConfig, sc.Driver)
}

// Close cleanly shuts down the Engine
func (e *Engine) Close() error {
	return e.store.Close()
}

// Store returns the underlying document store.
func (e *Engine) Store() store.Store {
	return e.store
}

// Import creates a dataset holding docs, in order, and returns its ID.
func (e *Engine) Import(ctx context.Context, name string, docs []store.Doc) (string, error) {
	id, err := e.store.CreateDataset(ctx, name)
	if err != nil {
		return "", err
	}
	for i, d := range docs {
		if _, err := e.store.AddDoc(ctx, id, d); err != nil {
			return "", fmt.Errorf("import %s: doc %d: %w", name, i, err)
		}
		e.metrics.DocLoaded()
	}
	e.log.Info("dataset imported", "dataset", id, "name", name, "docs", len(docs))
	return id, nil
}

// Datasets lists the stored datasets.
func (e *Engine) Datasets(ctx context.Context) ([]store.DatasetInfo, error) {
	return e.store.Datasets(ctx)
}

// CollocationRequest defines a collocation analysis
type CollocationRequest struct {
	// NumPairs of 0 uses the configured default; negative returns every pair.
	NumPairs  int
	FocalWord string
	Scorer    string // empty uses the configured scorer
	Stemming  string // empty uses the configured mode
	Progress  progress.Func
}

// Collocations scores the adjacent word pairs of a dataset.
func (e *Engine) Collocations(ctx context.Context, datasetID string, req CollocationRequest) (pairs []association.Pair, err error) {
	start := time.Now()
	defer func() { e.finish("collocation", start, len(pairs), err, "dataset", datasetID) }()

	scorer, err := e.scorer(req.Scorer)
	if err != nil {
		return nil, err
	}
	words, err := e.wordOptions(req.Stemming)
	if err != nil {
		return nil, err
	}
	ds, err := e.store.Dataset(ctx, datasetID)
	if err != nil {
		return nil, err
	}

	e.log.Debug("collocation started", "dataset", datasetID, "docs", ds.Len(), "scorer", scorer.Name(), "focal", req.FocalWord)
	return collocation.Analyzer{
		Scorer:      scorer,
		NumPairs:    e.numPairs(req.NumPairs),
		FocalWord:   req.FocalWord,
		Words:       words,
		StopList:    e.comp.StopList,
		Parallelism: e.cfg.Analysis.Parallelism,
		Progress:    req.Progress,
	}.Analyze(ctx, ds)
}

// CooccurrenceRequest defines a cooccurrence analysis
type CooccurrenceRequest struct {
	// Words holds one focal word, or two or more words to pair up.
	Words []string
	// NumPairs of 0 uses the configured default; negative returns every
	// pair. Ignored when several words are given.
	NumPairs int
	Window   int    // 0 uses the configured window
	Scorer   string // empty uses the configured scorer
	Stemming string // empty uses the configured mode
	Progress progress.Func
}

// Cooccurrences scores words appearing in the same window.
func (e *Engine) Cooccurrences(ctx context.Context, datasetID string, req CooccurrenceRequest) (pairs []association.Pair, err error) {
	start := time.Now()
	defer func() { e.finish("cooccurrence", start, len(pairs), err, "dataset", datasetID) }()

	if req.Window < 0 {
		return nil, fmt.Errorf("%w: window must be positive, got %d", internalerr.ErrInvalidConfig, req.Window)
	}
	window := req.Window
	if window == 0 {
		window = e.cfg.Analysis.Window
	}
	scorer, err := e.scorer(req.Scorer)
	if err != nil {
		return nil, err
	}
	words, err := e.wordOptions(req.Stemming)
	if err != nil {
		return nil, err
	}
	ds, err := e.store.Dataset(ctx, datasetID)
	if err != nil {
		return nil, err
	}

	e.log.Debug("cooccurrence started", "dataset", datasetID, "docs", ds.Len(), "words", req.Words, "window", window)
	return cooccurrence.Analyzer{
		Scorer:      scorer,
		NumPairs:    e.numPairs(req.NumPairs),
		Words:       req.Words,
		Window:      window,
		WordList:    words,
		StopList:    e.comp.StopList,
		Parallelism: e.cfg.Analysis.Parallelism,
		Progress:    req.Progress,
	}.Analyze(ctx, ds)
}

// CraigZeta compares two datasets. Both are loaded concurrently.
func (e *Engine) CraigZeta(ctx context.Context, id1, id2 string, report progress.Func) (res *zeta.Result, err error) {
	start := time.Now()
	defer func() {
		n := 0
		if res != nil {
			n = len(res.Markers1)
		}
		e.finish("zeta", start, n, err, "dataset_1", id1, "dataset_2", id2)
	}()

	words, err := e.wordOptions("")
	if err != nil {
		return nil, err
	}

	var ds1, ds2 store.Dataset
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		ds1, err = e.store.Dataset(gctx, id1)
		return err
	})
	g.Go(func() (err error) {
		ds2, err = e.store.Dataset(gctx, id2)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return zeta.Analyzer{
		MaxMarkers:  e.cfg.Analysis.ZetaMaxMarkers,
		WordList:    words,
		StopList:    e.comp.StopList,
		Parallelism: e.cfg.Analysis.Parallelism,
		Progress:    report,
	}.Analyze(ctx, ds1, ds2)
}

// TermDates counts a term's occurrences per publication year, with every
// year between the first and the last present.
func (e *Engine) TermDates(ctx context.Context, datasetID, term string, report progress.Func) (series []fieldcount.YearValue[int64], err error) {
	start := time.Now()
	defer func() { e.finish("term_dates", start, len(series), err, "dataset", datasetID, "term", term) }()

	opts, err := e.wordOptions("")
	if err != nil {
		return nil, err
	}
	wl, err := wordlist.New(opts)
	if err != nil {
		return nil, err
	}
	ds, err := e.store.Dataset(ctx, datasetID)
	if err != nil {
		return nil, err
	}

	counts, err := fieldcount.CountTerm(ctx, ds, term, fieldcount.YearField, wl, report)
	if err != nil {
		return nil, err
	}
	return fieldcount.FillYears(counts)
}

// ArticleDatesRequest defines a document count by year.
type ArticleDatesRequest struct {
	// Normalize divides each year's count by the reference count for that
	// year. The reference is ReferenceID, or every stored dataset when
	// ReferenceID is empty.
	Normalize   bool
	ReferenceID string
	Progress    progress.Func
}

// ArticleDates counts documents per publication year.
func (e *Engine) ArticleDates(ctx context.Context, datasetID string, req ArticleDatesRequest) (series []fieldcount.YearValue[float64], err error) {
	start := time.Now()
	defer func() { e.finish("article_dates", start, len(series), err, "dataset", datasetID) }()

	ds, err := e.store.Dataset(ctx, datasetID)
	if err != nil {
		return nil, err
	}
	report := progress.Monotonic(req.Progress)

	counts, err := fieldcount.CountArticles(ctx, ds, fieldcount.YearField, progress.Range(report, 0, 90))
	if err != nil {
		return nil, err
	}

	values := make(map[string]float64, len(counts))
	if req.Normalize {
		ref, err := e.referenceCounts(ctx, req.ReferenceID)
		if err != nil {
			return nil, err
		}
		values = fieldcount.Normalize(counts, ref)
	} else {
		for k, v := range counts {
			values[k] = float64(v)
		}
	}
	report.Report(95)

	series, err = fieldcount.FillYears(values)
	if err != nil {
		return nil, err
	}
	report.Done()
	return series, nil
}

func (e *Engine) referenceCounts(ctx context.Context, referenceID string) (map[string]int64, error) {
	if referenceID != "" {
		ds, err := e.store.Dataset(ctx, referenceID)
		if err != nil {
			return nil, err
		}
		return fieldcount.CountArticles(ctx, ds, fieldcount.YearField, nil)
	}

	infos, err := e.store.Datasets(ctx)
	if err != nil {
		return nil, err
	}
	total := make(map[string]int64)
	for _, info := range infos {
		ds, err := e.store.Dataset(ctx, info.ID)
		if err != nil {
			return nil, err
		}
		counts, err := fieldcount.CountArticles(ctx, ds, fieldcount.YearField, nil)
		if err != nil {
			return nil, err
		}
		for k, v := range counts {
			total[k] += v
		}
	}
	return total, nil
}

func (e *Engine) scorer(name string) (association.Scorer, error) {
	if name == "" {
		return e.comp.Scorer, nil
	}
	return association.ByName(name)
}

func (e *Engine) wordOptions(stemming string) (wordlist.Options, error) {
	opts := e.comp.WordList(1)
	if stemming == "" {
		return opts, nil
	}
	mode, err := ingest.ParseStemming(stemming)
	if err != nil {
		return opts, err
	}
	if mode == ingest.StemLemma && e.comp.Lexicon == nil {
		return opts, fmt.Errorf("%w: lemma stemming needs a lexicon", internalerr.ErrInvalidConfig)
	}
	opts.Stemming = mode
	return opts, nil
}

func (e *Engine) numPairs(n int) int {
	if n == 0 {
		return e.cfg.Analysis.NumPairs
	}
	return n
}

func (e *Engine) finish(analysis string, start time.Time, results int, err error, attrs ...any) {
	e.metrics.Observe(analysis, start, results, err)
	attrs = append(attrs, "analysis", analysis, "duration", time.Since(start), "results", results)
	if err != nil {
		e.log.Error("analysis failed", append(attrs, "error", err)...)
		return
	}
	e.log.Info("analysis finished", attrs...)
}
