// Command lexstat loads corpora into a document store and runs corpus
// statistics over them: collocations, cooccurrences, Craig's Zeta and
// counts by year. Results are written to stdout as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/cheggaaa/pb"

	"github.com/cognicore/lexstat/internal/jsonl"
	"github.com/cognicore/lexstat/pkg/lexstat"
	"github.com/cognicore/lexstat/pkg/lexstat/config"
	"github.com/cognicore/lexstat/pkg/lexstat/cooccurrence"
	"github.com/cognicore/lexstat/pkg/lexstat/logger"
	"github.com/cognicore/lexstat/pkg/lexstat/metrics"
	"github.com/cognicore/lexstat/pkg/lexstat/progress"
)

const usage = `usage: lexstat [-config file] [-metrics-addr addr] [-quiet] <command> [flags]

commands:
  load           import a JSONL corpus as a new dataset
  datasets       list stored datasets
  collocation    score adjacent word pairs
  cooccurrence   score words sharing a window
  zeta           compare two datasets with Craig's Zeta
  term-dates     count a term per year
  article-dates  count documents per year
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		slog.Error("lexstat failed", "error", err)
		os.Exit(1)
	}
}

// app carries what every subcommand needs.
type app struct {
	engine *lexstat.Engine
	out    io.Writer
	errOut io.Writer
	quiet  bool
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	global := flag.NewFlagSet("lexstat", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprint(stderr, usage) }
	var (
		configPath  = global.String("config", "", "Path to YAML config (optional)")
		metricsAddr = global.String("metrics-addr", "", "Serve Prometheus metrics on this address (optional)")
		quiet       = global.Bool("quiet", false, "Disable the progress bar")
	)
	if err := global.Parse(args); err != nil {
		return err
	}
	if global.NArg() == 0 {
		global.Usage()
		return flag.ErrHelp
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.SetupWriter(stderr, cfg.Logging.Level, cfg.Logging.Format)

	addr := cfg.Metrics.Addr
	if *metricsAddr != "" {
		addr = *metricsAddr
	}
	m := metrics.New()
	if addr != "" {
		shutdown := m.StartServer(addr)
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			shutdown(sctx)
		}()
	}

	engine, err := lexstat.Open(ctx, cfg, m)
	if err != nil {
		return fmt.Errorf("open engine: %w", err)
	}
	defer engine.Close()

	a := &app{engine: engine, out: stdout, errOut: stderr, quiet: *quiet}
	cmd, rest := global.Arg(0), global.Args()[1:]
	switch cmd {
	case "load":
		return a.load(ctx, rest)
	case "datasets":
		return a.datasets(ctx, rest)
	case "collocation":
		return a.collocation(ctx, rest)
	case "cooccurrence":
		return a.cooccurrence(ctx, rest)
	case "zeta":
		return a.zeta(ctx, rest)
	case "term-dates":
		return a.termDates(ctx, rest)
	case "article-dates":
		return a.articleDates(ctx, rest)
	}
	global.Usage()
	return fmt.Errorf("unknown command %q", cmd)
}

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

func (a *app) load(ctx context.Context, args []string) error {
	fs := a.flags("load")
	var (
		input = fs.String("input", "", "Path to JSONL file (required)")
		name  = fs.String("name", "", "Dataset name (defaults to the file name)")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" {
		return errors.New("load: -input required")
	}
	if *name == "" {
		*name = *input
	}

	docs, err := jsonl.LoadFile(*input)
	if err != nil {
		return err
	}
	id, err := a.engine.Import(ctx, *name, docs)
	if err != nil {
		return err
	}
	return a.write(map[string]any{"id": id, "name": *name, "docs": len(docs)})
}

func (a *app) datasets(ctx context.Context, args []string) error {
	if err := a.flags("datasets").Parse(args); err != nil {
		return err
	}
	infos, err := a.engine.Datasets(ctx)
	if err != nil {
		return err
	}
	type row struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Size      int       `json:"size"`
		CreatedAt time.Time `json:"created_at"`
	}
	rows := make([]row, len(infos))
	for i, info := range infos {
		rows[i] = row{ID: info.ID, Name: info.Name, Size: info.Size, CreatedAt: info.CreatedAt}
	}
	return a.write(rows)
}

func (a *app) collocation(ctx context.Context, args []string) error {
	fs := a.flags("collocation")
	var (
		dataset  = fs.String("dataset", "", "Dataset ID (required)")
		numPairs = fs.Int("num-pairs", 0, "Pairs to return (0 = configured default, -1 = all)")
		focal    = fs.String("word", "", "Only bigrams containing this word")
		scorer   = fs.String("scorer", "", "mutual_information | t_score | log_likelihood | npmi")
		stemming = fs.String("stemming", "", "none | stem | lemma")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dataset == "" {
		return errors.New("collocation: -dataset required")
	}

	report, done := a.bar()
	pairs, err := a.engine.Collocations(ctx, *dataset, lexstat.CollocationRequest{
		NumPairs:  *numPairs,
		FocalWord: *focal,
		Scorer:    *scorer,
		Stemming:  *stemming,
		Progress:  report,
	})
	done()
	if err != nil {
		return err
	}
	return a.write(pairs)
}

func (a *app) cooccurrence(ctx context.Context, args []string) error {
	fs := a.flags("cooccurrence")
	var (
		dataset  = fs.String("dataset", "", "Dataset ID (required)")
		words    = fs.String("words", "", "One word, or a comma-separated list to pair up (required)")
		numPairs = fs.Int("num-pairs", 0, "Pairs to return for a single word (0 = configured default, -1 = all)")
		window   = fs.Int("window", 0, "Window size in tokens (0 = configured default)")
		scorer   = fs.String("scorer", "", "mutual_information | t_score | log_likelihood | npmi")
		stemming = fs.String("stemming", "", "none | stem | lemma")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dataset == "" || *words == "" {
		return errors.New("cooccurrence: -dataset and -words required")
	}

	report, done := a.bar()
	pairs, err := a.engine.Cooccurrences(ctx, *dataset, lexstat.CooccurrenceRequest{
		Words:    cooccurrence.ParseWords(*words),
		NumPairs: *numPairs,
		Window:   *window,
		Scorer:   *scorer,
		Stemming: *stemming,
		Progress: report,
	})
	done()
	if err != nil {
		return err
	}
	return a.write(pairs)
}

func (a *app) zeta(ctx context.Context, args []string) error {
	fs := a.flags("zeta")
	var (
		ds1 = fs.String("dataset1", "", "First dataset ID (required)")
		ds2 = fs.String("dataset2", "", "Second dataset ID (required)")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *ds1 == "" || *ds2 == "" {
		return errors.New("zeta: -dataset1 and -dataset2 required")
	}

	report, done := a.bar()
	res, err := a.engine.CraigZeta(ctx, *ds1, *ds2, report)
	done()
	if err != nil {
		return err
	}
	return a.write(res)
}

func (a *app) termDates(ctx context.Context, args []string) error {
	fs := a.flags("term-dates")
	var (
		dataset = fs.String("dataset", "", "Dataset ID (required)")
		term    = fs.String("term", "", "Term to count (required)")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dataset == "" || *term == "" {
		return errors.New("term-dates: -dataset and -term required")
	}

	report, done := a.bar()
	series, err := a.engine.TermDates(ctx, *dataset, *term, report)
	done()
	if err != nil {
		return err
	}
	return a.write(map[string]any{"term": *term, "data": series})
}

func (a *app) articleDates(ctx context.Context, args []string) error {
	fs := a.flags("article-dates")
	var (
		dataset   = fs.String("dataset", "", "Dataset ID (required)")
		normalize = fs.Bool("normalize", false, "Divide by a reference dataset's counts")
		reference = fs.String("reference", "", "Reference dataset ID (default: every dataset)")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dataset == "" {
		return errors.New("article-dates: -dataset required")
	}

	report, done := a.bar()
	series, err := a.engine.ArticleDates(ctx, *dataset, lexstat.ArticleDatesRequest{
		Normalize:   *normalize,
		ReferenceID: *reference,
		Progress:    report,
	})
	done()
	if err != nil {
		return err
	}
	return a.write(map[string]any{"percent": *normalize, "data": series})
}

// bar returns a progress callback drawing to stderr and a function that
// finishes the bar.
func (a *app) bar() (progress.Func, func()) {
	if a.quiet {
		return nil, func() {}
	}
	bar := pb.New(100)
	bar.Output = a.errOut
	bar.ShowSpeed = false
	bar.ShowCounters = false
	bar.Start()
	return func(p int) { bar.Set(p) }, bar.Finish
}

func (a *app) write(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
