package config

import (
	"testing"

	"github.com/cognicore/lexstat/pkg/lexstat/ingest"
)

func TestLoaderComponents(t *testing.T) {
	cfg := Default()
	cfg.Analysis.Stemming = "lemma"
	cfg.Analysis.Scorer = "npmi"
	cfg.Lexicon.Path = writeFile(t, "lemmas.yaml", `lemmas:
  - lemma: mouse
    forms: [mice]
`)
	cfg.Stoplist.Path = writeFile(t, "stop.yaml", `terms: [ibid]`)
	cfg.Stoplist.Language = "en"

	comp, err := (&Loader{Config: cfg}).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if comp.Stemming != ingest.StemLemma {
		t.Errorf("expected lemma stemming, got %v", comp.Stemming)
	}
	if comp.Lexicon == nil || comp.Lexicon.Lemma("mice") != "mouse" {
		t.Error("lexicon not loaded")
	}
	if !comp.StopList.IsStopword("ibid") || !comp.StopList.IsStopword("the") {
		t.Error("stop list should combine file terms and the bundled list")
	}
	if comp.Scorer.Name() != "npmi" {
		t.Errorf("expected npmi scorer, got %s", comp.Scorer.Name())
	}

	opts := comp.WordList(2)
	if opts.NgramSize != 2 || opts.Lexicon != comp.Lexicon || opts.Stemming != ingest.StemLemma {
		t.Errorf("unexpected word list options: %+v", opts)
	}
}

func TestLoaderDefaults(t *testing.T) {
	comp, err := (&Loader{}).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if comp.Lexicon != nil {
		t.Error("no lexicon configured")
	}
	if comp.StopList.IsStopword("the") {
		t.Error("empty stop list expected")
	}
	if comp.Scorer.Name() != "log_likelihood" {
		t.Errorf("expected log_likelihood, got %s", comp.Scorer.Name())
	}
}

func TestLoaderMissingFiles(t *testing.T) {
	cfg := Default()
	cfg.Lexicon.Path = "/nonexistent/lemmas.yaml"
	if _, err := (&Loader{Config: cfg}).Load(); err == nil {
		t.Error("expected error for missing lexicon")
	}

	cfg = Default()
	cfg.Stoplist.Path = "/nonexistent/stop.yaml"
	if _, err := (&Loader{Config: cfg}).Load(); err == nil {
		t.Error("expected error for missing stoplist")
	}
}
