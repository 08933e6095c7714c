package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/cpdgen/internal/catalog"
	"github.com/dgallion1/cpdgen/internal/docgen"
	"github.com/dgallion1/cpdgen/internal/doctree"
	"github.com/dgallion1/cpdgen/internal/indexer"
	"github.com/dgallion1/cpdgen/internal/render"
	"github.com/dgallion1/cpdgen/internal/schema"
	"github.com/dgallion1/cpdgen/internal/source"
)

// Options are the document settings shared by all runs of a worker.
type Options struct {
	Title    string // catalog documents only; codeplug documents take the codeplug's name
	Subtitle string
}

// Worker processes a single documentation run.
type Worker struct {
	log  *slog.Logger
	opts Options
}

func NewWorker(opts Options, log *slog.Logger) *Worker {
	return &Worker{log: log, opts: opts}
}

// Process runs the full pipeline for a run. The outcome is recorded on the
// run; the returned error is the one that failed it.
func (w *Worker) Process(ctx context.Context, run *Run) error {
	log := w.log.With("run_id", run.ID, "input", run.Input)

	fail := func(phase string, err error) error {
		log.Error(phase+" failed", "error", err)
		run.AddError(fmt.Sprintf("%s: %s", phase, err))
		run.SetStatus(StatusFailed, phase)
		return err
	}

	// Phase 1: Load
	run.SetStatus(StatusLoading, "loading")
	renderer, err := render.ForFormat(run.Format)
	if err != nil {
		return fail("loading", err)
	}
	data, err := os.ReadFile(run.Input)
	if err != nil {
		return fail("loading", err)
	}
	hash := ContentHashHex(data)
	run.SetContentHash(hash)
	log.Debug("input loaded", "bytes", len(data), "content_hash", hash)
	if err := ctx.Err(); err != nil {
		return fail("loading", err)
	}

	// Phase 2: Build
	run.SetStatus(StatusBuilding, "building")
	var cat *catalog.Catalog
	var cp *schema.Codeplug
	isCatalog, err := w.isCatalog(run.Input)
	if err != nil {
		return fail("building", err)
	}
	if isCatalog {
		cat, err = catalog.Load(bytes.NewReader(data), filepath.Dir(run.Input), log)
		if err != nil {
			return fail("building", err)
		}
		w.countCatalog(run, cat)
		log.Info("catalog built", "models", run.Snapshot().Stats.Models)
	} else {
		p, err := source.ForFile(run.Input)
		if err != nil {
			return fail("building", err)
		}
		cp, err = p.Parse(bytes.NewReader(data), run.Input)
		if err != nil {
			return fail("building", err)
		}
		run.Count(func(s *Stats) {
			s.Codeplugs = 1
			s.Patterns = countPatterns(cp)
		})
		log.Info("codeplug built", "name", cp.Meta().Name, "items", len(cp.Items()))
	}
	if err := ctx.Err(); err != nil {
		return fail("building", err)
	}

	// Phase 3: Generate
	run.SetStatus(StatusGenerating, "generating")
	var doc *doctree.Document
	if cat != nil {
		doc, err = docgen.GenerateCatalog(cat, w.opts.Title, w.opts.Subtitle)
	} else {
		doc, err = docgen.Generate(cp)
		if doc != nil && w.opts.Subtitle != "" {
			doc.Subtitle = w.opts.Subtitle
		}
	}
	if err != nil {
		return fail("generating", err)
	}

	// Phase 4: Index
	run.SetStatus(StatusIndexing, "indexing")
	indexer.Index(doc)
	run.Count(func(s *Stats) { countSegments(s, doc) })
	snap := run.Snapshot().Stats
	log.Info("document indexed",
		"sections", snap.Sections, "paragraphs", snap.Paragraphs,
		"tables", snap.Tables, "figures", snap.Figures)

	// Phase 5: Render
	run.SetStatus(StatusRendering, "rendering")
	var out bytes.Buffer
	if err := renderer.Render(&out, doc); err != nil {
		return fail("rendering", err)
	}
	run.SetResult(doc, out.Bytes())
	log.Info("document rendered", "format", run.Format, "bytes", out.Len())

	run.SetStatus(StatusCompleted, "done")
	return nil
}

// isCatalog decides between a catalog and a single codeplug schema. Only
// XML files can be catalogs.
func (w *Worker) isCatalog(path string) (bool, error) {
	if !strings.EqualFold(filepath.Ext(path), ".xml") {
		return false, nil
	}
	return catalog.IsCatalog(path)
}

func (w *Worker) countCatalog(run *Run, cat *catalog.Catalog) {
	run.Count(func(s *Stats) {
		s.Models = len(cat.Models)
		for _, m := range cat.Models {
			for _, fw := range m.Firmware {
				s.Codeplugs++
				s.Patterns += countPatterns(fw.Codeplug)
			}
		}
	})
}

func countPatterns(cp *schema.Codeplug) int {
	n := 0
	_ = cp.Walk(func(schema.Pattern, int) error {
		n++
		return nil
	})
	return n
}

func countSegments(s *Stats, doc *doctree.Document) {
	s.Sections, s.Paragraphs, s.Tables, s.Figures = 0, 0, 0, 0
	_ = doc.Walk(func(seg doctree.Segment) error {
		switch seg.Kind() {
		case doctree.KindSection:
			s.Sections++
		case doctree.KindParagraph:
			s.Paragraphs++
		case doctree.KindTable:
			s.Tables++
		case doctree.KindFigure:
			s.Figures++
		}
		return nil
	})
}
