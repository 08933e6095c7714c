package api

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/cpdgen/internal/doctree"
	"github.com/dgallion1/cpdgen/internal/render"
)

// latestDocument returns the document of the newest completed run, writing
// a 503 when there is none yet.
func (s *Server) latestDocument(w http.ResponseWriter) *doctree.Document {
	run := s.orchestrator.Latest()
	if run == nil || run.Document() == nil {
		jsonError(w, "no documentation generated yet", http.StatusServiceUnavailable)
		return nil
	}
	return run.Document()
}

// handleDocument renders the latest document in format. Documents are
// rendered per request so every format is served from the same run.
func (s *Server) handleDocument(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc := s.latestDocument(w)
		if doc == nil {
			return
		}
		renderer, err := render.ForFormat(format)
		if err != nil {
			jsonError(w, err.Error(), http.StatusNotFound)
			return
		}
		var buf bytes.Buffer
		if err := renderer.Render(&buf, doc); err != nil {
			s.log.Error("render failed", "format", format, "error", err)
			jsonError(w, "render failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", render.ContentType(format))
		if format != "html" {
			w.Header().Set("Content-Disposition", `attachment; filename="document`+render.Extension(format)+`"`)
		}
		w.Write(buf.Bytes())
	}
}

func (s *Server) handleFigure(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	if !strings.HasSuffix(file, ".svg") {
		jsonError(w, "figure not found", http.StatusNotFound)
		return
	}
	doc := s.latestDocument(w)
	if doc == nil {
		return
	}
	for _, f := range render.Figures(doc) {
		if render.FigureFile(f) != file {
			continue
		}
		var buf bytes.Buffer
		if err := render.WriteSVG(&buf, f.Diagram); err != nil {
			s.log.Error("svg failed", "figure", f.ID, "error", err)
			jsonError(w, "render failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write(buf.Bytes())
		return
	}
	jsonError(w, "figure not found", http.StatusNotFound)
}
