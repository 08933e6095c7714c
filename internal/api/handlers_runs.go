package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/cpdgen/internal/pipeline"
	"github.com/dgallion1/cpdgen/internal/render"
)

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	run := s.orchestrator.GetRun(chi.URLParam(r, "runID"))
	if run == nil {
		jsonError(w, "run not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, run.Snapshot())
}

func (s *Server) handleLatestRun(w http.ResponseWriter, r *http.Request) {
	run := s.orchestrator.Latest()
	if run == nil {
		jsonError(w, "no completed run", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, run.Snapshot())
}

// handleReload queues a new run over the configured input. The previous
// document keeps being served until the new run completes.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Input == "" {
		jsonError(w, "no input configured", http.StatusBadRequest)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = s.cfg.Format
	}
	if _, err := render.ForFormat(format); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	run := pipeline.NewRun(s.cfg.Input, format)
	if err := s.orchestrator.Submit(run); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	s.log.Info("reload requested", "run_id", run.ID, "request_id", middleware.GetReqID(r.Context()))
	writeJSON(w, http.StatusAccepted, map[string]any{
		"run_id":   run.ID,
		"status":   pipeline.StatusQueued,
		"poll_url": "/api/runs/" + run.ID,
	})
}
