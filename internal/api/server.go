package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/cpdgen/internal/config"
	"github.com/dgallion1/cpdgen/internal/pipeline"
)

// Server serves the documentation produced by the latest completed run.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleDocument("html"))
	r.Get("/document.html", s.handleDocument("html"))
	r.Get("/document.docx", s.handleDocument("docx"))
	r.Get("/document.typ", s.handleDocument("typst"))
	r.Get("/figures/{file}", s.handleFigure)
	r.Get("/api/runs/latest", s.handleLatestRun)
	r.Get("/api/runs/{runID}", s.handleRun)

	// Reloading is only exposed when a key is configured.
	if s.cfg.APIKey != "" {
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
			r.Post("/api/reload", s.handleReload)
		})
	}

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"status":      "ok",
		"queue_depth": s.orchestrator.QueueDepth(),
	}
	if latest := s.orchestrator.Latest(); latest != nil {
		body["latest_run"] = latest.ID
	}
	writeJSON(w, http.StatusOK, body)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
