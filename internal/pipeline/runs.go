package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/cpdgen/internal/doctree"
)

// RunStatus represents the state of a documentation run.
type RunStatus string

const (
	StatusQueued     RunStatus = "queued"
	StatusLoading    RunStatus = "loading"
	StatusBuilding   RunStatus = "building"
	StatusGenerating RunStatus = "generating"
	StatusIndexing   RunStatus = "indexing"
	StatusRendering  RunStatus = "rendering"
	StatusCompleted  RunStatus = "completed"
	StatusFailed     RunStatus = "failed"
)

// Run tracks one load → build → generate → index → render pass over an input.
type Run struct {
	mu sync.Mutex

	ID     string `json:"run_id"`
	Input  string `json:"input"`
	Format string `json:"format"`

	Status RunStatus `json:"status"`
	Phase  string    `json:"phase"`

	Stats Stats `json:"stats"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	doc    *doctree.Document
	output []byte
	errors []string
}

// Stats counts what a run produced.
type Stats struct {
	Models     int      `json:"models"`
	Codeplugs  int      `json:"codeplugs"`
	Patterns   int      `json:"patterns"`
	Sections   int      `json:"sections"`
	Paragraphs int      `json:"paragraphs"`
	Tables     int      `json:"tables"`
	Figures    int      `json:"figures"`
	Bytes      int      `json:"bytes"`
	Errors     []string `json:"errors"`
}

// NewRun creates a queued run with a fresh id.
func NewRun(input, format string) *Run {
	now := time.Now()
	return &Run{
		ID:        uuid.NewString(),
		Input:     input,
		Format:    format,
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// RunStore is a thread-safe in-memory run registry with TTL eviction.
type RunStore struct {
	mu   sync.Mutex
	runs map[string]*Run
	ttl  time.Duration
}

func NewRunStore(ttl time.Duration) *RunStore {
	return &RunStore{
		runs: make(map[string]*Run),
		ttl:  ttl,
	}
}

func (s *RunStore) Put(run *Run) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
}

func (s *RunStore) Get(id string) *Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs[id]
}

// Latest returns the most recently created completed run, or nil.
func (s *RunStore) Latest() *Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *Run
	for _, run := range s.runs {
		if run.Snapshot().Status != StatusCompleted {
			continue
		}
		if latest == nil || run.CreatedAt.After(latest.CreatedAt) {
			latest = run
		}
	}
	return latest
}

// Cleanup removes expired runs. The latest completed run is kept so a
// server always has something to serve.
func (s *RunStore) Cleanup() {
	keep := s.Latest()
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, run := range s.runs {
		if run != keep && now.Sub(run.updated()) > s.ttl {
			delete(s.runs, id)
		}
	}
}

func (r *Run) updated() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.UpdatedAt
}

// SetStatus updates run status atomically.
func (r *Run) SetStatus(status RunStatus, phase string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Status = status
	r.Phase = phase
	r.UpdatedAt = time.Now()
}

// AddError records an error.
func (r *Run) AddError(err string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, err)
	r.Stats.Errors = r.errors
	r.UpdatedAt = time.Now()
}

// SetContentHash records the hash of the input bytes.
func (r *Run) SetContentHash(hash string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ContentHash = hash
	r.UpdatedAt = time.Now()
}

// Count updates the statistics under the run's lock.
func (r *Run) Count(fn func(*Stats)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(&r.Stats)
	r.UpdatedAt = time.Now()
}

// SetResult stores the indexed document and its rendering.
func (r *Run) SetResult(doc *doctree.Document, output []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.doc = doc
	r.output = output
	r.Stats.Bytes = len(output)
	r.UpdatedAt = time.Now()
}

// Document returns the indexed document, or nil before rendering.
func (r *Run) Document() *doctree.Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.doc
}

// Output returns the rendered document.
func (r *Run) Output() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.output
}

// RunSnapshot is a read-only, JSON-safe copy of run state.
type RunSnapshot struct {
	ID          string    `json:"run_id"`
	Input       string    `json:"input"`
	Format      string    `json:"format"`
	Status      RunStatus `json:"status"`
	Phase       string    `json:"phase"`
	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Stats       Stats     `json:"stats"`
}

// Snapshot returns a JSON-safe copy of the run state.
func (r *Run) Snapshot() RunSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := r.Stats
	stats.Errors = append([]string{}, r.errors...)
	return RunSnapshot{
		ID:          r.ID,
		Input:       r.Input,
		Format:      r.Format,
		Status:      r.Status,
		Phase:       r.Phase,
		ContentHash: r.ContentHash,
		CreatedAt:   r.CreatedAt,
		Stats:       stats,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
