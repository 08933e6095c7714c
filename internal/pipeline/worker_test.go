package pipeline

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/cpdgen/internal/config"
)

const radioXML = `<codeplug>
  <meta><name>Radio</name></meta>
  <element at="0h">
    <meta><name>Settings</name></meta>
    <int width="1h"><meta><name>Volume</name></meta></int>
    <enum width="1h">
      <meta><name>Power</name></meta>
      <item value="0"><meta><name>Low</name></meta></item>
      <item value="1"><meta><name>High</name></meta></item>
    </enum>
  </element>
</codeplug>
`

const catalogXML = `<catalog>
  <model>
    <name>RD-5R</name>
    <firmware name="1.0" released="2020-01-01" codeplug="radio.xml"/>
  </model>
</catalog>
`

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWorkerProcessCodeplug(t *testing.T) {
	input := writeInput(t, "radio.xml", radioXML)
	w := NewWorker(Options{Subtitle: "Memory layout"}, quietLogger())

	run := NewRun(input, "html")
	if err := w.Process(context.Background(), run); err != nil {
		t.Fatalf("Process: %v", err)
	}

	snap := run.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("status = %s, errors = %v", snap.Status, snap.Stats.Errors)
	}
	if snap.ContentHash != ContentHashHex([]byte(radioXML)) {
		t.Errorf("content hash = %s", snap.ContentHash)
	}
	if snap.Stats.Codeplugs != 1 || snap.Stats.Patterns != 3 {
		t.Errorf("stats = %+v", snap.Stats)
	}
	if snap.Stats.Figures != 1 || snap.Stats.Tables != 2 {
		t.Errorf("figures = %d, tables = %d", snap.Stats.Figures, snap.Stats.Tables)
	}

	doc := run.Document()
	if doc == nil || !doc.Indexed() {
		t.Fatal("expected an indexed document")
	}
	if doc.Title != "Codeplug Radio" || doc.Subtitle != "Memory layout" {
		t.Errorf("title = %q, subtitle = %q", doc.Title, doc.Subtitle)
	}
	out := string(run.Output())
	if !strings.Contains(out, "<svg") || !strings.Contains(out, "Volume") {
		t.Error("rendered html is missing the diagram or a field")
	}
}

func TestWorkerProcessCatalog(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{"catalog.xml": catalogXML, "radio.xml": radioXML} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	w := NewWorker(Options{Title: "Radios"}, quietLogger())

	run := NewRun(filepath.Join(dir, "catalog.xml"), "typst")
	if err := w.Process(context.Background(), run); err != nil {
		t.Fatalf("Process: %v", err)
	}
	snap := run.Snapshot()
	if snap.Stats.Models != 1 || snap.Stats.Codeplugs != 1 {
		t.Errorf("stats = %+v", snap.Stats)
	}
	if run.Document().Title != "Radios" {
		t.Errorf("title = %q", run.Document().Title)
	}
	if !strings.Contains(string(run.Output()), "= RD-5R <sec1>") {
		t.Errorf("typst output missing model heading:\n%s", run.Output())
	}
}

func TestWorkerProcessFailures(t *testing.T) {
	tests := []struct {
		name   string
		input  func(t *testing.T) string
		format string
		phase  string
	}{
		{"bad format", func(t *testing.T) string { return writeInput(t, "radio.xml", radioXML) }, "pdf", "loading"},
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "gone.xml") }, "html", "loading"},
		{"unsupported extension", func(t *testing.T) string { return writeInput(t, "radio.json", "{}") }, "html", "building"},
		{"structural error", func(t *testing.T) string {
			return writeInput(t, "radio.xml", `<codeplug><element at="0h"><repeat min="1"/></element></codeplug>`)
		}, "html", "building"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := NewRun(tt.input(t), tt.format)
			err := NewWorker(Options{}, quietLogger()).Process(context.Background(), run)
			if err == nil {
				t.Fatal("expected error")
			}
			snap := run.Snapshot()
			if snap.Status != StatusFailed || snap.Phase != tt.phase {
				t.Errorf("status = %s/%s, want failed/%s", snap.Status, snap.Phase, tt.phase)
			}
			if len(snap.Stats.Errors) != 1 || !strings.HasPrefix(snap.Stats.Errors[0], tt.phase+": ") {
				t.Errorf("errors = %v", snap.Stats.Errors)
			}
		})
	}
}

func TestWorkerProcessCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	run := NewRun(writeInput(t, "radio.xml", radioXML), "html")
	if err := NewWorker(Options{}, quietLogger()).Process(ctx, run); err == nil {
		t.Fatal("expected cancellation error")
	}
	if run.Snapshot().Status != StatusFailed {
		t.Errorf("status = %s", run.Snapshot().Status)
	}
}

func waitFor(t *testing.T, run *Run) RunSnapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		snap := run.Snapshot()
		if snap.Status == StatusCompleted || snap.Status == StatusFailed {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("run %s did not finish", run.ID)
	return RunSnapshot{}
}

func TestOrchestrator(t *testing.T) {
	cfg := config.Config{MaxQueueSize: 2, RunTTL: time.Hour, Title: "Radios"}
	o := NewOrchestrator(cfg, quietLogger())
	o.Start(context.Background())
	defer o.Stop()

	input := writeInput(t, "radio.xml", radioXML)
	first := NewRun(input, "html")
	if err := o.Submit(first); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if snap := waitFor(t, first); snap.Status != StatusCompleted {
		t.Fatalf("first run %s: %v", snap.Status, snap.Stats.Errors)
	}

	second := NewRun(input, "docx")
	if err := o.Submit(second); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	waitFor(t, second)

	if o.GetRun(first.ID) != first {
		t.Error("GetRun did not return the submitted run")
	}
	if o.Latest() != second {
		t.Error("Latest should be the newest completed run")
	}
}

func TestOrchestratorQueueFull(t *testing.T) {
	cfg := config.Config{MaxQueueSize: 1, RunTTL: time.Hour}
	o := NewOrchestrator(cfg, quietLogger())
	// Not started: nothing drains the queue.

	input := writeInput(t, "radio.xml", radioXML)
	if err := o.Submit(NewRun(input, "html")); err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	overflow := NewRun(input, "html")
	if err := o.Submit(overflow); err == nil {
		t.Fatal("expected queue full error")
	}
	if snap := overflow.Snapshot(); snap.Status != StatusFailed || snap.Phase != "queue_full" {
		t.Errorf("overflow run = %s/%s", snap.Status, snap.Phase)
	}
	if o.QueueDepth() != 1 {
		t.Errorf("queue depth = %d, want 1", o.QueueDepth())
	}
}
