package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// resetFlags restores the global flags and pins the environment so a test
// does not see settings left by another test or the shell.
func resetFlags(t *testing.T) {
	t.Helper()
	verbose = false
	format = ""
	title = ""
	subtitle = ""
	generateOutput = ""
	generateFigures = ""
	checkStrict = false
	for _, key := range []string{"CPDGEN_FORMAT", "CPDGEN_TITLE", "CPDGEN_SUBTITLE", "CPDGEN_INPUT", "CPDGEN_API_KEY", "CPDGEN_LOG_JSON"} {
		t.Setenv(key, "")
	}
	t.Setenv("CPDGEN_LOG_LEVEL", "error")
}

func testdataPath(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join("testdata", name)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("test file not found: %s", path)
	}
	return path
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}
