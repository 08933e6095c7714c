package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerateCommand(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		format      string
		title       string
		wantErr     bool
		wantContain []string
	}{
		{
			name:        "codeplug as html",
			input:       "clean.xml",
			wantContain: []string{"<!DOCTYPE html>", "Codeplug Clean", "<svg"},
		},
		{
			name:        "yaml codeplug as typst",
			input:       "radio.yaml",
			format:      "typst",
			wantContain: []string{"#outline()", "= Codeplug Radio <sec1>"},
		},
		{
			name:        "catalog with title",
			input:       "catalog.xml",
			title:       "Radios",
			wantContain: []string{"<title>Radios</title>", "RD-5R"},
		},
		{
			name:    "docx needs an output file",
			input:   "clean.xml",
			format:  "docx",
			wantErr: true,
		},
		{
			name:    "unknown format",
			input:   "clean.xml",
			format:  "pdf",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(t)
			format = tt.format
			title = tt.title

			var out bytes.Buffer
			err := runGenerate(context.Background(), &out, []string{testdataPath(t, tt.input)})
			if (err != nil) != tt.wantErr {
				t.Fatalf("runGenerate() error = %v, wantErr %v", err, tt.wantErr)
			}
			assertContains(t, out.String(), tt.wantContain)
		})
	}
}

func TestGenerateMissingInput(t *testing.T) {
	resetFlags(t)
	var out bytes.Buffer
	if err := runGenerate(context.Background(), &out, []string{filepath.Join(t.TempDir(), "none.xml")}); err == nil {
		t.Fatal("expected error")
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestGenerateTypstWritesFigures(t *testing.T) {
	resetFlags(t)
	format = "typst"
	dir := filepath.Join(t.TempDir(), "doc")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	generateOutput = filepath.Join(dir, "clean.typ")

	if err := runGenerate(context.Background(), &bytes.Buffer{}, []string{testdataPath(t, "clean.xml")}); err != nil {
		t.Fatalf("runGenerate: %v", err)
	}

	doc, err := os.ReadFile(generateOutput)
	if err != nil {
		t.Fatal(err)
	}
	svgs, _ := filepath.Glob(filepath.Join(dir, "*.svg"))
	if len(svgs) == 0 {
		t.Fatal("no figure files written")
	}
	for _, svg := range svgs {
		ref := `image("` + filepath.Base(svg) + `")`
		if !strings.Contains(string(doc), ref) {
			t.Errorf("document does not reference %s", ref)
		}
	}
}

func TestGenerateDOCXFile(t *testing.T) {
	resetFlags(t)
	format = "docx"
	generateOutput = filepath.Join(t.TempDir(), "clean.docx")

	if err := runGenerate(context.Background(), &bytes.Buffer{}, []string{testdataPath(t, "clean.xml")}); err != nil {
		t.Fatalf("runGenerate: %v", err)
	}
	data, err := os.ReadFile(generateOutput)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("PK")) {
		t.Errorf("output is not a zip archive: %.8q", data)
	}
}
