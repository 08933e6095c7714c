package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckCommand(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		strict      bool
		wantErr     bool
		wantContain []string
	}{
		{
			name:  "clean codeplug",
			input: "clean.xml",
			wantContain: []string{
				"1 codeplug(s) checked, 0 finding(s)",
			},
		},
		{
			name:  "unfinished codeplug",
			input: "radio.yaml",
			wantContain: []string{
				"radio.yaml: needs-review: Radio/Settings/Volume",
				"radio.yaml: warning: Radio/Settings/<integer>",
				"radio.yaml: incomplete: Radio/Settings/Power",
				"Power/<enum item> = 1 has no name",
				"1 codeplug(s) checked, 4 finding(s)",
			},
		},
		{
			name:    "strict fails on findings",
			input:   "radio.yaml",
			strict:  true,
			wantErr: true,
		},
		{
			name:   "strict passes clean input",
			input:  "clean.xml",
			strict: true,
		},
		{
			name:  "catalog",
			input: "catalog.xml",
			wantContain: []string{
				"RD-5R 1.0: needs-review: Radio/Settings/Volume",
				"2 codeplug(s) checked, 4 finding(s)",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(t)
			checkStrict = tt.strict

			var out bytes.Buffer
			err := runCheck(&out, []string{testdataPath(t, tt.input)})
			if (err != nil) != tt.wantErr {
				t.Fatalf("runCheck() error = %v, wantErr %v\nOutput: %s", err, tt.wantErr, out.String())
			}
			assertContains(t, out.String(), tt.wantContain)
		})
	}
}

func TestCheckReportsPosition(t *testing.T) {
	resetFlags(t)
	path := filepath.Join(t.TempDir(), "bad.xml")
	input := "<codeplug>\n  <element at=\"0h\">\n    <repeat/>\n  </element>\n</codeplug>\n"
	if err := os.WriteFile(path, []byte(input), 0o644); err != nil {
		t.Fatal(err)
	}
	err := runCheck(&bytes.Buffer{}, []string{path})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "bad.xml:3:") {
		t.Errorf("error = %v", err)
	}
}
