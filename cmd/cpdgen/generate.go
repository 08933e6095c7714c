package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dgallion1/cpdgen/internal/doctree"
	"github.com/dgallion1/cpdgen/internal/pipeline"
	"github.com/dgallion1/cpdgen/internal/render"
)

var (
	generateOutput  string
	generateFigures string
)

func init() {
	cmd := newGenerateCmd()
	cmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().
		StringVar(&generateFigures, "figures", "", "Directory for Typst figure SVGs (default: next to --output)")
	rootCmd.AddCommand(cmd)
}

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <schema|catalog>",
		Short: "Generate documentation for a codeplug or catalog",
		Long: `The generate command builds the schema, generates the document and
renders it in the selected format. Typst output references each memory
diagram as <id>.svg; those files are written next to the output file.

Example:
  cpdgen generate radio.xml > radio.html
  cpdgen generate catalog.xml --format docx -o radios.docx
  cpdgen generate radio.yaml --format typst -o doc/radio.typ`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), cmd.OutOrStdout(), args)
		},
	}
	return cmd
}

func runGenerate(ctx context.Context, stdout io.Writer, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	toStdout := generateOutput == "" || generateOutput == "-"
	if toStdout && cfg.Format == "docx" {
		return fmt.Errorf("docx output needs --output")
	}
	log := cfg.NewLogger()

	run := pipeline.NewRun(args[0], cfg.Format)
	worker := pipeline.NewWorker(pipeline.Options{Title: cfg.Title, Subtitle: cfg.Subtitle}, log)
	if err := worker.Process(ctx, run); err != nil {
		return fmt.Errorf("generate %s: %w", args[0], err)
	}

	if toStdout {
		if _, err := stdout.Write(run.Output()); err != nil {
			return err
		}
	} else if err := os.WriteFile(generateOutput, run.Output(), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if render.Extension(cfg.Format) == ".typ" {
		dir := generateFigures
		if dir == "" && !toStdout {
			dir = filepath.Dir(generateOutput)
		}
		if dir == "" {
			log.Warn("figures not written, use --figures or --output")
		} else if err := writeFigures(dir, run.Document()); err != nil {
			return err
		}
	}

	stats := run.Snapshot().Stats
	log.Info("documentation generated",
		"sections", stats.Sections, "tables", stats.Tables, "figures", stats.Figures, "bytes", stats.Bytes)
	return nil
}

// writeFigures writes every figure of doc as an SVG file into dir.
func writeFigures(dir string, doc *doctree.Document) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create figure directory: %w", err)
	}
	for _, f := range render.Figures(doc) {
		out, err := os.Create(filepath.Join(dir, render.FigureFile(f)))
		if err != nil {
			return fmt.Errorf("failed to create figure: %w", err)
		}
		err = render.WriteSVG(out, f.Diagram)
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("figure %s: %w", f.ID, err)
		}
	}
	return nil
}
