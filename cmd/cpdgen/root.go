package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/cpdgen/internal/config"
)

var (
	// Global flags
	verbose  bool
	format   string
	title    string
	subtitle string
)

var rootCmd = &cobra.Command{
	Use:   "cpdgen",
	Short: "Generate documentation for radio codeplug schemas",
	Long: `cpdgen reads a codeplug schema (XML or YAML) or a catalog of radio
models and renders a numbered, cross-referenced document describing the
memory layout as HTML, DOCX or Typst.

Settings are read from CPDGEN_* environment variables; flags override them.`,
	Version:      "0.1.0",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().
		StringVarP(&format, "format", "f", "", "Output format: html, docx or typst (default $CPDGEN_FORMAT or html)")
	rootCmd.PersistentFlags().StringVar(&title, "title", "", "Document title for catalogs")
	rootCmd.PersistentFlags().StringVar(&subtitle, "subtitle", "", "Document subtitle")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the environment and applies the global flags on top.
func loadConfig() (config.Config, error) {
	cfg := config.Load()
	if format != "" {
		cfg.Format = strings.ToLower(format)
	}
	if title != "" {
		cfg.Title = title
	}
	if subtitle != "" {
		cfg.Subtitle = subtitle
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
