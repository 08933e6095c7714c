package main

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/cpdgen/internal/catalog"
	"github.com/dgallion1/cpdgen/internal/schema"
	"github.com/dgallion1/cpdgen/internal/source"
)

var checkStrict bool

func init() {
	cmd := newCheckCmd()
	cmd.Flags().BoolVar(&checkStrict, "strict", false, "Fail when any finding is reported")
	rootCmd.AddCommand(cmd)
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <schema|catalog>",
		Short: "Build a schema and report unfinished nodes",
		Long: `The check command builds every codeplug of the input and lists nodes
without a name and nodes marked needs-review or incomplete. Structural
errors are reported with their file position.

Example:
  cpdgen check radio.xml
  cpdgen check catalog.xml --strict`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.OutOrStdout(), args)
		},
	}
	return cmd
}

// checked is one codeplug of the input, labelled for the report.
type checked struct {
	label    string
	codeplug *schema.Codeplug
}

func runCheck(stdout io.Writer, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	plugs, err := loadForCheck(args[0], cfg.NewLogger())
	if err != nil {
		return err
	}

	findings := 0
	for _, p := range plugs {
		n, err := checkCodeplug(stdout, p.label, p.codeplug)
		if err != nil {
			return err
		}
		findings += n
	}
	fmt.Fprintf(stdout, "%d codeplug(s) checked, %d finding(s)\n", len(plugs), findings)
	if checkStrict && findings > 0 {
		return fmt.Errorf("%d finding(s) in %s", findings, args[0])
	}
	return nil
}

func loadForCheck(path string, log *slog.Logger) ([]checked, error) {
	if strings.EqualFold(filepath.Ext(path), ".xml") {
		isCatalog, err := catalog.IsCatalog(path)
		if err != nil {
			return nil, err
		}
		if isCatalog {
			cat, err := catalog.LoadFile(path, log)
			if err != nil {
				return nil, err
			}
			var plugs []checked
			for _, m := range cat.Models {
				for _, fw := range m.Firmware {
					plugs = append(plugs, checked{label: m.Name + " " + fw.Name, codeplug: fw.Codeplug})
				}
			}
			return plugs, nil
		}
	}
	cp, err := source.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return []checked{{label: filepath.Base(path), codeplug: cp}}, nil
}

// checkCodeplug prints one line per finding and returns how many there were.
func checkCodeplug(w io.Writer, label string, cp *schema.Codeplug) (int, error) {
	findings := 0
	report := func(path []string, d schema.Described, at string) {
		m := d.Meta()
		where := strings.Join(path, "/") + at
		if m.Name == "" && !isFiller(d) {
			fmt.Fprintf(w, "%s: warning: %s has no name\n", label, where)
			findings++
		}
		if m.Status == schema.StatusNeedsReview || m.Status == schema.StatusIncomplete {
			fmt.Fprintf(w, "%s: %s: %s\n", label, m.Status, where)
			findings++
		}
	}

	root := []string{nodeLabel(cp)}
	report(root, cp, "")

	path := root
	err := cp.Walk(func(p schema.Pattern, depth int) error {
		path = append(path[:depth+1], nodeLabel(p))
		at := ""
		if a, ok := p.Address(); ok {
			at = " at " + a.String()
		}
		report(path, p, at)
		if e, ok := p.(*schema.EnumField); ok {
			for _, item := range e.Items() {
				report(append(path, nodeLabel(item)), item, fmt.Sprintf(" = %d", item.Value))
			}
		}
		return nil
	})
	return findings, err
}

// isFiller reports nodes that need no name: padding and undecoded bytes.
func isFiller(d schema.Described) bool {
	switch d.(type) {
	case *schema.UnusedField, *schema.UnknownField:
		return true
	}
	return false
}

// nodeLabel names a node in a report path, falling back to its kind.
func nodeLabel(d schema.Described) string {
	if name := d.Meta().Name; name != "" {
		return name
	}
	return "<" + schema.Describe(d) + ">"
}
