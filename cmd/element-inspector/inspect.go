// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/element-inspector/internal/document"
	"github.com/pdiddy/element-inspector/internal/rules"
	"github.com/pdiddy/element-inspector/pkg/inspect"
	"github.com/pdiddy/element-inspector/pkg/types"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <document>",
	Short: "Extract records from an element document",
	Long: `Inspect loads an element document (a file path, an http(s) URL, or "-"
for stdin), walks its tree with the configured rules, and prints the
extracted records in traversal order.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	records, err := extractRecords(cmd, args[0])
	if err != nil {
		return err
	}
	return writeRecords(cmd.OutOrStdout(), records, format)
}

// extractRecords loads source and runs the configured rules over it.
func extractRecords(cmd *cobra.Command, source string) ([]types.Record, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	set, err := loadRules(cfg.InspectConfig)
	if err != nil {
		return nil, err
	}

	doc, err := document.Open(cmd.Context(), source, cfg.HTTP)
	if err != nil {
		return nil, err
	}

	opts := set.Options(cfg.MaxDepth)
	opts.Logger = log.WithField("document", doc.Source)
	records := inspect.InspectWith(doc.Root, opts)
	log.WithField("document", doc.Source).Debugf("extracted %d records", len(records))
	return records, nil
}

func loadRules(cfg types.InspectConfig) (*rules.Set, error) {
	if cfg.RulesFile == "" {
		return rules.ButtonRules("Button"), nil
	}
	return rules.Load(cfg.RulesFile)
}

func writeRecords(w io.Writer, records []types.Record, format string) error {
	switch format {
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(records)
	default:
		return fmt.Errorf("unsupported format %q: use json or yaml", format)
	}
}

func init() {
	inspectCmd.Flags().String("format", "json", "output format: json or yaml")

	rootCmd.AddCommand(inspectCmd)
}
