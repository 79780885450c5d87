// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/element-inspector/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Index extracted records across documents (ingest, search, export)",
	Long: `Catalog manages a local SQLite index of records extracted from a
directory of element documents. Use subcommands to ingest documents, search
item labels, or export the catalog.`,
}

// --- ingest subcommand ---

var catalogIngestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Extract and index every document in the documents directory",
	Long: `Ingest extracts records from each YAML document in the documents
directory and stores them with full-text indexing. Unchanged documents are
skipped on subsequent runs.`,
	RunE: runCatalogIngest,
}

func runCatalogIngest(cmd *cobra.Command, args []string) error {
	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(cmd.Context(), cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("%d document(s) failed indexing: %w", summary.Failed, err)
	}
	return nil
}

// --- search subcommand ---

var catalogSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed items by label",
	Long: `Search queries item labels with FTS5 full-text search, optionally
restricted to one document. Without a query, all items are listed in
document and extraction order.`,
	RunE: runCatalogSearch,
}

func runCatalogSearch(cmd *cobra.Command, args []string) error {
	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	items, err := store.Search(cmd.Context(), queryOptsFromFlags(cmd, args))
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(cmd.OutOrStdout(), items, jsonOutput)
}

func formatSearchOutput(w io.Writer, items []catalog.Item, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	if len(items) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-30s  %-24s  %s\n", "Rank", "Label", "Document", "Pos")
	fmt.Fprintln(w, strings.Repeat("-", 70))
	for i, it := range items {
		fmt.Fprintf(w, "%-4d  %-30s  %-24s  %d\n",
			i+1, truncate(it.Label, 30), truncate(it.DocumentID, 24), it.Position)
	}
	fmt.Fprintf(w, "\n%d results\n", len(items))
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export [query]",
	Short: "Export the catalog to YAML or JSON",
	Long: `Export writes the catalog (or the items matching a query or document
filter) to index/export.yaml or index/export.json under the catalog directory.`,
	RunE: runCatalogExport,
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)

	var path string
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(cmd.Context(), opts)
	case "json":
		path, err = store.ExportJSON(cmd.Context(), opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
	return nil
}

// --- shared helpers ---

func openCatalog() (*catalog.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	set, err := loadRules(cfg.InspectConfig)
	if err != nil {
		return nil, err
	}
	return catalog.NewStore(cfg.CatalogConfig, set)
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) catalog.QueryOptions {
	doc, _ := cmd.Flags().GetString("document")
	limit, _ := cmd.Flags().GetInt("limit")
	return catalog.QueryOptions{
		Query:      strings.Join(args, " "),
		Document:   doc,
		MaxResults: limit,
	}
}

func init() {
	catalogCmd.PersistentFlags().String("documents-dir", "documents", "directory of element documents to ingest")
	catalogCmd.PersistentFlags().String("catalog-dir", "catalog", "base directory for the catalog (contains index/)")
	catalogCmd.PersistentFlags().Int("max-results", 20, "default maximum number of search results")
	catalogCmd.PersistentFlags().String("document", "", "restrict to one document ID")
	catalogCmd.PersistentFlags().Int("limit", 0, "maximum results (0 = use default)")

	viper.BindPFlag("documents_dir", catalogCmd.PersistentFlags().Lookup("documents-dir"))
	viper.BindPFlag("catalog_dir", catalogCmd.PersistentFlags().Lookup("catalog-dir"))
	viper.BindPFlag("max_results", catalogCmd.PersistentFlags().Lookup("max-results"))

	catalogIngestCmd.Flags().Int("workers", 4, "documents extracted in parallel")
	viper.BindPFlag("workers", catalogIngestCmd.Flags().Lookup("workers"))

	catalogSearchCmd.Flags().Bool("json", false, "output results as JSON")
	catalogExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	catalogCmd.AddCommand(catalogIngestCmd)
	catalogCmd.AddCommand(catalogSearchCmd)
	catalogCmd.AddCommand(catalogExportCmd)

	rootCmd.AddCommand(catalogCmd)
}
