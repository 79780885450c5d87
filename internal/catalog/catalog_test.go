// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/element-inspector/internal/rules"
	"github.com/pdiddy/element-inspector/pkg/types"
)

// --- test helpers ---

const buttonsDoc = `
components:
  Button:
    render: {host: button, children: $title}
  Toolbar:
    render:
      fragment:
        - {component: Button, props: {title: Refresh, onPress: refresh}}
        - {component: Button, props: {title: Delete All, onPress: purge, destructive: true}}
tree:
  - {component: Button, props: {title: Add Item, onPress: add}}
  - {component: Toolbar}
  - {host: span, children: [{component: Button, props: {title: Hidden}}]}
`

const otherDoc = `
components:
  Button: {}
tree:
  fragment:
    - {component: Button, props: {title: Share, onPress: share}}
`

func testRules() *rules.Set {
	s := rules.ButtonRules("Button")
	s.Rules = append(s.Rules, rules.Rule{Match: rules.Match{Host: "span"}, Action: "discard"})
	return s
}

func testSetup(t *testing.T) (*Store, string) {
	t.Helper()
	tmpDir := t.TempDir()
	docsDir := filepath.Join(tmpDir, "documents")
	require.NoError(t, os.MkdirAll(docsDir, 0o755))

	cfg := types.CatalogConfig{
		DocumentsDir: docsDir,
		CatalogDir:   filepath.Join(tmpDir, "catalog"),
		MaxResults:   20,
		Workers:      2,
	}
	store, err := NewStore(cfg, testRules())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store, docsDir
}

func writeDocument(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func ingest(t *testing.T, store *Store) (IngestSummary, string) {
	t.Helper()
	var buf strings.Builder
	summary, err := store.Ingest(context.Background(), &buf)
	require.NoError(t, err, buf.String())
	return summary, buf.String()
}

func labels(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Label
	}
	return out
}

// --- schema tests ---

func TestNewStoreCreatesSchema(t *testing.T) {
	store, _ := testSetup(t)

	for _, table := range []string{"documents", "items", "items_fts", "indexing_status"} {
		var count int
		require.NoError(t, store.db.QueryRow(
			`SELECT count(*) FROM sqlite_master WHERE type IN ('table','view') AND name = ?`, table,
		).Scan(&count))
		assert.NotZero(t, count, "table %s does not exist", table)
	}
	assert.FileExists(t, filepath.Join(store.catalogDir, indexDir, dbFile))
}

func TestNewStoreRequiresValidRules(t *testing.T) {
	cfg := types.CatalogConfig{CatalogDir: t.TempDir()}

	_, err := NewStore(cfg, nil)
	assert.Error(t, err)

	_, err = NewStore(cfg, &rules.Set{Default: "sometimes"})
	assert.ErrorIs(t, err, rules.ErrInvalidAction)
}

func TestNewStoreReopens(t *testing.T) {
	store, docsDir := testSetup(t)
	cfg := types.CatalogConfig{DocumentsDir: docsDir, CatalogDir: store.catalogDir}

	again, err := NewStore(cfg, testRules())
	require.NoError(t, err)
	assert.NoError(t, again.Close())
}

// --- ingest tests ---

func TestIngest(t *testing.T) {
	store, docsDir := testSetup(t)
	writeDocument(t, docsDir, "buttons.yaml", buttonsDoc)
	writeDocument(t, docsDir, "other.yml", otherDoc)
	writeDocument(t, docsDir, "notes.txt", "ignored")

	summary, out := ingest(t, store)
	assert.Equal(t, 2, summary.Indexed)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 2, summary.Total())
	assert.NotEmpty(t, summary.RunID)
	assert.Contains(t, out, "indexing buttons (3 items)")
	assert.Contains(t, out, "indexing other (1 items)")

	records, err := store.Records(context.Background(), "buttons")
	require.NoError(t, err)
	assert.Equal(t, []types.Record{
		{"label": "Add Item", "onPress": "add"},
		{"label": "Refresh", "onPress": "refresh"},
		{"label": "Delete All", "onPress": "purge", "destructive": true},
	}, records)
}

func TestIngestIncremental(t *testing.T) {
	store, docsDir := testSetup(t)
	path := writeDocument(t, docsDir, "buttons.yaml", buttonsDoc)
	ingest(t, store)

	summary, out := ingest(t, store)
	assert.Equal(t, 1, summary.Skipped)
	assert.Contains(t, out, "skipped buttons")

	require.NoError(t, os.WriteFile(path, []byte(otherDoc), 0o644))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))

	summary, out = ingest(t, store)
	assert.Equal(t, 1, summary.Updated)
	assert.Contains(t, out, "updated buttons (1 items)")

	items, err := store.Search(context.Background(), QueryOptions{Document: "buttons"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Share"}, labels(items))
}

func TestIngestReportsFailures(t *testing.T) {
	store, docsDir := testSetup(t)
	writeDocument(t, docsDir, "good.yaml", otherDoc)
	writeDocument(t, docsDir, "broken.yaml", "tree: {component: Missing}")
	writeDocument(t, docsDir, "garbled.yaml", "tree: [unclosed")

	var buf strings.Builder
	summary, err := store.Ingest(context.Background(), &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	assert.Contains(t, err.Error(), "garbled")
	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, 1, summary.Indexed)

	items, err := store.Search(context.Background(), QueryOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Share"}, labels(items))
}

func TestIngestDuplicateDocumentID(t *testing.T) {
	store, docsDir := testSetup(t)
	writeDocument(t, docsDir, "buttons.yaml", otherDoc)
	writeDocument(t, docsDir, "buttons.yml", buttonsDoc)

	var buf strings.Builder
	summary, err := store.Ingest(context.Background(), &buf)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateDocument), "got %v", err)
	assert.Contains(t, err.Error(), "buttons.yml")
	assert.Equal(t, 1, summary.Indexed)
	assert.Equal(t, 1, summary.Failed)

	// The first file in directory order keeps the ID.
	items, err := store.Search(context.Background(), QueryOptions{Document: "buttons"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Share"}, labels(items))
}

func TestIngestMissingDirectory(t *testing.T) {
	cfg := types.CatalogConfig{
		DocumentsDir: filepath.Join(t.TempDir(), "nope"),
		CatalogDir:   t.TempDir(),
	}
	store, err := NewStore(cfg, testRules())
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Ingest(context.Background(), &strings.Builder{})
	assert.Error(t, err)
}

func TestIngestCancelled(t *testing.T) {
	store, docsDir := testSetup(t)
	writeDocument(t, docsDir, "buttons.yaml", buttonsDoc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := store.Ingest(ctx, &strings.Builder{})
	assert.ErrorIs(t, err, context.Canceled)
}

// --- search tests ---

func TestSearch(t *testing.T) {
	store, docsDir := testSetup(t)
	writeDocument(t, docsDir, "buttons.yaml", buttonsDoc)
	writeDocument(t, docsDir, "other.yaml", otherDoc)
	ingest(t, store)

	tests := []struct {
		name string
		opts QueryOptions
		want []string
	}{
		{"all in document order", QueryOptions{}, []string{"Add Item", "Refresh", "Delete All", "Share"}},
		{"full text", QueryOptions{Query: "delete"}, []string{"Delete All"}},
		{"prefix", QueryOptions{Query: "sha*"}, []string{"Share"}},
		{"document filter", QueryOptions{Document: "other"}, []string{"Share"}},
		{"limit", QueryOptions{MaxResults: 2}, []string{"Add Item", "Refresh"}},
		{"no match", QueryOptions{Query: "missing"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := store.Search(context.Background(), tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, labels(items))
		})
	}
}

func TestSearchProvenance(t *testing.T) {
	store, docsDir := testSetup(t)
	path := writeDocument(t, docsDir, "buttons.yaml", buttonsDoc)
	ingest(t, store)

	items, err := store.Search(context.Background(), QueryOptions{Query: "refresh"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "buttons", items[0].DocumentID)
	assert.Equal(t, path, items[0].Source)
	assert.Equal(t, 1, items[0].Position)
	assert.Equal(t, "refresh", items[0].Fields.Text("onPress"))
}

// --- export tests ---

func TestExport(t *testing.T) {
	store, docsDir := testSetup(t)
	writeDocument(t, docsDir, "buttons.yaml", buttonsDoc)
	ingest(t, store)

	yamlPath, err := store.ExportYAML(context.Background(), QueryOptions{})
	require.NoError(t, err)
	data, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	var fromYAML []Item
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	assert.Equal(t, []string{"Add Item", "Refresh", "Delete All"}, labels(fromYAML))

	jsonPath, err := store.ExportJSON(context.Background(), QueryOptions{Query: "add"})
	require.NoError(t, err)
	data, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	var fromJSON []Item
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	assert.Equal(t, []string{"Add Item"}, labels(fromJSON))
	assert.Equal(t, filepath.Join(store.catalogDir, indexDir, "export.json"), jsonPath)
}
