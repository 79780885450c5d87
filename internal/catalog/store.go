// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog indexes records extracted from many element documents in
// a SQLite database with full-text search over their labels.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/element-inspector/internal/document"
	"github.com/pdiddy/element-inspector/internal/logging"
	"github.com/pdiddy/element-inspector/internal/rules"
	"github.com/pdiddy/element-inspector/pkg/inspect"
	"github.com/pdiddy/element-inspector/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "catalog.db"

	defaultMaxResults = 20
	defaultWorkers    = 4
)

// ErrDuplicateDocument is reported when two files in the documents
// directory map to the same document ID, such as a.yaml and a.yml.
var ErrDuplicateDocument = errors.New("duplicate document id")

// Store manages the catalog SQLite database.
type Store struct {
	db           *sql.DB
	catalogDir   string
	documentsDir string
	maxResults   int
	workers      int
	opts         inspect.Options[types.Record]
	log          *logrus.Entry
}

// NewStore opens or creates the catalog database at
// catalogDir/index/catalog.db and extracts with the given rule set.
func NewStore(cfg types.CatalogConfig, set *rules.Set) (*Store, error) {
	if set == nil {
		return nil, fmt.Errorf("catalog requires a rule set")
	}
	if err := set.Validate(); err != nil {
		return nil, fmt.Errorf("validating rules: %w", err)
	}

	dbDir := filepath.Join(cfg.CatalogDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dbDir, dbFile)+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:           db,
		catalogDir:   cfg.CatalogDir,
		documentsDir: cfg.DocumentsDir,
		maxResults:   cfg.MaxResults,
		workers:      cfg.Workers,
		opts:         set.Options(cfg.MaxDepth),
		log:          logging.New("catalog"),
	}
	if s.maxResults <= 0 {
		s.maxResults = defaultMaxResults
	}
	if s.workers <= 0 {
		s.workers = defaultWorkers
	}
	s.opts.Logger = s.log

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			run_id TEXT,
			item_count INTEGER,
			indexed_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			label TEXT,
			fields TEXT,
			UNIQUE(document_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_document_id ON items(document_id)`,
		`CREATE TABLE IF NOT EXISTS indexing_status (
			document_id TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='items_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		return nil
	}

	ftsStatements := []string{
		`CREATE VIRTUAL TABLE items_fts USING fts5(label, content=items, content_rowid=rowid)`,
		`CREATE TRIGGER items_ai AFTER INSERT ON items BEGIN
			INSERT INTO items_fts(rowid, label) VALUES (new.rowid, new.label);
		END`,
		`CREATE TRIGGER items_ad AFTER DELETE ON items BEGIN
			INSERT INTO items_fts(items_fts, rowid, label) VALUES('delete', old.rowid, old.label);
		END`,
		`CREATE TRIGGER items_au AFTER UPDATE ON items BEGIN
			INSERT INTO items_fts(items_fts, rowid, label) VALUES('delete', old.rowid, old.label);
			INSERT INTO items_fts(rowid, label) VALUES (new.rowid, new.label);
		END`,
	}
	for _, stmt := range ftsStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	return nil
}

// IngestSummary holds counts from a catalog ingest run.
type IngestSummary struct {
	RunID   string
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of documents processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// pending is one document that needs extraction.
type pending struct {
	id       string
	path     string
	modTime  string
	isUpdate bool
	records  []types.Record
	err      error
}

// Ingest scans the documents directory, extracts records from new or
// changed documents in parallel, and stores them. Unchanged documents are
// skipped. Per-document failures are counted and returned together; they do
// not stop the run.
func (s *Store) Ingest(ctx context.Context, w io.Writer) (IngestSummary, error) {
	summary := IngestSummary{RunID: uuid.NewString()}

	entries, err := os.ReadDir(s.documentsDir)
	if err != nil {
		return summary, fmt.Errorf("reading documents directory %s: %w", s.documentsDir, err)
	}

	var (
		work   []*pending
		result *multierror.Error
		seen   = make(map[string]string)
	)
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ext)
		if prev, ok := seen[id]; ok {
			err := fmt.Errorf("%w: %s and %s", ErrDuplicateDocument, prev, entry.Name())
			fmt.Fprintf(w, "failed  %s: %v\n", id, err)
			summary.Failed++
			result = multierror.Append(result, fmt.Errorf("%s: %w", id, err))
			continue
		}
		seen[id] = entry.Name()

		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", id, err)
			summary.Failed++
			result = multierror.Append(result, fmt.Errorf("%s: %w", id, err))
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var stored string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM indexing_status WHERE document_id = ?`, id,
		).Scan(&stored)
		if err == nil && stored == modTime {
			fmt.Fprintf(w, "skipped %s\n", id)
			summary.Skipped++
			continue
		}

		work = append(work, &pending{
			id:       id,
			path:     filepath.Join(s.documentsDir, entry.Name()),
			modTime:  modTime,
			isUpdate: err == nil,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, p := range work {
		p := p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p.records, p.err = s.extract(p.path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary, err
	}

	for _, p := range work {
		if p.err == nil {
			p.err = s.store(ctx, p, summary.RunID)
		}
		if p.err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", p.id, p.err)
			summary.Failed++
			result = multierror.Append(result, fmt.Errorf("%s: %w", p.id, p.err))
			continue
		}
		if p.isUpdate {
			fmt.Fprintf(w, "updated %s (%d items)\n", p.id, len(p.records))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d items)\n", p.id, len(p.records))
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)
	s.log.WithFields(logrus.Fields{
		"run_id":  summary.RunID,
		"indexed": summary.Indexed,
		"updated": summary.Updated,
		"failed":  summary.Failed,
	}).Info("ingest finished")

	return summary, result.ErrorOrNil()
}

func (s *Store) extract(path string) ([]types.Record, error) {
	doc, err := document.Load(path)
	if err != nil {
		return nil, err
	}
	return inspect.InspectWith(doc.Root, s.opts), nil
}

func (s *Store) store(ctx context.Context, p *pending, runID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if p.isUpdate {
		if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE document_id = ?`, p.id); err != nil {
			return fmt.Errorf("deleting old items: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (id, source, run_id, item_count, indexed_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			source=excluded.source, run_id=excluded.run_id,
			item_count=excluded.item_count, indexed_at=excluded.indexed_at`,
		p.id, p.path, runID, len(p.records), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting document: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO items (document_id, position, label, fields) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range p.records {
		fields, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encoding item %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, p.id, i, r.Label(), string(fields)); err != nil {
			return fmt.Errorf("inserting item %d: %w", i, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO indexing_status (document_id, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(document_id) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		p.id, p.modTime,
	)
	if err != nil {
		return fmt.Errorf("updating indexing status: %w", err)
	}

	return tx.Commit()
}
