// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/element-inspector/pkg/types"
)

// QueryOptions holds parameters for catalog searches.
type QueryOptions struct {
	// Query is the FTS5 full-text search string over item labels.
	Query string

	// Document filters by document ID.
	Document string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// Item is one stored record with its provenance.
type Item struct {
	DocumentID string       `json:"document_id" yaml:"document_id"`
	Source     string       `json:"source" yaml:"source"`
	Position   int          `json:"position" yaml:"position"`
	Label      string       `json:"label" yaml:"label"`
	Fields     types.Record `json:"fields" yaml:"fields"`
}

// Search queries the catalog. Full-text queries are ranked by relevance;
// otherwise items come back by document, then extraction order.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]Item, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT i.document_id, d.source, i.position, i.label, i.fields
			FROM items_fts
			JOIN items i ON i.rowid = items_fts.rowid
			JOIN documents d ON d.id = i.document_id
			WHERE items_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT i.document_id, d.source, i.position, i.label, i.fields
			FROM items i
			JOIN documents d ON d.id = i.document_id
			WHERE 1=1`)
	}

	if opts.Document != "" {
		qb.WriteString(` AND i.document_id = ?`)
		args = append(args, opts.Document)
	}

	if useFTS {
		qb.WriteString(` ORDER BY items_fts.rank, i.document_id, i.position`)
	} else {
		qb.WriteString(` ORDER BY i.document_id, i.position`)
	}
	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var (
			it     Item
			fields string
		)
		if err := rows.Scan(&it.DocumentID, &it.Source, &it.Position, &it.Label, &fields); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if err := json.Unmarshal([]byte(fields), &it.Fields); err != nil {
			return nil, fmt.Errorf("decoding fields of %s#%d: %w", it.DocumentID, it.Position, err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Records returns the stored records of one document in extraction order.
func (s *Store) Records(ctx context.Context, documentID string) ([]types.Record, error) {
	items, err := s.Search(ctx, QueryOptions{Document: documentID, MaxResults: exportLimit})
	if err != nil {
		return nil, err
	}
	records := make([]types.Record, len(items))
	for i, it := range items {
		records[i] = it.Fields
	}
	return records, nil
}
