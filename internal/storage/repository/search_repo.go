package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"unicode"
)

// SearchRow is one row of the full-text index.
type SearchRow struct {
	Type     string `json:"type"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Body     string `json:"-"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// SearchRepository maintains and queries the FTS5 search index.
type SearchRepository interface {
	// Rebuild replaces the index contents with rows.
	Rebuild(ctx context.Context, rows []SearchRow) error

	// Search returns up to limit rows matching every word of query, each
	// word as a prefix, best match first.
	Search(ctx context.Context, query string, limit int) ([]SearchRow, error)
}

type searchRepository struct {
	db DBTX
}

// NewSearchRepository creates a new search repository.
func NewSearchRepository(db DBTX) SearchRepository {
	return &searchRepository{db: db}
}

func (r *searchRepository) Rebuild(ctx context.Context, rows []SearchRow) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM search_index`); err != nil {
		return fmt.Errorf("failed to clear search index: %w", err)
	}
	for _, row := range rows {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO search_index (type, code, name, body, image_url) VALUES (?, ?, ?, ?, ?)
		`, row.Type, row.Code, row.Name, row.Body, nullText(row.ImageURL))
		if err != nil {
			return fmt.Errorf("failed to index %s %s: %w", row.Type, row.Code, err)
		}
	}
	return nil
}

func (r *searchRepository) Search(ctx context.Context, query string, limit int) ([]SearchRow, error) {
	match := MatchExpression(query)
	if match == "" || limit <= 0 {
		return []SearchRow{}, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT type, code, name, image_url
		FROM search_index
		WHERE search_index MATCH ?
		ORDER BY rank, type, code
		LIMIT ?
	`, match, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []SearchRow{}
	for rows.Next() {
		var row SearchRow
		var image sql.NullString
		if err := rows.Scan(&row.Type, &row.Code, &row.Name, &image); err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		row.ImageURL = image.String
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate search results: %w", err)
	}
	return out, nil
}

// MatchExpression turns free text into an FTS5 query: every word quoted
// and prefix-matched, words implicitly ANDed. Words without a letter or
// digit are dropped.
func MatchExpression(query string) string {
	words := strings.Fields(query)
	terms := make([]string, 0, len(words))
	for _, w := range words {
		if strings.IndexFunc(w, isWordRune) < 0 {
			continue
		}
		w = strings.ReplaceAll(w, `"`, `""`)
		terms = append(terms, `"`+w+`"*`)
	}
	return strings.Join(terms, " ")
}

func isWordRune(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }
