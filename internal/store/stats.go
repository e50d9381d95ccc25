// stats.go implements aggregate queries for the "imgtag stats" view.
//
// Separated from registry.go because these run directly against the
// tables without rebuilding the graph.

package store

import (
	"context"
	"fmt"
	"os"
)

// Stats summarises the stored registry.
type Stats struct {
	Directories int64 `json:"directories"`
	Images      int64 `json:"images"`
	Tags        int64 `json:"tags"`
	Versions    int64 `json:"versions"`
	Pending     int64 `json:"pending"` // images awaiting a rename
	SizeBytes   int64 `json:"size_bytes"`
}

// Stats returns counts for each stored entity and the database file size.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	counts := []struct {
		dst *int64
		q   string
	}{
		{&st.Directories, `SELECT COUNT(*) FROM directories`},
		{&st.Images, `SELECT COUNT(*) FROM images`},
		{&st.Tags, `SELECT COUNT(*) FROM tags`},
		{&st.Versions, `SELECT COUNT(*) FROM versions`},
		{&st.Pending, `SELECT COUNT(*) FROM images WHERE dirty > 0`},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.q).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("stats: %w", err)
		}
	}

	var file string
	if err := s.db.QueryRowContext(ctx, `SELECT file FROM pragma_database_list WHERE name = 'main'`).Scan(&file); err == nil && file != "" {
		if info, err := os.Stat(file); err == nil {
			st.SizeBytes = info.Size()
		}
	}
	return &st, nil
}
