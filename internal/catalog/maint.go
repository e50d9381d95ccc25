// maint.go implements database maintenance for the service layer.

package catalog

import (
	"context"

	"github.com/jpl-au/imgtag/internal/store"
)

// Stats returns aggregate counts for the stored registry.
func (s *Service) Stats(ctx context.Context) (*store.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Stats(ctx)
}

// Vacuum compacts the database file. Whole-graph saves leave free pages
// behind, so long-lived catalogues shrink noticeably.
func (s *Service) Vacuum(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Vacuum(ctx)
}

// Checkpoint flushes the WAL to the main database file, useful before
// copying the catalogue.
func (s *Service) Checkpoint(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Checkpoint(ctx)
}
