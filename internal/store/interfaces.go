// interfaces.go defines the storage abstraction for registry persistence.
//
// Separated from the SQLite implementation so the service layer depends on
// capabilities rather than a driver. The interfaces stay granular: the
// watcher only needs a Saver, the stats command only a Reader.
//
// Design: the registry is persisted as a whole. Save replaces the stored
// graph in one transaction and Load rebuilds it, so there is no partial
// update path that could leave tag back-references out of step.

package store

import (
	"context"
	"database/sql"

	"github.com/jpl-au/imgtag/internal/registry"
)

// Loader rebuilds a registry from storage.
type Loader interface {
	// Load returns the stored registry, or an empty one for a fresh
	// database. Tag back-references resolve to the same *Image instances
	// the directory indexes hold.
	Load(ctx context.Context) (*registry.Registry, error)
}

// Saver persists a registry.
type Saver interface {
	// Save replaces the stored graph with reg.
	Save(ctx context.Context, reg *registry.Registry) error
}

// Reader provides aggregate queries without loading the graph.
type Reader interface {
	Stats(ctx context.Context) (*Stats, error)
}

// Maintainer defines operations for database maintenance and lifecycle.
type Maintainer interface {
	// Close releases the database connection.
	Close() error

	// DB exposes the underlying connection for extensions needing custom tables.
	DB() *sql.DB

	// Checkpoint flushes WAL to the main database file.
	Checkpoint(ctx context.Context) error

	// Vacuum compacts the database file.
	Vacuum(ctx context.Context) error
}

// Store defines the persistence interface for the registry.
type Store interface {
	Loader
	Saver
	Reader
	Maintainer
}
