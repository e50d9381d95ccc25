// Package catalog implements service.Service on top of the in-memory
// registry, the SQLite store and the sync engine.
//
// The registry is loaded once when the service opens and is owned by the
// service from then on. Every operation takes the service lock, so the CLI,
// the MCP server and the watcher can share one instance. Mutations commit
// before returning: pending renames are flushed and the whole graph is
// saved.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/jpl-au/imgtag/extension"
	"github.com/jpl-au/imgtag/internal/config"
	"github.com/jpl-au/imgtag/internal/log"
	"github.com/jpl-au/imgtag/internal/registry"
	"github.com/jpl-au/imgtag/internal/repo"
	"github.com/jpl-au/imgtag/internal/service"
	"github.com/jpl-au/imgtag/internal/store"
	isync "github.com/jpl-au/imgtag/internal/sync"
)

// Service provides catalogue operations backed by a Store.
type Service struct {
	mu     sync.Mutex
	store  *store.SQLiteStore
	reg    *registry.Registry
	engine *isync.Engine
	dbPath string
	cfg    *config.Config
	extCtx extension.Context // for firing events to extensions
}

var _ service.Service = (*Service)(nil)

// New discovers the catalogue database by walking up the directory tree
// and opens it. db names the database (empty for the default).
// Returns repo.ErrNotInitialised if no matching database is found.
func New(db string) (*Service, error) {
	return NewAt("", db)
}

// NewAt opens the catalogue db under root, or discovers it when root is
// empty.
func NewAt(root, db string) (*Service, error) {
	dbPath, err := repo.Locate(root, db)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return Open(dbPath, cfg)
}

// Open opens the database at dbPath and loads its registry.
func Open(dbPath string, cfg *config.Config) (*Service, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	if err := st.Init(); err != nil {
		st.Close()
		return nil, fmt.Errorf("init store: %w", err)
	}
	reg, err := st.Load(context.Background())
	if err != nil {
		st.Close()
		return nil, err
	}
	if cfg == nil {
		cfg = &config.Config{}
	}
	return &Service{
		store:  st,
		reg:    reg,
		engine: isync.New(reg),
		dbPath: dbPath,
		cfg:    cfg,
	}, nil
}

// Init initialises a new catalogue. If dir is empty the current directory
// is used. local adds the database to .imgtag/.gitignore.
func Init(force bool, db string, local bool, dir string) error {
	return repo.Init(force, db, local, dir)
}

// Close checkpoints the WAL and closes the database. Mutations have
// already been saved by the time they returned.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Checkpoint(context.Background()); err != nil {
		log.Event("service:close", "checkpoint").Write(err)
	}
	return s.store.Close()
}

// SetExtensionContext sets the extension context for firing events.
// Called from cmd/root.go after creating the context.
func (s *Service) SetExtensionContext(ctx extension.Context) {
	s.extCtx = ctx
}

// ReloadConfig re-reads configuration from disk.
func (s *Service) ReloadConfig() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	return nil
}

// Reload discards in-memory state and reloads the registry from storage.
func (s *Service) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	s.reg = reg
	s.engine = isync.New(reg)
	return nil
}

// DB returns the underlying database connection for extensions.
func (s *Service) DB() *sql.DB {
	return s.store.DB()
}

// DBPath returns the path to the database file.
func (s *Service) DBPath() string {
	return s.dbPath
}

// Dir returns the .imgtag directory holding the database.
func (s *Service) Dir() string {
	return filepath.Dir(s.dbPath)
}

// commit renames pending images and saves the registry. The save runs even
// when renames failed so the registry on disk records what is pending.
// Only rename failures of the images in owned are returned; every other
// failure stays in the result as pending. Caller holds s.mu.
func (s *Service) commit(ctx context.Context, w io.Writer, owned ...*registry.Image) (isync.Result, error) {
	res, _ := s.engine.Flush(w)
	for _, r := range res.Renamed {
		s.fireEvent(extension.RenameEvent{ImageID: string(r.ID), From: r.From, To: r.To})
	}
	var errs []error
	for _, img := range owned {
		if err, ok := res.Failed[img.ID()]; ok {
			errs = append(errs, err)
		}
	}
	if err := s.store.Save(ctx, s.reg); err != nil {
		errs = append(errs, fmt.Errorf("save registry: %w", err))
	}
	return res, errors.Join(errs...)
}

// fireEvent notifies all registered extension event handlers. Handler
// errors are logged and never returned. Handlers run under the service
// lock and must not call back into the service.
func (s *Service) fireEvent(e extension.Event) {
	if s.extCtx == nil {
		return
	}
	for _, ext := range extension.All() {
		if h, ok := ext.(extension.EventHandler); ok {
			if err := h.HandleEvent(s.extCtx, e); err != nil {
				log.Event("event:error", "error").
					Detail("ext", ext.Name()).
					Detail("event", string(e.EventType())).
					Write(err)
			}
		}
	}
}
