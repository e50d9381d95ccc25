// Package log provides centralised audit logging for imgtag operations.
// Entries are stored in ~/.imgtag/log/imgtag-log.db and record every CLI
// command and MCP tool invocation across catalogues.
//
// # Fluent API
//
//	log.Event("tag:add", "add").
//		Author(cmd.Author()).
//		Image(img.ID).
//		Path(img.Path).
//		Detail("tags", names).
//		Write(err)
//
// The source follows "{extension}:{command}" for CLI commands and
// "mcp:{tool}" for MCP tools, for example "image:mv" or "mcp:tag_add".
package log

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

var (
	global *Logger
	mu     sync.Mutex
)

// Entry represents a single log entry.
type Entry struct {
	Source string // e.g. "image:mv", "mcp:imgtag_flush"
	Author string
	Action string // verb: add, remove, move, revert, scan...
	Image  string // input: image reference as given
	Path   string // input: file or directory path

	ResolvedImage string // output: image ID the reference resolved to
	Index         int    // version index for revert/history (-1 when unset)

	Start int64 // unix nanoseconds when Event() was called
	End   int64 // unix nanoseconds when Write() was called

	Success bool
	Error   string
	Detail  map[string]any
}

// Builder constructs a log entry. Create it with [Event], chain setters,
// then call [Builder.Write].
type Builder struct {
	entry Entry
}

// Event creates a new log entry builder for an operation.
//
// source identifies the origin ("image:mv", "mcp:imgtag_tag_add") and
// action the verb performed ("move", "add").
func Event(source, action string) *Builder {
	return &Builder{
		entry: Entry{
			Source: source,
			Action: action,
			Index:  -1,
			Start:  time.Now().UnixNano(),
		},
	}
}

// Author sets who performed the operation. CLI commands pass
// cmd.Author(); MCP tools pass "mcp".
func (b *Builder) Author(author string) *Builder {
	b.entry.Author = author
	return b
}

// Image sets the image reference the caller supplied.
func (b *Builder) Image(ref string) *Builder {
	b.entry.Image = ref
	return b
}

// Path sets the file or directory the operation targets.
func (b *Builder) Path(path string) *Builder {
	b.entry.Path = path
	return b
}

// Resolved records the image ID a reference resolved to.
func (b *Builder) Resolved(id string) *Builder {
	b.entry.ResolvedImage = id
	return b
}

// Index records the version index an operation addressed.
func (b *Builder) Index(i int) *Builder {
	b.entry.Index = i
	return b
}

// Detail adds a key-value pair for operation-specific data such as tag
// names, counts or destination directories. Later calls with the same key
// overwrite earlier ones.
func (b *Builder) Detail(key string, value any) *Builder {
	if b.entry.Detail == nil {
		b.entry.Detail = make(map[string]any)
	}
	b.entry.Detail[key] = value
	return b
}

// Write completes the entry, deriving success from err, and stores it.
func (b *Builder) Write(err error) {
	b.entry.End = time.Now().UnixNano()
	b.entry.Success = err == nil
	if err != nil {
		b.entry.Error = err.Error()
	}
	Log(b.entry)
}

// Open initialises the global logger. Safe to call multiple times.
// Callers may ignore the error; logging is best-effort.
func Open() error {
	mu.Lock()
	defer mu.Unlock()

	if global != nil {
		return nil
	}

	p := dbPath()
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return err
	}

	global = &Logger{db: db}
	return nil
}

// SetProject sets the catalogue identifier for subsequent entries.
// dir should be the absolute path of the .imgtag directory.
func SetProject(dir string) {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.project = hash(dir)
	}
}

// Log writes an entry. A no-op when the logger is not open.
func Log(e Entry) {
	mu.Lock()
	l := global
	mu.Unlock()

	if l == nil {
		return
	}
	l.log(e)
}

// Close closes the global logger.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.db.Close()
		global = nil
	}
}
