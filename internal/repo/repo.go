// Package repo provides catalogue initialisation and discovery for imgtag.
//
// A catalogue is an .imgtag directory holding one or more SQLite databases,
// each persisting one registry. Several named catalogues (imgtag.db,
// imgtag-archive.db) can live side by side. Discovery walks up from the
// working directory the way git finds .git.
package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jpl-au/imgtag/internal/store"
)

const (
	// Dir is the directory name for an imgtag catalogue.
	Dir = ".imgtag"
	// DBFile is the default database filename.
	DBFile = "imgtag.db"
	// prefix starts the file name of every named database.
	prefix = "imgtag-"
)

// DBFileName returns the database filename for a given name.
// Empty name returns the default "imgtag.db".
// A name like "archive" returns "imgtag-archive.db".
// A name already ending in ".db" is returned as-is.
func DBFileName(name string) string {
	if name == "" {
		return DBFile
	}
	if strings.HasSuffix(name, ".db") {
		return name
	}
	return prefix + name + ".db"
}

// ErrNotInitialised is returned when no catalogue is found.
var ErrNotInitialised = errors.New("imgtag not initialised (run 'imgtag init')")

// Init creates a catalogue database under dir (current directory when
// empty). force replaces an existing database; local adds it to the
// .gitignore. Config is not written; "imgtag config" manages it.
func Init(force bool, db string, local bool, dir string) error {
	if dir == "" {
		dir = "."
	}
	catDir := filepath.Join(dir, Dir)
	dbPath := filepath.Join(catDir, DBFileName(db))

	if _, err := os.Stat(dbPath); err == nil {
		if !force {
			return fmt.Errorf("database %s already exists (use --force to reinitialise)", DBFileName(db))
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("remove database: %w", err)
		}
	}

	if err := os.MkdirAll(catDir, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	if err := s.Init(); err != nil {
		return fmt.Errorf("init store: %w", err)
	}

	// Only the first init writes .gitignore so later inits keep local entries.
	gitignore := filepath.Join(catDir, ".gitignore")
	if _, err := os.Stat(gitignore); os.IsNotExist(err) {
		s := `# imgtag - ignore local config and SQLite side files
*.db-wal
*.db-shm
config.yaml
`
		if err := os.WriteFile(gitignore, []byte(s), 0644); err != nil {
			return fmt.Errorf("write gitignore: %w", err)
		}
	}

	if local {
		if err := IgnoreDB(db, catDir); err != nil {
			return fmt.Errorf("ignore database: %w", err)
		}
	}

	return nil
}

// Discover walks up the directory tree looking for a catalogue database.
// The db parameter specifies which database to find (empty for default).
// Returns the full path to the database if found.
func Discover(db string) (string, error) {
	dbFile := DBFileName(db)
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		dbPath := filepath.Join(dir, Dir, dbFile)
		if _, err := os.Stat(dbPath); err == nil {
			return dbPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotInitialised
		}
		dir = parent
	}
}

// Locate returns the database path inside root when root is set, and
// falls back to Discover otherwise. A missing database is ErrNotInitialised.
func Locate(root, db string) (string, error) {
	if root == "" {
		return Discover(db)
	}
	dbPath := filepath.Join(root, Dir, DBFileName(db))
	if _, err := os.Stat(dbPath); err != nil {
		return "", ErrNotInitialised
	}
	return dbPath, nil
}

// DiscoverDir finds the .imgtag directory, walking up the tree.
func DiscoverDir() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		catDir := filepath.Join(dir, Dir)
		if info, err := os.Stat(catDir); err == nil && info.IsDir() {
			return catDir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotInitialised
		}
		dir = parent
	}
}

// DBInfo holds database metadata.
type DBInfo struct {
	Name  string `json:"name"`  // empty for default, "archive" for imgtag-archive.db
	File  string `json:"file"`  // imgtag.db, imgtag-archive.db
	Path  string `json:"path"`
	Local bool   `json:"local"` // gitignored
}

// ListDBs returns all databases in the .imgtag directory with their status.
// If dir is empty, it is discovered from the working directory.
func ListDBs(dir string) ([]DBInfo, error) {
	if dir == "" {
		var err error
		dir, err = DiscoverDir()
		if err != nil {
			return nil, fmt.Errorf("discover .imgtag directory: %w", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read .imgtag directory: %w", err)
	}

	var dbs []DBInfo
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".db") {
			continue
		}

		// Extract short name from filename
		name := ""
		if e.Name() == DBFile {
			name = ""
		} else if strings.HasPrefix(e.Name(), prefix) {
			name = strings.TrimSuffix(strings.TrimPrefix(e.Name(), prefix), ".db")
		} else {
			continue
		}

		ignored, err := IsIgnored(name, dir)
		if err != nil {
			ignored = false // unreadable .gitignore counts as shared
		}
		dbs = append(dbs, DBInfo{
			Name:  name,
			File:  e.Name(),
			Path:  filepath.Join(dir, e.Name()),
			Local: ignored,
		})
	}

	return dbs, nil
}
