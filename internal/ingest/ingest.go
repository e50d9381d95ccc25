// Package ingest builds registry state from a directory tree on disk.
//
// Ingestion runs in two phases. The scan walks the whole tree and records
// what it found without touching the registry; only when the walk finished
// cleanly is the result applied. An I/O error therefore aborts with the
// registry exactly as it was, never with a partial index.
//
// Tags already encoded in file names are parsed back into the tag store, so
// re-ingesting a tree tagged in an earlier session restores its tags.
package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jpl-au/imgtag/internal/filename"
	"github.com/jpl-au/imgtag/internal/progress"
	"github.com/jpl-au/imgtag/internal/registry"
	"github.com/jpl-au/imgtag/internal/validate"
)

// DefaultMaxDepth limits directory recursion when Options.MaxDepth is zero.
const DefaultMaxDepth = 100

// Options configures an ingest.
type Options struct {
	MaxDepth   int      // recursion limit (0 = DefaultMaxDepth)
	SkipHidden bool     // skip dot-files and dot-directories
	SkipDirs   []string // directory names never entered

	// KeepKnown leaves an already registered image alone when its file is
	// still at the recorded path, preserving its history. The watcher
	// re-ingests this way.
	KeepKnown bool
}

// Result contains the outcome of an ingest.
type Result struct {
	Root        string   `json:"root"`
	Directories int      `json:"directories"`
	Images      int      `json:"images"`
	Replaced    int      `json:"replaced"`
	Kept        int      `json:"kept,omitempty"`
	Tags        int      `json:"tags_created"`
	Dropped     []string `json:"dropped,omitempty"` // "file: token" for each rejected tag token
}

// found is one image file discovered by the scan.
type found struct {
	dir    string
	path   string
	parsed filename.Parsed
}

// scan is the outcome of the walk phase.
type scan struct {
	dirs  []string
	files []found
	spin  *progress.Spinner
}

// Run ingests the tree rooted at root into reg. It fails with
// validate.ErrInvalidDirectory when root is not a directory. Per-directory
// progress goes to stderr and a summary line per directory to w.
func Run(ctx context.Context, w io.Writer, reg *registry.Registry, root string, opts Options) (Result, error) {
	abs, err := validate.Directory(root)
	if err != nil {
		return Result{}, err
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}

	s, err := walk(ctx, abs, opts)
	if err != nil {
		return Result{}, err
	}
	return apply(w, reg, abs, s, opts), nil
}

func walk(ctx context.Context, abs string, opts Options) (scan, error) {
	s := scan{spin: progress.NewSpinner("Scanning")}
	r, err := os.OpenRoot(abs)
	if err != nil {
		return s, fmt.Errorf("opening %s: %w", abs, err)
	}
	defer r.Close()

	s.spin.Start()
	defer s.spin.Stop()

	if err := scanDir(ctx, r, abs, ".", 0, opts, &s); err != nil {
		return scan{}, err
	}
	return s, nil
}

// scanDir records rel and its descendants. Every directory is recorded,
// including those without images, so each gets an index.
func scanDir(ctx context.Context, r *os.Root, abs, rel string, depth int, opts Options, s *scan) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth > opts.MaxDepth {
		return fmt.Errorf("directory depth exceeds limit of %d at %s", opts.MaxDepth, filepath.Join(abs, rel))
	}

	f, err := r.Open(rel)
	if err != nil {
		return fmt.Errorf("opening %s: %w", filepath.Join(abs, rel), err)
	}
	entries, err := f.ReadDir(-1)
	f.Close()
	if err != nil {
		return fmt.Errorf("reading %s: %w", filepath.Join(abs, rel), err)
	}
	slices.SortFunc(entries, func(a, b os.DirEntry) int { return strings.Compare(a.Name(), b.Name()) })

	dir := filepath.Join(abs, rel)
	s.dirs = append(s.dirs, dir)
	s.spin.Tick()

	for _, e := range entries {
		name := e.Name()
		if opts.SkipHidden && strings.HasPrefix(name, ".") {
			continue
		}
		child := filepath.Join(rel, name)
		if e.IsDir() {
			if slices.Contains(opts.SkipDirs, name) {
				continue
			}
			if err := scanDir(ctx, r, abs, child, depth+1, opts, s); err != nil {
				return err
			}
			continue
		}
		parsed, ok := filename.Parse(name)
		if !ok {
			continue
		}
		s.files = append(s.files, found{dir: dir, path: filepath.Join(abs, child), parsed: parsed})
	}
	return nil
}

func apply(w io.Writer, reg *registry.Registry, abs string, s scan, opts Options) Result {
	res := Result{Root: abs, Directories: len(s.dirs)}
	before := reg.Tags().Len()

	for _, d := range s.dirs {
		reg.EnsureDirectory(d)
	}

	prog := progress.New("Ingesting", len(s.files))
	defer prog.Done()

	perDir := make(map[string]int)
	for _, f := range s.files {
		if opts.KeepKnown {
			if img, ok := reg.Find(f.dir, f.parsed.Base); ok && img.Path() == f.path {
				res.Kept++
				prog.Increment()
				continue
			}
		}
		_, replaced, err := reg.AddImage(registry.NewImage{
			Dir:  f.dir,
			Base: f.parsed.Base,
			Ext:  f.parsed.Ext,
			Path: f.path,
			Tags: f.parsed.Tags,
		})
		prog.Increment()
		prog.Print()
		if err != nil {
			// Only id generation can fail here; the file is skipped.
			continue
		}
		res.Images++
		perDir[f.dir]++
		if replaced != nil {
			res.Replaced++
		}
		for _, tok := range f.parsed.Dropped {
			res.Dropped = append(res.Dropped, fmt.Sprintf("%s: %q", filepath.Base(f.path), tok))
		}
	}
	res.Tags = reg.Tags().Len() - before

	for _, d := range s.dirs {
		if n := perDir[d]; n > 0 {
			fmt.Fprintf(w, "Ingested: %s (%d images)\n", d, n)
		}
	}
	return res
}
