// Package exporter writes a YAML manifest of the catalogue: every directory,
// tag and image, optionally with each image's version log. The manifest is
// a portable snapshot for backups and for tools that cannot read SQLite.
package exporter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jpl-au/imgtag/internal/progress"
	"github.com/jpl-au/imgtag/internal/service"
)

// DefaultName is the manifest file name used when the destination is a
// directory.
const DefaultName = "imgtag-manifest.yaml"

// Options configures an export.
type Options struct {
	Dir     string // only images anchored here; empty exports everything
	History bool   // include each image's version log
	Force   bool   // overwrite an existing manifest
}

// Result describes a finished export.
type Result struct {
	Path   string `json:"path"`
	Images int    `json:"images"`
	Tags   int    `json:"tags"`
}

// Manifest is the document written to disk.
type Manifest struct {
	Generated     time.Time           `yaml:"generated"`
	LastDirectory string              `yaml:"last_directory,omitempty"`
	Directories   []service.Directory `yaml:"directories"`
	Tags          []service.TagInfo   `yaml:"tags"`
	Images        []Entry             `yaml:"images"`
}

// Entry is one image in the manifest.
type Entry struct {
	service.Image `yaml:",inline"`
	History       []service.Version `yaml:"history,omitempty"`
}

// now is swapped in tests.
var now = time.Now

// Build collects the manifest without writing it.
func Build(ctx context.Context, svc service.Service, opts Options) (*Manifest, error) {
	imgs, err := svc.Images(ctx, opts.Dir)
	if err != nil {
		return nil, err
	}
	m := &Manifest{
		Generated:     now().UTC(),
		LastDirectory: svc.LastDirectory(ctx),
		Directories:   svc.Directories(ctx),
		Tags:          svc.Tags(ctx),
		Images:        make([]Entry, 0, len(imgs)),
	}

	prog := progress.New("Exporting", len(imgs))
	defer prog.Done()
	for _, img := range imgs {
		e := Entry{Image: img}
		if opts.History {
			if e.History, err = svc.History(ctx, img.ID); err != nil {
				return nil, fmt.Errorf("history of %s: %w", img.Name, err)
			}
		}
		m.Images = append(m.Images, e)
		prog.Increment()
		prog.Print()
	}
	return m, nil
}

// Run writes the manifest to dst. A directory destination receives
// DefaultName inside it.
func Run(ctx context.Context, w io.Writer, svc service.Service, dst string, opts Options) (Result, error) {
	m, err := Build(ctx, svc, opts)
	if err != nil {
		return Result{}, err
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return Result{}, fmt.Errorf("encoding manifest: %w", err)
	}

	dir, name := outputPath(dst)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Result{}, fmt.Errorf("creating destination directory: %w", err)
	}
	root, err := os.OpenRoot(dir)
	if err != nil {
		return Result{}, fmt.Errorf("opening destination root: %w", err)
	}
	defer root.Close()

	if err := writeFileInRoot(root, name, data, opts.Force); err != nil {
		return Result{}, err
	}

	res := Result{Path: filepath.Join(dir, name), Images: len(m.Images), Tags: len(m.Tags)}
	fmt.Fprintf(w, "Exported %d images, %d tags -> %s\n", res.Images, res.Tags, res.Path)
	return res, nil
}

// outputPath splits dst into the directory to open and the file to write.
func outputPath(dst string) (dir, name string) {
	if info, err := os.Stat(dst); err == nil && info.IsDir() {
		return dst, DefaultName
	}
	return filepath.Dir(dst), filepath.Base(dst)
}

// writeFileInRoot writes data to name within root, refusing to replace an
// existing file unless force is set.
func writeFileInRoot(root *os.Root, name string, data []byte, force bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := root.OpenFile(name, flags, 0644)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("file exists: %s (use --force to overwrite)", name)
	}
	if err != nil {
		return fmt.Errorf("creating file %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
