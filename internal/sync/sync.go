// Package sync keeps image files on disk in step with the registry.
//
// Two operations touch the filesystem: Move relocates a file to another
// directory, and Flush renames every dirty image so its file name matches
// its current tags. Both surface I/O failures as validate.ErrFilesystem and
// leave the registry describing what is actually on disk.
//
// Renames use os.OpenRoot on the image's directory so a tag name can never
// steer a rename outside that directory.
package sync

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jpl-au/imgtag/internal/filename"
	"github.com/jpl-au/imgtag/internal/progress"
	"github.com/jpl-au/imgtag/internal/registry"
	"github.com/jpl-au/imgtag/internal/validate"
)

// Engine performs moves and renames against one registry.
type Engine struct {
	reg *registry.Registry
}

// New returns an engine for reg.
func New(reg *registry.Registry) *Engine {
	return &Engine{reg: reg}
}

// Rename describes one completed rename.
type Rename struct {
	ID   registry.ImageID `json:"id"`
	From string           `json:"from"`
	To   string           `json:"to"`
}

// Result contains the outcome of a flush.
type Result struct {
	Renamed []Rename           `json:"renamed"`
	Pending []registry.ImageID `json:"pending,omitempty"` // still dirty after a failed rename

	// Failed holds the rename error of each pending image.
	Failed map[registry.ImageID]error `json:"-"`
}

// Move relocates img into dir. It fails with validate.ErrInvalidDirectory
// when dir is not an existing directory and with validate.ErrImageExists
// when dir already anchors an image with the same base name; in both cases
// nothing changes.
//
// The file moves first and the registry is updated only once it has. The
// file keeps its current name; the image is marked dirty so the next flush
// gives it its canonical name.
func (e *Engine) Move(img *registry.Image, dir string) error {
	abs, err := validate.Directory(dir)
	if err != nil {
		return err
	}
	if filename.DirKey(abs) == filename.DirKey(img.Dir()) {
		return nil
	}
	if err := e.reg.CanRelocate(img, abs); err != nil {
		return err
	}

	src := img.Path()
	dst := filepath.Join(abs, filepath.Base(src))
	if err := moveFile(src, dst); err != nil {
		return fmt.Errorf("%w: move %s to %s: %w", validate.ErrFilesystem, src, abs, err)
	}
	if err := e.reg.Relocate(img, abs, dst); err != nil {
		if rbErr := moveFile(dst, src); rbErr != nil {
			return errors.Join(err, fmt.Errorf("%w: restore %s: %w", validate.ErrFilesystem, src, rbErr))
		}
		return err
	}
	return nil
}

// Rename renames img's file to its canonical name within its directory.
// A file that already carries its canonical name is left alone.
func (e *Engine) Rename(img *registry.Image) (Rename, error) {
	r := Rename{ID: img.ID(), From: img.Path(), To: img.CanonicalPath()}
	if r.From == r.To {
		return r, nil
	}
	if filename.DirKey(filepath.Dir(r.From)) != filename.DirKey(img.Dir()) {
		return r, fmt.Errorf("%w: %s is not in %s", validate.ErrFilesystem, r.From, img.Dir())
	}
	if err := renameInDir(img.Dir(), filepath.Base(r.From), img.FileName()); err != nil {
		return r, fmt.Errorf("%w: rename %s: %w", validate.ErrFilesystem, r.From, err)
	}
	e.reg.SetPath(img, r.To)
	return r, nil
}

// Flush renames every dirty image and clears the flag of each one that
// succeeded. Failed renames stay dirty for the next flush; their errors
// are joined into the returned error. Progress goes to stderr and one line
// per rename to w.
func (e *Engine) Flush(w io.Writer) (Result, error) {
	var result Result
	dirty := e.reg.Dirty()
	if len(dirty) == 0 {
		return result, nil
	}

	prog := progress.New("Renaming", len(dirty))
	defer prog.Done()

	var errs []error
	for _, img := range dirty {
		r, err := e.Rename(img)
		prog.Increment()
		prog.Print()
		if err != nil {
			errs = append(errs, err)
			result.Pending = append(result.Pending, img.ID())
			if result.Failed == nil {
				result.Failed = make(map[registry.ImageID]error)
			}
			result.Failed[img.ID()] = err
			continue
		}
		e.reg.ClearDirty(img)
		if r.From != r.To {
			result.Renamed = append(result.Renamed, r)
			fmt.Fprintf(w, "Renamed: %s -> %s\n", filepath.Base(r.From), filepath.Base(r.To))
		}
	}
	return result, errors.Join(errs...)
}

// Pending reports whether any image is waiting for a rename.
func (e *Engine) Pending() bool {
	return len(e.reg.Dirty()) > 0
}

// exists reports whether p names an existing file.
func exists(p string) bool {
	_, err := os.Lstat(p)
	return err == nil
}
