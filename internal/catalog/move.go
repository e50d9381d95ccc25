// move.go implements the operations that touch image files: ingest, move,
// revert and flush.
//
// Revert lives here rather than in tags.go because, like a move, its effect
// is a rename on disk; the tag bookkeeping is the registry's concern.

package catalog

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/jpl-au/imgtag/extension"
	"github.com/jpl-au/imgtag/internal/ingest"
	"github.com/jpl-au/imgtag/internal/service"
	isync "github.com/jpl-au/imgtag/internal/sync"
)

// Ingest walks root and registers every image below it. The catalogue
// directory itself is never entered. Unset options fall back to config.
func (s *Service) Ingest(ctx context.Context, w io.Writer, root string, opts ingest.Options) (ingest.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if opts.MaxDepth == 0 {
		opts.MaxDepth = s.cfg.MaxDepth()
	}
	if !opts.SkipHidden {
		opts.SkipHidden = s.cfg.SkipHidden()
	}
	if !slices.Contains(opts.SkipDirs, ".imgtag") {
		opts.SkipDirs = append(slices.Clone(opts.SkipDirs), ".imgtag")
	}

	res, err := ingest.Run(ctx, w, s.reg, root, opts)
	if err != nil {
		return res, err
	}
	s.reg.SetLastDirectory(res.Root)
	if _, err := s.commit(ctx, io.Discard); err != nil {
		return res, err
	}
	s.fireEvent(extension.IngestEvent{Root: res.Root, Images: res.Images, Replaced: res.Replaced})
	return res, nil
}

// Move relocates an image into dir and renames it to its canonical name.
func (s *Service) Move(ctx context.Context, ref, dir string) (service.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	img, err := s.resolve(ref)
	if err != nil {
		return service.Image{}, err
	}
	from := img.Path()
	if err := s.engine.Move(img, dir); err != nil {
		return s.view(img), err
	}
	if from == img.Path() {
		return s.view(img), nil
	}
	_, err = s.commit(ctx, io.Discard, img)
	s.fireEvent(extension.MoveEvent{ImageID: string(img.ID()), From: from, To: img.Path()})
	return s.view(img), err
}

// Revert restores the tag set recorded at index.
func (s *Service) Revert(ctx context.Context, ref string, index int) (service.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	img, err := s.resolve(ref)
	if err != nil {
		return service.Image{}, err
	}
	if err := s.reg.Revert(img, index); err != nil {
		return s.view(img), fmt.Errorf("revert %s: %w", img.FileName(), err)
	}
	_, err = s.commit(ctx, io.Discard, img)
	s.fireEvent(extension.RevertEvent{ImageID: string(img.ID()), Path: img.Path(), Index: index, Tags: img.Tags()})
	return s.view(img), err
}

// Flush renames every pending image, writing one line per rename to w,
// and saves the registry.
func (s *Service) Flush(ctx context.Context, w io.Writer) (isync.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(ctx, w, s.reg.Dirty()...)
}
