// read.go implements the query side of the service: reference resolution,
// listings and history. Queries never change the registry.

package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jpl-au/imgtag/internal/registry"
	"github.com/jpl-au/imgtag/internal/service"
	"github.com/jpl-au/imgtag/internal/validate"
)

// resolve finds the image named by ref: an image ID, a file path (current
// or canonical name) or "dir/baseName". Caller holds s.mu.
func (s *Service) resolve(ref string) (*registry.Image, error) {
	if img, ok := s.reg.Image(registry.ImageID(strings.ToLower(ref))); ok {
		return img, nil
	}
	abs, err := filepath.Abs(ref)
	if err == nil {
		if img, ok := s.reg.FindPath(abs); ok {
			return img, nil
		}
		if img, ok := s.reg.Find(filepath.Dir(abs), filepath.Base(abs)); ok {
			return img, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", validate.ErrNotFound, ref)
}

// view converts img to its read-only form. Caller holds s.mu.
func (s *Service) view(img *registry.Image) service.Image {
	return service.Image{
		ID:       string(img.ID()),
		Name:     img.FileName(),
		Base:     img.BaseName(),
		Ext:      img.Ext(),
		Dir:      img.Dir(),
		Path:     img.Path(),
		Tags:     img.Tags(),
		Versions: img.Versions(),
		Pending:  s.reg.IsDirty(img),
	}
}

func (s *Service) views(imgs []*registry.Image) []service.Image {
	out := make([]service.Image, len(imgs))
	for i, img := range imgs {
		out[i] = s.view(img)
	}
	return out
}

// Resolve returns the image a reference names.
func (s *Service) Resolve(ctx context.Context, ref string) (service.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, err := s.resolve(ref)
	if err != nil {
		return service.Image{}, err
	}
	return s.view(img), nil
}

// LastDirectory returns the most recently ingested root.
func (s *Service) LastDirectory(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reg.LastDirectory()
}

// Directories lists every directory index in creation order.
func (s *Service) Directories(ctx context.Context) []service.Directory {
	s.mu.Lock()
	defer s.mu.Unlock()
	dirs := s.reg.Directories()
	out := make([]service.Directory, len(dirs))
	for i, d := range dirs {
		out[i] = service.Directory{Path: d.Path(), Name: d.Name(), Images: d.Len()}
	}
	return out
}

// Images lists the images of one directory, or all of them when dir is empty.
func (s *Service) Images(ctx context.Context, dir string) ([]service.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if dir == "" {
		return s.views(s.reg.AllImages()), nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", validate.ErrNotFound, dir)
	}
	d, ok := s.reg.Directory(abs)
	if !ok {
		return nil, fmt.Errorf("%w: directory %s", validate.ErrNotFound, dir)
	}
	return s.views(s.reg.Images(d)), nil
}

// Tags lists every tag in creation order with its image count.
func (s *Service) Tags(ctx context.Context) []service.TagInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.reg.Tags().All()
	out := make([]service.TagInfo, len(all))
	for i, t := range all {
		out[i] = service.TagInfo{Name: t.Name(), Images: t.Len()}
	}
	return out
}

// TaggedImages lists the images carrying the named tag.
func (s *Service) TaggedImages(ctx context.Context, name string) ([]service.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.tag(name)
	if err != nil {
		return nil, err
	}
	return s.views(s.reg.TaggedImages(t)), nil
}

// tag looks up an existing tag. A leading "@" is accepted. Caller holds s.mu.
func (s *Service) tag(name string) (*registry.Tag, error) {
	name = strings.TrimPrefix(name, validate.Marker)
	t, ok := s.reg.Tags().Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", validate.ErrTagNotFound, name)
	}
	return t, nil
}

// History returns every recorded version of an image, oldest first.
func (s *Service) History(ctx context.Context, ref string) ([]service.Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}
	entries := img.Log()
	out := make([]service.Version, len(entries))
	for i, e := range entries {
		out[i] = service.Version{Index: i, At: e.At, Name: img.NameAt(i), Tags: e.Tags}
	}
	return out, nil
}

// NameHistory returns one "timestamp: name" line per version, formatted
// with the configured history.time_format.
func (s *Service) NameHistory(ctx context.Context, ref string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}
	return img.NameHistory(s.cfg.TimeFormat()), nil
}

// ChangeLog returns one "timestamp: old -> new" line per transition.
func (s *Service) ChangeLog(ctx context.Context, ref string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}
	return img.ChangeLog(s.cfg.TimeFormat()), nil
}

// Pending lists images whose file name does not yet match their tags.
func (s *Service) Pending(ctx context.Context) []service.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.views(s.reg.Dirty())
}
