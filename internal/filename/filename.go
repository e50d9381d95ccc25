// Package filename encodes and decodes tags in image file names.
//
// An encoded name has the form
//
//	<base>( @<tag>)*.<ext>
//
// The @ marker is reserved: it never appears in a base name or tag name, so
// a name can be split back into its parts without ambiguity. Only the
// extensions in Extensions are recognised, and matching is case-sensitive.
package filename

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/jpl-au/imgtag/internal/validate"
)

// Extensions lists the recognised image extensions, dot included.
var Extensions = []string{".gif", ".jpg", ".jpeg", ".tiff", ".png"}

// Parsed is a decoded file name.
type Parsed struct {
	Base    string   // tag-free stem
	Ext     string   // extension without the leading dot
	Tags    []string // valid tag tokens in file-name order
	Dropped []string // tokens that failed tag name validation
}

// IsImage reports whether name carries one of the recognised extensions.
func IsImage(name string) bool {
	return slices.Contains(Extensions, filepath.Ext(name))
}

// Parse decodes a file name (not a path). ok is false when the extension
// is not recognised.
//
// The stem is split on the marker. The first piece is the base name and
// every following piece is a tag token; the single space that separates
// one token from the next marker is not part of the token. Tokens that
// fail validation are dropped rather than treated as fatal.
func Parse(name string) (p Parsed, ok bool) {
	ext := filepath.Ext(name)
	if !slices.Contains(Extensions, ext) {
		return Parsed{}, false
	}
	stem := strings.TrimSuffix(name, ext)
	p.Ext = ext[1:]

	parts := strings.Split(stem, validate.Marker)
	last := len(parts) - 1
	for i, part := range parts {
		if i < last {
			part = strings.TrimSuffix(part, " ")
		}
		if i == 0 {
			p.Base = part
			continue
		}
		if validate.TagName(part) != nil {
			p.Dropped = append(p.Dropped, part)
			continue
		}
		p.Tags = append(p.Tags, part)
	}
	return p, true
}

// Format builds the canonical file name for base, tags (in order) and ext.
// An empty base gets no separator before its first tag, so "@x.jpg" is
// already canonical.
func Format(base string, tags []string, ext string) string {
	var b strings.Builder
	b.WriteString(base)
	for i, t := range tags {
		if i > 0 || base != "" {
			b.WriteString(" ")
		}
		b.WriteString(validate.Marker)
		b.WriteString(t)
	}
	b.WriteString(".")
	b.WriteString(ext)
	return b.String()
}
