// tag.go implements tag name validation.
//
// Tag names are encoded into file names as " @name", so the rules follow
// from the encoding: the marker and the separator must never appear inside
// a name or the name could not be parsed back from disk.

package validate

import (
	"fmt"
	"strings"
)

// Marker prefixes every tag in an encoded file name.
const Marker = "@"

// TagName validates a tag name.
//
// Rejected:
//   - empty names
//   - names containing a space (the separator between encoded tags)
//   - names containing the @ marker
//
// Anything else is accepted. A name the filesystem cannot hold fails
// later, at rename time, as a filesystem error.
func TagName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidTagName)
	}
	if strings.Contains(name, " ") {
		return fmt.Errorf("%w: %q contains a space", ErrInvalidTagName, name)
	}
	if strings.Contains(name, Marker) {
		return fmt.Errorf("%w: %q contains %q", ErrInvalidTagName, name, Marker)
	}
	return nil
}
