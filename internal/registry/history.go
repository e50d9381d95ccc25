// history.go renders the version log as name history and change log
// lines. Both use the file name the image would have carried at each entry.

package registry

import (
	"fmt"

	"github.com/jpl-au/imgtag/internal/filename"
)

// DefaultTimeFormat is used when no layout is supplied.
const DefaultTimeFormat = "2006-01-02T15:04:05"

// NameAt returns the canonical file name as of log entry i.
func (img *Image) NameAt(i int) string {
	return filename.Format(img.base, img.log[i].Tags, img.ext)
}

// NameHistory returns one "timestamp: name" line per log entry.
func (img *Image) NameHistory(layout string) []string {
	if layout == "" {
		layout = DefaultTimeFormat
	}
	out := make([]string, len(img.log))
	for i, e := range img.log {
		out[i] = fmt.Sprintf("%s: %s", e.At.Format(layout), img.NameAt(i))
	}
	return out
}

// ChangeLog returns one "timestamp: old -> new" line per pair of
// consecutive log entries, stamped with the later entry's time. It always
// has one line fewer than NameHistory.
func (img *Image) ChangeLog(layout string) []string {
	if layout == "" {
		layout = DefaultTimeFormat
	}
	if len(img.log) < 2 {
		return []string{}
	}
	out := make([]string, 0, len(img.log)-1)
	for i := 1; i < len(img.log); i++ {
		out = append(out, fmt.Sprintf("%s: %s -> %s",
			img.log[i].At.Format(layout), img.NameAt(i-1), img.NameAt(i)))
	}
	return out
}
