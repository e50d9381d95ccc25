// Package diff compares the tag sets of two versions of an image.
//
// Each version's tags are rendered one per line and diffed in line mode,
// so the output reads like a unified diff of tag lists: removed tags are
// prefixed "- ", added tags "+ " and unchanged tags are indented.
package diff

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jpl-au/imgtag/internal/service"
	"github.com/jpl-au/imgtag/internal/validate"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// contextLines is the number of unchanged lines shown before/after changes.
// Longer unchanged runs are collapsed with "...".
const contextLines = 3

// Version selectors for Options.
const (
	Latest   = -1 // newest version
	Previous = -2 // the version before To
)

// Options configures a diff operation.
type Options struct {
	From int // older version index, or Previous
	To   int // newer version index, or Latest
}

// Result holds diff output.
type Result struct {
	ID      string   `json:"id"`
	Old     string   `json:"old"` // old label
	New     string   `json:"new"` // new label
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
	Diff    string   `json:"diff"` // plain diff text
}

// Run diffs two versions of the image ref names and writes the result to w.
func Run(ctx context.Context, w io.Writer, svc service.Service, ref string, opts Options, colour bool) (Result, error) {
	img, err := svc.Resolve(ctx, ref)
	if err != nil {
		return Result{}, err
	}
	hist, err := svc.History(ctx, img.ID)
	if err != nil {
		return Result{}, err
	}
	if opts.To == Latest {
		opts.To = len(hist) - 1
	}
	if opts.From == Previous {
		opts.From = max(opts.To-1, 0)
	}
	for _, v := range []int{opts.From, opts.To} {
		if v < 0 || v >= len(hist) {
			return Result{}, fmt.Errorf("%w: version %d of %d", validate.ErrIndexOutOfRange, v, len(hist))
		}
	}

	older, newer := hist[opts.From], hist[opts.To]
	r := Compute(older.Tags, newer.Tags, label(older), label(newer))
	r.ID = img.ID
	fmt.Fprint(w, r.Format(colour))
	return r, nil
}

func label(v service.Version) string {
	return "v" + strconv.Itoa(v.Index) + " " + v.Name
}

// Compute returns a line diff between two tag lists.
func Compute(oldTags, newTags []string, oldLabel, newLabel string) Result {
	dmp := diffmatchpatch.New()
	a, b, table := dmp.DiffLinesToChars(lines(oldTags), lines(newTags))
	d := dmp.DiffMain(a, b, false)
	d = dmp.DiffCharsToLines(d, table)

	r := Result{Old: oldLabel, New: newLabel, Added: []string{}, Removed: []string{}}
	for _, x := range d {
		text := strings.Split(strings.TrimSuffix(x.Text, "\n"), "\n")
		switch x.Type {
		case diffmatchpatch.DiffInsert:
			r.Added = append(r.Added, text...)
		case diffmatchpatch.DiffDelete:
			r.Removed = append(r.Removed, text...)
		}
	}
	r.Diff = format(d)
	return r
}

func lines(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return strings.Join(tags, "\n") + "\n"
}

// format converts diffs to unified-style text.
func format(diffs []diffmatchpatch.Diff) string {
	var b strings.Builder
	for _, d := range diffs {
		text := strings.TrimSuffix(d.Text, "\n")
		if text == "" {
			continue
		}
		lines := strings.Split(text, "\n")
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			for _, l := range lines {
				b.WriteString("- " + l + "\n")
			}
		case diffmatchpatch.DiffInsert:
			for _, l := range lines {
				b.WriteString("+ " + l + "\n")
			}
		case diffmatchpatch.DiffEqual:
			if len(lines) > 2*contextLines {
				for i := range contextLines {
					b.WriteString("  " + lines[i] + "\n")
				}
				b.WriteString("  ...\n")
				for i := len(lines) - contextLines; i < len(lines); i++ {
					b.WriteString("  " + lines[i] + "\n")
				}
			} else {
				for _, l := range lines {
					b.WriteString("  " + l + "\n")
				}
			}
		}
	}
	return b.String()
}

// Colourise adds ANSI colours to diff output.
func Colourise(d string) string {
	const (
		red   = "\033[31m"
		green = "\033[32m"
		reset = "\033[0m"
	)

	var b strings.Builder
	for _, line := range strings.Split(d, "\n") {
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "- "):
			b.WriteString(red + line + reset + "\n")
		case strings.HasPrefix(line, "+ "):
			b.WriteString(green + line + reset + "\n")
		default:
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

// Format returns the full diff with header.
func (r Result) Format(colour bool) string {
	header := fmt.Sprintf("--- %s\n+++ %s\n", r.Old, r.New)
	if colour {
		return header + Colourise(r.Diff)
	}
	return header + r.Diff
}

// ParseVersionRange parses a range like "0:3" into two version indexes.
func ParseVersionRange(s string) (from, to int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid version range %q (expected from:to)", s)
	}
	if parts[0] == "" || parts[1] == "" {
		return 0, 0, fmt.Errorf("invalid version range %q: both versions required", s)
	}
	from, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid start version: %w", err)
	}
	to, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid end version: %w", err)
	}
	if from < 0 {
		return 0, 0, fmt.Errorf("start version must be >= 0, got %d", from)
	}
	if to < 0 {
		return 0, 0, fmt.Errorf("end version must be >= 0, got %d", to)
	}
	return from, to, nil
}
