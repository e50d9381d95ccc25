// Package history prints the version history of an image.
//
// Every tag change appends a version, so the history reads as the sequence
// of file names the image has carried. The change view shows each
// transition as "old -> new" instead.
package history

import (
	"context"
	"io"

	"github.com/jpl-au/imgtag/internal/format"
	"github.com/jpl-au/imgtag/internal/service"
)

// Options configures a history operation.
type Options struct {
	Changes bool // print transitions instead of names
	Limit   int  // newest entries to print (0 = all)
}

// Result contains the outcome of a history operation.
type Result struct {
	ID       string            `json:"id"`
	Lines    []string          `json:"lines"`
	Versions []service.Version `json:"versions"`
}

// Run retrieves the history of the image ref names and writes it to w.
// Line numbers are version indexes, usable with revert.
func Run(ctx context.Context, w io.Writer, svc service.Service, ref string, opts Options) (Result, error) {
	var result Result

	img, err := svc.Resolve(ctx, ref)
	if err != nil {
		return result, err
	}
	result.ID = img.ID

	if result.Versions, err = svc.History(ctx, img.ID); err != nil {
		return result, err
	}

	first := 0
	if opts.Changes {
		result.Lines, err = svc.ChangeLog(ctx, img.ID)
		first = 1 // a transition is numbered by the version it produced
	} else {
		result.Lines, err = svc.NameHistory(ctx, img.ID)
	}
	if err != nil {
		return result, err
	}

	if opts.Limit > 0 && len(result.Lines) > opts.Limit {
		skip := len(result.Lines) - opts.Limit
		result.Lines = result.Lines[skip:]
		first += skip
	}
	return result, format.History(w, result.Lines, first)
}
