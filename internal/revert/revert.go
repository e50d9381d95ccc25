// Package revert restores an image's tags from its version log.
//
// Revert moves forward: the restored tag set is appended as a new version
// rather than truncating the log, so a revert can itself be reverted.
package revert

import (
	"context"
	"fmt"
	"io"

	"github.com/jpl-au/imgtag/internal/service"
)

// Result contains the outcome of a revert operation.
type Result struct {
	ID         string   `json:"id"`
	RevertedTo int      `json:"reverted_to"` // version index restored
	NewVersion int      `json:"new_version"` // index of the version the revert created
	Name       string   `json:"name"`
	Tags       []string `json:"tags"`
}

// Run reverts the image ref names to version index.
func Run(ctx context.Context, w io.Writer, svc service.Service, ref string, index int) (Result, error) {
	result := Result{RevertedTo: index}

	img, err := svc.Revert(ctx, ref, index)
	result.ID = img.ID
	if err != nil {
		return result, err
	}

	result.NewVersion = img.Versions - 1
	result.Name = img.Name
	result.Tags = img.Tags
	if result.Tags == nil {
		result.Tags = []string{}
	}

	fmt.Fprintf(w, "Reverted %s to v%d (now v%d)\n", img.Name, index, result.NewVersion)
	return result, nil
}
