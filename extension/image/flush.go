// flush.go implements "imgtag flush", which retries renames that failed
// when a tag change was made.

package image

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jpl-au/imgtag/cmd"
	"github.com/jpl-au/imgtag/internal/log"
)

func (e *Extension) newFlushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flush",
		Short: "Rename pending images",
		Long: `Rename every image whose file name does not match its tags yet.
Renames that fail again stay pending.`,
		Args: cobra.NoArgs,
		RunE: e.runFlush,
	}
}

func (e *Extension) runFlush(c *cobra.Command, _ []string) error {
	ctx := c.Context()
	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}

	res, err := e.svc.Flush(ctx, w)

	log.Event("image:flush", "flush").
		Author(cmd.Author()).
		Detail("renamed", len(res.Renamed)).
		Detail("pending", len(res.Pending)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("flush: %w", err))
	}
	if !cmd.JSON() && len(res.Renamed) == 0 {
		fmt.Fprintln(w, "Nothing to rename")
	}
	return cmd.PrintJSON(res)
}
