package image

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jpl-au/imgtag/cmd"
	"github.com/jpl-au/imgtag/internal/log"
	"github.com/jpl-au/imgtag/internal/revert"
)

func (e *Extension) newRevertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revert <image> <index>",
		Short: "Restore the tags of an earlier version",
		Long: `Restore the tags an image had at a version index, as shown by
history. The revert is itself recorded as a new version.`,
		Args: cobra.ExactArgs(2),
		RunE: e.runRevert,
	}
}

func (e *Extension) runRevert(c *cobra.Command, args []string) error {
	ctx := c.Context()
	ref := args[0]
	index, err := strconv.Atoi(args[1])
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("invalid version index %q", args[1]))
	}

	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}

	res, err := revert.Run(ctx, w, e.svc, ref, index)

	log.Event("image:revert", "revert").
		Author(cmd.Author()).
		Image(ref).
		Resolved(res.ID).
		Index(index).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("revert %q: %w", ref, err))
	}
	return cmd.PrintJSON(res)
}
