package image

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpl-au/imgtag/cmd"
	"github.com/jpl-au/imgtag/internal/log"
)

// mvResult contains the outcome of a move.
type mvResult struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
}

func (e *Extension) newMvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mv <image> <dir>",
		Short: "Move an image to another directory",
		Long: `Move an image into another existing directory. The image keeps its
ID, tags and history.`,
		Args: cobra.ExactArgs(2),
		RunE: e.runMv,
	}
}

func (e *Extension) runMv(c *cobra.Command, args []string) error {
	ctx := c.Context()
	ref, dir := args[0], args[1]

	from, _ := e.svc.Resolve(ctx, ref)
	img, err := e.svc.Move(ctx, ref, dir)

	log.Event("image:mv", "move").
		Author(cmd.Author()).
		Image(ref).
		Resolved(img.ID).
		Detail("from", from.Path).
		Detail("to", img.Path).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("mv %q to %q: %w", ref, dir, err))
	}

	if !cmd.JSON() {
		fmt.Fprintf(cmd.Out(), "Moved %s -> %s\n", from.Path, img.Path)
	}
	return cmd.PrintJSON(mvResult{ID: img.ID, From: from.Path, To: img.Path})
}
