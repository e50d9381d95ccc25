// history.go implements "imgtag history" and "imgtag diff".
//
// Both read the version log: history lists the file name of every version,
// diff compares the tag sets of two of them.

package image

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jpl-au/imgtag/cmd"
	"github.com/jpl-au/imgtag/extension"
	"github.com/jpl-au/imgtag/internal/diff"
	"github.com/jpl-au/imgtag/internal/history"
	"github.com/jpl-au/imgtag/internal/log"
)

func (e *Extension) newHistoryCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "history <image>",
		Short: "Show the names an image has carried",
		Long: `Show one line per version: its index, timestamp and file name.
The index is what revert and diff take.

  imgtag history beach
  imgtag history beach --changes   # "old -> new" per change`,
		Args: cobra.ExactArgs(1),
		RunE: e.runHistory,
	}
	c.Flags().IntP(extension.FlagLimit, "n", 0, "Newest entries to show")
	c.Flags().BoolP(extension.FlagChanges, "c", false, "Show transitions instead of names")
	return c
}

func (e *Extension) runHistory(c *cobra.Command, args []string) error {
	ctx := c.Context()
	ref := args[0]
	var opts history.Options
	opts.Limit, _ = c.Flags().GetInt(extension.FlagLimit)
	opts.Changes, _ = c.Flags().GetBool(extension.FlagChanges)

	if opts.Limit < 0 {
		return cmd.PrintJSONError(fmt.Errorf("limit must be >= 0, got %d", opts.Limit))
	}

	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}

	res, err := history.Run(ctx, w, e.svc, ref, opts)

	log.Event("image:history", "history").
		Author(cmd.Author()).
		Image(ref).
		Resolved(res.ID).
		Detail("count", len(res.Versions)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("history %q: %w", ref, err))
	}
	return cmd.PrintJSON(res)
}

func (e *Extension) newDiffCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "diff <image> [from] [to]",
		Short: "Compare the tags of two versions",
		Long: `Show tags added and removed between two versions of an image.
Without versions the latest is compared with the one before it.

  imgtag diff beach
  imgtag diff beach 0 3
  imgtag diff beach 1      # version 1 against the latest
  imgtag diff beach -v 0:3`,
		Args: cobra.RangeArgs(1, 3),
		RunE: e.runDiff,
	}
	c.Flags().StringP(extension.FlagVersions, "v", "", "Version range (e.g. 0:3)")
	c.Flags().Bool(extension.FlagRaw, false, "Output without colour")
	return c
}

func (e *Extension) runDiff(c *cobra.Command, args []string) error {
	ctx := c.Context()
	ref := args[0]
	verRange, _ := c.Flags().GetString(extension.FlagVersions)
	raw, _ := c.Flags().GetBool(extension.FlagRaw)

	opts := diff.Options{From: diff.Previous, To: diff.Latest}
	switch {
	case len(args) > 1 && verRange != "":
		return cmd.PrintJSONError(fmt.Errorf("give versions as arguments or with -v, not both"))
	case len(args) == 2:
		from, err := strconv.Atoi(args[1])
		if err != nil || from < 0 {
			return cmd.PrintJSONError(fmt.Errorf("invalid version index %q", args[1]))
		}
		opts.From = from
	case len(args) == 3:
		verRange = args[1] + ":" + args[2]
	}
	if verRange != "" {
		var err error
		if opts.From, opts.To, err = diff.ParseVersionRange(verRange); err != nil {
			return cmd.PrintJSONError(err)
		}
	}

	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}
	colour := !raw && term.IsTerminal(int(os.Stdout.Fd()))

	res, err := diff.Run(ctx, w, e.svc, ref, opts, colour)

	log.Event("image:diff", "diff").
		Author(cmd.Author()).
		Image(ref).
		Resolved(res.ID).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("diff %q: %w", ref, err))
	}
	return cmd.PrintJSON(res)
}
