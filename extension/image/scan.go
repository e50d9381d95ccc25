// scan.go implements "imgtag scan", the ingest command.
//
// Flags override config for a single run: --max-depth replaces
// ingest.max_depth and --skip-hidden forces hidden entries off.

package image

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jpl-au/imgtag/cmd"
	"github.com/jpl-au/imgtag/extension"
	"github.com/jpl-au/imgtag/internal/ingest"
	"github.com/jpl-au/imgtag/internal/log"
)

func (e *Extension) newScanCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "scan [dir]",
		Short: "Register every image below a directory",
		Long: `Walk a directory tree and register every image in it, reading tags
from the file names. Defaults to the last scanned directory, or the
current directory on the first scan.

  imgtag scan ~/Pictures
  imgtag scan . --skip-hidden`,
		Args: cobra.MaximumNArgs(1),
		RunE: e.runScan,
	}
	c.Flags().Int(extension.FlagMaxDepth, 0, "Directory recursion limit (default from config)")
	c.Flags().Bool(extension.FlagSkipHidden, false, "Skip dot-files and dot-directories")
	return c
}

func (e *Extension) runScan(c *cobra.Command, args []string) error {
	ctx := c.Context()
	root := e.svc.LastDirectory(ctx)
	if len(args) > 0 {
		root = args[0]
	}
	if root == "" {
		root = "."
	}

	var opts ingest.Options
	opts.MaxDepth, _ = c.Flags().GetInt(extension.FlagMaxDepth)
	opts.SkipHidden, _ = c.Flags().GetBool(extension.FlagSkipHidden)
	if opts.MaxDepth < 0 {
		return cmd.PrintJSONError(fmt.Errorf("max-depth must be >= 0, got %d", opts.MaxDepth))
	}

	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}

	res, err := e.svc.Ingest(ctx, w, root, opts)

	log.Event("image:scan", "ingest").
		Author(cmd.Author()).
		Path(root).
		Detail("images", res.Images).
		Detail("replaced", res.Replaced).
		Detail("directories", res.Directories).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("scan %q: %w", root, err))
	}

	if !cmd.JSON() {
		for _, d := range res.Dropped {
			fmt.Fprintf(w, "Dropped invalid tag %s\n", d)
		}
		fmt.Fprintf(w, "Scanned %d directories: %d images, %d new tags", res.Directories, res.Images, res.Tags)
		if res.Replaced > 0 {
			fmt.Fprintf(w, ", %d replaced", res.Replaced)
		}
		fmt.Fprintln(w)
	}
	return cmd.PrintJSON(res)
}
