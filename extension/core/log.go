// log.go implements "imgtag log", which prints recent audit entries.

package core

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jpl-au/imgtag/cmd"
	"github.com/jpl-au/imgtag/extension"
	"github.com/jpl-au/imgtag/internal/log"
	"github.com/jpl-au/imgtag/internal/repo"
)

func newLogCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "log [image-id]",
		Short: "Show recent audit log entries",
		Long: `Show what imgtag commands did, newest first. Entries come from the
audit database and are scoped to the current catalogue unless --all-repos
is given. An image ID narrows the list to that image.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runLog,
	}
	c.Flags().IntP(extension.FlagLimit, "n", 20, "Number of entries")
	c.Flags().Bool(extension.FlagAllRepos, false, "Include every catalogue")
	return c
}

func runLog(c *cobra.Command, args []string) error {
	var f log.Filter
	f.Limit, _ = c.Flags().GetInt(extension.FlagLimit)
	f.AllRepo, _ = c.Flags().GetBool(extension.FlagAllRepos)
	if len(args) > 0 {
		f.Image = strings.ToLower(args[0])
	}

	// log is storeless, so scope entries to the catalogue ourselves.
	if !f.AllRepo {
		if p, err := repo.Locate(cmd.Dir(), cmd.DB()); err == nil {
			log.SetProject(filepath.Dir(p))
		}
	}

	recs, err := log.Recent(f)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("log: %w", err))
	}
	if cmd.JSON() {
		return cmd.PrintJSON(recs)
	}
	if len(recs) == 0 {
		fmt.Fprintln(cmd.Out(), "No entries")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.Out(), 0, 0, 2, ' ', 0)
	for _, r := range recs {
		status := "ok"
		if !r.Success {
			status = "error: " + r.Error
		}
		target := r.Path
		if target == "" {
			target = r.Image
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.At.Local().Format(time.DateTime), r.Source, r.Author, target, status)
	}
	return tw.Flush()
}
