// db.go implements "imgtag db": listing catalogues in .imgtag and marking
// them local (gitignored) or shared. It only edits .gitignore, so it works
// on catalogues that are locked or damaged.

package core

import (
	"fmt"
	"path/filepath"

	"github.com/jpl-au/imgtag/cmd"
	"github.com/jpl-au/imgtag/extension"
	"github.com/jpl-au/imgtag/internal/log"
	"github.com/jpl-au/imgtag/internal/repo"
	"github.com/spf13/cobra"
)

func newDBCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "db [name]",
		Short: "List or manage catalogues",
		Long: `List catalogues or change their local/shared status.

  imgtag db                     # list all catalogues
  imgtag db --local             # mark the default catalogue as local
  imgtag db holidays --local    # mark imgtag-holidays.db as local
  imgtag db holidays --share    # mark as shared
  imgtag db --dir /path         # list catalogues in another directory

Local catalogues are not committed. Shared catalogues are.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runDB,
	}
	c.Flags().BoolP(extension.FlagLocal, "l", false, "Mark catalogue as local")
	c.Flags().BoolP(extension.FlagShare, "s", false, "Mark catalogue as shared")
	c.MarkFlagsMutuallyExclusive(extension.FlagLocal, extension.FlagShare)
	return c
}

func runDB(c *cobra.Command, args []string) error {
	local, _ := c.Flags().GetBool(extension.FlagLocal)
	share, _ := c.Flags().GetBool(extension.FlagShare)

	// repo functions take the .imgtag directory, not the project root.
	dir := cmd.Dir()
	catDir := ""
	if dir != "" {
		catDir = filepath.Join(dir, repo.Dir)
	}

	if len(args) == 0 && !local && !share {
		err := listDBs(catDir)

		log.Event("core:db", "list").
			Author(cmd.Author()).
			Detail("dir", dir).
			Write(err)

		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("db list: %w", err))
		}
		return nil
	}

	name := ""
	if len(args) > 0 {
		name = args[0]
	}

	if local {
		err := repo.IgnoreDB(name, catDir)

		log.Event("core:db", "ignore").
			Author(cmd.Author()).
			Detail("db", name).
			Detail("dir", dir).
			Write(err)

		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("db ignore %q: %w", name, err))
		}
		fmt.Fprintf(cmd.Out(), "%s marked as local\n", repo.DBFileName(name))
		return nil
	}

	if share {
		err := repo.UnignoreDB(name, catDir)

		log.Event("core:db", "unignore").
			Author(cmd.Author()).
			Detail("db", name).
			Detail("dir", dir).
			Write(err)

		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("db unignore %q: %w", name, err))
		}
		fmt.Fprintf(cmd.Out(), "%s marked as shared\n", repo.DBFileName(name))
		return nil
	}

	ignored, err := repo.IsIgnored(name, catDir)

	log.Event("core:db", "status").
		Author(cmd.Author()).
		Detail("db", name).
		Detail("dir", dir).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("db status %q: %w", name, err))
	}
	status := "shared"
	if ignored {
		status = "local"
	}
	fmt.Fprintf(cmd.Out(), "%s: %s\n", repo.DBFileName(name), status)
	return nil
}

func listDBs(dir string) error {
	dbs, err := repo.ListDBs(dir)
	if err != nil {
		return err
	}
	if cmd.JSON() {
		return cmd.PrintJSON(dbs)
	}

	if len(dbs) == 0 {
		fmt.Fprintln(cmd.Out(), "No catalogues found")
		return nil
	}

	for _, db := range dbs {
		status := "shared"
		if db.Local {
			status = "local"
		}
		fmt.Fprintf(cmd.Out(), "%s  %s\n", db.File, status)
	}
	return nil
}
