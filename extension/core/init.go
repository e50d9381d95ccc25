// init.go implements "imgtag init".
//
// Init runs before a catalogue exists, so it never touches the shared
// service. It does not scan either; "imgtag scan" does that.

package core

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jpl-au/imgtag/cmd"
	"github.com/jpl-au/imgtag/extension"
	"github.com/jpl-au/imgtag/internal/catalog"
	"github.com/jpl-au/imgtag/internal/log"
	"github.com/jpl-au/imgtag/internal/repo"
)

func newInitCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "init",
		Short: "Initialise a new imgtag catalogue",
		Long: `Creates a .imgtag/imgtag.db catalogue in the current directory.

  imgtag init                  # .imgtag/imgtag.db
  imgtag init --db holidays    # .imgtag/imgtag-holidays.db
  imgtag init --dir ~/Pictures # ~/Pictures/.imgtag/imgtag.db
  imgtag init --local          # keep the catalogue out of git

Run "imgtag scan" afterwards to register images.`,
		Args: cobra.NoArgs,
		RunE: runInit,
	}
	c.Flags().BoolP(extension.FlagLocal, "l", false, "Mark catalogue as local (gitignored)")
	return c
}

func runInit(c *cobra.Command, _ []string) error {
	local, _ := c.Flags().GetBool(extension.FlagLocal)
	db, dir := cmd.DB(), cmd.Dir()

	if local && dir != "" {
		return cmd.PrintJSONError(fmt.Errorf("cannot use --local with --dir: --local edits this project's .gitignore"))
	}

	err := catalog.Init(cmd.Force(), db, local, dir)

	log.Event("core:init", "init").
		Author(cmd.Author()).
		Detail("db", db).
		Detail("dir", dir).
		Detail("local", local).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("init: %w", err))
	}

	loc := filepath.Join(dir, repo.Dir, repo.DBFileName(db))
	if !cmd.JSON() {
		fmt.Fprintf(cmd.Out(), "Initialised imgtag catalogue in %s\n", loc)
	}
	return cmd.PrintJSON(map[string]string{"path": loc})
}
