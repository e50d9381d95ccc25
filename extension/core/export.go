// export.go implements "imgtag export", which writes the catalogue as a
// YAML manifest.

package core

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jpl-au/imgtag/cmd"
	"github.com/jpl-au/imgtag/extension"
	"github.com/jpl-au/imgtag/internal/exporter"
	"github.com/jpl-au/imgtag/internal/log"
)

func (e *Extension) newExportCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "export [file|dir]",
		Short: "Write the catalogue as a YAML manifest",
		Long: `Write directories, tags and images to a YAML manifest.
A directory argument writes ` + exporter.DefaultName + ` inside it.

  imgtag export                        # ./` + exporter.DefaultName + `
  imgtag export backup.yaml --history  # include version logs
  imgtag export --only 2024            # images under one directory

An existing file is kept unless --force is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: e.runExport,
	}
	c.Flags().Bool(extension.FlagHistory, false, "Include each image's version log")
	c.Flags().String(extension.FlagOnly, "", "Only export images in this directory")
	return c
}

func (e *Extension) runExport(c *cobra.Command, args []string) error {
	dst := "."
	if len(args) > 0 {
		dst = args[0]
	}
	opts := exporter.Options{Force: cmd.Force()}
	opts.History, _ = c.Flags().GetBool(extension.FlagHistory)
	opts.Dir, _ = c.Flags().GetString(extension.FlagOnly)

	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}

	res, err := exporter.Run(c.Context(), w, e.svc, dst, opts)

	log.Event("core:export", "export").
		Author(cmd.Author()).
		Path(res.Path).
		Detail("images", res.Images).
		Detail("history", opts.History).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("export: %w", err))
	}
	return cmd.PrintJSON(res)
}
