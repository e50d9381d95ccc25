package image

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpl-au/imgtag/cmd"
	"github.com/jpl-au/imgtag/extension"
	"github.com/jpl-au/imgtag/internal/log"
	"github.com/jpl-au/imgtag/internal/open"
)

func (e *Extension) newOpenCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "open <image>",
		Short: "Open an image in the default viewer",
		Long:  `Open an image, or with --folder its directory, in the platform's default application.`,
		Args:  cobra.ExactArgs(1),
		RunE:  e.runOpen,
	}
	c.Flags().BoolP(extension.FlagFolder, "f", false, "Open the containing folder")
	return c
}

func (e *Extension) runOpen(c *cobra.Command, args []string) error {
	ref := args[0]
	folder, _ := c.Flags().GetBool(extension.FlagFolder)

	img, err := e.svc.Resolve(c.Context(), ref)
	if err == nil {
		if folder {
			err = open.Folder(img.Path)
		} else {
			err = open.Path(img.Path)
		}
	}

	log.Event("image:open", "open").
		Author(cmd.Author()).
		Image(ref).
		Resolved(img.ID).
		Path(img.Path).
		Detail("folder", folder).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("open %q: %w", ref, err))
	}
	return cmd.PrintJSON(map[string]string{"id": img.ID, "path": img.Path})
}
