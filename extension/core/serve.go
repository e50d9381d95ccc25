// serve.go implements "imgtag serve". The MCP server blocks on stdio and
// opens its own catalogue, so serve is a storeless command.

package core

import (
	"github.com/spf13/cobra"

	"github.com/jpl-au/imgtag/cmd"
	"github.com/jpl-au/imgtag/internal/mcp"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start MCP server",
		Long: `Start an MCP (Model Context Protocol) server over stdio.

  imgtag serve               # serve .imgtag/imgtag.db
  imgtag serve --db holidays # serve imgtag-holidays.db

The server starts even without a catalogue; call imgtag_init first.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return mcp.Serve(cmd.DB())
		},
	}
}
