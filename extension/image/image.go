// Package image provides the image extension: the commands that ingest,
// list, move and version images.
// Registers commands: scan, dirs, ls, mv, history, revert, diff, flush, open.
package image

import (
	"github.com/spf13/cobra"

	"github.com/jpl-au/imgtag/extension"
	"github.com/jpl-au/imgtag/internal/service"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the image extension.
type Extension struct {
	svc service.Service
}

var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
)

// Name returns "image".
func (e *Extension) Name() string { return "image" }

// Init connects to the shared catalogue.
func (e *Extension) Init(ctx extension.Context) error {
	e.svc = ctx.Service()
	return nil
}

// Commands returns the image commands.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		e.newScanCmd(),
		e.newDirsCmd(),
		e.newLsCmd(),
		e.newMvCmd(),
		e.newHistoryCmd(),
		e.newRevertCmd(),
		e.newDiffCmd(),
		e.newFlushCmd(),
		e.newOpenCmd(),
	}
}

// MCPTools returns nil; image tools live in internal/mcp.
func (e *Extension) MCPTools() []extension.MCPTool {
	return nil
}
