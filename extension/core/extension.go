// Package core provides the core extension for imgtag.
// It registers commands: init, config, db, serve, guide, stats, vacuum,
// export, watch, log and version.
package core

import (
	"github.com/spf13/cobra"

	"github.com/jpl-au/imgtag/extension"
	"github.com/jpl-au/imgtag/internal/config"
	"github.com/jpl-au/imgtag/internal/service"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the core extension. svc and cfg are set only for
// commands that open the catalogue.
type Extension struct {
	svc service.Service
	cfg *config.Config
}

var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
	_ extension.Storeless     = (*Extension)(nil)
)

// Name returns "core".
func (e *Extension) Name() string { return "core" }

// Init receives the shared service.
func (e *Extension) Init(ctx extension.Context) error {
	e.svc = ctx.Service()
	e.cfg = ctx.Config()
	return nil
}

// Commands returns the catalogue management commands.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		newInitCmd(),
		newConfigCmd(),
		newDBCmd(),
		newServeCmd(),
		newGuideCmd(),
		newVersionCmd(),
		newLogCmd(),
		e.newStatsCmd(),
		e.newVacuumCmd(),
		e.newExportCmd(),
		e.newWatchCmd(),
	}
}

// MCPTools returns nil. Core operations are exposed by internal/mcp.
func (e *Extension) MCPTools() []extension.MCPTool {
	return nil
}

// NoStoreCommands returns the core commands that run without the shared
// service. serve opens its own; db edits .gitignore only; log reads the
// audit database.
func (e *Extension) NoStoreCommands() []string {
	return []string{"serve", "db", "version", "log"}
}
