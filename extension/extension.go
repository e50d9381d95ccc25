// Package extension is the plugin architecture for imgtag. Extensions
// contribute CLI commands and MCP tools, and can react to catalogue
// events. They register in init() and receive the shared catalogue
// through a Context once a command needs it.
package extension

import (
	"github.com/spf13/cobra"
)

// Extension is the contract every imgtag extension implements.
type Extension interface {
	// Name returns a unique identifier for this extension.
	Name() string

	// Commands returns CLI commands to register with the root command.
	Commands() []*cobra.Command

	// MCPTools returns MCP tools to register with the server.
	MCPTools() []MCPTool
}

// Initializable extensions run setup, such as creating their own tables,
// once the catalogue is open.
type Initializable interface {
	Extension
	Init(ctx Context) error
}

// Storeless extensions name commands that must run without an open
// catalogue: init runs before one exists, serve and watch manage their
// own service lifecycle.
type Storeless interface {
	NoStoreCommands() []string
}
