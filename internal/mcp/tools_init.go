// tools_init.go implements imgtag_init, the one tool that works before a
// catalogue exists.

package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jpl-au/imgtag/internal/catalog"
	"github.com/jpl-au/imgtag/internal/log"
)

// initCatalogue handles imgtag_init.
func (h *handlers) initCatalogue(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.svc != nil {
		return mcp.NewToolResultError("catalogue already initialised"), nil
	}

	local := getBool(req, "local", false)
	err := catalog.Init(false, h.db, local, "")

	log.Event("mcp:init", "init").Author("mcp").Detail("local", local).Write(err)

	if err != nil {
		return errorResult(err)
	}

	svc, err := catalog.New(h.db)
	if err != nil {
		return mcp.NewToolResultError("init succeeded but failed to open catalogue: " + err.Error()), nil
	}
	h.attach(svc)
	slog.Info("catalogue initialised", "local", local)

	if local {
		return mcp.NewToolResultText("catalogue initialised (local - gitignored)"), nil
	}
	return mcp.NewToolResultText("catalogue initialised"), nil
}
