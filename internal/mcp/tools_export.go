package mcp

import (
	"context"
	"io"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jpl-au/imgtag/internal/exporter"
	"github.com/jpl-au/imgtag/internal/log"
)

// exportManifest handles imgtag_export.
func (h *handlers) exportManifest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if res := h.requireInit(); res != nil {
		return res, nil
	}
	dest, err := req.RequireString("dest")
	if err != nil {
		return mcp.NewToolResultError("dest is required"), nil //nolint:nilerr
	}
	opts := exporter.Options{
		History: getBool(req, "history", false),
		Force:   getBool(req, "force", false),
	}

	res, err := exporter.Run(ctx, io.Discard, h.svc, dest, opts)

	log.Event("mcp:export", "export").Author("mcp").Path(dest).Detail("images", res.Images).Write(err)

	if err != nil {
		return errorResult(err)
	}
	return jsonResult(res)
}
