// tools_images.go implements MCP tools that act on images: ingest, listing,
// moves, history, revert, diff and flush. Each delegates to the same
// package the CLI command uses, with output discarded, so both front ends
// behave alike.

package mcp

import (
	"bytes"
	"context"
	"io"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jpl-au/imgtag/internal/diff"
	"github.com/jpl-au/imgtag/internal/history"
	"github.com/jpl-au/imgtag/internal/ingest"
	"github.com/jpl-au/imgtag/internal/log"
	"github.com/jpl-au/imgtag/internal/revert"
	"github.com/jpl-au/imgtag/internal/service"
)

// scan handles imgtag_scan.
func (h *handlers) scan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if res := h.requireInit(); res != nil {
		return res, nil
	}
	dir, err := req.RequireString("dir")
	if err != nil {
		return mcp.NewToolResultError("dir is required"), nil //nolint:nilerr
	}

	res, err := h.svc.Ingest(ctx, io.Discard, dir, ingest.Options{})

	log.Event("mcp:scan", "ingest").Author("mcp").Path(dir).
		Detail("images", res.Images).Detail("replaced", res.Replaced).Write(err)

	if err != nil {
		return errorResult(err)
	}
	return jsonResult(res)
}

// listImages handles imgtag_ls.
func (h *handlers) listImages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if res := h.requireInit(); res != nil {
		return res, nil
	}
	dir := getString(req, "dir", "")
	tag := getString(req, "tag", "")

	var (
		imgs []service.Image
		err  error
	)
	if tag != "" {
		imgs, err = h.svc.TaggedImages(ctx, tag)
		if err == nil && dir != "" {
			imgs = inDir(imgs, dir)
		}
	} else {
		imgs, err = h.svc.Images(ctx, dir)
	}

	log.Event("mcp:ls", "list").Author("mcp").Path(dir).Detail("tag", tag).Detail("count", len(imgs)).Write(err)

	if err != nil {
		return errorResult(err)
	}
	if imgs == nil {
		imgs = []service.Image{}
	}
	return jsonResult(imgs)
}

func inDir(imgs []service.Image, dir string) []service.Image {
	var out []service.Image
	for _, img := range imgs {
		if img.Dir == dir {
			out = append(out, img)
		}
	}
	return out
}

// moveImage handles imgtag_mv.
func (h *handlers) moveImage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if res := h.requireInit(); res != nil {
		return res, nil
	}
	ref, err := req.RequireString("image")
	if err != nil {
		return mcp.NewToolResultError("image is required"), nil //nolint:nilerr
	}
	dir, err := req.RequireString("dir")
	if err != nil {
		return mcp.NewToolResultError("dir is required"), nil //nolint:nilerr
	}

	img, err := h.svc.Move(ctx, ref, dir)

	log.Event("mcp:mv", "move").Author("mcp").Image(ref).Resolved(img.ID).Detail("dir", dir).Write(err)

	if err != nil {
		return errorResult(err)
	}
	return jsonResult(img)
}

// history handles imgtag_history.
func (h *handlers) history(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if res := h.requireInit(); res != nil {
		return res, nil
	}
	ref, err := req.RequireString("image")
	if err != nil {
		return mcp.NewToolResultError("image is required"), nil //nolint:nilerr
	}
	opts := history.Options{
		Changes: getBool(req, "changes", false),
		Limit:   getInt(req, "limit", 0),
	}

	res, err := history.Run(ctx, io.Discard, h.svc, ref, opts)

	log.Event("mcp:history", "history").Author("mcp").Image(ref).Resolved(res.ID).Write(err)

	if err != nil {
		return errorResult(err)
	}
	return jsonResult(res)
}

// revert handles imgtag_revert.
func (h *handlers) revert(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if res := h.requireInit(); res != nil {
		return res, nil
	}
	ref, err := req.RequireString("image")
	if err != nil {
		return mcp.NewToolResultError("image is required"), nil //nolint:nilerr
	}
	if !hasArg(req, "index") {
		return mcp.NewToolResultError("index is required"), nil
	}
	index := getInt(req, "index", 0)

	res, err := revert.Run(ctx, io.Discard, h.svc, ref, index)

	log.Event("mcp:revert", "revert").Author("mcp").Image(ref).Resolved(res.ID).Index(index).Write(err)

	if err != nil {
		return errorResult(err)
	}
	return jsonResult(res)
}

// diffVersions handles imgtag_diff.
func (h *handlers) diffVersions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if res := h.requireInit(); res != nil {
		return res, nil
	}
	ref, err := req.RequireString("image")
	if err != nil {
		return mcp.NewToolResultError("image is required"), nil //nolint:nilerr
	}
	opts := diff.Options{
		From: getInt(req, "from", diff.Previous),
		To:   getInt(req, "to", diff.Latest),
	}

	res, err := diff.Run(ctx, io.Discard, h.svc, ref, opts, false)

	log.Event("mcp:diff", "diff").Author("mcp").Image(ref).Resolved(res.ID).Write(err)

	if err != nil {
		return errorResult(err)
	}
	return jsonResult(res)
}

// flush handles imgtag_flush.
func (h *handlers) flush(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if res := h.requireInit(); res != nil {
		return res, nil
	}

	var buf bytes.Buffer
	res, err := h.svc.Flush(ctx, &buf)

	log.Event("mcp:flush", "flush").Author("mcp").
		Detail("renamed", len(res.Renamed)).Detail("pending", len(res.Pending)).Write(err)

	out := map[string]any{
		"renamed": res.Renamed,
		"pending": res.Pending,
	}
	if err == nil {
		return jsonResult(out)
	}
	// Renames that succeeded are still reported alongside the failures.
	out["error"] = err.Error()
	r, _ := jsonResult(out)
	r.IsError = true
	return r, nil
}
