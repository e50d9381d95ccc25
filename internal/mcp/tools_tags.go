// tools_tags.go implements MCP tools for tagging. Adding a tag an image
// already carries, or removing one it lacks, succeeds without recording a
// version, so clients need not track current tags.

package mcp

import (
	"context"
	"io"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jpl-au/imgtag/internal/log"
	"github.com/jpl-au/imgtag/internal/tag"
)

// listTags handles imgtag_tags.
func (h *handlers) listTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if res := h.requireInit(); res != nil {
		return res, nil
	}
	ref := getString(req, "image", "")
	if ref == "" {
		all := h.svc.Tags(ctx)
		log.Event("mcp:tags", "list_tags").Author("mcp").Detail("count", len(all)).Write(nil)
		return jsonResult(all)
	}

	res, err := tag.List(ctx, io.Discard, h.svc, ref)

	log.Event("mcp:tags", "list_tags").Author("mcp").Image(ref).Resolved(res.ID).Write(err)

	if err != nil {
		return errorResult(err)
	}
	return jsonResult(res)
}

// tagAdd handles imgtag_tag_add.
func (h *handlers) tagAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if res := h.requireInit(); res != nil {
		return res, nil
	}
	ref, err := req.RequireString("image")
	if err != nil {
		return mcp.NewToolResultError("image is required"), nil //nolint:nilerr
	}
	tags := getStrings(req, "tags")
	if len(tags) == 0 {
		return mcp.NewToolResultError("tags is required"), nil
	}

	res, err := tag.Add(ctx, io.Discard, h.svc, ref, tags...)

	log.Event("mcp:tag_add", "tag").Author("mcp").Image(ref).Resolved(res.ID).Detail("tags", tags).Write(err)

	if err != nil {
		return errorResult(err)
	}
	return jsonResult(res)
}

// tagRemove handles imgtag_tag_rm.
func (h *handlers) tagRemove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if res := h.requireInit(); res != nil {
		return res, nil
	}
	ref, err := req.RequireString("image")
	if err != nil {
		return mcp.NewToolResultError("image is required"), nil //nolint:nilerr
	}
	all := getBool(req, "all", false)
	tags := getStrings(req, "tags")
	if !all && len(tags) == 0 {
		return mcp.NewToolResultError("tags or all is required"), nil
	}

	res, err := tag.Remove(ctx, io.Discard, h.svc, ref, all, tags...)

	log.Event("mcp:tag_rm", "untag").Author("mcp").Image(ref).Resolved(res.ID).
		Detail("tags", tags).Detail("all", all).Write(err)

	if err != nil {
		return errorResult(err)
	}
	return jsonResult(res)
}

// tagDelete handles imgtag_tag_delete.
func (h *handlers) tagDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if res := h.requireInit(); res != nil {
		return res, nil
	}
	name, err := req.RequireString("tag")
	if err != nil {
		return mcp.NewToolResultError("tag is required"), nil //nolint:nilerr
	}

	res, err := tag.Delete(ctx, io.Discard, h.svc, name)

	log.Event("mcp:tag_delete", "delete_tag").Author("mcp").Detail("tag", name).Detail("images", len(res.Images)).Write(err)

	if err != nil {
		return errorResult(err)
	}
	return jsonResult(res)
}
