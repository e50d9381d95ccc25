// resources.go implements read-only MCP resources. Clients can load an
// image's tags and history as context without calling a tool.
//
// URIs: imgtag://images/{id} and imgtag://tags.

package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jpl-au/imgtag/internal/service"
)

var (
	// ErrInvalidURI indicates a malformed resource URI.
	ErrInvalidURI = errors.New("invalid URI")
	// ErrEmptyID indicates a resource URI without an image ID.
	ErrEmptyID = errors.New("empty image id")
)

// imageResource is the body of an image resource.
type imageResource struct {
	service.Image
	History []service.Version `json:"history"`
}

func (h *handlers) readImage(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if h.svc == nil {
		return nil, errors.New(ErrNotInitialised)
	}
	id, err := parseImageURI(req.Params.URI)
	if err != nil {
		return nil, err
	}
	img, err := h.svc.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	hist, err := h.svc.History(ctx, img.ID)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, imageResource{Image: img, History: hist})
}

func (h *handlers) readTags(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if h.svc == nil {
		return nil, errors.New(ErrNotInitialised)
	}
	return jsonResource(req.Params.URI, h.svc.Tags(ctx))
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     data,
		},
	}, nil
}

// parseImageURI extracts the image ID from imgtag://images/{id}.
func parseImageURI(uri string) (string, error) {
	const prefix = "imgtag://images/"
	if !strings.HasPrefix(uri, prefix) {
		return "", fmt.Errorf("%w: %s", ErrInvalidURI, uri)
	}
	id := strings.TrimPrefix(uri, prefix)
	if id == "" {
		return "", ErrEmptyID
	}
	if strings.Contains(id, "/") {
		return "", fmt.Errorf("%w: %s", ErrInvalidURI, uri)
	}
	return id, nil
}
