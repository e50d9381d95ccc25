// Package mcp implements the Model Context Protocol server, exposing the
// image catalogue to LLM clients: ingest, tagging, moves and history.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jpl-au/imgtag/extension"
	"github.com/jpl-au/imgtag/internal/catalog"
	"github.com/jpl-au/imgtag/internal/config"
	"github.com/jpl-au/imgtag/internal/log"
	"github.com/jpl-au/imgtag/internal/repo"
)

// Version is advertised to clients for capability negotiation.
const Version = "1.0.0"

// ErrNotInitialised is returned by tools when no catalogue exists yet.
const ErrNotInitialised = "catalogue not initialised - call imgtag_init first"

// Serve starts the MCP server over stdio. It starts even without a
// catalogue so that clients can call imgtag_init.
func Serve(db string) error {
	// stdout carries JSON-RPC
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	h := &handlers{db: db}
	svc, err := catalog.New(db)
	if err != nil && !errors.Is(err, repo.ErrNotInitialised) {
		slog.Error("failed to open catalogue", "error", err)
		return err
	}
	if err == nil {
		h.attach(svc)
		defer svc.Close()
	} else {
		slog.Info("imgtag not initialised, starting in uninitialised mode - call imgtag_init to create a catalogue")
	}

	s := NewServer(h)
	slog.Info("imgtag MCP server ready", "version", Version, "transport", "stdio")

	err = server.ServeStdio(s)
	if errors.Is(err, context.Canceled) {
		slog.Info("server stopped")
		return nil
	}
	return err
}

// NewServer builds the server with every core and extension tool registered.
func NewServer(h *handlers) *server.MCPServer {
	s := server.NewMCPServer(
		"imgtag",
		Version,
		server.WithResourceCapabilities(true, false),
		server.WithToolCapabilities(true),
	)
	registerResources(s, h)
	registerTools(s, h)
	registerExtensionTools(s, h)
	return s
}

// handlers gives tool handlers access to the catalogue. svc is nil until
// a catalogue exists.
type handlers struct {
	db     string
	svc    *catalog.Service
	extCtx extension.Context
}

// attach wires svc and the extension context into h.
func (h *handlers) attach(svc *catalog.Service) {
	cfg, err := config.Load()
	if err != nil {
		slog.Warn("config unavailable, using defaults", "error", err)
		cfg = &config.Config{}
	}
	h.svc = svc
	log.SetProject(svc.Dir())
	h.extCtx = extension.NewContext(svc, svc.DB(), cfg)
	svc.SetExtensionContext(h.extCtx)
}

// requireInit returns an error result when no catalogue is open.
func (h *handlers) requireInit() *mcp.CallToolResult {
	if h.svc == nil {
		return mcp.NewToolResultError(ErrNotInitialised)
	}
	return nil
}

func registerResources(s *server.MCPServer, h *handlers) {
	s.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"imgtag://images/{id}",
			"Image",
			mcp.WithTemplateDescription("Current tags and version history of an image"),
			mcp.WithTemplateMIMEType("application/json"),
		),
		h.readImage,
	)
	s.AddResource(
		mcp.NewResource(
			"imgtag://tags",
			"Tags",
			mcp.WithResourceDescription("Every tag with its image count"),
			mcp.WithMIMEType("application/json"),
		),
		h.readTags,
	)
}

func registerTools(s *server.MCPServer, h *handlers) {
	s.AddTool(
		mcp.NewTool("imgtag_init",
			mcp.WithDescription("Initialise a new imgtag catalogue in the working directory. Call this first if other tools return 'catalogue not initialised'."),
			mcp.WithBoolean("local", mcp.Description("If true, the database is gitignored")),
		),
		h.initCatalogue,
	)

	s.AddTool(
		mcp.NewTool("imgtag_scan",
			mcp.WithDescription("Ingest a directory tree: register every image below it and the tags encoded in the file names"),
			mcp.WithString("dir", mcp.Required(), mcp.Description("Directory to ingest")),
		),
		h.scan,
	)

	s.AddTool(
		mcp.NewTool("imgtag_ls",
			mcp.WithDescription("List images with their canonical names and tags"),
			mcp.WithString("dir", mcp.Description("Only images in this directory (default: all)")),
			mcp.WithString("tag", mcp.Description("Only images carrying this tag")),
		),
		h.listImages,
	)

	s.AddTool(
		mcp.NewTool("imgtag_tags",
			mcp.WithDescription("List the tags of an image, or every tag with its image count"),
			mcp.WithString("image", mcp.Description("Image ID or path (optional, list all tags if empty)")),
		),
		h.listTags,
	)

	s.AddTool(
		mcp.NewTool("imgtag_tag_add",
			mcp.WithDescription("Add tags to an image. The file is renamed to encode them."),
			mcp.WithString("image", mcp.Required(), mcp.Description("Image ID or path")),
			mcp.WithArray("tags", mcp.Required(), mcp.Description("Tags to add"), mcp.WithStringItems()),
		),
		h.tagAdd,
	)

	s.AddTool(
		mcp.NewTool("imgtag_tag_rm",
			mcp.WithDescription("Remove tags from an image"),
			mcp.WithString("image", mcp.Required(), mcp.Description("Image ID or path")),
			mcp.WithArray("tags", mcp.Description("Tags to remove"), mcp.WithStringItems()),
			mcp.WithBoolean("all", mcp.Description("Remove every tag")),
		),
		h.tagRemove,
	)

	s.AddTool(
		mcp.NewTool("imgtag_tag_delete",
			mcp.WithDescription("Delete a tag from the catalogue and from every image carrying it"),
			mcp.WithString("tag", mcp.Required(), mcp.Description("Tag to delete")),
		),
		h.tagDelete,
	)

	s.AddTool(
		mcp.NewTool("imgtag_mv",
			mcp.WithDescription("Move an image into another existing directory"),
			mcp.WithString("image", mcp.Required(), mcp.Description("Image ID or path")),
			mcp.WithString("dir", mcp.Required(), mcp.Description("Destination directory")),
		),
		h.moveImage,
	)

	s.AddTool(
		mcp.NewTool("imgtag_history",
			mcp.WithDescription("Get the version history of an image: its file names over time, or the changes between them"),
			mcp.WithString("image", mcp.Required(), mcp.Description("Image ID or path")),
			mcp.WithBoolean("changes", mcp.Description("Return 'old -> new' transitions instead of names")),
			mcp.WithNumber("limit", mcp.Description("Newest entries to return")),
		),
		h.history,
	)

	s.AddTool(
		mcp.NewTool("imgtag_revert",
			mcp.WithDescription("Restore the tags an image had at a version index (0 is the ingested state)"),
			mcp.WithString("image", mcp.Required(), mcp.Description("Image ID or path")),
			mcp.WithNumber("index", mcp.Required(), mcp.Description("Version index from imgtag_history")),
		),
		h.revert,
	)

	s.AddTool(
		mcp.NewTool("imgtag_diff",
			mcp.WithDescription("Show the tag differences between two versions of an image"),
			mcp.WithString("image", mcp.Required(), mcp.Description("Image ID or path")),
			mcp.WithNumber("from", mcp.Description("Older version index (default: previous)")),
			mcp.WithNumber("to", mcp.Description("Newer version index (default: latest)")),
		),
		h.diffVersions,
	)

	s.AddTool(
		mcp.NewTool("imgtag_flush",
			mcp.WithDescription("Retry renames that failed earlier so file names match tags"),
		),
		h.flush,
	)

	s.AddTool(
		mcp.NewTool("imgtag_export",
			mcp.WithDescription("Write a YAML manifest of the catalogue"),
			mcp.WithString("dest", mcp.Required(), mcp.Description("Manifest file or directory")),
			mcp.WithBoolean("history", mcp.Description("Include each image's version log")),
			mcp.WithBoolean("force", mcp.Description("Overwrite an existing manifest")),
		),
		h.exportManifest,
	)

	s.AddTool(
		mcp.NewTool("imgtag_config_get",
			mcp.WithDescription("Get a configuration value"),
			mcp.WithString("key", mcp.Description("Config key (e.g. ingest.max_depth) or empty for all")),
		),
		h.configGet,
	)

	s.AddTool(
		mcp.NewTool("imgtag_config_set",
			mcp.WithDescription("Set a configuration value"),
			mcp.WithString("key", mcp.Required(), mcp.Description("Config key")),
			mcp.WithString("value", mcp.Required(), mcp.Description("Value to set")),
		),
		h.configSet,
	)

	s.AddTool(
		mcp.NewTool("imgtag_guide",
			mcp.WithDescription("Get help/guide content for imgtag commands"),
			mcp.WithString("topic", mcp.Description("Guide topic (e.g. 'tag', 'history') or empty for index")),
		),
		h.getGuide,
	)
}

// registerExtensionTools adds the tools extensions contribute. Their
// handlers receive the shared extension context.
func registerExtensionTools(s *server.MCPServer, h *handlers) {
	for _, ext := range extension.All() {
		for _, t := range ext.MCPTools() {
			handler := t.Handler
			s.AddTool(t.Tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				if res := h.requireInit(); res != nil {
					return res, nil
				}
				return handler(ctx, h.extCtx, req)
			})
		}
	}
}
