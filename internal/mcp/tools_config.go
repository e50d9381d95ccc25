// tools_config.go implements the config tools. A successful set reloads
// the running service's config so the change applies without a restart.

package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jpl-au/imgtag/internal/config"
	"github.com/jpl-au/imgtag/internal/log"
)

// configGet handles imgtag_config_get.
func (h *handlers) configGet(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := config.Load()
	if err != nil {
		log.Event("mcp:config_get", "get").Author("mcp").Write(err)
		return errorResult(err)
	}

	key := getString(req, "key", "")
	if key == "" {
		log.Event("mcp:config_get", "list").Author("mcp").Write(nil)
		return jsonResult(cfg.All())
	}

	v, err := cfg.Get(key)

	log.Event("mcp:config_get", "get").Author("mcp").Detail("key", key).Write(err)

	if err != nil {
		return errorResult(err)
	}
	return jsonResult(map[string]string{key: v})
}

// configSet handles imgtag_config_set.
func (h *handlers) configSet(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError("key is required"), nil //nolint:nilerr
	}
	value, err := req.RequireString("value")
	if err != nil {
		return mcp.NewToolResultError("value is required"), nil //nolint:nilerr
	}

	l := log.Event("mcp:config_set", "set").Author("mcp").Detail("key", key).Detail("value", value)

	cfg, err := config.Load()
	if err == nil {
		err = cfg.Set(key, value)
	}
	if err == nil {
		err = cfg.Save()
	}
	l.Write(err)
	if err != nil {
		return errorResult(err)
	}

	if h.svc != nil {
		if err := h.svc.ReloadConfig(); err != nil {
			log.Event("mcp:config_set", "reload").Author("mcp").Write(err)
			return mcp.NewToolResultText(fmt.Sprintf("%s = %s (warning: reload failed, restart server to apply: %v)", key, value, err)), nil
		}
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s = %s", key, value)), nil
}
