// Package mcp exposes the seodraft operations as MCP tools over stdio.
package mcp

import (
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/seodraft/internal/db"
	"github.com/hpungsan/seodraft/internal/pipeline"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"post_generate": {
		def:     generateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGenerate },
	},
	"post_drafts": {
		def:     draftsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDrafts },
	},
	"post_fetch": {
		def:     fetchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFetch },
	},
	"queue_enqueue": {
		def:     enqueueToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleEnqueue },
	},
	"queue_list": {
		def:     queueListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleQueueList },
	},
	"health_check": {
		def:     healthToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleHealth },
	},
}

// AllToolNames returns every tool name, sorted.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with seodraft tools registered.
// Tools listed in disabledTools are excluded from registration.
func NewServer(p *pipeline.Pipeline, store *db.Store, disabledTools []string, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"seodraft",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(p, store)

	disabled := make(map[string]bool, len(disabledTools))
	for _, name := range disabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(p *pipeline.Pipeline, store *db.Store, disabledTools []string, version string) error {
	return server.ServeStdio(NewServer(p, store, disabledTools, version))
}
