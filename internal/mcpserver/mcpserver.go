// Package mcpserver implements the Model Context Protocol server exposing
// the kioku pipeline's ingest/render/export-token operations as tools for
// MCP-compatible agent clients.
package mcpserver

import (
	"log/slog"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpsdk "github.com/mark3labs/mcp-go/server"

	"github.com/ashita-ai/kioku"
)

// serverInstructions is sent to every MCP client during the initialize
// handshake.
const serverInstructions = `You have access to kioku, a memory distillation pipeline for AI agents.

Kioku turns raw, heterogeneous records (chat transcripts, document-store
objects, key/value snapshots, relational rows) into a Passport: a compact
summary of facts, preferences, named entities, and open loops about a user,
plus a record of any contradictions encountered.

TOOLS:
- kioku_ingest: feed a raw record plus your current Passport JSON; get back
  the updated Passport JSON and a count of what changed.
- kioku_render: turn a Passport JSON into a plain-text briefing bounded by
  a character budget, suitable for dropping into another assistant's context.
- kioku_export_token: get a signed, portable token proving a Passport's
  content hash, for handing the Passport to another system.

You own the Passport JSON — kioku stores nothing server-side. Keep it and
pass it back in on every call.`

// Server wraps the MCP server with a kioku Pipeline.
type Server struct {
	mcpServer *mcpsdk.MCPServer
	pipeline  *kioku.Pipeline
	logger    *slog.Logger
}

// New creates and configures a new MCP server backed by pipeline.
func New(pipeline *kioku.Pipeline, logger *slog.Logger, version string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		pipeline: pipeline,
		logger:   logger,
	}

	s.mcpServer = mcpsdk.NewMCPServer(
		"kioku",
		version,
		mcpsdk.WithToolCapabilities(true),
		mcpsdk.WithInstructions(serverInstructions),
	)

	s.registerTools()

	return s
}

// MCPServer returns the underlying mcp-go server for transport setup.
func (s *Server) MCPServer() *mcpsdk.MCPServer {
	return s.mcpServer
}

func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{
			mcplib.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}

func textResult(text string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{
			mcplib.TextContent{Type: "text", Text: text},
		},
	}
}
