package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/ashita-ai/kioku"
)

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcplib.NewTool("kioku_ingest",
			mcplib.WithDescription(`Feed a raw record into a Passport and get back the updated Passport.

WHEN TO USE: whenever you've observed a new interaction (a chat turn, a
document, a database row, a key/value snapshot) that might carry a fact,
preference, named entity, or open loop about the user.

Pass the Passport JSON you currently hold (or an empty object with just
"version" set, on the first call), the raw input to ingest, and optionally
a "hint" telling kioku how to interpret it ("transcript", "document-store",
"kv-tree", "relational" — omit to let kioku guess from shape).

Returns the updated Passport JSON plus counts of what changed.`),
			mcplib.WithIdempotentHintAnnotation(false),
			mcplib.WithOpenWorldHintAnnotation(false),
			mcplib.WithString("passport",
				mcplib.Description("The caller's current Passport, as JSON. Use {\"version\":\"1.0\"} to start a new one."),
				mcplib.Required(),
			),
			mcplib.WithString("input",
				mcplib.Description("The raw record to ingest, as JSON (a string, object, or array)."),
				mcplib.Required(),
			),
			mcplib.WithString("hint",
				mcplib.Description(`Optional shape hint: "transcript", "document-store", "kv-tree", or "relational". Omit to auto-detect.`),
			),
		),
		s.handleIngest,
	)

	s.mcpServer.AddTool(
		mcplib.NewTool("kioku_render",
			mcplib.WithDescription(`Render a Passport into a plain-text briefing bounded by a character budget.

WHEN TO USE: right before handing context to another generative assistant
— the rendered text is meant to be dropped directly into that assistant's
prompt.`),
			mcplib.WithReadOnlyHintAnnotation(true),
			mcplib.WithIdempotentHintAnnotation(true),
			mcplib.WithOpenWorldHintAnnotation(false),
			mcplib.WithString("passport",
				mcplib.Description("The Passport to render, as JSON."),
				mcplib.Required(),
			),
			mcplib.WithNumber("budget_chars",
				mcplib.Description("Maximum output length in characters. Clamped to a 400 minimum."),
				mcplib.DefaultNumber(2000),
			),
			mcplib.WithString("header",
				mcplib.Description("Optional first line of the rendered text (e.g. a title)."),
			),
		),
		s.handleRender,
	)

	s.mcpServer.AddTool(
		mcplib.NewTool("kioku_export_token",
			mcplib.WithDescription(`Get a signed, portable token proving a Passport's content at a point in time.

WHEN TO USE: when handing a Passport to another system that needs to verify
it hasn't been tampered with in transit, without re-running the pipeline.`),
			mcplib.WithReadOnlyHintAnnotation(true),
			mcplib.WithIdempotentHintAnnotation(false),
			mcplib.WithOpenWorldHintAnnotation(false),
			mcplib.WithString("passport",
				mcplib.Description("The Passport to sign, as JSON."),
				mcplib.Required(),
			),
		),
		s.handleExportToken,
	)
}

func (s *Server) handleIngest(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	passportJSON := request.GetString("passport", "")
	if passportJSON == "" {
		return errorResult("passport is required"), nil
	}
	inputJSON := request.GetString("input", "")
	if inputJSON == "" {
		return errorResult("input is required"), nil
	}
	hint := request.GetString("hint", "")

	passport, err := kioku.ParsePassport([]byte(passportJSON))
	if err != nil {
		return errorResult(fmt.Sprintf("invalid passport: %v", err)), nil
	}

	var input any
	if err := json.Unmarshal([]byte(inputJSON), &input); err != nil {
		return errorResult(fmt.Sprintf("invalid input: %v", err)), nil
	}

	stats, err := s.pipeline.Process(ctx, passport, input, hint, nil)
	if err != nil {
		return errorResult(fmt.Sprintf("ingest failed: %v", err)), nil
	}

	out, err := json.Marshal(map[string]any{
		"passport": passport,
		"stats":    stats,
	})
	if err != nil {
		return errorResult(fmt.Sprintf("encode result: %v", err)), nil
	}
	return textResult(string(out)), nil
}

func (s *Server) handleRender(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	passportJSON := request.GetString("passport", "")
	if passportJSON == "" {
		return errorResult("passport is required"), nil
	}
	budget := request.GetInt("budget_chars", 2000)
	header := request.GetString("header", "")

	passport, err := kioku.ParsePassport([]byte(passportJSON))
	if err != nil {
		return errorResult(fmt.Sprintf("invalid passport: %v", err)), nil
	}

	rendered := s.pipeline.Render(passport, budget, header)
	return textResult(rendered), nil
}

func (s *Server) handleExportToken(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	passportJSON := request.GetString("passport", "")
	if passportJSON == "" {
		return errorResult("passport is required"), nil
	}

	passport, err := kioku.ParsePassport([]byte(passportJSON))
	if err != nil {
		return errorResult(fmt.Sprintf("invalid passport: %v", err)), nil
	}

	token, err := s.pipeline.ExportToken(ctx, passport)
	if err != nil {
		return errorResult(fmt.Sprintf("sign failed: %v", err)), nil
	}
	return textResult(token), nil
}
