// Package mcp provides the MCP server implementation for SAP GUI tools.
// handlers_capture.go contains capability-gated tools: screenshots, script
// generation, and screen snapshots.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerScreenshotTools() {
	s.mcpServer.AddTool(mcp.NewTool("sap_take_screenshot",
		mcp.WithDescription("Capture a screenshot of the current SAP window. "+
			"The PNG is saved under the output directory and returned base64-encoded. "+
			"Best-effort: reports unavailability instead of failing."),
		mcp.WithString("label",
			mcp.Description("Label used in the saved filename (default 'screenshot')"),
		),
	), s.handleTakeScreenshot)
}

func (s *Server) registerCodegenTools() {
	s.mcpServer.AddTool(mcp.NewTool("sap_get_generated_script",
		mcp.WithDescription("Return the Robot Framework script generated from the actions executed so far. "+
			"Passwords are masked. Read-only."),
	), s.handleGetGeneratedScript)

	s.mcpServer.AddTool(mcp.NewTool("sap_clear_script",
		mcp.WithDescription("Discard all recorded actions and start script generation fresh."),
	), s.handleClearScript)
}

func (s *Server) registerSnapshotTools() {
	s.mcpServer.AddTool(mcp.NewTool("sap_get_snapshot",
		mcp.WithDescription("Return a structured JSON snapshot of the current screen: window title, "+
			"status bar, and session state. Read-only."),
	), s.handleGetSnapshot)
}

func (s *Server) handleTakeScreenshot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.session.RequireConnected(); err != nil {
		return sapErrResult(err, ""), nil
	}

	label := getStr(request.Params.Arguments, "label")
	data, ok := s.session.TakeScreenshot(ctx, label)
	if !ok {
		return mcp.NewToolResultText("Screenshot unavailable (capture failed or file could not be read)."), nil
	}
	return newToolResultJSON(map[string]any{
		"format":     "png",
		"encoding":   "base64",
		"data":       data,
		"output_dir": s.session.OutputDir(),
	}), nil
}

func (s *Server) handleGetGeneratedScript(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.session.Script()), nil
}

func (s *Server) handleClearScript(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.session.ClearScript()
	return mcp.NewToolResultText("Recorded script cleared."), nil
}

func (s *Server) handleGetSnapshot(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := s.session.Snapshot(ctx)
	if err != nil {
		return sapErrResult(err, ""), nil
	}
	return newToolResultJSON(snap), nil
}
