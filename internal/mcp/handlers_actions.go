// Package mcp provides the MCP server implementation for SAP GUI tools.
// handlers_actions.go contains button tools.
package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerActionTools() {
	s.mcpServer.AddTool(mcp.NewTool("sap_push_button",
		mcp.WithDescription("Click a button in SAP GUI identified by its visible label or tooltip. "+
			"Works on the login screen too (e.g. popups), so only a connection is required."),
		mcp.WithString("label",
			mcp.Required(),
			mcp.Description("Visible label or tooltip of the button"),
		),
	), s.handlePushButton)

	s.mcpServer.AddTool(mcp.NewTool("sap_button_exists",
		mcp.WithDescription("Check whether a button with the given label exists on the current screen. "+
			"Read-only probe, never fails the session. Returns JSON with an 'exists' flag."),
		mcp.WithString("label",
			mcp.Required(),
			mcp.Description("Visible label or tooltip of the button to look for"),
		),
	), s.handleButtonExists)
}

func (s *Server) handlePushButton(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	label, errResult := requireStr(request.Params.Arguments, "label")
	if errResult != nil {
		return errResult, nil
	}
	if err := s.session.RequireConnected(); err != nil {
		return sapErrResult(err, ""), nil
	}

	if _, err := s.run(ctx, "Push Button", label); err != nil {
		return s.failWithEvidence(ctx, err, "button_error"), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Button %q pushed.", label)), nil
}

func (s *Server) handleButtonExists(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	label, errResult := requireStr(request.Params.Arguments, "label")
	if errResult != nil {
		return errResult, nil
	}
	if err := s.session.RequireConnected(); err != nil {
		return sapErrResult(err, ""), nil
	}

	// Highlight Button fails when the button is absent, which is exactly the
	// probe we need. The failure is swallowed, not surfaced.
	_, err := s.session.Execute(ctx, "Highlight Button", label)
	return newToolResultJSON(map[string]any{
		"exists": err == nil,
		"label":  label,
	}), nil
}
