// Package mcp provides the MCP server implementation for SAP GUI tools.
// handlers_read.go contains read-only screen tools.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerReadTools() {
	s.mcpServer.AddTool(mcp.NewTool("sap_read_text_field",
		mcp.WithDescription("Read the current value of a text field identified by its visible label. Read-only."),
		mcp.WithString("label",
			mcp.Required(),
			mcp.Description("Visible label of the text field"),
		),
	), s.handleReadTextField)

	s.mcpServer.AddTool(mcp.NewTool("sap_read_text",
		mcp.WithDescription("Read a text element (label, static text) from the current screen by its content or id. Read-only."),
		mcp.WithString("locator",
			mcp.Required(),
			mcp.Description("Content or locator of the text element"),
		),
	), s.handleReadText)

	s.mcpServer.AddTool(mcp.NewTool("sap_read_status_bar",
		mcp.WithDescription("Read the SAP status bar message at the bottom of the window. "+
			"Check this after saving or executing to see success/error messages. Read-only."),
	), s.handleReadStatusBar)
}

func (s *Server) handleReadTextField(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	label, errResult := requireStr(request.Params.Arguments, "label")
	if errResult != nil {
		return errResult, nil
	}
	if err := s.session.RequireLoggedIn(); err != nil {
		return sapErrResult(err, ""), nil
	}

	value, err := s.session.Execute(ctx, "Read Text Field", label)
	if err != nil {
		return s.failWithEvidence(ctx, err, "read_error"), nil
	}
	return newToolResultJSON(map[string]any{"label": label, "value": value}), nil
}

func (s *Server) handleReadText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	locator, errResult := requireStr(request.Params.Arguments, "locator")
	if errResult != nil {
		return errResult, nil
	}
	if err := s.session.RequireLoggedIn(); err != nil {
		return sapErrResult(err, ""), nil
	}

	text, err := s.session.Execute(ctx, "Read Text", locator)
	if err != nil {
		return s.failWithEvidence(ctx, err, "read_error"), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleReadStatusBar(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.session.RequireLoggedIn(); err != nil {
		return sapErrResult(err, ""), nil
	}

	msg, err := s.session.Execute(ctx, "Read Status Bar")
	if err != nil {
		return s.failWithEvidence(ctx, err, "statusbar_error"), nil
	}
	if msg == "" {
		msg = "(status bar is empty)"
	}
	return mcp.NewToolResultText(msg), nil
}
