// Package mcp provides the MCP server implementation for SAP GUI tools.
// handlers_navigation.go contains navigation tools (transactions, tabs, menus, keys).
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerNavigationTools() {
	s.mcpServer.AddTool(mcp.NewTool("sap_execute_transaction",
		mcp.WithDescription("Execute a SAP transaction code. "+
			"Use /n prefix to navigate to a new transaction from anywhere (e.g. /nME21N). "+
			"Use /o prefix to open in a new session window."),
		mcp.WithString("transaction_code",
			mcp.Required(),
			mcp.Description("Transaction code, e.g. 'ME21N', '/nSE16', '/nMB52'"),
		),
	), s.handleExecuteTransaction)

	s.mcpServer.AddTool(mcp.NewTool("sap_activate_tab",
		mcp.WithDescription("Click on a tab in the current SAP screen by its visible label text."),
		mcp.WithString("tab_label",
			mcp.Required(),
			mcp.Description("The visible text label of the tab"),
		),
	), s.handleActivateTab)

	s.mcpServer.AddTool(mcp.NewTool("sap_get_window_title",
		mcp.WithDescription("Return the title of the current SAP window. Read-only. Use to confirm navigation."),
	), s.handleGetWindowTitle)

	s.mcpServer.AddTool(mcp.NewTool("sap_select_menu_item",
		mcp.WithDescription("Navigate the SAP menu bar. Provide the full path with entries separated by ' > ', "+
			"e.g. 'Goto > Back' or 'Edit > Select All'."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Menu path with labels separated by ' > ', e.g. 'Edit > Select All'"),
		),
	), s.handleSelectMenuItem)

	s.mcpServer.AddTool(mcp.NewTool("sap_send_key",
		mcp.WithDescription("Send a SAP GUI keyboard key. "+
			"Common values: Enter, F1-F12, F3 (Back), F8 (Execute), PageDown, PageUp, Tab, Escape, Save."),
		mcp.WithString("key",
			mcp.Required(),
			mcp.Description("Key name: Enter, F3, F8, PageDown, PageUp, Tab, Escape, Save"),
		),
	), s.handleSendKey)
}

func (s *Server) handleExecuteTransaction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tcode, errResult := requireStr(request.Params.Arguments, "transaction_code")
	if errResult != nil {
		return errResult, nil
	}
	if err := s.session.RequireLoggedIn(); err != nil {
		return sapErrResult(err, ""), nil
	}

	if _, err := s.run(ctx, "Execute Transaction", tcode); err != nil {
		return s.failWithEvidence(ctx, err, "transaction_error"), nil
	}
	extra := map[string]any{}
	if title, err := s.session.Execute(ctx, "Get Window Title"); err == nil {
		extra["window_title"] = title
	}
	return okMsg(fmt.Sprintf("Transaction %q executed.", tcode), extra), nil
}

func (s *Server) handleActivateTab(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	label, errResult := requireStr(request.Params.Arguments, "tab_label")
	if errResult != nil {
		return errResult, nil
	}
	if err := s.session.RequireLoggedIn(); err != nil {
		return sapErrResult(err, ""), nil
	}

	if _, err := s.run(ctx, "Activate Tab", label); err != nil {
		return s.failWithEvidence(ctx, err, "tab_error"), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Tab %q activated.", label)), nil
}

func (s *Server) handleGetWindowTitle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := s.session.Execute(ctx, "Get Window Title")
	if err != nil {
		return sapErrResult(err, ""), nil
	}
	if title == "" {
		title = "(empty title)"
	}
	return mcp.NewToolResultText(title), nil
}

func (s *Server) handleSelectMenuItem(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, errResult := requireStr(request.Params.Arguments, "path")
	if errResult != nil {
		return errResult, nil
	}
	if err := s.session.RequireLoggedIn(); err != nil {
		return sapErrResult(err, ""), nil
	}

	var entries []string
	for _, part := range strings.Split(path, ">") {
		if part = strings.TrimSpace(part); part != "" {
			entries = append(entries, part)
		}
	}
	if len(entries) == 0 {
		return newToolResultError("path must contain at least one menu entry"), nil
	}

	if _, err := s.run(ctx, "Select Menu Item", entries...); err != nil {
		return s.failWithEvidence(ctx, err, "menu_error"), nil
	}
	return mcp.NewToolResultText("Menu item selected: " + strings.Join(entries, " > ")), nil
}

func (s *Server) handleSendKey(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, errResult := requireStr(request.Params.Arguments, "key")
	if errResult != nil {
		return errResult, nil
	}
	if err := s.session.RequireLoggedIn(); err != nil {
		return sapErrResult(err, ""), nil
	}

	if _, err := s.run(ctx, "Send SAP Keys", key); err != nil {
		return s.failWithEvidence(ctx, err, "key_error"), nil
	}
	return mcp.NewToolResultText("Key sent: " + key), nil
}
