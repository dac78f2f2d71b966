// Package mcp provides the MCP server implementation for SAP GUI tools.
// handlers_session.go contains session lifecycle tools (open, connect, close).
package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/toni-ramchandani/sapient-mcp/pkg/sapgui"
)

func (s *Server) registerSessionTools() {
	s.mcpServer.AddTool(mcp.NewTool("sap_open",
		mcp.WithDescription("Launch SAP Logon (saplogon.exe). Must be called before sap_connect_to_server. "+
			"Defaults to the configured saplogon path if no path is provided."),
		mcp.WithString("saplogon_path",
			mcp.Description("Full path to saplogon.exe. Uses the server default if omitted."),
		),
	), s.handleOpen)

	s.mcpServer.AddTool(mcp.NewTool("sap_connect_to_server",
		mcp.WithDescription("Connect to an SAP server using the description shown in the SAP Logon list. "+
			"Use the DESCRIPTION (not SID). SAP Logon must already be open (sap_open). "+
			"After connecting, the SAP login screen appears."),
		mcp.WithString("server_description",
			mcp.Required(),
			mcp.Description("Exact server description from the SAP Logon list (case-sensitive, watch for extra spaces)"),
		),
	), s.handleConnectToServer)

	s.mcpServer.AddTool(mcp.NewTool("sap_connect_to_running",
		mcp.WithDescription("Attach to an already-running SAP GUI session. "+
			"Use when SAP is pre-launched (e.g. SSO environments) or to take control of an existing session."),
	), s.handleConnectToRunning)

	s.mcpServer.AddTool(mcp.NewTool("sap_get_session_info",
		mcp.WithDescription("Return current session state, window title, and connection info. Read-only."),
	), s.handleGetSessionInfo)

	s.mcpServer.AddTool(mcp.NewTool("sap_close",
		mcp.WithDescription("Close the SAP GUI application. Ends the SAP session."),
	), s.handleClose)
}

func (s *Server) handleOpen(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := getStr(request.Params.Arguments, "saplogon_path")
	if path == "" {
		path = s.config.SAPLogonPath
	}

	if _, err := s.session.Execute(ctx, "Open SAP", path); err != nil {
		return sapErrResult(err, ""), nil
	}
	s.session.SetState(sapgui.SAPOpen)
	return mcp.NewToolResultText("SAP Logon opened from: " + path), nil
}

func (s *Server) handleConnectToServer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	desc, errResult := requireStr(request.Params.Arguments, "server_description")
	if errResult != nil {
		return errResult, nil
	}

	if _, err := s.session.Execute(ctx, "Connect To Server", desc); err != nil {
		return sapErrResult(err, ""), nil
	}
	s.session.SetState(sapgui.Connected)
	s.session.SetServerDescription(desc)
	if s.config.HasCap(CapCodegen) {
		s.session.Record("Connect To Server", desc)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Connected to SAP server: %q. Login screen should now be visible.", desc)), nil
}

func (s *Server) handleConnectToRunning(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if _, err := s.session.Execute(ctx, "Connect To Running SAP"); err != nil {
		return sapErrResult(err, ""), nil
	}
	s.session.SetState(sapgui.LoggedIn)
	if s.config.HasCap(CapCodegen) {
		s.session.Record("Connect To Running SAP")
	}
	return mcp.NewToolResultText("Attached to running SAP session."), nil
}

func (s *Server) handleGetSessionInfo(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	info := map[string]any{
		"state":      s.session.State().String(),
		"server":     s.session.ServerDescription(),
		"connected":  s.session.IsConnected(),
		"logged_in":  s.session.IsLoggedIn(),
		"output_dir": s.session.OutputDir(),
	}
	if s.session.IsConnected() {
		if title, err := s.session.Execute(ctx, "Get Window Title"); err == nil {
			info["window_title"] = title
		} else {
			info["window_title"] = "unavailable"
		}
	}
	return newToolResultJSON(info), nil
}

func (s *Server) handleClose(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if _, err := s.session.Execute(ctx, "Close SAP"); err != nil {
		return sapErrResult(err, ""), nil
	}
	s.session.SetState(sapgui.Disconnected)
	s.session.SetServerDescription("")
	if s.config.HasCap(CapCodegen) {
		s.session.Record("Close SAP")
	}
	return mcp.NewToolResultText("SAP GUI closed."), nil
}
