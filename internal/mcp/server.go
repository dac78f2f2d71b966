// Package mcp provides the MCP server implementation for SAP GUI automation
// tools. It exposes one sap_* tool per GUI action, all routed through a
// single shared session.
package mcp

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/server"

	"github.com/toni-ramchandani/sapient-mcp/pkg/sapgui"
)

// Capability names for opt-in feature sets.
const (
	CapScreenshot = "screenshot"
	CapCodegen    = "codegen"
	CapAdvanced   = "advanced"
)

// Config holds MCP server configuration.
type Config struct {
	// BridgeURL is the WebSocket endpoint of the RoboSAPiens bridge host.
	BridgeURL string

	// SAP connection settings for auto-connect
	SAPLogonPath string
	SAPServer    string
	SAPClient    string
	SAPUser      string
	SAPPassword  string

	// Caps lists enabled capability sets: screenshot, codegen, advanced.
	Caps []string

	// ScreenshotOnError captures a screenshot when a tool fails.
	ScreenshotOnError bool

	// OutputDir receives screenshots and generated scripts.
	OutputDir string

	// Verbose enables verbose logging to stderr.
	Verbose bool
}

// HasCap reports whether a capability set is enabled.
func (c *Config) HasCap(name string) bool {
	for _, cap := range c.Caps {
		if strings.EqualFold(strings.TrimSpace(cap), name) {
			return true
		}
	}
	return false
}

// Server wraps the MCP server with the SAP GUI session.
type Server struct {
	mcpServer *server.MCPServer
	session   *sapgui.Session
	config    *Config
}

// NewServer creates a new MCP server for SAP GUI automation.
func NewServer(cfg *Config) *Server {
	session := sapgui.NewSession(cfg.OutputDir, func(ctx context.Context) (sapgui.Engine, error) {
		return sapgui.DialBridge(ctx, cfg.BridgeURL)
	})
	return NewServerWithSession(cfg, session)
}

// NewServerWithSession creates a server around an existing session.
// This is useful for testing.
func NewServerWithSession(cfg *Config, session *sapgui.Session) *Server {
	mcpServer := server.NewMCPServer(
		"sapient-mcp",
		"1.0.0",
		server.WithLogging(),
	)

	s := &Server{
		mcpServer: mcpServer,
		session:   session,
		config:    cfg,
	}
	s.registerTools()
	return s
}

// Session returns the shared SAP GUI session.
func (s *Server) Session() *sapgui.Session {
	return s.session
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// registerTools registers all SAP GUI tools, gated by capability sets.
func (s *Server) registerTools() {
	s.registerSessionTools()
	s.registerNavigationTools()
	s.registerInputTools()
	s.registerActionTools()
	s.registerReadTools()
	s.registerTableTools()
	s.registerWorkflowTools()

	if s.config.HasCap(CapScreenshot) {
		s.registerScreenshotTools()
	}
	if s.config.HasCap(CapCodegen) {
		s.registerCodegenTools()
	}
	if s.config.HasCap(CapAdvanced) {
		s.registerSnapshotTools()
	}
}

// AutoConnect optionally opens SAP and connects when a server is configured.
// Failures are logged; the MCP server still starts so the agent can connect
// manually.
func (s *Server) AutoConnect(ctx context.Context) {
	if s.config.SAPServer == "" {
		return
	}

	if _, err := s.session.Execute(ctx, "Open SAP", s.config.SAPLogonPath); err != nil {
		logWarn("auto-connect: open SAP failed: %v", err)
		return
	}
	s.session.SetState(sapgui.SAPOpen)

	if _, err := s.session.Execute(ctx, "Connect To Server", s.config.SAPServer); err != nil {
		logWarn("auto-connect: connect failed: %v", err)
		return
	}
	s.session.SetState(sapgui.Connected)
	s.session.SetServerDescription(s.config.SAPServer)

	if s.config.SAPClient == "" || s.config.SAPUser == "" || s.config.SAPPassword == "" {
		return
	}
	steps := []struct {
		keyword string
		args    []string
	}{
		{"Fill Text Field", []string{"Client", s.config.SAPClient}},
		{"Fill Text Field", []string{"User", s.config.SAPUser}},
		{"Fill Text Field", []string{"Password", s.config.SAPPassword}},
		{"Send SAP Keys", []string{"Enter"}},
	}
	for _, step := range steps {
		if _, err := s.session.Execute(ctx, step.keyword, step.args...); err != nil {
			logWarn("auto-login failed: %v", err)
			return
		}
	}
	s.session.SetState(sapgui.LoggedIn)
}
