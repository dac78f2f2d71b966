// Package mcp provides the MCP server implementation for SAP GUI tools.
// handlers_input.go contains form input tools (text fields, checkboxes, radio buttons).
package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/toni-ramchandani/sapient-mcp/pkg/sapgui"
)

func (s *Server) registerInputTools() {
	s.mcpServer.AddTool(mcp.NewTool("sap_fill_text_field",
		mcp.WithDescription("Fill a text input field in SAP GUI identified by its visible label. "+
			"The label is the text shown next to or above the field on screen. "+
			"Password fields are automatically masked in logs and generated scripts."),
		mcp.WithString("label",
			mcp.Required(),
			mcp.Description("Visible label of the text field as shown in SAP"),
		),
		mcp.WithString("value",
			mcp.Required(),
			mcp.Description("Value to enter into the field"),
		),
	), s.handleFillTextField)

	s.mcpServer.AddTool(mcp.NewTool("sap_clear_text_field",
		mcp.WithDescription("Clear the contents of a text field identified by its visible label."),
		mcp.WithString("label",
			mcp.Required(),
			mcp.Description("Visible label of the text field"),
		),
	), s.handleClearTextField)

	s.mcpServer.AddTool(mcp.NewTool("sap_set_checkbox",
		mcp.WithDescription("Check (tick) a checkbox in SAP GUI identified by its visible label."),
		mcp.WithString("label",
			mcp.Required(),
			mcp.Description("Visible label of the checkbox"),
		),
	), s.handleSetCheckbox)

	s.mcpServer.AddTool(mcp.NewTool("sap_unset_checkbox",
		mcp.WithDescription("Uncheck a checkbox in SAP GUI identified by its visible label."),
		mcp.WithString("label",
			mcp.Required(),
			mcp.Description("Visible label of the checkbox"),
		),
	), s.handleUnsetCheckbox)

	s.mcpServer.AddTool(mcp.NewTool("sap_select_radio_button",
		mcp.WithDescription("Select a radio button in SAP GUI identified by its visible label."),
		mcp.WithString("label",
			mcp.Required(),
			mcp.Description("Visible label of the radio button"),
		),
	), s.handleSelectRadioButton)
}

func (s *Server) handleFillTextField(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	label, errResult := requireStr(request.Params.Arguments, "label")
	if errResult != nil {
		return errResult, nil
	}
	value, errResult := requireStr(request.Params.Arguments, "value")
	if errResult != nil {
		return errResult, nil
	}
	// Filling is allowed at the login screen, so this only needs a connection.
	if err := s.session.RequireConnected(); err != nil {
		return sapErrResult(err, ""), nil
	}

	if _, err := s.session.Execute(ctx, "Fill Text Field", label, value); err != nil {
		return s.failWithEvidence(ctx, err, "fill_error"), nil
	}
	if s.config.HasCap(CapCodegen) {
		recorded := value
		if sapgui.IsSensitiveLabel(label) {
			recorded = sapgui.RedactedValue
		}
		s.session.Record("Fill Text Field", label, recorded)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Field %q filled.", label)), nil
}

func (s *Server) handleClearTextField(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	label, errResult := requireStr(request.Params.Arguments, "label")
	if errResult != nil {
		return errResult, nil
	}
	if err := s.session.RequireLoggedIn(); err != nil {
		return sapErrResult(err, ""), nil
	}

	if _, err := s.run(ctx, "Clear Text Field", label); err != nil {
		return s.failWithEvidence(ctx, err, "clear_error"), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Field %q cleared.", label)), nil
}

func (s *Server) handleSetCheckbox(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	label, errResult := requireStr(request.Params.Arguments, "label")
	if errResult != nil {
		return errResult, nil
	}
	if err := s.session.RequireLoggedIn(); err != nil {
		return sapErrResult(err, ""), nil
	}

	if _, err := s.run(ctx, "Set Checkbox", label); err != nil {
		return s.failWithEvidence(ctx, err, "checkbox_error"), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Checkbox %q checked.", label)), nil
}

func (s *Server) handleUnsetCheckbox(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	label, errResult := requireStr(request.Params.Arguments, "label")
	if errResult != nil {
		return errResult, nil
	}
	if err := s.session.RequireLoggedIn(); err != nil {
		return sapErrResult(err, ""), nil
	}

	if _, err := s.run(ctx, "Unset Checkbox", label); err != nil {
		return s.failWithEvidence(ctx, err, "checkbox_error"), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Checkbox %q unchecked.", label)), nil
}

func (s *Server) handleSelectRadioButton(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	label, errResult := requireStr(request.Params.Arguments, "label")
	if errResult != nil {
		return errResult, nil
	}
	if err := s.session.RequireLoggedIn(); err != nil {
		return sapErrResult(err, ""), nil
	}

	if _, err := s.run(ctx, "Select Radio Button", label); err != nil {
		return s.failWithEvidence(ctx, err, "radio_error"), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Radio button %q selected.", label)), nil
}
