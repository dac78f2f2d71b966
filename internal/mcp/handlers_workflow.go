// Package mcp provides the MCP server implementation for SAP GUI tools.
// handlers_workflow.go contains the YAML workflow runner tool.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/toni-ramchandani/sapient-mcp/pkg/dsl"
)

func (s *Server) registerWorkflowTools() {
	s.mcpServer.AddTool(mcp.NewTool("sap_run_workflow",
		mcp.WithDescription("Run a YAML workflow: a named sequence of SAP GUI actions with variables, "+
			"conditions, and per-step failure handling. Steps reference keywords like "+
			"'Execute Transaction' or 'Fill Text Field'. Returns per-step results as JSON."),
		mcp.WithString("workflow_yaml",
			mcp.Required(),
			mcp.Description("Workflow definition in YAML (name, variables, steps)"),
		),
		mcp.WithBoolean("dry_run",
			mcp.Description("Expand and report steps without executing them"),
		),
	), s.handleRunWorkflow)
}

func (s *Server) handleRunWorkflow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	yamlText, errResult := requireStr(request.Params.Arguments, "workflow_yaml")
	if errResult != nil {
		return errResult, nil
	}
	dryRun, _ := request.Params.Arguments["dry_run"].(bool)

	runner := dsl.NewRunner(s.session)
	workflow, err := runner.ParseWorkflow([]byte(yamlText))
	if err != nil {
		return newToolResultError("invalid workflow: " + err.Error()), nil
	}
	if !dryRun {
		if err := s.session.RequireConnected(); err != nil {
			return sapErrResult(err, ""), nil
		}
	}

	result, err := runner.Execute(ctx, workflow, dsl.WithDryRun(dryRun))
	if err != nil {
		return newToolResultError("workflow execution: " + err.Error()), nil
	}
	return newToolResultJSON(result), nil
}
