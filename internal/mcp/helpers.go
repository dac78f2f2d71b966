// Package mcp provides the MCP server implementation for SAP GUI tools.
// helpers.go contains shared utility functions used across handlers.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/toni-ramchandani/sapient-mcp/pkg/sapgui"
)

// logWarn writes a warning to the sapgui log output (stderr in verbose
// mode). stdout stays clean for the stdio transport.
var logWarn = func(format string, args ...any) {
	w := sapgui.LogOutput
	if w == io.Discard {
		w = os.Stderr
	}
	fmt.Fprintf(w, "[WARN] "+format+"\n", args...)
}

// newToolResultError creates an error result for tool execution failures.
func newToolResultError(message string) *mcp.CallToolResult {
	result := mcp.NewToolResultText(message)
	result.IsError = true
	return result
}

// newToolResultJSON creates a successful result with JSON-formatted output.
func newToolResultJSON(v any) *mcp.CallToolResult {
	output, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(output))
}

// --- Parameter extraction helpers ---

// getStr extracts a string parameter, returning empty string if not found.
func getStr(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

// getInt extracts an integer parameter from float64, returning default if not found.
func getInt(args map[string]any, key string, def int) int {
	if v, ok := args[key].(float64); ok {
		return int(v)
	}
	return def
}

// requireStr extracts a required string parameter, returning error result if missing.
func requireStr(args map[string]any, key string) (string, *mcp.CallToolResult) {
	if v, ok := args[key].(string); ok && v != "" {
		return v, nil
	}
	return "", newToolResultError(key + " is required")
}

// --- Error formatting ---

// sapErrResult formats a *SAPError as a rich text error result the agent can
// act on: message, keyword, hint, plus a screenshot note when one was saved.
func sapErrResult(err error, screenshotNote string) *mcp.CallToolResult {
	parts := []string{"ERROR: " + err.Error()}

	var sapErr *sapgui.SAPError
	if errors.As(err, &sapErr) {
		if sapErr.Keyword != "" {
			parts = append(parts, "Keyword: "+sapErr.Keyword)
		}
		if sapErr.Hint != "" {
			parts = append(parts, "Hint: "+sapErr.Hint)
		}
	}
	if screenshotNote != "" {
		parts = append(parts, screenshotNote)
	}
	return newToolResultError(strings.Join(parts, "\n"))
}

// failWithEvidence builds the error result for a failed keyword, capturing a
// best-effort screenshot when enabled. Capture failures degrade to no note.
func (s *Server) failWithEvidence(ctx context.Context, err error, label string) *mcp.CallToolResult {
	note := ""
	if s.config.ScreenshotOnError {
		if _, ok := s.session.TakeScreenshot(ctx, label); ok {
			note = fmt.Sprintf("[Screenshot saved under %s]", s.session.OutputDir())
		}
	}
	return sapErrResult(err, note)
}

// run executes a keyword and, when the codegen capability is enabled,
// records it into the replay script. Recording happens only on success so
// the script stays replayable.
func (s *Server) run(ctx context.Context, keyword string, args ...string) (string, error) {
	result, err := s.session.Execute(ctx, keyword, args...)
	if err != nil {
		return "", err
	}
	if s.config.HasCap(CapCodegen) {
		s.session.Record(keyword, args...)
	}
	return result, nil
}

// okMsg formats a plain success message, optionally with structured extras.
func okMsg(msg string, extra map[string]any) *mcp.CallToolResult {
	if len(extra) == 0 {
		return mcp.NewToolResultText(msg)
	}
	out, _ := json.MarshalIndent(extra, "", "  ")
	return mcp.NewToolResultText(msg + "\n" + string(out))
}
