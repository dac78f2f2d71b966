// Package mcp provides the MCP server implementation for SAP GUI tools.
// handlers_table.go contains table and grid tools.
package mcp

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerTableTools() {
	s.mcpServer.AddTool(mcp.NewTool("sap_count_table_rows",
		mcp.WithDescription("Count the visible rows in the table or grid on the current screen. Read-only."),
	), s.handleCountTableRows)

	s.mcpServer.AddTool(mcp.NewTool("sap_select_table_row",
		mcp.WithDescription("Select a row in the current table by its 1-based row number."),
		mcp.WithString("row",
			mcp.Required(),
			mcp.Description("1-based row number to select"),
		),
	), s.handleSelectTableRow)

	s.mcpServer.AddTool(mcp.NewTool("sap_read_table_cell",
		mcp.WithDescription("Read the value of a table cell by row number and column title. Read-only."),
		mcp.WithString("row",
			mcp.Required(),
			mcp.Description("1-based row number"),
		),
		mcp.WithString("column",
			mcp.Required(),
			mcp.Description("Column title as shown in the table header"),
		),
	), s.handleReadTableCell)

	s.mcpServer.AddTool(mcp.NewTool("sap_fill_cell",
		mcp.WithDescription("Fill a table cell with a value, addressed by row number and column title."),
		mcp.WithString("row",
			mcp.Required(),
			mcp.Description("1-based row number"),
		),
		mcp.WithString("column",
			mcp.Required(),
			mcp.Description("Column title as shown in the table header"),
		),
		mcp.WithString("value",
			mcp.Required(),
			mcp.Description("Value to enter into the cell"),
		),
	), s.handleFillCell)

	s.mcpServer.AddTool(mcp.NewTool("sap_double_click_cell",
		mcp.WithDescription("Double-click a table cell to drill into it, addressed by row number and column title."),
		mcp.WithString("row",
			mcp.Required(),
			mcp.Description("1-based row number"),
		),
		mcp.WithString("column",
			mcp.Required(),
			mcp.Description("Column title as shown in the table header"),
		),
	), s.handleDoubleClickCell)

	s.mcpServer.AddTool(mcp.NewTool("sap_scroll_table",
		mcp.WithDescription("Scroll the current table up or down by a number of rows."),
		mcp.WithString("direction",
			mcp.Required(),
			mcp.Description("Scroll direction: 'up' or 'down'"),
		),
		mcp.WithNumber("rows",
			mcp.Description("Number of rows to scroll (default 1)"),
		),
	), s.handleScrollTable)
}

func (s *Server) handleCountTableRows(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.session.RequireLoggedIn(); err != nil {
		return sapErrResult(err, ""), nil
	}

	count, err := s.session.Execute(ctx, "Count Table Rows")
	if err != nil {
		return s.failWithEvidence(ctx, err, "table_error"), nil
	}
	return newToolResultJSON(map[string]any{"rows": count}), nil
}

func (s *Server) handleSelectTableRow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	row, errResult := requireStr(request.Params.Arguments, "row")
	if errResult != nil {
		return errResult, nil
	}
	if err := s.session.RequireLoggedIn(); err != nil {
		return sapErrResult(err, ""), nil
	}

	if _, err := s.run(ctx, "Select Table Row", row); err != nil {
		return s.failWithEvidence(ctx, err, "table_error"), nil
	}
	return mcp.NewToolResultText("Row " + row + " selected."), nil
}

func (s *Server) handleReadTableCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	row, errResult := requireStr(request.Params.Arguments, "row")
	if errResult != nil {
		return errResult, nil
	}
	column, errResult := requireStr(request.Params.Arguments, "column")
	if errResult != nil {
		return errResult, nil
	}
	if err := s.session.RequireLoggedIn(); err != nil {
		return sapErrResult(err, ""), nil
	}

	value, err := s.session.Execute(ctx, "Read Table Cell", row, column)
	if err != nil {
		return s.failWithEvidence(ctx, err, "table_error"), nil
	}
	return newToolResultJSON(map[string]any{
		"row":    row,
		"column": column,
		"value":  value,
	}), nil
}

func (s *Server) handleFillCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	row, errResult := requireStr(request.Params.Arguments, "row")
	if errResult != nil {
		return errResult, nil
	}
	column, errResult := requireStr(request.Params.Arguments, "column")
	if errResult != nil {
		return errResult, nil
	}
	value, errResult := requireStr(request.Params.Arguments, "value")
	if errResult != nil {
		return errResult, nil
	}
	if err := s.session.RequireLoggedIn(); err != nil {
		return sapErrResult(err, ""), nil
	}

	if _, err := s.run(ctx, "Fill Cell", row, column, value); err != nil {
		return s.failWithEvidence(ctx, err, "table_error"), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Cell (%s, %q) filled.", row, column)), nil
}

func (s *Server) handleDoubleClickCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	row, errResult := requireStr(request.Params.Arguments, "row")
	if errResult != nil {
		return errResult, nil
	}
	column, errResult := requireStr(request.Params.Arguments, "column")
	if errResult != nil {
		return errResult, nil
	}
	if err := s.session.RequireLoggedIn(); err != nil {
		return sapErrResult(err, ""), nil
	}

	if _, err := s.run(ctx, "Double Click Cell", row, column); err != nil {
		return s.failWithEvidence(ctx, err, "table_error"), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Cell (%s, %q) double-clicked.", row, column)), nil
}

func (s *Server) handleScrollTable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	direction, errResult := requireStr(request.Params.Arguments, "direction")
	if errResult != nil {
		return errResult, nil
	}
	if direction != "up" && direction != "down" {
		return newToolResultError("direction must be 'up' or 'down'"), nil
	}
	rows := getInt(request.Params.Arguments, "rows", 1)
	if rows < 1 {
		return newToolResultError("rows must be at least 1"), nil
	}
	if err := s.session.RequireLoggedIn(); err != nil {
		return sapErrResult(err, ""), nil
	}

	if _, err := s.run(ctx, "Scroll Table", direction, strconv.Itoa(rows)); err != nil {
		return s.failWithEvidence(ctx, err, "table_error"), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Table scrolled %s by %d row(s).", direction, rows)), nil
}
