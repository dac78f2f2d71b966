package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/toni-ramchandani/sapient-mcp/pkg/sapgui"
	"github.com/toni-ramchandani/sapient-mcp/pkg/testutil"
)

func newTestServer(t *testing.T, caps ...string) (*Server, *testutil.FakeEngine) {
	t.Helper()
	fake := testutil.NewFakeEngine()
	cfg := &Config{
		BridgeURL: "ws://test.invalid/ws",
		Caps:      caps,
		OutputDir: t.TempDir(),
	}
	session := sapgui.NewSessionWithEngine(cfg.OutputDir, fake)
	return NewServerWithSession(cfg, session), fake
}

func callReq(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("nil result")
	}
	if len(result.Content) != 1 {
		t.Fatalf("expected 1 content item, got %d", len(result.Content))
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content should be TextContent, got %T", result.Content[0])
	}
	return tc.Text
}

func TestHandleOpenTransitionsState(t *testing.T) {
	s, fake := newTestServer(t)

	result, err := s.handleOpen(context.Background(), callReq(map[string]any{
		"saplogon_path": `C:\sap\saplogon.exe`,
	}))
	if err != nil {
		t.Fatalf("handleOpen: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error: %s", textOf(t, result))
	}
	if got := s.Session().State(); got != sapgui.SAPOpen {
		t.Errorf("state = %v, want SAPOpen", got)
	}
	calls := fake.Calls()
	if len(calls) != 1 || calls[0] != `OpenSAP(C:\sap\saplogon.exe)` {
		t.Errorf("calls = %v", calls)
	}
}

func TestHandleOpenUsesConfiguredDefault(t *testing.T) {
	s, fake := newTestServer(t)
	s.config.SAPLogonPath = `D:\default\saplogon.exe`

	if _, err := s.handleOpen(context.Background(), callReq(nil)); err != nil {
		t.Fatalf("handleOpen: %v", err)
	}
	calls := fake.Calls()
	if calls[0] != `OpenSAP(D:\default\saplogon.exe)` {
		t.Errorf("calls = %v", calls)
	}
}

func TestHandleConnectToServer(t *testing.T) {
	s, _ := newTestServer(t, CapCodegen)
	s.Session().SetState(sapgui.SAPOpen)

	result, err := s.handleConnectToServer(context.Background(), callReq(map[string]any{
		"server_description": "DEV [S4H]",
	}))
	if err != nil {
		t.Fatalf("handleConnectToServer: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error: %s", textOf(t, result))
	}
	if got := s.Session().State(); got != sapgui.Connected {
		t.Errorf("state = %v, want Connected", got)
	}
	if got := s.Session().ServerDescription(); got != "DEV [S4H]" {
		t.Errorf("server description = %q", got)
	}
	if !strings.Contains(s.Session().Script(), "Connect To Server    DEV [S4H]") {
		t.Errorf("script missing connect line:\n%s", s.Session().Script())
	}
}

func TestHandleConnectToServerRequiresDescription(t *testing.T) {
	s, fake := newTestServer(t)

	result, err := s.handleConnectToServer(context.Background(), callReq(nil))
	if err != nil {
		t.Fatalf("handleConnectToServer: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result for missing server_description")
	}
	if len(fake.Calls()) != 0 {
		t.Errorf("engine reached despite missing parameter: %v", fake.Calls())
	}
}

func TestHandleConnectToRunningLogsIn(t *testing.T) {
	s, _ := newTestServer(t)

	if _, err := s.handleConnectToRunning(context.Background(), callReq(nil)); err != nil {
		t.Fatalf("handleConnectToRunning: %v", err)
	}
	if got := s.Session().State(); got != sapgui.LoggedIn {
		t.Errorf("state = %v, want LoggedIn", got)
	}
}

func TestHandleCloseResetsSession(t *testing.T) {
	s, _ := newTestServer(t)
	s.Session().SetState(sapgui.LoggedIn)
	s.Session().SetServerDescription("DEV [S4H]")

	if _, err := s.handleClose(context.Background(), callReq(nil)); err != nil {
		t.Fatalf("handleClose: %v", err)
	}
	if got := s.Session().State(); got != sapgui.Disconnected {
		t.Errorf("state = %v, want Disconnected", got)
	}
	if got := s.Session().ServerDescription(); got != "" {
		t.Errorf("server description = %q, want empty", got)
	}
}

func TestGuardRejectsBeforeEngine(t *testing.T) {
	s, fake := newTestServer(t)

	result, err := s.handleExecuteTransaction(context.Background(), callReq(map[string]any{
		"transaction_code": "/nME21N",
	}))
	if err != nil {
		t.Fatalf("handleExecuteTransaction: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result while disconnected")
	}
	text := textOf(t, result)
	if !strings.Contains(text, "Not logged in") {
		t.Errorf("error text = %q", text)
	}
	if !strings.Contains(text, "Hint:") {
		t.Errorf("guard error missing hint: %q", text)
	}
	if len(fake.Calls()) != 0 {
		t.Errorf("engine reached despite guard: %v", fake.Calls())
	}
}

func TestHandleExecuteTransactionReportsTitle(t *testing.T) {
	s, fake := newTestServer(t)
	s.Session().SetState(sapgui.LoggedIn)
	fake.Results["GetWindowTitle"] = "Create Purchase Order"

	result, err := s.handleExecuteTransaction(context.Background(), callReq(map[string]any{
		"transaction_code": "/nME21N",
	}))
	if err != nil {
		t.Fatalf("handleExecuteTransaction: %v", err)
	}
	text := textOf(t, result)
	if !strings.Contains(text, `Transaction "/nME21N" executed.`) {
		t.Errorf("text = %q", text)
	}
	if !strings.Contains(text, "Create Purchase Order") {
		t.Errorf("text missing window title: %q", text)
	}
	calls := fake.Calls()
	if calls[0] != "ExecuteTransaction(/nME21N)" {
		t.Errorf("calls = %v", calls)
	}
}

func TestHandleFillTextFieldRedactsPassword(t *testing.T) {
	s, fake := newTestServer(t, CapCodegen)
	s.Session().SetState(sapgui.Connected)

	result, err := s.handleFillTextField(context.Background(), callReq(map[string]any{
		"label": "Password",
		"value": "hunter2",
	}))
	if err != nil {
		t.Fatalf("handleFillTextField: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error: %s", textOf(t, result))
	}

	// The engine receives the real value.
	calls := fake.Calls()
	if calls[0] != "FillTextField(Password,hunter2)" {
		t.Errorf("calls = %v", calls)
	}
	// The replay script does not.
	script := s.Session().Script()
	if strings.Contains(script, "hunter2") {
		t.Errorf("password leaked into script:\n%s", script)
	}
	if !strings.Contains(script, "Fill Text Field    Password    ***") {
		t.Errorf("script missing redacted line:\n%s", script)
	}
}

func TestHandleFillTextFieldRecordsPlainValue(t *testing.T) {
	s, _ := newTestServer(t, CapCodegen)
	s.Session().SetState(sapgui.Connected)

	if _, err := s.handleFillTextField(context.Background(), callReq(map[string]any{
		"label": "Vendor",
		"value": "100073",
	})); err != nil {
		t.Fatalf("handleFillTextField: %v", err)
	}
	if !strings.Contains(s.Session().Script(), "Fill Text Field    Vendor    100073") {
		t.Errorf("script = %q", s.Session().Script())
	}
}

func TestHandleFillTextFieldSkipsRecordingWithoutCap(t *testing.T) {
	s, _ := newTestServer(t)
	s.Session().SetState(sapgui.Connected)

	if _, err := s.handleFillTextField(context.Background(), callReq(map[string]any{
		"label": "Vendor",
		"value": "100073",
	})); err != nil {
		t.Fatalf("handleFillTextField: %v", err)
	}
	if !strings.Contains(s.Session().Script(), "No actions recorded") {
		t.Errorf("script should be empty without codegen cap:\n%s", s.Session().Script())
	}
}

func TestHandleButtonExists(t *testing.T) {
	s, fake := newTestServer(t)
	s.Session().SetState(sapgui.Connected)

	result, err := s.handleButtonExists(context.Background(), callReq(map[string]any{
		"label": "Save",
	}))
	if err != nil {
		t.Fatalf("handleButtonExists: %v", err)
	}
	if result.IsError {
		t.Fatal("probe should not produce an error result")
	}
	if !strings.Contains(textOf(t, result), `"exists": true`) {
		t.Errorf("text = %q", textOf(t, result))
	}

	fake.Fail["HighlightButton"] = "button 'Missing' not found"
	result, err = s.handleButtonExists(context.Background(), callReq(map[string]any{
		"label": "Missing",
	}))
	if err != nil {
		t.Fatalf("handleButtonExists: %v", err)
	}
	if result.IsError {
		t.Fatal("absent button should not produce an error result")
	}
	if !strings.Contains(textOf(t, result), `"exists": false`) {
		t.Errorf("text = %q", textOf(t, result))
	}
}

func TestHandleScrollTableValidation(t *testing.T) {
	s, fake := newTestServer(t)
	s.Session().SetState(sapgui.LoggedIn)

	result, err := s.handleScrollTable(context.Background(), callReq(map[string]any{
		"direction": "sideways",
	}))
	if err != nil {
		t.Fatalf("handleScrollTable: %v", err)
	}
	if !result.IsError {
		t.Error("expected error for bad direction")
	}

	result, err = s.handleScrollTable(context.Background(), callReq(map[string]any{
		"direction": "down",
		"rows":      float64(0),
	}))
	if err != nil {
		t.Fatalf("handleScrollTable: %v", err)
	}
	if !result.IsError {
		t.Error("expected error for rows < 1")
	}
	if len(fake.Calls()) != 0 {
		t.Errorf("engine reached despite invalid input: %v", fake.Calls())
	}

	result, err = s.handleScrollTable(context.Background(), callReq(map[string]any{
		"direction": "down",
		"rows":      float64(5),
	}))
	if err != nil {
		t.Fatalf("handleScrollTable: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error: %s", textOf(t, result))
	}
	if got := fake.Calls(); got[0] != "ScrollTable(down,5)" {
		t.Errorf("calls = %v", got)
	}
}

func TestHandleGetSessionInfo(t *testing.T) {
	s, fake := newTestServer(t)
	s.Session().SetState(sapgui.LoggedIn)
	s.Session().SetServerDescription("DEV [S4H]")
	fake.Results["GetWindowTitle"] = "SAP Easy Access"

	result, err := s.handleGetSessionInfo(context.Background(), callReq(nil))
	if err != nil {
		t.Fatalf("handleGetSessionInfo: %v", err)
	}
	text := textOf(t, result)
	for _, want := range []string{`"state": "LOGGED_IN"`, `"server": "DEV [S4H]"`, `"logged_in": true`, `"window_title": "SAP Easy Access"`} {
		if !strings.Contains(text, want) {
			t.Errorf("info missing %q:\n%s", want, text)
		}
	}
}

func TestHandleTakeScreenshotUnavailable(t *testing.T) {
	s, fake := newTestServer(t, CapScreenshot)
	s.Session().SetState(sapgui.Connected)
	// Engine succeeds but never writes a file, so the read fails.
	result, err := s.handleTakeScreenshot(context.Background(), callReq(nil))
	if err != nil {
		t.Fatalf("handleTakeScreenshot: %v", err)
	}
	if result.IsError {
		t.Error("best-effort capture must not be an error result")
	}
	if !strings.Contains(textOf(t, result), "Screenshot unavailable") {
		t.Errorf("text = %q", textOf(t, result))
	}
	if len(fake.Calls()) != 1 {
		t.Errorf("calls = %v", fake.Calls())
	}
}

func TestHandleReadStatusBar(t *testing.T) {
	s, fake := newTestServer(t)
	s.Session().SetState(sapgui.LoggedIn)
	fake.Results["ReadStatusBar"] = "Purchase order 4500000123 created"

	result, err := s.handleReadStatusBar(context.Background(), callReq(nil))
	if err != nil {
		t.Fatalf("handleReadStatusBar: %v", err)
	}
	if got := textOf(t, result); got != "Purchase order 4500000123 created" {
		t.Errorf("text = %q", got)
	}
}

func TestHandleSelectMenuItemSplitsPath(t *testing.T) {
	s, fake := newTestServer(t)
	s.Session().SetState(sapgui.LoggedIn)

	result, err := s.handleSelectMenuItem(context.Background(), callReq(map[string]any{
		"path": " Edit > Select All ",
	}))
	if err != nil {
		t.Fatalf("handleSelectMenuItem: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error: %s", textOf(t, result))
	}
	if got := fake.Calls(); got[0] != "SelectMenuItem(Edit,Select All)" {
		t.Errorf("calls = %v", got)
	}
}

func TestHandleRunWorkflow(t *testing.T) {
	s, fake := newTestServer(t)
	s.Session().SetState(sapgui.LoggedIn)
	fake.Results["ReadStatusBar"] = "saved"

	result, err := s.handleRunWorkflow(context.Background(), callReq(map[string]any{
		"workflow_yaml": `
name: save-order
steps:
  - action: Send SAP Keys
    args: ["Save"]
  - action: Read Status Bar
    saveAs: status
`,
	}))
	if err != nil {
		t.Fatalf("handleRunWorkflow: %v", err)
	}
	text := textOf(t, result)
	if result.IsError {
		t.Fatalf("unexpected error: %s", text)
	}
	if !strings.Contains(text, `"success": true`) {
		t.Errorf("result = %s", text)
	}
	if !strings.Contains(text, `"status": "saved"`) {
		t.Errorf("saved variable missing: %s", text)
	}
}

func TestHandleRunWorkflowRejectsBadYAML(t *testing.T) {
	s, fake := newTestServer(t)
	s.Session().SetState(sapgui.LoggedIn)

	result, err := s.handleRunWorkflow(context.Background(), callReq(map[string]any{
		"workflow_yaml": "steps: [",
	}))
	if err != nil {
		t.Fatalf("handleRunWorkflow: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result for malformed YAML")
	}
	if len(fake.Calls()) != 0 {
		t.Errorf("engine reached despite parse failure: %v", fake.Calls())
	}
}

func TestExecutionErrorCarriesHint(t *testing.T) {
	s, fake := newTestServer(t)
	s.Session().SetState(sapgui.LoggedIn)
	fake.Fail["ActivateTab"] = "tab 'Delivery' not found on screen"

	result, err := s.handleActivateTab(context.Background(), callReq(map[string]any{
		"tab_label": "Delivery",
	}))
	if err != nil {
		t.Fatalf("handleActivateTab: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result")
	}
	text := textOf(t, result)
	if !strings.Contains(text, "ERROR: tab 'Delivery' not found on screen") {
		t.Errorf("text = %q", text)
	}
	if !strings.Contains(text, "Hint:") || !strings.Contains(text, "sap_get_window_title") {
		t.Errorf("classified hint missing: %q", text)
	}
}

func TestEndToEndPurchaseOrderFlow(t *testing.T) {
	s, fake := newTestServer(t, CapCodegen)
	ctx := context.Background()
	fake.Results["ReadStatusBar"] = "PO created"

	if _, err := s.handleOpen(ctx, callReq(nil)); err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := s.handleConnectToServer(ctx, callReq(map[string]any{"server_description": "DEV"})); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if _, err := s.handleFillTextField(ctx, callReq(map[string]any{"label": "User", "value": "DEVELOPER"})); err != nil {
		t.Fatalf("fill user: %v", err)
	}
	if _, err := s.handleFillTextField(ctx, callReq(map[string]any{"label": "Password", "value": "secret"})); err != nil {
		t.Fatalf("fill password: %v", err)
	}
	if _, err := s.handleConnectToRunning(ctx, callReq(nil)); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if _, err := s.handleExecuteTransaction(ctx, callReq(map[string]any{"transaction_code": "/nME21N"})); err != nil {
		t.Fatalf("tcode: %v", err)
	}
	result, err := s.handleReadStatusBar(ctx, callReq(nil))
	if err != nil {
		t.Fatalf("status bar: %v", err)
	}
	if got := textOf(t, result); got != "PO created" {
		t.Errorf("status = %q", got)
	}

	script := s.Session().Script()
	if strings.Contains(script, "secret") {
		t.Errorf("password leaked into script:\n%s", script)
	}
	for _, want := range []string{"*** Settings ***", "Connect To Server    DEV", "Execute Transaction    /nME21N"} {
		if !strings.Contains(script, want) {
			t.Errorf("script missing %q:\n%s", want, script)
		}
	}
}
