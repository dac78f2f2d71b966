package sapgui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeEngine records every invocation and serves canned results/failures.
type fakeEngine struct {
	calls   []string
	results map[string]string
	fail    map[string]error
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		results: make(map[string]string),
		fail:    make(map[string]error),
	}
}

func (f *fakeEngine) invoke(name string, args ...string) (string, error) {
	f.calls = append(f.calls, name+"("+strings.Join(args, ",")+")")
	if err, ok := f.fail[name]; ok {
		return "", err
	}
	return f.results[name], nil
}

func (f *fakeEngine) OpenSAP(_ context.Context, path string) error {
	_, err := f.invoke("open_sap", path)
	return err
}

func (f *fakeEngine) CloseSAP(context.Context) error {
	_, err := f.invoke("close_sap")
	return err
}

func (f *fakeEngine) ConnectToServer(_ context.Context, desc string) error {
	_, err := f.invoke("connect_to_server", desc)
	return err
}

func (f *fakeEngine) ConnectToRunningSAP(context.Context) error {
	_, err := f.invoke("connect_to_running_sap")
	return err
}

func (f *fakeEngine) ExecuteTransaction(_ context.Context, tcode string) error {
	_, err := f.invoke("execute_transaction", tcode)
	return err
}

func (f *fakeEngine) ActivateTab(_ context.Context, label string) error {
	_, err := f.invoke("activate_tab", label)
	return err
}

func (f *fakeEngine) GetWindowTitle(context.Context) (string, error) {
	return f.invoke("get_window_title")
}

func (f *fakeEngine) SelectMenuItem(_ context.Context, path ...string) error {
	_, err := f.invoke("select_menu_item", path...)
	return err
}

func (f *fakeEngine) SendSAPKeys(_ context.Context, key string) error {
	_, err := f.invoke("send_sap_keys", key)
	return err
}

func (f *fakeEngine) FillTextField(_ context.Context, label, value string) error {
	_, err := f.invoke("fill_text_field", label, value)
	return err
}

func (f *fakeEngine) ClearTextField(_ context.Context, label string) error {
	_, err := f.invoke("clear_text_field", label)
	return err
}

func (f *fakeEngine) SetCheckbox(_ context.Context, label string) error {
	_, err := f.invoke("set_checkbox", label)
	return err
}

func (f *fakeEngine) UnsetCheckbox(_ context.Context, label string) error {
	_, err := f.invoke("unset_checkbox", label)
	return err
}

func (f *fakeEngine) SelectRadioButton(_ context.Context, label string) error {
	_, err := f.invoke("select_radio_button", label)
	return err
}

func (f *fakeEngine) PushButton(_ context.Context, label string) error {
	_, err := f.invoke("push_button", label)
	return err
}

func (f *fakeEngine) HighlightButton(_ context.Context, label string) error {
	_, err := f.invoke("highlight_button", label)
	return err
}

func (f *fakeEngine) ReadTextField(_ context.Context, label string) (string, error) {
	return f.invoke("read_text_field", label)
}

func (f *fakeEngine) ReadText(_ context.Context, locator string) (string, error) {
	return f.invoke("read_text", locator)
}

func (f *fakeEngine) ReadStatusBar(context.Context) (string, error) {
	return f.invoke("read_status_bar")
}

func (f *fakeEngine) CountTableRows(context.Context) (int, error) {
	result, err := f.invoke("count_table_rows")
	if err != nil {
		return 0, err
	}
	if result == "" {
		return 0, nil
	}
	var n int
	_, err = fmt.Sscanf(result, "%d", &n)
	return n, err
}

func (f *fakeEngine) SelectTableRow(_ context.Context, row string) error {
	_, err := f.invoke("select_table_row", row)
	return err
}

func (f *fakeEngine) ReadTableCell(_ context.Context, row, col string) (string, error) {
	return f.invoke("read_table_cell", row, col)
}

func (f *fakeEngine) FillCell(_ context.Context, row, col, value string) error {
	_, err := f.invoke("fill_cell", row, col, value)
	return err
}

func (f *fakeEngine) DoubleClickCell(_ context.Context, row, col string) error {
	_, err := f.invoke("double_click_cell", row, col)
	return err
}

func (f *fakeEngine) ScrollTable(_ context.Context, direction string, rows int) error {
	_, err := f.invoke("scroll_table", direction, fmt.Sprintf("%d", rows))
	return err
}

func (f *fakeEngine) SaveScreenshot(_ context.Context, path string) error {
	_, err := f.invoke("save_screenshot", path)
	return err
}

// writingEngine writes a fixed PNG payload when asked for a screenshot.
type writingEngine struct {
	*fakeEngine
	payload []byte
}

func (w *writingEngine) SaveScreenshot(_ context.Context, path string) error {
	return os.WriteFile(path, w.payload, 0o644)
}

// --- State machine ---

func TestSessionInitialState(t *testing.T) {
	s := NewSessionWithEngine(t.TempDir(), newFakeEngine())
	if s.State() != Disconnected {
		t.Errorf("initial state = %v, want Disconnected", s.State())
	}
	if s.ServerDescription() != "" {
		t.Errorf("initial server description = %q, want empty", s.ServerDescription())
	}
}

func TestSetStateIdempotent(t *testing.T) {
	s := NewSessionWithEngine(t.TempDir(), newFakeEngine())
	s.SetState(LoggedIn)
	s.SetState(LoggedIn)
	if s.State() != LoggedIn {
		t.Errorf("state = %v, want LoggedIn", s.State())
	}
}

func TestStateRegression(t *testing.T) {
	s := NewSessionWithEngine(t.TempDir(), newFakeEngine())
	s.SetState(LoggedIn)
	s.SetState(Disconnected)
	if s.State() != Disconnected {
		t.Errorf("state = %v, want Disconnected", s.State())
	}
}

func TestSessionStateString(t *testing.T) {
	cases := map[SessionState]string{
		Disconnected: "DISCONNECTED",
		SAPOpen:      "SAP_OPEN",
		Connected:    "CONNECTED",
		LoggedIn:     "LOGGED_IN",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", state, got, want)
		}
	}
}

// --- Guards ---

func TestRequireConnected(t *testing.T) {
	eng := newFakeEngine()
	s := NewSessionWithEngine(t.TempDir(), eng)

	err := s.RequireConnected()
	if err == nil {
		t.Fatal("RequireConnected should fail when disconnected")
	}
	var sapErr *SAPError
	if !errors.As(err, &sapErr) {
		t.Fatalf("error type = %T, want *SAPError", err)
	}
	if sapErr.Message != "No active SAP connection" {
		t.Errorf("message = %q", sapErr.Message)
	}
	if !strings.Contains(sapErr.Hint, "sap_open") {
		t.Errorf("hint should name the prerequisite tool, got %q", sapErr.Hint)
	}
	// The guard is a pure read: the engine must never be touched.
	if len(eng.calls) != 0 {
		t.Errorf("guard invoked the engine: %v", eng.calls)
	}

	for _, state := range []SessionState{Connected, LoggedIn} {
		s.SetState(state)
		if err := s.RequireConnected(); err != nil {
			t.Errorf("RequireConnected in %v failed: %v", state, err)
		}
	}
}

func TestRequireLoggedIn(t *testing.T) {
	s := NewSessionWithEngine(t.TempDir(), newFakeEngine())

	s.SetState(Connected)
	if err := s.RequireLoggedIn(); err == nil {
		t.Error("RequireLoggedIn should fail at login screen")
	}

	s.SetState(LoggedIn)
	if err := s.RequireLoggedIn(); err != nil {
		t.Errorf("RequireLoggedIn failed when logged in: %v", err)
	}
}

// --- Executor ---

func TestExecuteResolvesKeyword(t *testing.T) {
	eng := newFakeEngine()
	s := NewSessionWithEngine(t.TempDir(), eng)

	if _, err := s.Execute(context.Background(), "Fill Text Field", "User", "bob"); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(eng.calls) != 1 || eng.calls[0] != "fill_text_field(User,bob)" {
		t.Errorf("calls = %v", eng.calls)
	}
}

func TestExecuteReturnsResult(t *testing.T) {
	eng := newFakeEngine()
	eng.results["get_window_title"] = "SAP Easy Access"
	s := NewSessionWithEngine(t.TempDir(), eng)

	result, err := s.Execute(context.Background(), "Get Window Title")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result != "SAP Easy Access" {
		t.Errorf("result = %q", result)
	}
}

func TestExecuteCountResult(t *testing.T) {
	eng := newFakeEngine()
	eng.results["count_table_rows"] = "42"
	s := NewSessionWithEngine(t.TempDir(), eng)

	result, err := s.Execute(context.Background(), "Count Table Rows")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result != "42" {
		t.Errorf("result = %q, want 42", result)
	}
}

func TestExecuteUnknownKeyword(t *testing.T) {
	eng := newFakeEngine()
	s := NewSessionWithEngine(t.TempDir(), eng)

	_, err := s.Execute(context.Background(), "Do Something Weird")
	if err == nil {
		t.Fatal("expected error for unknown keyword")
	}
	var sapErr *SAPError
	if !errors.As(err, &sapErr) {
		t.Fatalf("error type = %T, want *SAPError", err)
	}
	if !strings.Contains(sapErr.Message, "unknown keyword") {
		t.Errorf("message = %q", sapErr.Message)
	}
	if !strings.Contains(sapErr.Hint, "do_something_weird") {
		t.Errorf("hint should cite the normalized name, got %q", sapErr.Hint)
	}
	if len(eng.calls) != 0 {
		t.Errorf("unknown keyword reached the engine: %v", eng.calls)
	}
}

func TestExecuteClassifiesFailure(t *testing.T) {
	eng := newFakeEngine()
	eng.fail["push_button"] = errors.New("Button 'Save' not found")
	s := NewSessionWithEngine(t.TempDir(), eng)

	_, err := s.Execute(context.Background(), "Push Button", "Save")
	var sapErr *SAPError
	if !errors.As(err, &sapErr) {
		t.Fatalf("error type = %T, want *SAPError", err)
	}
	if sapErr.Message != "Button 'Save' not found" {
		t.Errorf("message = %q", sapErr.Message)
	}
	if !strings.Contains(sapErr.Hint, "Element not found") {
		t.Errorf("hint = %q", sapErr.Hint)
	}
	if sapErr.Keyword != "Push Button" {
		t.Errorf("keyword = %q", sapErr.Keyword)
	}
}

func TestExecuteArgumentCount(t *testing.T) {
	eng := newFakeEngine()
	s := NewSessionWithEngine(t.TempDir(), eng)

	_, err := s.Execute(context.Background(), "Fill Text Field", "User")
	var sapErr *SAPError
	if !errors.As(err, &sapErr) {
		t.Fatalf("error type = %T, want *SAPError", err)
	}
	if len(eng.calls) != 0 {
		t.Errorf("bad arity reached the engine: %v", eng.calls)
	}
}

func TestEngineCreatedOnce(t *testing.T) {
	created := 0
	s := NewSession(t.TempDir(), func(context.Context) (Engine, error) {
		created++
		return newFakeEngine(), nil
	})

	for i := 0; i < 3; i++ {
		if _, err := s.Execute(context.Background(), "Get Window Title"); err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
	}
	if created != 1 {
		t.Errorf("engine created %d times, want 1", created)
	}
}

func TestEngineCreationFailure(t *testing.T) {
	attempts := 0
	s := NewSession(t.TempDir(), func(context.Context) (Engine, error) {
		attempts++
		return nil, errors.New("dial tcp: connection refused")
	})

	_, err := s.Execute(context.Background(), "Get Window Title")
	var sapErr *SAPError
	if !errors.As(err, &sapErr) {
		t.Fatalf("error type = %T, want *SAPError", err)
	}
	if !strings.Contains(sapErr.Hint, "bridge") {
		t.Errorf("hint should mention the bridge host, got %q", sapErr.Hint)
	}

	// A failed creation is retried on the next command.
	_, _ = s.Execute(context.Background(), "Get Window Title")
	if attempts != 2 {
		t.Errorf("factory attempts = %d, want 2", attempts)
	}
}

func TestNormalizeKeyword(t *testing.T) {
	cases := map[string]string{
		"Fill Text Field":        "fill_text_field",
		"Open SAP":               "open_sap",
		"Connect To Running SAP": "connect_to_running_sap",
		"read_status_bar":        "read_status_bar",
	}
	for in, want := range cases {
		if got := NormalizeKeyword(in); got != want {
			t.Errorf("NormalizeKeyword(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestKeywordsCovered(t *testing.T) {
	// Every keyword the tool surface uses must be in the command table.
	for _, kw := range []string{
		"Open SAP", "Close SAP", "Connect To Server", "Connect To Running SAP",
		"Execute Transaction", "Activate Tab", "Get Window Title",
		"Select Menu Item", "Send SAP Keys", "Fill Text Field",
		"Clear Text Field", "Set Checkbox", "Unset Checkbox",
		"Select Radio Button", "Push Button", "Highlight Button",
		"Read Text Field", "Read Text", "Read Status Bar",
		"Count Table Rows", "Select Table Row", "Read Table Cell",
		"Fill Cell", "Double Click Cell", "Scroll Table", "Save Screenshot",
	} {
		if _, ok := commands[NormalizeKeyword(kw)]; !ok {
			t.Errorf("keyword %q missing from command table", kw)
		}
	}
}

// --- Screenshot ---

func TestTakeScreenshot(t *testing.T) {
	dir := t.TempDir()
	payload := []byte("\x89PNG\r\n\x1a\nfake")
	eng := &writingEngine{fakeEngine: newFakeEngine(), payload: payload}
	s := NewSessionWithEngine(dir, eng)

	b64, ok := s.TakeScreenshot(context.Background(), "error")
	if !ok {
		t.Fatal("TakeScreenshot reported failure")
	}
	if b64 == "" {
		t.Error("empty base64 payload")
	}

	matches, _ := filepath.Glob(filepath.Join(dir, "error_*.png"))
	if len(matches) != 1 {
		t.Errorf("expected one screenshot file, got %v", matches)
	}
}

func TestTakeScreenshotFailure(t *testing.T) {
	eng := newFakeEngine()
	eng.fail["save_screenshot"] = errors.New("capture failed")
	s := NewSessionWithEngine(t.TempDir(), eng)

	if _, ok := s.TakeScreenshot(context.Background(), "err"); ok {
		t.Error("TakeScreenshot should degrade to absent on engine failure")
	}
}

func TestTakeScreenshotMissingFile(t *testing.T) {
	// Engine claims success but writes nothing.
	s := NewSessionWithEngine(t.TempDir(), newFakeEngine())

	if _, ok := s.TakeScreenshot(context.Background(), "x"); ok {
		t.Error("TakeScreenshot should degrade to absent when file is missing")
	}
}

// --- Snapshot ---

func TestSnapshotRequiresLogin(t *testing.T) {
	s := NewSessionWithEngine(t.TempDir(), newFakeEngine())
	if _, err := s.Snapshot(context.Background()); err == nil {
		t.Error("Snapshot should fail when not logged in")
	}
}

func TestSnapshot(t *testing.T) {
	eng := newFakeEngine()
	eng.results["get_window_title"] = "SAP Easy Access"
	eng.results["read_status_bar"] = "Document posted"
	s := NewSessionWithEngine(t.TempDir(), eng)
	s.SetState(LoggedIn)

	snap, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if snap.WindowTitle == nil || *snap.WindowTitle != "SAP Easy Access" {
		t.Errorf("window title = %v", snap.WindowTitle)
	}
	if snap.StatusBar == nil || *snap.StatusBar != "Document posted" {
		t.Errorf("status bar = %v", snap.StatusBar)
	}
	if snap.State != "LOGGED_IN" {
		t.Errorf("state = %q", snap.State)
	}
}

func TestSnapshotPartialFailure(t *testing.T) {
	eng := newFakeEngine()
	eng.fail["get_window_title"] = errors.New("window not found")
	eng.results["read_status_bar"] = "ok"
	s := NewSessionWithEngine(t.TempDir(), eng)
	s.SetState(LoggedIn)

	snap, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot should tolerate partial failure: %v", err)
	}
	if snap.WindowTitle != nil {
		t.Errorf("window title should be null, got %v", *snap.WindowTitle)
	}
	if snap.StatusBar == nil || *snap.StatusBar != "ok" {
		t.Errorf("status bar = %v", snap.StatusBar)
	}
}

// --- Session-level recording ---

func TestSessionRecordAndScript(t *testing.T) {
	s := NewSessionWithEngine(t.TempDir(), newFakeEngine())
	s.Record("Fill Text Field", "User", "bob")

	if !strings.Contains(s.Script(), "bob") {
		t.Errorf("script missing recorded value:\n%s", s.Script())
	}

	s.ClearScript()
	if s.Script() != noActionsPlaceholder {
		t.Errorf("Script after ClearScript = %q", s.Script())
	}
}
