package sapgui

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Session is the single long-lived aggregate for one server process. It
// owns the connection state, the automation engine handle, the script
// recorder, and the output directory for artifacts. A Session is created
// once at startup and passed by handle to every tool handler.
//
// The engine handle is created lazily on first command and reused for the
// process lifetime. The engine itself drives a single desktop UI session,
// so Execute holds a global command lock end-to-end; state and the server
// description have their own lock so status queries never block behind a
// long-running UI action.
type Session struct {
	outputDir string
	newEngine EngineFactory

	mu     sync.Mutex
	state  SessionState
	server string

	engineMu sync.Mutex
	engine   Engine

	cmdMu sync.Mutex

	script *ScriptRecorder
}

// NewSession creates the session aggregate. outputDir receives screenshots;
// it is created on demand. factory creates the automation engine on first
// use.
func NewSession(outputDir string, factory EngineFactory) *Session {
	return &Session{
		outputDir: outputDir,
		newEngine: factory,
		state:     Disconnected,
		script:    NewScriptRecorder(),
	}
}

// NewSessionWithEngine creates a session with an already-created engine.
// This is useful for testing.
func NewSessionWithEngine(outputDir string, e Engine) *Session {
	s := NewSession(outputDir, func(context.Context) (Engine, error) {
		return e, nil
	})
	s.engine = e
	return s
}

// OutputDir returns the artifact directory.
func (s *Session) OutputDir() string {
	return s.outputDir
}

// --- State ---

// State returns the current session state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetState transitions the session state. The transition always succeeds;
// validity is enforced by the guards, not here.
func (s *Session) SetState(state SessionState) {
	s.mu.Lock()
	old := s.state
	s.state = state
	s.mu.Unlock()
	logf("state transition: %s -> %s", old, state)
}

// IsConnected reports whether a server connection exists (login screen or
// beyond).
func (s *Session) IsConnected() bool {
	st := s.State()
	return st == Connected || st == LoggedIn
}

// IsLoggedIn reports whether the session is fully logged in.
func (s *Session) IsLoggedIn() bool {
	return s.State() == LoggedIn
}

// RequireConnected fails unless the session is connected to a server.
func (s *Session) RequireConnected() error {
	if !s.IsConnected() {
		return &SAPError{
			Message: "No active SAP connection",
			Hint:    "Call sap_open then sap_connect_to_server (or sap_connect_to_running) first.",
		}
	}
	return nil
}

// RequireLoggedIn fails unless the session is fully logged in.
func (s *Session) RequireLoggedIn() error {
	if !s.IsLoggedIn() {
		return &SAPError{
			Message: "Not logged in to SAP",
			Hint:    "Complete login with sap_fill_text_field / sap_push_button first.",
		}
	}
	return nil
}

// ServerDescription returns the description of the last connected server,
// or "" when not connected. Informational only.
func (s *Session) ServerDescription() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.server
}

// SetServerDescription records the connected server. Callers set it on a
// successful connect and clear it (with "") on close.
func (s *Session) SetServerDescription(desc string) {
	s.mu.Lock()
	s.server = desc
	s.mu.Unlock()
}

// --- Engine handle ---

func (s *Session) engineHandle(ctx context.Context) (Engine, error) {
	s.engineMu.Lock()
	defer s.engineMu.Unlock()

	if s.engine != nil {
		return s.engine, nil
	}
	eng, err := s.newEngine(ctx)
	if err != nil {
		return nil, &SAPError{
			Message: "automation engine unavailable: " + err.Error(),
			Hint: "Start the RoboSAPiens bridge host on the Windows machine running SAP GUI " +
				"and point --bridge-url at it.",
			Keyword: "bridge",
		}
	}
	s.engine = eng
	logf("automation engine initialised")
	return eng, nil
}

// --- Executor ---

// Execute runs a keyword by its human-readable name ("Fill Text Field")
// against the automation engine. All failures surface as *SAPError with a
// classified hint; results are strings ("" when the operation returns
// nothing).
func (s *Session) Execute(ctx context.Context, keyword string, args ...string) (string, error) {
	eng, err := s.engineHandle(ctx)
	if err != nil {
		return "", err
	}

	name := NormalizeKeyword(keyword)
	cmd, ok := commands[name]
	if !ok {
		return "", &SAPError{
			Message: fmt.Sprintf("unknown keyword: %q", keyword),
			Hint:    fmt.Sprintf("no command %q is registered", name),
			Keyword: keyword,
		}
	}

	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()

	logf("EXEC  %-28s args=%v", keyword, redactedArgs(name, args))
	result, err := cmd(ctx, eng, args)
	if err != nil {
		logf("FAIL  %-28s error=%s", keyword, err)
		var sapErr *SAPError
		if errors.As(err, &sapErr) {
			return "", sapErr
		}
		return "", &SAPError{
			Message: err.Error(),
			Hint:    ExtractHint(err.Error()),
			Keyword: keyword,
		}
	}
	logf("DONE  %-28s result=%s", keyword, truncate(result, 120))
	return result, nil
}

// redactedArgs masks credential values so they never reach the log.
func redactedArgs(normalized string, args []string) []string {
	if normalized != "fill_text_field" || len(args) != 2 || !IsSensitiveLabel(args[0]) {
		return args
	}
	return []string{args[0], RedactedValue}
}

// --- Script recording ---

// Record appends an executed keyword to the generated script. Sensitive
// values must be redacted by the caller before recording.
func (s *Session) Record(keyword string, args ...string) {
	s.script.Record(keyword, args...)
}

// Script returns the accumulated replay script.
func (s *Session) Script() string {
	return s.script.Script()
}

// ClearScript empties the script buffer.
func (s *Session) ClearScript() {
	s.script.Clear()
}

// --- Screenshot ---

// TakeScreenshot captures the SAP window into the output directory and
// returns the PNG base64-encoded. Capture is best-effort: any failure
// returns ok=false and never an error.
func (s *Session) TakeScreenshot(ctx context.Context, label string) (string, bool) {
	if label == "" {
		label = "screenshot"
	}
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		logf("screenshot failed: %v", err)
		return "", false
	}
	name := fmt.Sprintf("%s_%s.png", label, time.Now().Format("20060102_150405"))
	path := filepath.Join(s.outputDir, name)

	if _, err := s.Execute(ctx, "Save Screenshot", path); err != nil {
		logf("screenshot failed: %v", err)
		return "", false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logf("screenshot failed: %v", err)
		return "", false
	}
	logf("screenshot saved: %s (%d bytes)", path, len(data))
	return base64.StdEncoding.EncodeToString(data), true
}

// --- Snapshot ---

// Snapshot is a structured view of the current SAP window, built for agent
// decision-making before acting.
type Snapshot struct {
	WindowTitle *string  `json:"window_title"`
	Fields      []string `json:"fields"`
	Buttons     []string `json:"buttons"`
	Tabs        []string `json:"tabs"`
	StatusBar   *string  `json:"status_bar"`
	State       string   `json:"state"`
}

// Snapshot returns the window title, status bar, and session state. It
// requires a logged-in session; a missing title or status bar degrades to a
// null field rather than failing the whole snapshot.
//
// The engine has no generic element enumeration call, so fields, buttons,
// and tabs stay empty until the bridge protocol grows one.
func (s *Session) Snapshot(ctx context.Context) (*Snapshot, error) {
	if err := s.RequireLoggedIn(); err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Fields:  []string{},
		Buttons: []string{},
		Tabs:    []string{},
		State:   s.State().String(),
	}
	if title, err := s.Execute(ctx, "Get Window Title"); err == nil {
		snap.WindowTitle = &title
	}
	if msg, err := s.Execute(ctx, "Read Status Bar"); err == nil {
		snap.StatusBar = &msg
	}
	return snap, nil
}
