package sapgui

import (
	"strings"
	"sync"
)

// noActionsPlaceholder is returned by Script when nothing was recorded.
const noActionsPlaceholder = "# No actions recorded yet."

// scriptHeader and scriptTestCase frame the recorded actions as a runnable
// Robot Framework test.
const (
	scriptHeader   = "*** Settings ***\nLibrary    RoboSAPiens\n"
	scriptTestCase = "*** Test Cases ***\nGenerated SAP Automation\n"
)

// ScriptRecorder accumulates executed keywords into a replayable Robot
// Framework script. It is safe for concurrent use; each operation holds the
// lock for its whole read-modify-write. The recorder performs no redaction —
// callers mask sensitive values before recording.
type ScriptRecorder struct {
	mu    sync.Mutex
	lines []string
}

// NewScriptRecorder returns an empty recorder.
func NewScriptRecorder() *ScriptRecorder {
	return &ScriptRecorder{}
}

// Record appends one action line: the keyword followed by its arguments,
// separated by the Robot Framework four-space delimiter, indented one cell.
func (r *ScriptRecorder) Record(keyword string, args ...string) {
	line := "    " + keyword
	if len(args) > 0 {
		line += "    " + strings.Join(args, "    ")
	}
	r.mu.Lock()
	r.lines = append(r.lines, line)
	r.mu.Unlock()
}

// Script renders the accumulated actions wrapped in the settings and test
// case blocks. With nothing recorded it returns a placeholder message
// instead of an empty template.
func (r *ScriptRecorder) Script() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.lines) == 0 {
		return noActionsPlaceholder
	}

	var sb strings.Builder
	sb.WriteString(scriptHeader)
	sb.WriteString("\n")
	sb.WriteString(scriptTestCase)
	for _, line := range r.lines {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Clear empties the buffer; Script behaves afterwards as if nothing was
// ever recorded.
func (r *ScriptRecorder) Clear() {
	r.mu.Lock()
	r.lines = nil
	r.mu.Unlock()
}

// Len returns the number of recorded actions.
func (r *ScriptRecorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lines)
}
