// Package sapgui implements the stateful core of the sapient MCP server:
// a single long-lived SAP GUI session that executes named keywords against
// an automation engine, tracks connection state, and records executed
// actions into a replayable script.
package sapgui

import "strings"

// SAPError is the structured failure type for SAP-level errors. It carries
// the raw error message, an optional remediation hint for the calling agent,
// and the keyword that was being executed. It is the only error type that
// crosses the package boundary.
type SAPError struct {
	Message string
	Hint    string
	Keyword string
}

func (e *SAPError) Error() string {
	return e.Message
}

// ExtractHint parses common automation error messages into actionable hints.
// Rules are checked in priority order; the first match wins.
func ExtractHint(errMsg string) string {
	msg := strings.ToLower(errMsg)
	switch {
	case strings.Contains(msg, "not found"):
		return "Element not found. Check: (1) spelling of the label, " +
			"(2) the correct tab is active, " +
			"(3) call sap_get_window_title to confirm you are on the right screen."
	case strings.Contains(msg, "scripting"):
		return "SAP GUI scripting is not enabled. " +
			"Enable it in SAP Logon -> Customize Local Layout (Alt+F12) -> Options -> Scripting, " +
			"AND ask BASIS to set sapgui/user_scripting=TRUE via RZ11."
	case strings.Contains(msg, "connection") || strings.Contains(msg, "server"):
		return "Connection failed. Check: (1) SAP Logon is open, " +
			"(2) the server description matches exactly what appears in SAP Logon list, " +
			"(3) network connectivity to SAP."
	case strings.Contains(msg, "password") || strings.Contains(msg, "login"):
		return "Login failed. Verify credentials. Check for password expiry or account lock."
	default:
		return ""
	}
}

// sensitiveLabels are field labels whose values must never appear in logs
// or generated scripts.
var sensitiveLabels = map[string]struct{}{
	"password": {},
	"passwort": {},
	"kennwort": {},
}

// IsSensitiveLabel reports whether a field label identifies a credential
// field. Callers redact such values before logging or recording.
func IsSensitiveLabel(label string) bool {
	_, ok := sensitiveLabels[strings.ToLower(label)]
	return ok
}

// RedactedValue is the fixed placeholder recorded in place of sensitive values.
const RedactedValue = "***"
