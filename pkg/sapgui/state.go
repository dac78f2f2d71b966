package sapgui

// SessionState tracks the SAP connection lifecycle. It can regress to
// Disconnected at any point (e.g. after Close SAP).
type SessionState int

const (
	// Disconnected means no SAP GUI process is under control.
	Disconnected SessionState = iota
	// SAPOpen means SAP Logon is launched but not yet connected.
	SAPOpen
	// Connected means connected to a server, at the login screen.
	Connected
	// LoggedIn means fully logged in, inside the SAP application.
	LoggedIn
)

func (s SessionState) String() string {
	switch s {
	case Disconnected:
		return "DISCONNECTED"
	case SAPOpen:
		return "SAP_OPEN"
	case Connected:
		return "CONNECTED"
	case LoggedIn:
		return "LOGGED_IN"
	default:
		return "UNKNOWN"
	}
}
