package sapgui

import "context"

// Engine is the automation capability that actually drives the SAP GUI
// desktop client. It exposes one method per supported keyword. The engine
// proxies a single desktop UI session and is not safe for concurrent
// invocation; the Session serializes all calls to it.
//
// Methods block until the underlying UI action completes or fails. Errors
// carry the raw automation message; classification into hints happens in
// the executor.
type Engine interface {
	// Session lifecycle
	OpenSAP(ctx context.Context, saplogonPath string) error
	CloseSAP(ctx context.Context) error
	ConnectToServer(ctx context.Context, serverDescription string) error
	ConnectToRunningSAP(ctx context.Context) error

	// Navigation
	ExecuteTransaction(ctx context.Context, transactionCode string) error
	ActivateTab(ctx context.Context, tabLabel string) error
	GetWindowTitle(ctx context.Context) (string, error)
	SelectMenuItem(ctx context.Context, path ...string) error
	SendSAPKeys(ctx context.Context, key string) error

	// Form input
	FillTextField(ctx context.Context, label, value string) error
	ClearTextField(ctx context.Context, label string) error
	SetCheckbox(ctx context.Context, label string) error
	UnsetCheckbox(ctx context.Context, label string) error
	SelectRadioButton(ctx context.Context, label string) error

	// Buttons
	PushButton(ctx context.Context, label string) error
	HighlightButton(ctx context.Context, label string) error

	// Read / inspect
	ReadTextField(ctx context.Context, label string) (string, error)
	ReadText(ctx context.Context, locator string) (string, error)
	ReadStatusBar(ctx context.Context) (string, error)

	// Tables
	CountTableRows(ctx context.Context) (int, error)
	SelectTableRow(ctx context.Context, rowLocator string) error
	ReadTableCell(ctx context.Context, rowLocator, columnName string) (string, error)
	FillCell(ctx context.Context, rowLocator, columnName, value string) error
	DoubleClickCell(ctx context.Context, rowLocator, columnName string) error
	ScrollTable(ctx context.Context, direction string, rows int) error

	// Evidence
	SaveScreenshot(ctx context.Context, path string) error
}

// EngineFactory creates the automation engine on first use. The Session
// calls it at most once after a successful creation; a failed creation is
// retried on the next command.
type EngineFactory func(ctx context.Context) (Engine, error)
