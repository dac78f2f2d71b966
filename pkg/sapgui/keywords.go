package sapgui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// NormalizeKeyword maps a human-readable keyword to its canonical command
// name: lower-cased, spaces joined with underscores.
// "Fill Text Field" -> "fill_text_field".
func NormalizeKeyword(keyword string) string {
	return strings.ReplaceAll(strings.ToLower(keyword), " ", "_")
}

// commandFunc invokes one typed engine operation with positional string
// arguments. Results are uniformly strings; operations without a result
// return "".
type commandFunc func(ctx context.Context, e Engine, args []string) (string, error)

// commands is the closed set of supported keywords, keyed by normalized
// name. Keeping the mapping explicit makes the command surface statically
// auditable and lets tests inject a fake engine.
var commands = map[string]commandFunc{
	"open_sap": func(ctx context.Context, e Engine, args []string) (string, error) {
		if err := wantArgs("Open SAP", args, 1); err != nil {
			return "", err
		}
		return "", e.OpenSAP(ctx, args[0])
	},
	"close_sap": func(ctx context.Context, e Engine, args []string) (string, error) {
		if err := wantArgs("Close SAP", args, 0); err != nil {
			return "", err
		}
		return "", e.CloseSAP(ctx)
	},
	"connect_to_server": func(ctx context.Context, e Engine, args []string) (string, error) {
		if err := wantArgs("Connect To Server", args, 1); err != nil {
			return "", err
		}
		return "", e.ConnectToServer(ctx, args[0])
	},
	"connect_to_running_sap": func(ctx context.Context, e Engine, args []string) (string, error) {
		if err := wantArgs("Connect To Running SAP", args, 0); err != nil {
			return "", err
		}
		return "", e.ConnectToRunningSAP(ctx)
	},
	"execute_transaction": func(ctx context.Context, e Engine, args []string) (string, error) {
		if err := wantArgs("Execute Transaction", args, 1); err != nil {
			return "", err
		}
		return "", e.ExecuteTransaction(ctx, args[0])
	},
	"activate_tab": func(ctx context.Context, e Engine, args []string) (string, error) {
		if err := wantArgs("Activate Tab", args, 1); err != nil {
			return "", err
		}
		return "", e.ActivateTab(ctx, args[0])
	},
	"get_window_title": func(ctx context.Context, e Engine, args []string) (string, error) {
		if err := wantArgs("Get Window Title", args, 0); err != nil {
			return "", err
		}
		return e.GetWindowTitle(ctx)
	},
	"select_menu_item": func(ctx context.Context, e Engine, args []string) (string, error) {
		if len(args) == 0 {
			return "", &SAPError{Message: "Select Menu Item expects at least 1 argument", Keyword: "Select Menu Item"}
		}
		return "", e.SelectMenuItem(ctx, args...)
	},
	"send_sap_keys": func(ctx context.Context, e Engine, args []string) (string, error) {
		if err := wantArgs("Send SAP Keys", args, 1); err != nil {
			return "", err
		}
		return "", e.SendSAPKeys(ctx, args[0])
	},
	"fill_text_field": func(ctx context.Context, e Engine, args []string) (string, error) {
		if err := wantArgs("Fill Text Field", args, 2); err != nil {
			return "", err
		}
		return "", e.FillTextField(ctx, args[0], args[1])
	},
	"clear_text_field": func(ctx context.Context, e Engine, args []string) (string, error) {
		if err := wantArgs("Clear Text Field", args, 1); err != nil {
			return "", err
		}
		return "", e.ClearTextField(ctx, args[0])
	},
	"set_checkbox": func(ctx context.Context, e Engine, args []string) (string, error) {
		if err := wantArgs("Set Checkbox", args, 1); err != nil {
			return "", err
		}
		return "", e.SetCheckbox(ctx, args[0])
	},
	"unset_checkbox": func(ctx context.Context, e Engine, args []string) (string, error) {
		if err := wantArgs("Unset Checkbox", args, 1); err != nil {
			return "", err
		}
		return "", e.UnsetCheckbox(ctx, args[0])
	},
	"select_radio_button": func(ctx context.Context, e Engine, args []string) (string, error) {
		if err := wantArgs("Select Radio Button", args, 1); err != nil {
			return "", err
		}
		return "", e.SelectRadioButton(ctx, args[0])
	},
	"push_button": func(ctx context.Context, e Engine, args []string) (string, error) {
		if err := wantArgs("Push Button", args, 1); err != nil {
			return "", err
		}
		return "", e.PushButton(ctx, args[0])
	},
	"highlight_button": func(ctx context.Context, e Engine, args []string) (string, error) {
		if err := wantArgs("Highlight Button", args, 1); err != nil {
			return "", err
		}
		return "", e.HighlightButton(ctx, args[0])
	},
	"read_text_field": func(ctx context.Context, e Engine, args []string) (string, error) {
		if err := wantArgs("Read Text Field", args, 1); err != nil {
			return "", err
		}
		return e.ReadTextField(ctx, args[0])
	},
	"read_text": func(ctx context.Context, e Engine, args []string) (string, error) {
		if err := wantArgs("Read Text", args, 1); err != nil {
			return "", err
		}
		return e.ReadText(ctx, args[0])
	},
	"read_status_bar": func(ctx context.Context, e Engine, args []string) (string, error) {
		if err := wantArgs("Read Status Bar", args, 0); err != nil {
			return "", err
		}
		return e.ReadStatusBar(ctx)
	},
	"count_table_rows": func(ctx context.Context, e Engine, args []string) (string, error) {
		if err := wantArgs("Count Table Rows", args, 0); err != nil {
			return "", err
		}
		n, err := e.CountTableRows(ctx)
		if err != nil {
			return "", err
		}
		return strconv.Itoa(n), nil
	},
	"select_table_row": func(ctx context.Context, e Engine, args []string) (string, error) {
		if err := wantArgs("Select Table Row", args, 1); err != nil {
			return "", err
		}
		return "", e.SelectTableRow(ctx, args[0])
	},
	"read_table_cell": func(ctx context.Context, e Engine, args []string) (string, error) {
		if err := wantArgs("Read Table Cell", args, 2); err != nil {
			return "", err
		}
		return e.ReadTableCell(ctx, args[0], args[1])
	},
	"fill_cell": func(ctx context.Context, e Engine, args []string) (string, error) {
		if err := wantArgs("Fill Cell", args, 3); err != nil {
			return "", err
		}
		return "", e.FillCell(ctx, args[0], args[1], args[2])
	},
	"double_click_cell": func(ctx context.Context, e Engine, args []string) (string, error) {
		if err := wantArgs("Double Click Cell", args, 2); err != nil {
			return "", err
		}
		return "", e.DoubleClickCell(ctx, args[0], args[1])
	},
	"scroll_table": func(ctx context.Context, e Engine, args []string) (string, error) {
		if err := wantArgs("Scroll Table", args, 2); err != nil {
			return "", err
		}
		rows, err := strconv.Atoi(args[1])
		if err != nil || rows < 1 {
			return "", &SAPError{
				Message: fmt.Sprintf("Scroll Table: invalid row count %q", args[1]),
				Keyword: "Scroll Table",
			}
		}
		return "", e.ScrollTable(ctx, args[0], rows)
	},
	"save_screenshot": func(ctx context.Context, e Engine, args []string) (string, error) {
		if err := wantArgs("Save Screenshot", args, 1); err != nil {
			return "", err
		}
		return "", e.SaveScreenshot(ctx, args[0])
	},
}

// Keywords returns the normalized names of all supported keywords.
func Keywords() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	return names
}

func wantArgs(keyword string, args []string, n int) error {
	if len(args) != n {
		return &SAPError{
			Message: fmt.Sprintf("%s expects %d argument(s), got %d", keyword, n, len(args)),
			Keyword: keyword,
		}
	}
	return nil
}
