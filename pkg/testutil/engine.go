package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/toni-ramchandani/sapient-mcp/pkg/sapgui"
)

// FakeEngine is a scriptable in-memory automation engine for tests. Every
// call is appended to Calls as "method(arg1,arg2)". Results configures the
// return value of read methods by method name; Fail makes a method return
// an error with the configured message.
type FakeEngine struct {
	mu      sync.Mutex
	calls   []string
	Results map[string]string
	Fail    map[string]string
	Rows    int
}

// NewFakeEngine creates a fake engine with empty result tables.
func NewFakeEngine() *FakeEngine {
	return &FakeEngine{
		Results: map[string]string{},
		Fail:    map[string]string{},
	}
}

// Calls returns the recorded invocations in order.
func (f *FakeEngine) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *FakeEngine) record(method string, args ...string) error {
	f.mu.Lock()
	f.calls = append(f.calls, fmt.Sprintf("%s(%s)", method, strings.Join(args, ",")))
	f.mu.Unlock()
	if msg, ok := f.Fail[method]; ok {
		return fmt.Errorf("%s", msg)
	}
	return nil
}

func (f *FakeEngine) result(method string) string {
	return f.Results[method]
}

func (f *FakeEngine) OpenSAP(_ context.Context, path string) error {
	return f.record("OpenSAP", path)
}

func (f *FakeEngine) CloseSAP(_ context.Context) error {
	return f.record("CloseSAP")
}

func (f *FakeEngine) ConnectToServer(_ context.Context, desc string) error {
	return f.record("ConnectToServer", desc)
}

func (f *FakeEngine) ConnectToRunningSAP(_ context.Context) error {
	return f.record("ConnectToRunningSAP")
}

func (f *FakeEngine) ExecuteTransaction(_ context.Context, tcode string) error {
	return f.record("ExecuteTransaction", tcode)
}

func (f *FakeEngine) ActivateTab(_ context.Context, label string) error {
	return f.record("ActivateTab", label)
}

func (f *FakeEngine) GetWindowTitle(_ context.Context) (string, error) {
	if err := f.record("GetWindowTitle"); err != nil {
		return "", err
	}
	return f.result("GetWindowTitle"), nil
}

func (f *FakeEngine) SelectMenuItem(_ context.Context, path ...string) error {
	return f.record("SelectMenuItem", path...)
}

func (f *FakeEngine) SendSAPKeys(_ context.Context, key string) error {
	return f.record("SendSAPKeys", key)
}

func (f *FakeEngine) FillTextField(_ context.Context, label, value string) error {
	return f.record("FillTextField", label, value)
}

func (f *FakeEngine) ClearTextField(_ context.Context, label string) error {
	return f.record("ClearTextField", label)
}

func (f *FakeEngine) SetCheckbox(_ context.Context, label string) error {
	return f.record("SetCheckbox", label)
}

func (f *FakeEngine) UnsetCheckbox(_ context.Context, label string) error {
	return f.record("UnsetCheckbox", label)
}

func (f *FakeEngine) SelectRadioButton(_ context.Context, label string) error {
	return f.record("SelectRadioButton", label)
}

func (f *FakeEngine) PushButton(_ context.Context, label string) error {
	return f.record("PushButton", label)
}

func (f *FakeEngine) HighlightButton(_ context.Context, label string) error {
	return f.record("HighlightButton", label)
}

func (f *FakeEngine) ReadTextField(_ context.Context, label string) (string, error) {
	if err := f.record("ReadTextField", label); err != nil {
		return "", err
	}
	return f.result("ReadTextField"), nil
}

func (f *FakeEngine) ReadText(_ context.Context, locator string) (string, error) {
	if err := f.record("ReadText", locator); err != nil {
		return "", err
	}
	return f.result("ReadText"), nil
}

func (f *FakeEngine) ReadStatusBar(_ context.Context) (string, error) {
	if err := f.record("ReadStatusBar"); err != nil {
		return "", err
	}
	return f.result("ReadStatusBar"), nil
}

func (f *FakeEngine) CountTableRows(_ context.Context) (int, error) {
	if err := f.record("CountTableRows"); err != nil {
		return 0, err
	}
	return f.Rows, nil
}

func (f *FakeEngine) SelectTableRow(_ context.Context, row string) error {
	return f.record("SelectTableRow", row)
}

func (f *FakeEngine) ReadTableCell(_ context.Context, row, column string) (string, error) {
	if err := f.record("ReadTableCell", row, column); err != nil {
		return "", err
	}
	return f.result("ReadTableCell"), nil
}

func (f *FakeEngine) FillCell(_ context.Context, row, column, value string) error {
	return f.record("FillCell", row, column, value)
}

func (f *FakeEngine) DoubleClickCell(_ context.Context, row, column string) error {
	return f.record("DoubleClickCell", row, column)
}

func (f *FakeEngine) ScrollTable(_ context.Context, direction string, rows int) error {
	return f.record("ScrollTable", direction, fmt.Sprintf("%d", rows))
}

func (f *FakeEngine) SaveScreenshot(_ context.Context, path string) error {
	return f.record("SaveScreenshot", path)
}

var _ sapgui.Engine = (*FakeEngine)(nil)
