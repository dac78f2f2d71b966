package sapgui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// BridgeEngine drives SAP GUI through the RoboSAPiens bridge host: a small
// process on the Windows desktop that owns the COM automation session and
// speaks a JSON request/response protocol over WebSocket. One request maps
// to one keyword invocation; the bridge raises a plain error message on
// failure, which the executor classifies into a hint.
type BridgeEngine struct {
	url  string
	conn *websocket.Conn
	mu   sync.RWMutex

	writeMu sync.Mutex

	pending   map[string]chan *bridgeResponse
	pendingMu sync.Mutex

	welcomeCh   chan struct{}
	isConnected bool
}

// bridgeRequest is one keyword invocation on the wire.
type bridgeRequest struct {
	ID      string   `json:"id"`
	Keyword string   `json:"keyword"`
	Args    []string `json:"args,omitempty"`
}

// bridgeResponse is the bridge host's reply.
type bridgeResponse struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Result  string `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

const welcomeTimeout = 5 * time.Second

// DialBridge connects to the bridge host. rawURL accepts ws://, wss://,
// http:// or https:// schemes; HTTP schemes are rewritten to their
// WebSocket equivalents.
func DialBridge(ctx context.Context, rawURL string) (*BridgeEngine, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid bridge URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return nil, fmt.Errorf("unsupported bridge URL scheme %q", u.Scheme)
	}

	dialer := websocket.Dialer{HandshakeTimeout: 30 * time.Second}
	conn, _, err := dialer.DialContext(ctx, u.String(), http.Header{})
	if err != nil {
		return nil, fmt.Errorf("bridge connection failed: %w", err)
	}

	b := &BridgeEngine{
		url:         u.String(),
		conn:        conn,
		pending:     make(map[string]chan *bridgeResponse),
		welcomeCh:   make(chan struct{}, 1),
		isConnected: true,
	}
	go b.readMessages()

	select {
	case <-b.welcomeCh:
		return b, nil
	case <-time.After(welcomeTimeout):
		b.Close()
		return nil, errors.New("timeout waiting for bridge welcome message")
	case <-ctx.Done():
		b.Close()
		return nil, ctx.Err()
	}
}

// Close closes the WebSocket connection.
func (b *BridgeEngine) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn != nil {
		err := b.conn.Close()
		b.conn = nil
		b.isConnected = false
		return err
	}
	return nil
}

// IsConnected returns whether the bridge connection is alive.
func (b *BridgeEngine) IsConnected() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.isConnected
}

// readMessages reads replies from the bridge and routes them to waiting
// callers.
func (b *BridgeEngine) readMessages() {
	for {
		b.mu.RLock()
		conn := b.conn
		b.mu.RUnlock()

		if conn == nil {
			return
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			b.mu.Lock()
			b.conn = nil
			b.isConnected = false
			b.mu.Unlock()
			b.failPending(fmt.Errorf("bridge connection lost: %w", err))
			return
		}

		var resp bridgeResponse
		if err := json.Unmarshal(message, &resp); err != nil {
			continue
		}

		if resp.ID == "welcome" {
			select {
			case b.welcomeCh <- struct{}{}:
			default:
			}
			continue
		}

		b.pendingMu.Lock()
		if ch, ok := b.pending[resp.ID]; ok {
			ch <- &resp
			delete(b.pending, resp.ID)
		}
		b.pendingMu.Unlock()
	}
}

// failPending unblocks all waiting callers after the connection drops.
func (b *BridgeEngine) failPending(err error) {
	b.pendingMu.Lock()
	defer b.pendingMu.Unlock()
	for id, ch := range b.pending {
		ch <- &bridgeResponse{ID: id, Success: false, Error: err.Error()}
		delete(b.pending, id)
	}
}

// call sends one keyword invocation and blocks until the bridge replies or
// ctx is cancelled. UI actions have no timeout of their own: a long-running
// action blocks until the bridge returns.
func (b *BridgeEngine) call(ctx context.Context, keyword string, args ...string) (string, error) {
	b.mu.RLock()
	conn := b.conn
	b.mu.RUnlock()
	if conn == nil {
		return "", errors.New("bridge not connected")
	}

	req := bridgeRequest{
		ID:      uuid.NewString(),
		Keyword: keyword,
		Args:    args,
	}
	ch := make(chan *bridgeResponse, 1)
	b.pendingMu.Lock()
	b.pending[req.ID] = ch
	b.pendingMu.Unlock()

	b.writeMu.Lock()
	err := conn.WriteJSON(req)
	b.writeMu.Unlock()
	if err != nil {
		b.pendingMu.Lock()
		delete(b.pending, req.ID)
		b.pendingMu.Unlock()
		return "", fmt.Errorf("bridge write failed: %w", err)
	}

	select {
	case resp := <-ch:
		if !resp.Success {
			return "", errors.New(resp.Error)
		}
		return resp.Result, nil
	case <-ctx.Done():
		b.pendingMu.Lock()
		delete(b.pending, req.ID)
		b.pendingMu.Unlock()
		return "", ctx.Err()
	}
}

// --- Engine implementation ---

func (b *BridgeEngine) OpenSAP(ctx context.Context, saplogonPath string) error {
	_, err := b.call(ctx, "open_sap", saplogonPath)
	return err
}

func (b *BridgeEngine) CloseSAP(ctx context.Context) error {
	_, err := b.call(ctx, "close_sap")
	return err
}

func (b *BridgeEngine) ConnectToServer(ctx context.Context, serverDescription string) error {
	_, err := b.call(ctx, "connect_to_server", serverDescription)
	return err
}

func (b *BridgeEngine) ConnectToRunningSAP(ctx context.Context) error {
	_, err := b.call(ctx, "connect_to_running_sap")
	return err
}

func (b *BridgeEngine) ExecuteTransaction(ctx context.Context, transactionCode string) error {
	_, err := b.call(ctx, "execute_transaction", transactionCode)
	return err
}

func (b *BridgeEngine) ActivateTab(ctx context.Context, tabLabel string) error {
	_, err := b.call(ctx, "activate_tab", tabLabel)
	return err
}

func (b *BridgeEngine) GetWindowTitle(ctx context.Context) (string, error) {
	return b.call(ctx, "get_window_title")
}

func (b *BridgeEngine) SelectMenuItem(ctx context.Context, path ...string) error {
	_, err := b.call(ctx, "select_menu_item", path...)
	return err
}

func (b *BridgeEngine) SendSAPKeys(ctx context.Context, key string) error {
	_, err := b.call(ctx, "send_sap_keys", key)
	return err
}

func (b *BridgeEngine) FillTextField(ctx context.Context, label, value string) error {
	_, err := b.call(ctx, "fill_text_field", label, value)
	return err
}

func (b *BridgeEngine) ClearTextField(ctx context.Context, label string) error {
	_, err := b.call(ctx, "clear_text_field", label)
	return err
}

func (b *BridgeEngine) SetCheckbox(ctx context.Context, label string) error {
	_, err := b.call(ctx, "set_checkbox", label)
	return err
}

func (b *BridgeEngine) UnsetCheckbox(ctx context.Context, label string) error {
	_, err := b.call(ctx, "unset_checkbox", label)
	return err
}

func (b *BridgeEngine) SelectRadioButton(ctx context.Context, label string) error {
	_, err := b.call(ctx, "select_radio_button", label)
	return err
}

func (b *BridgeEngine) PushButton(ctx context.Context, label string) error {
	_, err := b.call(ctx, "push_button", label)
	return err
}

func (b *BridgeEngine) HighlightButton(ctx context.Context, label string) error {
	_, err := b.call(ctx, "highlight_button", label)
	return err
}

func (b *BridgeEngine) ReadTextField(ctx context.Context, label string) (string, error) {
	return b.call(ctx, "read_text_field", label)
}

func (b *BridgeEngine) ReadText(ctx context.Context, locator string) (string, error) {
	return b.call(ctx, "read_text", locator)
}

func (b *BridgeEngine) ReadStatusBar(ctx context.Context) (string, error) {
	return b.call(ctx, "read_status_bar")
}

func (b *BridgeEngine) CountTableRows(ctx context.Context) (int, error) {
	result, err := b.call(ctx, "count_table_rows")
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(result))
	if err != nil {
		return 0, fmt.Errorf("bridge returned unexpected row count %q", result)
	}
	return n, nil
}

func (b *BridgeEngine) SelectTableRow(ctx context.Context, rowLocator string) error {
	_, err := b.call(ctx, "select_table_row", rowLocator)
	return err
}

func (b *BridgeEngine) ReadTableCell(ctx context.Context, rowLocator, columnName string) (string, error) {
	return b.call(ctx, "read_table_cell", rowLocator, columnName)
}

func (b *BridgeEngine) FillCell(ctx context.Context, rowLocator, columnName, value string) error {
	_, err := b.call(ctx, "fill_cell", rowLocator, columnName, value)
	return err
}

func (b *BridgeEngine) DoubleClickCell(ctx context.Context, rowLocator, columnName string) error {
	_, err := b.call(ctx, "double_click_cell", rowLocator, columnName)
	return err
}

func (b *BridgeEngine) ScrollTable(ctx context.Context, direction string, rows int) error {
	_, err := b.call(ctx, "scroll_table", direction, strconv.Itoa(rows))
	return err
}

func (b *BridgeEngine) SaveScreenshot(ctx context.Context, path string) error {
	_, err := b.call(ctx, "save_screenshot", path)
	return err
}
