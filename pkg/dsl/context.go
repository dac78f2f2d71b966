package dsl

import (
	"context"
	"sync"

	"github.com/toni-ramchandani/sapient-mcp/pkg/sapgui"
)

// ExecutionContext carries the state of one workflow run: the session, the
// variable table, and execution flags.
type ExecutionContext struct {
	ctx     context.Context
	session *sapgui.Session

	mu     sync.Mutex
	vars   map[string]string
	dryRun bool
}

// NewExecutionContext creates a fresh execution context.
func NewExecutionContext(ctx context.Context, session *sapgui.Session) *ExecutionContext {
	return &ExecutionContext{
		ctx:     ctx,
		session: session,
		vars:    map[string]string{},
	}
}

// Context returns the underlying context.
func (ec *ExecutionContext) Context() context.Context {
	return ec.ctx
}

// Session returns the SAP GUI session.
func (ec *ExecutionContext) Session() *sapgui.Session {
	return ec.session
}

// SetVariable sets a workflow variable.
func (ec *ExecutionContext) SetVariable(name, value string) {
	ec.mu.Lock()
	ec.vars[name] = value
	ec.mu.Unlock()
}

// Variable looks up a workflow variable.
func (ec *ExecutionContext) Variable(name string) (string, bool) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	v, ok := ec.vars[name]
	return v, ok
}

// SetDryRun toggles dry-run mode.
func (ec *ExecutionContext) SetDryRun(dryRun bool) {
	ec.mu.Lock()
	ec.dryRun = dryRun
	ec.mu.Unlock()
}

// IsDryRun reports whether the run is a dry run.
func (ec *ExecutionContext) IsDryRun() bool {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	return ec.dryRun
}
