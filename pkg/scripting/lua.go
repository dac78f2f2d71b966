// Package scripting provides Lua scripting support for sapient. It enables
// scripted SAP GUI automation runs: navigate transactions, fill forms, and
// read screens from a Lua file or an interactive REPL.
package scripting

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/toni-ramchandani/sapient-mcp/pkg/sapgui"
)

// LuaEngine wraps a Lua VM with SAP GUI bindings.
type LuaEngine struct {
	L       *lua.LState
	session *sapgui.Session
	ctx     context.Context
	output  io.Writer
}

// NewLuaEngine creates a new Lua engine bound to a SAP GUI session.
func NewLuaEngine(session *sapgui.Session) *LuaEngine {
	L := lua.NewState(lua.Options{
		CallStackSize:       120,
		RegistrySize:        1024 * 20,
		SkipOpenLibs:        false,
		IncludeGoStackTrace: true,
	})

	engine := &LuaEngine{
		L:       L,
		session: session,
		ctx:     context.Background(),
		output:  os.Stdout,
	}

	engine.registerBuiltins()
	engine.registerSAPBindings()

	return engine
}

// SetContext sets the context for SAP operations.
func (e *LuaEngine) SetContext(ctx context.Context) {
	e.ctx = ctx
}

// SetOutput sets the output writer for print statements.
func (e *LuaEngine) SetOutput(w io.Writer) {
	e.output = w
}

// Close closes the Lua state.
func (e *LuaEngine) Close() {
	e.L.Close()
}

// Execute runs a Lua script string.
func (e *LuaEngine) Execute(script string) error {
	return e.L.DoString(script)
}

// ExecuteFile runs a Lua script file.
func (e *LuaEngine) ExecuteFile(path string) error {
	return e.L.DoFile(path)
}

// REPL runs an interactive Lua Read-Eval-Print Loop.
func (e *LuaEngine) REPL() {
	reader := bufio.NewReader(os.Stdin)
	fmt.Fprintln(e.output, "sapient Lua REPL")
	fmt.Fprintln(e.output, "Type 'exit' to quit, 'help' for commands.")
	fmt.Fprintln(e.output, "")

	for {
		fmt.Fprint(e.output, "lua> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				fmt.Fprintln(e.output, "\nGoodbye!")
				return
			}
			fmt.Fprintf(e.output, "Error reading input: %v\n", err)
			continue
		}

		line = strings.TrimSpace(line)

		if line == "" {
			continue
		}

		if line == "exit" || line == "quit" {
			fmt.Fprintln(e.output, "Goodbye!")
			return
		}

		if line == "help" {
			e.printHelp()
			continue
		}

		if err := e.Execute(line); err != nil {
			fmt.Fprintf(e.output, "Error: %v\n", err)
		}
	}
}

func (e *LuaEngine) printHelp() {
	help := `
sapient Lua Commands:
─────────────────────────────────────────────────────────
  exit, quit     Exit the REPL

Session:
  openSAP([path])                 Launch SAP Logon
  connectToServer(description)    Connect to a server from SAP Logon
  connectToRunning()              Attach to a running SAP session
  closeSAP()                      Close SAP GUI
  state()                         Current session state

Navigation:
  tcode(code)                     Execute a transaction, e.g. tcode("/nME21N")
  activateTab(label)              Click a tab
  selectMenu(path)                Menu path, entries joined by " > "
  sendKey(key)                    Send a key: Enter, F3, F8, ...
  windowTitle()                   Current window title

Forms:
  fill(label, value)              Fill a text field
  clearField(label)               Clear a text field
  setCheckbox(label)              Check a checkbox
  unsetCheckbox(label)            Uncheck a checkbox
  selectRadio(label)              Select a radio button
  push(label)                     Click a button
  buttonExists(label)             Probe for a button

Reading:
  readField(label)                Read a text field value
  readText(locator)               Read a text element
  statusBar()                     Read the status bar

Tables:
  countRows()                     Count table rows
  selectRow(n)                    Select row n
  readCell(row, column)           Read a cell
  fillCell(row, column, value)    Fill a cell
  doubleClickCell(row, column)    Drill into a cell
  scrollTable(direction, [rows])  Scroll "up" or "down"

Evidence & replay:
  screenshot([label])             Capture a screenshot (base64)
  getScript()                     Generated Robot Framework script
  clearScript()                   Discard recorded actions

Utilities:
  print(...)                      Print values
  sleep(seconds)                  Sleep for N seconds
  json.encode(value)              Encode to JSON
  json.decode(str)                Decode from JSON
─────────────────────────────────────────────────────────
`
	fmt.Fprintln(e.output, help)
}

// registerBuiltins registers built-in Lua functions.
func (e *LuaEngine) registerBuiltins() {
	// Override print to use our output writer
	e.L.SetGlobal("print", e.L.NewFunction(e.luaPrint))

	// Sleep function
	e.L.SetGlobal("sleep", e.L.NewFunction(e.luaSleep))

	// JSON module
	jsonMod := e.L.NewTable()
	e.L.SetField(jsonMod, "encode", e.L.NewFunction(e.luaJSONEncode))
	e.L.SetField(jsonMod, "decode", e.L.NewFunction(e.luaJSONDecode))
	e.L.SetGlobal("json", jsonMod)
}

// luaPrint implements print() for Lua.
func (e *LuaEngine) luaPrint(L *lua.LState) int {
	top := L.GetTop()
	parts := make([]string, top)
	for i := 1; i <= top; i++ {
		parts[i-1] = L.ToStringMeta(L.Get(i)).String()
	}
	fmt.Fprintln(e.output, strings.Join(parts, "\t"))
	return 0
}

// luaSleep implements sleep(seconds) for Lua.
func (e *LuaEngine) luaSleep(L *lua.LState) int {
	seconds := L.ToNumber(1)
	if seconds <= 0 {
		seconds = 1
	}

	select {
	case <-e.ctx.Done():
		L.RaiseError("context cancelled")
	case <-contextWithTimeout(e.ctx, seconds):
	}

	return 0
}

// luaJSONEncode implements json.encode(value) for Lua.
func (e *LuaEngine) luaJSONEncode(L *lua.LState) int {
	val := L.Get(1)
	goVal := luaToGo(val)

	jsonBytes, err := jsonMarshal(goVal)
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}

	L.Push(lua.LString(string(jsonBytes)))
	return 1
}

// luaJSONDecode implements json.decode(str) for Lua.
func (e *LuaEngine) luaJSONDecode(L *lua.LState) int {
	str := L.ToString(1)

	var goVal interface{}
	if err := jsonUnmarshal([]byte(str), &goVal); err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}

	L.Push(goToLua(L, goVal))
	return 1
}
