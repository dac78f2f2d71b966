// ABOUTME: Lua function registration for SAP GUI bindings.
// ABOUTME: Registers all Lua global functions that expose the automation session.

package scripting

import (
	"strconv"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/toni-ramchandani/sapient-mcp/pkg/sapgui"
)

// registerSAPBindings registers all SAP GUI Lua functions.
func (e *LuaEngine) registerSAPBindings() {
	// Session
	e.L.SetGlobal("openSAP", e.L.NewFunction(e.luaOpenSAP))
	e.L.SetGlobal("connectToServer", e.L.NewFunction(e.luaConnectToServer))
	e.L.SetGlobal("connectToRunning", e.L.NewFunction(e.luaConnectToRunning))
	e.L.SetGlobal("closeSAP", e.L.NewFunction(e.luaCloseSAP))
	e.L.SetGlobal("state", e.L.NewFunction(e.luaState))

	// Navigation
	e.L.SetGlobal("tcode", e.L.NewFunction(e.luaTcode))
	e.L.SetGlobal("activateTab", e.L.NewFunction(e.luaActivateTab))
	e.L.SetGlobal("selectMenu", e.L.NewFunction(e.luaSelectMenu))
	e.L.SetGlobal("sendKey", e.L.NewFunction(e.luaSendKey))
	e.L.SetGlobal("windowTitle", e.L.NewFunction(e.luaWindowTitle))

	// Forms
	e.L.SetGlobal("fill", e.L.NewFunction(e.luaFill))
	e.L.SetGlobal("clearField", e.L.NewFunction(e.luaClearField))
	e.L.SetGlobal("setCheckbox", e.L.NewFunction(e.luaSetCheckbox))
	e.L.SetGlobal("unsetCheckbox", e.L.NewFunction(e.luaUnsetCheckbox))
	e.L.SetGlobal("selectRadio", e.L.NewFunction(e.luaSelectRadio))
	e.L.SetGlobal("push", e.L.NewFunction(e.luaPush))
	e.L.SetGlobal("buttonExists", e.L.NewFunction(e.luaButtonExists))

	// Reading
	e.L.SetGlobal("readField", e.L.NewFunction(e.luaReadField))
	e.L.SetGlobal("readText", e.L.NewFunction(e.luaReadText))
	e.L.SetGlobal("statusBar", e.L.NewFunction(e.luaStatusBar))

	// Tables
	e.L.SetGlobal("countRows", e.L.NewFunction(e.luaCountRows))
	e.L.SetGlobal("selectRow", e.L.NewFunction(e.luaSelectRow))
	e.L.SetGlobal("readCell", e.L.NewFunction(e.luaReadCell))
	e.L.SetGlobal("fillCell", e.L.NewFunction(e.luaFillCell))
	e.L.SetGlobal("doubleClickCell", e.L.NewFunction(e.luaDoubleClickCell))
	e.L.SetGlobal("scrollTable", e.L.NewFunction(e.luaScrollTable))

	// Evidence & replay
	e.L.SetGlobal("screenshot", e.L.NewFunction(e.luaScreenshot))
	e.L.SetGlobal("getScript", e.L.NewFunction(e.luaGetScript))
	e.L.SetGlobal("clearScript", e.L.NewFunction(e.luaClearScript))
}

// action runs a keyword and pushes the bool/err convention: true on
// success, false plus the error message on failure.
func (e *LuaEngine) action(L *lua.LState, keyword string, args ...string) int {
	if _, err := e.session.Execute(e.ctx, keyword, args...); err != nil {
		return pushBoolError(L, err)
	}
	L.Push(lua.LTrue)
	return 1
}

// read runs a keyword and pushes the value/err convention: the string
// result on success, nil plus the error message on failure.
func (e *LuaEngine) read(L *lua.LState, keyword string, args ...string) int {
	result, err := e.session.Execute(e.ctx, keyword, args...)
	if err != nil {
		return pushError(L, err)
	}
	L.Push(lua.LString(result))
	return 1
}

func (e *LuaEngine) luaOpenSAP(L *lua.LState) int {
	path := getOptString(L, 1, "")
	if _, err := e.session.Execute(e.ctx, "Open SAP", path); err != nil {
		return pushBoolError(L, err)
	}
	e.session.SetState(sapgui.SAPOpen)
	L.Push(lua.LTrue)
	return 1
}

func (e *LuaEngine) luaConnectToServer(L *lua.LState) int {
	desc := getString(L, 1)
	if _, err := e.session.Execute(e.ctx, "Connect To Server", desc); err != nil {
		return pushBoolError(L, err)
	}
	e.session.SetState(sapgui.Connected)
	e.session.SetServerDescription(desc)
	L.Push(lua.LTrue)
	return 1
}

func (e *LuaEngine) luaConnectToRunning(L *lua.LState) int {
	if _, err := e.session.Execute(e.ctx, "Connect To Running SAP"); err != nil {
		return pushBoolError(L, err)
	}
	e.session.SetState(sapgui.LoggedIn)
	L.Push(lua.LTrue)
	return 1
}

func (e *LuaEngine) luaCloseSAP(L *lua.LState) int {
	if _, err := e.session.Execute(e.ctx, "Close SAP"); err != nil {
		return pushBoolError(L, err)
	}
	e.session.SetState(sapgui.Disconnected)
	e.session.SetServerDescription("")
	L.Push(lua.LTrue)
	return 1
}

func (e *LuaEngine) luaState(L *lua.LState) int {
	L.Push(lua.LString(e.session.State().String()))
	return 1
}

func (e *LuaEngine) luaTcode(L *lua.LState) int {
	return e.action(L, "Execute Transaction", getString(L, 1))
}

func (e *LuaEngine) luaActivateTab(L *lua.LState) int {
	return e.action(L, "Activate Tab", getString(L, 1))
}

func (e *LuaEngine) luaSelectMenu(L *lua.LState) int {
	var entries []string
	for _, part := range strings.Split(getString(L, 1), ">") {
		if part = strings.TrimSpace(part); part != "" {
			entries = append(entries, part)
		}
	}
	return e.action(L, "Select Menu Item", entries...)
}

func (e *LuaEngine) luaSendKey(L *lua.LState) int {
	return e.action(L, "Send SAP Keys", getString(L, 1))
}

func (e *LuaEngine) luaWindowTitle(L *lua.LState) int {
	return e.read(L, "Get Window Title")
}

func (e *LuaEngine) luaFill(L *lua.LState) int {
	return e.action(L, "Fill Text Field", getString(L, 1), getString(L, 2))
}

func (e *LuaEngine) luaClearField(L *lua.LState) int {
	return e.action(L, "Clear Text Field", getString(L, 1))
}

func (e *LuaEngine) luaSetCheckbox(L *lua.LState) int {
	return e.action(L, "Set Checkbox", getString(L, 1))
}

func (e *LuaEngine) luaUnsetCheckbox(L *lua.LState) int {
	return e.action(L, "Unset Checkbox", getString(L, 1))
}

func (e *LuaEngine) luaSelectRadio(L *lua.LState) int {
	return e.action(L, "Select Radio Button", getString(L, 1))
}

func (e *LuaEngine) luaPush(L *lua.LState) int {
	return e.action(L, "Push Button", getString(L, 1))
}

func (e *LuaEngine) luaButtonExists(L *lua.LState) int {
	_, err := e.session.Execute(e.ctx, "Highlight Button", getString(L, 1))
	L.Push(lua.LBool(err == nil))
	return 1
}

func (e *LuaEngine) luaReadField(L *lua.LState) int {
	return e.read(L, "Read Text Field", getString(L, 1))
}

func (e *LuaEngine) luaReadText(L *lua.LState) int {
	return e.read(L, "Read Text", getString(L, 1))
}

func (e *LuaEngine) luaStatusBar(L *lua.LState) int {
	return e.read(L, "Read Status Bar")
}

func (e *LuaEngine) luaCountRows(L *lua.LState) int {
	result, err := e.session.Execute(e.ctx, "Count Table Rows")
	if err != nil {
		return pushError(L, err)
	}
	n, err := strconv.Atoi(result)
	if err != nil {
		return pushError(L, err)
	}
	L.Push(lua.LNumber(n))
	return 1
}

func (e *LuaEngine) luaSelectRow(L *lua.LState) int {
	return e.action(L, "Select Table Row", strconv.Itoa(getInt(L, 1)))
}

func (e *LuaEngine) luaReadCell(L *lua.LState) int {
	return e.read(L, "Read Table Cell", getString(L, 1), getString(L, 2))
}

func (e *LuaEngine) luaFillCell(L *lua.LState) int {
	return e.action(L, "Fill Cell", getString(L, 1), getString(L, 2), getString(L, 3))
}

func (e *LuaEngine) luaDoubleClickCell(L *lua.LState) int {
	return e.action(L, "Double Click Cell", getString(L, 1), getString(L, 2))
}

func (e *LuaEngine) luaScrollTable(L *lua.LState) int {
	direction := getString(L, 1)
	rows := getOptInt(L, 2, 1)
	return e.action(L, "Scroll Table", direction, strconv.Itoa(rows))
}

func (e *LuaEngine) luaScreenshot(L *lua.LState) int {
	label := getOptString(L, 1, "")
	data, ok := e.session.TakeScreenshot(e.ctx, label)
	if !ok {
		L.Push(lua.LNil)
		L.Push(lua.LString("screenshot unavailable"))
		return 2
	}
	L.Push(lua.LString(data))
	return 1
}

func (e *LuaEngine) luaGetScript(L *lua.LState) int {
	L.Push(lua.LString(e.session.Script()))
	return 1
}

func (e *LuaEngine) luaClearScript(L *lua.LState) int {
	e.session.ClearScript()
	return 0
}
