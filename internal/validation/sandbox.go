package validation

import (
	"fmt"
	"log/slog"

	lua "github.com/yuin/gopher-lua"
)

// Sandbox wraps a Lua state with restricted library access.
type Sandbox struct {
	L *lua.LState
}

// NewSandbox creates a sandboxed Lua state. Scripts get base, table, string,
// math and a trimmed os library, plus a log(level, msg) function that writes
// to logger.
func NewSandbox(logger *slog.Logger) (*Sandbox, error) {
	if logger == nil {
		logger = slog.Default()
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	// Open only safe built-in libraries
	for _, pair := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
		{lua.OsLibName, lua.OpenOs},
	} {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(pair.fn),
			NRet:    0,
			Protect: true,
		}, lua.LString(pair.name)); err != nil {
			L.Close()
			return nil, fmt.Errorf("failed to open library %s: %w", pair.name, err)
		}
	}

	L.SetGlobal("dofile", lua.LNil)
	L.SetGlobal("loadfile", lua.LNil)
	L.SetGlobal("require", lua.LNil)

	// Keep os.time, os.date, os.clock, os.difftime
	if osTbl, ok := L.GetGlobal("os").(*lua.LTable); ok {
		for _, fn := range []string{"execute", "exit", "getenv", "remove", "rename", "setlocale", "tmpname"} {
			osTbl.RawSetString(fn, lua.LNil)
		}
	}

	sb := &Sandbox{L: L}
	sb.registerLog(logger)
	return sb, nil
}

func (s *Sandbox) registerLog(logger *slog.Logger) {
	s.L.SetGlobal("log", s.L.NewFunction(func(L *lua.LState) int {
		level := L.CheckString(1)
		msg := L.CheckString(2)
		switch level {
		case "debug":
			logger.Debug(msg, "source", "validator")
		case "warn":
			logger.Warn(msg, "source", "validator")
		case "error":
			logger.Error(msg, "source", "validator")
		default:
			logger.Info(msg, "source", "validator")
		}
		return 0
	}))
}

// DoString executes a Lua string.
func (s *Sandbox) DoString(code string) error {
	return s.L.DoString(code)
}

// DoFile executes a Lua file.
func (s *Sandbox) DoFile(path string) error {
	return s.L.DoFile(path)
}

// Close shuts down the Lua state.
func (s *Sandbox) Close() {
	s.L.Close()
}
