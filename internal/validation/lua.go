package validation

import (
	"fmt"
	"log/slog"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// LuaValidator delegates validation to a script's validate(value) function.
//
// The function returns a boolean and an optional message:
//
//	function validate(value)
//	  if value:find("password") then
//	    return false, "do not paste secrets"
//	  end
//	  return true
//	end
type LuaValidator struct {
	mu      sync.Mutex
	sandbox *Sandbox
	logger  *slog.Logger
}

// NewLuaValidator loads a validator script from path.
func NewLuaValidator(path string, logger *slog.Logger) (*LuaValidator, error) {
	return newLuaValidator(logger, func(sb *Sandbox) error { return sb.DoFile(path) })
}

// NewLuaValidatorString loads a validator script from source code.
func NewLuaValidatorString(code string, logger *slog.Logger) (*LuaValidator, error) {
	return newLuaValidator(logger, func(sb *Sandbox) error { return sb.DoString(code) })
}

func newLuaValidator(logger *slog.Logger, load func(*Sandbox) error) (*LuaValidator, error) {
	if logger == nil {
		logger = slog.Default()
	}

	sb, err := NewSandbox(logger)
	if err != nil {
		return nil, err
	}
	if err := load(sb); err != nil {
		sb.Close()
		return nil, fmt.Errorf("failed to load validator script: %w", err)
	}
	if sb.L.GetGlobal("validate").Type() != lua.LTFunction {
		sb.Close()
		return nil, fmt.Errorf("validator script does not define a validate function")
	}

	return &LuaValidator{sandbox: sb, logger: logger}, nil
}

// Validate implements Validator. Script errors count as invalid input.
func (v *LuaValidator) Validate(value string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	L := v.sandbox.L
	if err := L.CallByParam(lua.P{
		Fn:      L.GetGlobal("validate"),
		NRet:    2,
		Protect: true,
	}, lua.LString(value)); err != nil {
		v.logger.Warn("validator script failed", "error", err)
		return Invalid("validator failed")
	}

	ok := L.Get(-2)
	msg := L.Get(-1)
	L.Pop(2)

	if lua.LVAsBool(ok) {
		return nil
	}
	if s, isStr := msg.(lua.LString); isStr && s != "" {
		return Invalid("%s", string(s))
	}
	return Invalid("rejected by validator")
}

// Close frees the Lua state.
func (v *LuaValidator) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sandbox.Close()
}
