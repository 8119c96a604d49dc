package validation

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSandbox_NativeLibsRemoved(t *testing.T) {
	sb, err := NewSandbox(testLogger())
	if err != nil {
		t.Fatalf("NewSandbox() error = %v", err)
	}
	defer sb.Close()

	for _, code := range []string{
		`os.execute("echo hello")`,
		`os.getenv("HOME")`,
		`io.open("test.txt")`,
		`debug.getinfo(1)`,
		`dofile("x.lua")`,
	} {
		if err := sb.DoString(code); err == nil {
			t.Errorf("%s should not be available", code)
		}
	}
}

func TestSandbox_SafeFunctions(t *testing.T) {
	sb, err := NewSandbox(testLogger())
	if err != nil {
		t.Fatalf("NewSandbox() error = %v", err)
	}
	defer sb.Close()

	for _, code := range []string{
		`t = os.time()`,
		`s = string.upper("abc")`,
		`n = math.max(1, 2)`,
		`log("info", "hello from script")`,
	} {
		if err := sb.DoString(code); err != nil {
			t.Errorf("%s should work: %v", code, err)
		}
	}
}

func TestLuaValidator_Validate(t *testing.T) {
	v, err := NewLuaValidatorString(`
function validate(value)
  if value:find("password") then
    return false, "do not paste secrets"
  end
  if value == "nil" then
    return nil
  end
  return true
end
`, testLogger())
	if err != nil {
		t.Fatalf("NewLuaValidatorString() error = %v", err)
	}
	defer v.Close()

	if err := v.Validate("hello"); err != nil {
		t.Errorf("Validate(hello) error = %v, want nil", err)
	}

	err = v.Validate("my password is 123")
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("Validate() error = %v, want ErrInvalid", err)
	}
	if Reason(err) != "do not paste secrets" {
		t.Errorf("Reason() = %q, want 'do not paste secrets'", Reason(err))
	}

	err = v.Validate("nil")
	if Reason(err) != "rejected by validator" {
		t.Errorf("Reason() = %q, want 'rejected by validator'", Reason(err))
	}
}

func TestLuaValidator_RuntimeErrorIsInvalid(t *testing.T) {
	v, err := NewLuaValidatorString(`function validate(value) error("boom") end`, testLogger())
	if err != nil {
		t.Fatalf("NewLuaValidatorString() error = %v", err)
	}
	defer v.Close()

	if err := v.Validate("anything"); !errors.Is(err, ErrInvalid) {
		t.Errorf("Validate() error = %v, want ErrInvalid", err)
	}
	// State stays usable after a failed call
	if err := v.Validate("again"); !errors.Is(err, ErrInvalid) {
		t.Errorf("second Validate() error = %v, want ErrInvalid", err)
	}
}

func TestLuaValidator_MissingFunction(t *testing.T) {
	_, err := NewLuaValidatorString(`x = 1`, testLogger())
	if err == nil {
		t.Fatal("expected error for script without validate function")
	}
}

func TestNewLuaValidator_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "validate.lua")
	code := `function validate(value) return #value <= 5, "keep it short" end`
	if err := os.WriteFile(path, []byte(code), 0644); err != nil {
		t.Fatal(err)
	}

	v, err := NewLuaValidator(path, testLogger())
	if err != nil {
		t.Fatalf("NewLuaValidator() error = %v", err)
	}
	defer v.Close()

	if err := v.Validate("short"); err != nil {
		t.Errorf("Validate(short) error = %v", err)
	}
	if Reason(v.Validate("much too long")) != "keep it short" {
		t.Error("expected 'keep it short' for long value")
	}
}

func TestNewLuaValidator_MissingFile(t *testing.T) {
	_, err := NewLuaValidator(filepath.Join(t.TempDir(), "nope.lua"), testLogger())
	if err == nil {
		t.Fatal("expected error for missing script")
	}
}
