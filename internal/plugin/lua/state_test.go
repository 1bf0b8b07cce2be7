package lua

import (
	"errors"
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func TestNewStateSafeLibraries(t *testing.T) {
	s := NewState()
	defer s.Close()

	err := s.DoString(`
		assert(type(string.rep) == "function", "string library missing")
		assert(type(table.insert) == "function", "table library missing")
		assert(type(math.floor) == "function", "math library missing")
		assert(type(pcall) == "function", "base library missing")
	`)
	if err != nil {
		t.Errorf("safe libraries: %v", err)
	}
}

func TestNewStateUnsafeLibrariesClosed(t *testing.T) {
	s := NewState()
	defer s.Close()

	err := s.DoString(`
		assert(io == nil, "io should not be open")
		assert(os == nil, "os should not be open")
		assert(debug == nil, "debug should not be open")
		assert(package == nil, "package should not be open")
	`)
	if err != nil {
		t.Errorf("sandbox: %v", err)
	}
}

func TestStateDoStringError(t *testing.T) {
	s := NewState()
	defer s.Close()

	if err := s.DoString("this is not lua ("); err == nil {
		t.Error("invalid code should fail")
	}
	if err := s.DoString(`error("deliberate")`); err == nil {
		t.Error("runtime error should surface")
	}
}

func TestStateGlobals(t *testing.T) {
	s := NewState()
	defer s.Close()

	s.SetGlobal("x", lua.LNumber(41))
	if err := s.DoString("y = x + 1"); err != nil {
		t.Fatalf("DoString() error: %v", err)
	}
	if got := s.GetGlobal("y"); got != lua.LNumber(42) {
		t.Errorf("y = %v, want 42", got)
	}
}

func TestStateRegisterModule(t *testing.T) {
	s := NewState()
	defer s.Close()

	s.RegisterModule("m", map[string]lua.LGFunction{
		"double": func(L *lua.LState) int {
			L.Push(lua.LNumber(L.CheckInt(1) * 2))
			return 1
		},
	})

	if err := s.DoString("z = m.double(21)"); err != nil {
		t.Fatalf("DoString() error: %v", err)
	}
	if got := s.GetGlobal("z"); got != lua.LNumber(42) {
		t.Errorf("z = %v, want 42", got)
	}
}

func TestStateClose(t *testing.T) {
	s := NewState()

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error: %v", err)
	}
	if !s.IsClosed() {
		t.Error("IsClosed() = false after Close")
	}

	if err := s.DoString("x = 1"); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoString() on closed state = %v, want ErrStateClosed", err)
	}
	if got := s.GetGlobal("x"); got != lua.LNil {
		t.Errorf("GetGlobal() on closed state = %v, want nil", got)
	}
}
