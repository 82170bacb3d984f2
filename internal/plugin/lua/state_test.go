package lua

import (
	"errors"
	"testing"
	"time"

	lua "github.com/yuin/gopher-lua"
)

func TestState_Sandbox(t *testing.T) {
	s := NewState()
	defer s.Close()

	for _, name := range []string{"io", "os", "debug", "package", "dofile", "loadfile", "load", "loadstring"} {
		if err := s.DoString("assert(" + name + " == nil)"); err != nil {
			t.Errorf("%s is available in sandbox: %v", name, err)
		}
	}
	for _, name := range []string{"string", "table", "math", "pairs"} {
		if err := s.DoString("assert(" + name + " ~= nil)"); err != nil {
			t.Errorf("%s missing from sandbox: %v", name, err)
		}
	}
}

func TestState_Call(t *testing.T) {
	s := NewState()
	defer s.Close()

	if err := s.DoString(`function add(a, b) return a + b, "done" end`); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	if !s.HasFunction("add") {
		t.Fatal("HasFunction(add) = false")
	}
	res, err := s.Call("add", lua.LNumber(2), lua.LNumber(3))
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if len(res) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(res))
	}
	if res[0] != lua.LNumber(5) {
		t.Errorf("results[0] = %v, want 5", res[0])
	}
	if res[1].String() != "done" {
		t.Errorf("results[1] = %v, want done", res[1])
	}
	if top := s.L.GetTop(); top != 0 {
		t.Errorf("stack top = %d after Call, want 0", top)
	}
}

func TestState_CallErrors(t *testing.T) {
	s := NewState()
	defer s.Close()

	if _, err := s.Call("missing"); !errors.Is(err, ErrNotFunction) {
		t.Errorf("Call(missing) error = %v, want ErrNotFunction", err)
	}

	if err := s.DoString(`function boom() error("bad") end`); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	if _, err := s.Call("boom"); err == nil {
		t.Error("Call(boom) error = nil, want runtime error")
	}
	if top := s.L.GetTop(); top != 0 {
		t.Errorf("stack top = %d after failed Call, want 0", top)
	}
}

func TestState_Timeout(t *testing.T) {
	s := NewState(WithExecutionTimeout(50 * time.Millisecond))
	defer s.Close()

	err := s.DoString(`while true do end`)
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Errorf("DoString(loop) error = %v, want ErrExecutionTimeout", err)
	}
	if err := s.DoString(`x = 1`); err != nil {
		t.Errorf("state unusable after timeout: %v", err)
	}
}

func TestState_RegisterModule(t *testing.T) {
	s := NewState()
	defer s.Close()

	var got string
	s.RegisterModule("host", map[string]lua.LGFunction{
		"echo": func(L *lua.LState) int {
			got = L.CheckString(1)
			return 0
		},
	})
	if err := s.DoString(`host.echo("hi")`); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	if got != "hi" {
		t.Errorf("echo received %q, want hi", got)
	}
}

func TestState_Closed(t *testing.T) {
	s := NewState()
	s.Close()
	s.Close()

	if err := s.DoString("x = 1"); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoString after Close = %v, want ErrStateClosed", err)
	}
	if _, err := s.Call("f"); !errors.Is(err, ErrStateClosed) {
		t.Errorf("Call after Close = %v, want ErrStateClosed", err)
	}
	if s.HasFunction("f") {
		t.Error("HasFunction after Close = true")
	}
}

func TestState_SetField(t *testing.T) {
	s := NewState()
	defer s.Close()

	s.RegisterModule("host", map[string]lua.LGFunction{})
	s.SetField("host", "name", lua.LString("demo"))
	s.SetField("absent", "name", lua.LString("ignored"))

	if err := s.DoString(`assert(host.name == "demo")`); err != nil {
		t.Errorf("host.name not set: %v", err)
	}
}
