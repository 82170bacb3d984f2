package plugin

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	glua "github.com/yuin/gopher-lua"

	"github.com/dshills/inkpad/internal/document"
	"github.com/dshills/inkpad/internal/logging"
	"github.com/dshills/inkpad/internal/onchange"
	"github.com/dshills/inkpad/internal/plugin/lua"
)

// ScriptHook is the global function a script defines to receive changes.
const ScriptHook = "on_change"

// Script runs a Lua script's on_change(text, json) hook with debounced
// document snapshots. The script sees the inkpad module:
//
//	inkpad.log(msg)   writes msg to the editor log
//	inkpad.name       the script name
type Script struct {
	name     string
	code     string
	stateOps []lua.StateOption
	notifyOp []onchange.Option
	log      *logging.Logger

	mu      sync.Mutex
	mounted *scriptRun
}

// scriptRun is one registration's Lua state and notifier.
type scriptRun struct {
	state    *lua.State
	notifier *onchange.Notifier
	log      *logging.Logger
}

// ScriptOption configures a Script.
type ScriptOption func(*Script)

// WithScriptLogger sets the logger the script's inkpad.log writes to.
func WithScriptLogger(l *logging.Logger) ScriptOption {
	return func(s *Script) {
		s.log = logging.OrNop(l)
	}
}

// WithScriptState passes options to the Lua state.
func WithScriptState(opts ...lua.StateOption) ScriptOption {
	return func(s *Script) {
		s.stateOps = append(s.stateOps, opts...)
	}
}

// WithScriptNotifier passes options to the script's change notifier.
func WithScriptNotifier(opts ...onchange.Option) ScriptOption {
	return func(s *Script) {
		s.notifyOp = append(s.notifyOp, opts...)
	}
}

// NewScript creates a script plugin from source code.
func NewScript(name, code string, opts ...ScriptOption) *Script {
	s := &Script{name: name, code: code, log: logging.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithComponent("script").WithField("script", name)
	return s
}

// LoadScript reads a script file. The plugin is named after the file.
func LoadScript(path string, opts ...ScriptOption) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load script: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return NewScript(name, string(data), opts...), nil
}

// Name implements Plugin.
func (s *Script) Name() string { return "script:" + s.name }

// Clone returns an unregistered copy of s with the same code and options.
func (s *Script) Clone() *Script {
	return &Script{
		name:     s.name,
		code:     s.code,
		stateOps: append([]lua.StateOption(nil), s.stateOps...),
		notifyOp: append([]onchange.Option(nil), s.notifyOp...),
		log:      s.log,
	}
}

// Register implements Plugin. The script runs once at registration; it
// must define on_change. A script is registered with one document at a
// time; use Clone for another.
func (s *Script) Register(doc *document.Document) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mounted != nil {
		return nil, ErrScriptMounted
	}

	state := lua.NewState(s.stateOps...)
	state.RegisterModule("inkpad", map[string]glua.LGFunction{
		"log": func(L *glua.LState) int {
			s.log.Info("%s", L.CheckString(1))
			return 0
		},
	})
	state.SetField("inkpad", "name", glua.LString(s.name))

	if err := state.DoString(s.code); err != nil {
		state.Close()
		return nil, err
	}
	if !state.HasFunction(ScriptHook) {
		state.Close()
		return nil, ErrNoScriptHook
	}

	run := &scriptRun{state: state, log: s.log}
	run.notifier = onchange.New(run.call, append([]onchange.Option{onchange.WithLogger(s.log)}, s.notifyOp...)...)
	detach := run.notifier.Attach(doc)
	s.mounted = run

	var once sync.Once
	return func() {
		once.Do(func() {
			detach()
			run.notifier.Close()
			state.Close()

			s.mu.Lock()
			if s.mounted == run {
				s.mounted = nil
			}
			s.mu.Unlock()
		})
	}, nil
}

// Notifier returns the notifier driving the hook. It is nil while the
// script is not registered.
func (s *Script) Notifier() *onchange.Notifier {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mounted == nil {
		return nil
	}
	return s.mounted.notifier
}

func (r *scriptRun) call(snap onchange.Snapshot) {
	if _, err := r.state.Call(ScriptHook, glua.LString(snap.Text), glua.LString(snap.StateJSON)); err != nil {
		r.log.Error("on_change failed: %v", err)
	}
}
