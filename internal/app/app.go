// Package app wires the playground together. It owns every shared context
// (settings, history, autocomplete, color picker) and hands them by
// pointer to the components that need them.
package app

import (
	"context"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/benbjohnson/clock"
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/inkpad/internal/autocomplete"
	"github.com/dshills/inkpad/internal/color"
	"github.com/dshills/inkpad/internal/document"
	"github.com/dshills/inkpad/internal/history"
	"github.com/dshills/inkpad/internal/logging"
	"github.com/dshills/inkpad/internal/plugin"
	"github.com/dshills/inkpad/internal/settings"
	"github.com/dshills/inkpad/internal/tui"
)

// WelcomeText seeds the document unless settings ask for an empty editor.
const WelcomeText = "Welcome to the playground\n\nType to edit. Ctrl-Z and Ctrl-Y undo and redo, Tab accepts a suggestion, Left and Right change the color, Ctrl-Q quits."

// Options configures the application.
type Options struct {
	// ConfigPath is the settings file. It is watched for changes.
	ConfigPath string

	// LogLevel overrides the logLevel setting when set.
	LogLevel string

	// Headless reads paragraphs from Input and writes snapshots to Output
	// instead of drawing on a terminal.
	Headless bool

	// Script is a Lua script loaded in addition to the configured ones.
	Script string

	// Environ supplies INKPAD_* overrides. Nil means os.Environ().
	Environ []string

	// Input, Output and LogOutput default to the process's stdio.
	Input     io.Reader
	Output    io.Writer
	LogOutput io.Writer

	// Screen is the terminal to draw on. Nil creates one with tcell.
	Screen tcell.Screen

	// Clock drives debounced notifications. Nil uses the wall clock.
	Clock clock.Clock
}

// Application owns the editor and its shared contexts.
type Application struct {
	mu sync.Mutex

	opts Options
	log  *logging.Logger

	settings    *settings.Store
	watcher     *settings.Watcher
	settingsSub *settings.Subscription

	doc         *document.Document
	history     *history.State
	completions *autocomplete.Store
	picker      *color.Picker
	plugins     *plugin.Set
	surface     *tui.Surface

	snapshots *snapshotWriter

	running atomic.Bool
	closed  bool
}

// New creates an application. Nothing is drawn or read until Run.
func New(opts Options) (*Application, error) {
	if opts.Environ == nil {
		opts.Environ = os.Environ()
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}

	app := &Application{opts: opts}
	if err := app.bootstrap(); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// Settings returns the shared settings store.
func (app *Application) Settings() *settings.Store { return app.settings }

// Document returns the editor document.
func (app *Application) Document() *document.Document { return app.doc }

// History returns the shared history.
func (app *Application) History() *history.State { return app.history }

// Autocomplete returns the shared autocomplete store.
func (app *Application) Autocomplete() *autocomplete.Store { return app.completions }

// Picker returns the color picker.
func (app *Application) Picker() *color.Picker { return app.picker }

// Plugins returns the mounted plugin set.
func (app *Application) Plugins() *plugin.Set {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.plugins
}

// Logger returns the application logger.
func (app *Application) Logger() *logging.Logger { return app.log }

// Run blocks until the session ends: Ctrl-Q or ctx in terminal mode, end
// of input or ctx in headless mode.
func (app *Application) Run(ctx context.Context) error {
	app.mu.Lock()
	closed := app.closed
	app.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if app.opts.Headless {
		return app.runHeadless(ctx)
	}
	return app.runTerminal(ctx)
}

func (app *Application) runTerminal(ctx context.Context) error {
	screen := app.opts.Screen
	if screen == nil {
		var err error
		screen, err = tcell.NewScreen()
		if err != nil {
			return &InitError{Component: "terminal", Err: err}
		}
	}
	if err := screen.Init(); err != nil {
		return &InitError{Component: "terminal", Err: err}
	}
	defer screen.Fini()

	set := app.Plugins()
	surface := tui.New(screen, tui.Config{
		Document:     app.doc,
		History:      app.history,
		Picker:       app.picker,
		Autocomplete: app.completions,
		Completer:    set.Autocomplete,
		CharLimit:    set.CharLimit,
		Log:          app.log,
	})
	app.mu.Lock()
	app.surface = surface
	app.mu.Unlock()
	defer func() {
		app.mu.Lock()
		app.surface = nil
		app.mu.Unlock()
	}()

	app.log.Info("terminal session started")
	return surface.Run(ctx)
}

// Close tears everything down: plugins are unmounted (pending
// notifications are cancelled), the settings watcher stops and the
// history is released. Close is idempotent.
func (app *Application) Close() {
	app.mu.Lock()
	if app.closed {
		app.mu.Unlock()
		return
	}
	app.closed = true
	set := app.plugins
	app.mu.Unlock()

	if app.settingsSub != nil {
		app.settingsSub.Unsubscribe()
	}
	if app.watcher != nil {
		if err := app.watcher.Close(); err != nil {
			app.log.Warn("closing settings watcher: %v", err)
		}
	}
	if set != nil {
		set.Unmount()
	}
	if app.history != nil {
		app.history.Close()
	}
	if app.log != nil {
		app.log.Debug("closed")
	}
}
