package app

import (
	"github.com/dshills/inkpad/internal/autocomplete"
	"github.com/dshills/inkpad/internal/color"
	"github.com/dshills/inkpad/internal/document"
	"github.com/dshills/inkpad/internal/history"
	"github.com/dshills/inkpad/internal/logging"
	"github.com/dshills/inkpad/internal/plugin"
	"github.com/dshills/inkpad/internal/settings"
)

// pluginSettings are the settings that change which plugins run.
var pluginSettings = map[string]bool{
	"isMaxLength":     true,
	"maxLength":       true,
	"isCharLimit":     true,
	"isCharLimitUtf8": true,
	"charLimit":       true,
	"isAutocomplete":  true,
	"onChangeDelayMs": true,
	"scripts":         true,
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Settings
	s, err := settings.Load(app.opts.ConfigPath, app.opts.Environ)
	if err != nil {
		app.log = logging.Nop()
		return &InitError{Component: "settings", Err: err}
	}
	app.settings = settings.NewStore(s)

	// 2. Logging
	level := s.LogLevel
	if app.opts.LogLevel != "" {
		level = app.opts.LogLevel
	}
	app.log = logging.New(logging.Config{
		Level:  logging.ParseLevel(level),
		Output: app.opts.LogOutput,
		Prefix: "inkpad",
	})

	if app.opts.ConfigPath != "" {
		w, err := settings.Watch(app.settings, app.opts.ConfigPath, app.opts.Environ,
			settings.WithWatcherLogger(app.log))
		if err != nil {
			// Not fatal: the editor runs with the settings already loaded.
			app.log.Warn("settings will not reload: %v", err)
		} else {
			app.watcher = w
		}
	}

	// 3. Document and the shared contexts around it
	docOpts := []document.Option{document.WithLogger(app.log)}
	if !s.EmptyEditor && !app.opts.Headless {
		docOpts = append(docOpts, document.WithInitialText(WelcomeText))
	}
	app.doc, err = document.New(docOpts...)
	if err != nil {
		return &InitError{Component: "document", Err: err}
	}
	app.history, err = history.NewHistoryState(app.doc)
	if err != nil {
		return &InitError{Component: "history", Err: err}
	}
	app.completions = autocomplete.New(autocomplete.DefaultDictionary)
	app.picker = color.NewPicker(s.AccentColor)

	// 4. Plugins
	app.snapshots = newSnapshotWriter(app.opts.Output, app.opts.Headless, app.log)
	set, err := app.buildPlugins(s)
	if err != nil {
		return &InitError{Component: "plugins", Err: err}
	}
	if err := set.Mount(app.doc); err != nil {
		return &InitError{Component: "plugins", Err: err}
	}
	app.plugins = set
	app.log.Debug("plugins mounted: %v", set.Names())

	// 5. React to settings changes
	app.settingsSub = app.settings.Subscribe(app.applySettings)

	return nil
}

func (app *Application) buildPlugins(s settings.Settings) (*plugin.Set, error) {
	if app.opts.Script != "" {
		s.Scripts = append(append([]string(nil), s.Scripts...), app.opts.Script)
	}
	return plugin.Build(s, plugin.Deps{
		Log:          app.log,
		Clock:        app.opts.Clock,
		Autocomplete: app.completions,
		OnSnapshot:   app.snapshots.write,
		OnOverLimit: func(remaining int) {
			app.log.Warn("character limit exceeded by %d", -remaining)
		},
	})
}

func (app *Application) applySettings(c settings.Change) {
	if app.opts.LogLevel == "" {
		app.log.SetLevel(logging.ParseLevel(c.Settings.LogLevel))
	}
	if c.Type == settings.ChangeReload || pluginSettings[c.Name] {
		if err := app.rebuildPlugins(c.Settings); err != nil {
			app.log.Error("%v", err)
		}
	}
}

// rebuildPlugins mounts a set built from s and then unmounts the old one.
// On failure the old set stays in place.
func (app *Application) rebuildPlugins(s settings.Settings) error {
	app.mu.Lock()
	if app.closed {
		app.mu.Unlock()
		return ErrClosed
	}
	app.mu.Unlock()

	next, err := app.buildPlugins(s)
	if err != nil {
		return &OperationError{Op: "rebuild plugins", Err: err}
	}
	if err := next.Mount(app.doc); err != nil {
		return &OperationError{Op: "rebuild plugins", Err: err}
	}

	app.mu.Lock()
	prev := app.plugins
	app.plugins = next
	surface := app.surface
	app.mu.Unlock()

	if prev != nil {
		prev.Unmount()
	}
	if surface != nil {
		surface.SetPlugins(next.Autocomplete, next.CharLimit)
	}
	app.log.Info("plugins rebuilt: %v", next.Names())
	return nil
}
