package plugin

import (
	"github.com/benbjohnson/clock"

	"github.com/dshills/inkpad/internal/autocomplete"
	"github.com/dshills/inkpad/internal/logging"
	"github.com/dshills/inkpad/internal/onchange"
	"github.com/dshills/inkpad/internal/settings"
)

// Deps are the collaborators Build wires into the plugins.
type Deps struct {
	Log          *logging.Logger
	Clock        clock.Clock
	Autocomplete *autocomplete.Store

	// OnSnapshot receives debounced snapshots. Without it no OnChange
	// plugin is built.
	OnSnapshot onchange.Callback

	// OnOverLimit is called when the character limit is crossed.
	OnOverLimit func(remaining int)

	// Scripts are added after the scripts named in settings. Each Set
	// gets its own clone.
	Scripts []*Script
}

// Set is a composed plugin set plus handles to the plugins other
// components query.
type Set struct {
	*Composer

	OnChange     *OnChange
	MaxLength    *MaxLength
	CharLimit    *CharacterLimit
	Autocomplete *Autocomplete
	Scripts      []*Script
}

// Build creates the plugins enabled by s. Filters come first so that
// listeners only ever see trimmed text.
func Build(s settings.Settings, deps Deps) (*Set, error) {
	log := logging.OrNop(deps.Log)
	notifyOpts := []onchange.Option{
		onchange.WithDelay(s.OnChangeDelay()),
		onchange.WithLogger(log),
		onchange.WithIgnoreHistoryMerge(),
	}
	if deps.Clock != nil {
		notifyOpts = append(notifyOpts, onchange.WithClock(deps.Clock))
	}

	set := &Set{}
	var plugins []Plugin

	if s.IsMaxLength {
		set.MaxLength = NewMaxLength(s.MaxLength)
		plugins = append(plugins, set.MaxLength)
	}
	if s.IsCharLimit {
		var opts []CharLimitOption
		if s.IsCharLimitUTF8 {
			opts = append(opts, WithUTF8Bytes())
		}
		if deps.OnOverLimit != nil {
			opts = append(opts, WithOverLimit(deps.OnOverLimit))
		}
		set.CharLimit = NewCharacterLimit(s.CharLimit, opts...)
		plugins = append(plugins, set.CharLimit)
	}
	if s.IsAutocomplete && deps.Autocomplete != nil {
		set.Autocomplete = NewAutocomplete(deps.Autocomplete)
		plugins = append(plugins, set.Autocomplete)
	}
	if deps.OnSnapshot != nil {
		set.OnChange = NewOnChange(deps.OnSnapshot, notifyOpts...)
		plugins = append(plugins, set.OnChange)
	}

	for _, path := range s.Scripts {
		sc, err := LoadScript(path, WithScriptLogger(log), WithScriptNotifier(notifyOpts...))
		if err != nil {
			return nil, err
		}
		set.Scripts = append(set.Scripts, sc)
	}
	for _, sc := range deps.Scripts {
		set.Scripts = append(set.Scripts, sc.Clone())
	}
	for _, sc := range set.Scripts {
		plugins = append(plugins, sc)
	}

	set.Composer = NewComposer(log, plugins...)
	return set, nil
}
