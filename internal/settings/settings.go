// Package settings holds the playground's settings and the store that
// shares them.
//
// A Store is created once at the composition root and handed by pointer to
// every component that reads or writes settings; there is no global
// instance. Settings can come from TOML or YAML files, from INKPAD_*
// environment variables and from Set calls at runtime, and observers are
// told about every change.
package settings

import (
	"strings"
	"time"
)

// Settings are the playground options. The setting tag is the name used
// by Store.Set, observers and environment variables.
type Settings struct {
	IsRichText          bool     `toml:"isRichText" yaml:"isRichText" setting:"isRichText"`
	IsCollab            bool     `toml:"isCollab" yaml:"isCollab" setting:"isCollab"`
	IsAutocomplete      bool     `toml:"isAutocomplete" yaml:"isAutocomplete" setting:"isAutocomplete"`
	IsMaxLength         bool     `toml:"isMaxLength" yaml:"isMaxLength" setting:"isMaxLength"`
	MaxLength           int      `toml:"maxLength" yaml:"maxLength" setting:"maxLength"`
	IsCharLimit         bool     `toml:"isCharLimit" yaml:"isCharLimit" setting:"isCharLimit"`
	IsCharLimitUTF8     bool     `toml:"isCharLimitUtf8" yaml:"isCharLimitUtf8" setting:"isCharLimitUtf8"`
	CharLimit           int      `toml:"charLimit" yaml:"charLimit" setting:"charLimit"`
	ShowTreeView        bool     `toml:"showTreeView" yaml:"showTreeView" setting:"showTreeView"`
	ShowTableOfContents bool     `toml:"showTableOfContents" yaml:"showTableOfContents" setting:"showTableOfContents"`
	EmptyEditor         bool     `toml:"emptyEditor" yaml:"emptyEditor" setting:"emptyEditor"`
	OnChangeDelayMs     int      `toml:"onChangeDelayMs" yaml:"onChangeDelayMs" setting:"onChangeDelayMs"`
	AccentColor         string   `toml:"accentColor" yaml:"accentColor" setting:"accentColor"`
	LogLevel            string   `toml:"logLevel" yaml:"logLevel" setting:"logLevel"`
	Scripts             []string `toml:"scripts" yaml:"scripts" setting:"scripts"`
}

// Defaults returns the settings used when nothing overrides them.
func Defaults() Settings {
	return Settings{
		IsRichText:      true,
		MaxLength:       30,
		CharLimit:       5,
		ShowTreeView:    true,
		OnChangeDelayMs: 1000,
		AccentColor:     "#4a90e2",
		LogLevel:        "info",
	}
}

// OnChangeDelay returns the debounce delay as a duration.
func (s Settings) OnChangeDelay() time.Duration {
	return time.Duration(s.OnChangeDelayMs) * time.Millisecond
}

// Validate reports the first out-of-range value.
func (s Settings) Validate() error {
	if s.MaxLength <= 0 {
		return &ValidationError{Name: "maxLength", Value: s.MaxLength, Message: "must be positive"}
	}
	if s.CharLimit <= 0 {
		return &ValidationError{Name: "charLimit", Value: s.CharLimit, Message: "must be positive"}
	}
	if s.OnChangeDelayMs < 0 {
		return &ValidationError{Name: "onChangeDelayMs", Value: s.OnChangeDelayMs, Message: "must not be negative"}
	}
	switch strings.ToLower(s.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Name: "logLevel", Value: s.LogLevel, Message: "must be debug, info, warn or error"}
	}
	return nil
}

// clone returns a copy that shares no slices with s.
func (s Settings) clone() Settings {
	if s.Scripts != nil {
		s.Scripts = append([]string(nil), s.Scripts...)
	}
	return s
}
