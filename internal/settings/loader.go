package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"unicode"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix starts every environment variable the loader reads.
const EnvPrefix = "INKPAD_"

// Load builds settings from defaults, then the file at path (if any),
// then environment variables, and validates the result.
func Load(path string, environ []string) (Settings, error) {
	s := Defaults()
	if path != "" {
		var err error
		s, err = LoadFile(path, s)
		if err != nil {
			return Settings{}, err
		}
	}
	s, err := ApplyEnv(s, environ)
	if err != nil {
		return Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// LoadFile decodes the settings file at path over base. The format is
// chosen by extension: .toml, .yaml or .yml. A missing file is not an
// error and returns base unchanged. Unknown keys are rejected.
func LoadFile(path string, base Settings) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return base, nil
		}
		return Settings{}, fmt.Errorf("reading settings file %s: %w", path, err)
	}
	return Decode(filepath.Ext(path), path, data, base)
}

// Decode parses data in the format named by ext over base. name is used
// in error messages.
func Decode(ext, name string, data []byte, base Settings) (Settings, error) {
	out := base.clone()
	switch strings.ToLower(ext) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&out); err != nil {
			return Settings{}, &ParseError{Path: name, Err: err}
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&out); err != nil && !errors.Is(err, io.EOF) {
			return Settings{}, &ParseError{Path: name, Err: err}
		}
	default:
		return Settings{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return out, nil
}

// ApplyEnv overrides settings from environ entries of the form
// INKPAD_<NAME>=value, where NAME is the setting name in upper snake case
// (isCharLimitUtf8 becomes INKPAD_IS_CHAR_LIMIT_UTF8).
func ApplyEnv(base Settings, environ []string) (Settings, error) {
	vars := make(map[string]string)
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if ok && strings.HasPrefix(k, EnvPrefix) {
			vars[k] = v
		}
	}

	out := base.clone()
	rv := reflect.ValueOf(&out).Elem()
	for name, idx := range fieldIndex() {
		env := EnvName(name)
		raw, ok := vars[env]
		if !ok {
			continue
		}
		field := rv.Field(idx)
		v, err := coerce(raw, field.Type())
		if err != nil {
			return Settings{}, fmt.Errorf("%s: %w", env, err)
		}
		field.Set(v)
	}
	return out, nil
}

// EnvName returns the environment variable that overrides a setting.
func EnvName(setting string) string {
	var b strings.Builder
	b.WriteString(EnvPrefix)
	runes := []rune(setting)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && !unicode.IsUpper(runes[i-1]) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
