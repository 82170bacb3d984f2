package settings

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Store is the shared, observable holder of the current Settings.
type Store struct {
	mu       sync.RWMutex
	current  Settings
	notifier notifier
}

// NewStore creates a store holding initial.
func NewStore(initial Settings) *Store {
	return &Store{current: initial.clone()}
}

// Get returns a copy of the current settings.
func (s *Store) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.clone()
}

// Value returns the current value of a single setting.
func (s *Store) Value(name string) (any, error) {
	idx, ok := fieldIndex()[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSetting, name)
	}
	cur := s.Get()
	return reflect.ValueOf(cur).Field(idx).Interface(), nil
}

// Set changes one setting by name. value may be the setting's own type or
// a form that converts to it: strings are parsed, whole floats become ints
// and []any of strings becomes []string. Setting a value equal to the
// current one notifies no one.
func (s *Store) Set(name string, value any, source string) error {
	idx, ok := fieldIndex()[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSetting, name)
	}

	s.mu.Lock()
	next := s.current.clone()
	field := reflect.ValueOf(&next).Elem().Field(idx)
	converted, err := coerce(value, field.Type())
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("setting %s: %w", name, err)
	}
	old := field.Interface()
	if reflect.DeepEqual(old, converted.Interface()) {
		s.mu.Unlock()
		return nil
	}
	field.Set(converted)
	if err := next.Validate(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.current = next
	s.mu.Unlock()

	s.notifier.notify(Change{
		Name:     name,
		Type:     ChangeSet,
		OldValue: old,
		NewValue: converted.Interface(),
		Source:   source,
		Settings: next.clone(),
	})
	return nil
}

// Replace swaps in a whole new settings value, as after a file reload.
func (s *Store) Replace(next Settings, source string) error {
	if err := next.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.current = next.clone()
	s.mu.Unlock()

	s.notifier.notify(Change{Type: ChangeReload, Source: source, Settings: next.clone()})
	return nil
}

// Subscribe registers an observer for every change.
func (s *Store) Subscribe(fn Observer) *Subscription {
	return s.notifier.subscribe("", fn)
}

// SubscribeName registers an observer for changes to one setting. It also
// receives reloads, since a reload may change any setting.
func (s *Store) SubscribeName(name string, fn Observer) *Subscription {
	return s.notifier.subscribe(name, fn)
}

// Names returns every setting name in sorted order.
func Names() []string {
	idx := fieldIndex()
	names := make([]string, 0, len(idx))
	for name := range idx {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var (
	fieldOnce  sync.Once
	fieldNames map[string]int
)

// fieldIndex maps setting names to struct field indexes.
func fieldIndex() map[string]int {
	fieldOnce.Do(func() {
		t := reflect.TypeOf(Settings{})
		fieldNames = make(map[string]int, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			if name := t.Field(i).Tag.Get("setting"); name != "" {
				fieldNames[name] = i
			}
		}
	})
	return fieldNames
}

func coerce(value any, target reflect.Type) (reflect.Value, error) {
	switch target.Kind() {
	case reflect.Bool:
		switch v := value.(type) {
		case bool:
			return reflect.ValueOf(v), nil
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return reflect.Value{}, fmt.Errorf("%w: %q is not a bool", ErrTypeMismatch, v)
			}
			return reflect.ValueOf(b), nil
		}

	case reflect.Int:
		switch v := value.(type) {
		case int:
			return reflect.ValueOf(v), nil
		case int64:
			return reflect.ValueOf(int(v)), nil
		case float64:
			if v == math.Trunc(v) {
				return reflect.ValueOf(int(v)), nil
			}
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return reflect.Value{}, fmt.Errorf("%w: %q is not an int", ErrTypeMismatch, v)
			}
			return reflect.ValueOf(n), nil
		}

	case reflect.String:
		if v, ok := value.(string); ok {
			return reflect.ValueOf(v), nil
		}

	case reflect.Slice:
		if target.Elem().Kind() != reflect.String {
			break
		}
		switch v := value.(type) {
		case []string:
			return reflect.ValueOf(append([]string(nil), v...)), nil
		case []any:
			out := make([]string, 0, len(v))
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return reflect.Value{}, fmt.Errorf("%w: list item %v is not a string", ErrTypeMismatch, item)
				}
				out = append(out, s)
			}
			return reflect.ValueOf(out), nil
		case string:
			var out []string
			for _, part := range strings.Split(v, ",") {
				if part = strings.TrimSpace(part); part != "" {
					out = append(out, part)
				}
			}
			return reflect.ValueOf(out), nil
		}
	}
	return reflect.Value{}, fmt.Errorf("%w: cannot use %T as %s", ErrTypeMismatch, value, target)
}
