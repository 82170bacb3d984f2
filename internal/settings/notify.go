package settings

import "sync"

// ChangeType represents the type of settings change.
type ChangeType int

const (
	// ChangeSet indicates a single setting was updated.
	ChangeSet ChangeType = iota

	// ChangeReload indicates the whole settings value was replaced.
	ChangeReload
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Change represents a settings change event.
type Change struct {
	// Name is the setting name. Empty for reload events.
	Name string

	// Type is the type of change.
	Type ChangeType

	// OldValue is the previous value (nil for reloads).
	OldValue any

	// NewValue is the new value (nil for reloads).
	NewValue any

	// Source identifies where the change came from ("user", "file", "env").
	Source string

	// Settings is the full value after the change.
	Settings Settings
}

// Observer is called when settings change.
type Observer func(change Change)

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uint64
	notifier *notifier
}

// Unsubscribe removes this subscription. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

type observerEntry struct {
	id uint64
	// name filters Set changes; empty means all changes. Reloads reach
	// every observer.
	name string
	fn   Observer
}

// notifier delivers changes synchronously in subscription order.
type notifier struct {
	mu        sync.RWMutex
	observers []observerEntry
	nextID    uint64
}

func (n *notifier) subscribe(name string, fn Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	n.observers = append(n.observers, observerEntry{id: n.nextID, name: name, fn: fn})
	return &Subscription{id: n.nextID, notifier: n}
}

func (n *notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, o := range n.observers {
		if o.id == id {
			n.observers = append(n.observers[:i:i], n.observers[i+1:]...)
			return
		}
	}
}

func (n *notifier) notify(change Change) {
	n.mu.RLock()
	var matched []Observer
	for _, o := range n.observers {
		if o.name == "" || change.Type == ChangeReload || o.name == change.Name {
			matched = append(matched, o.fn)
		}
	}
	n.mu.RUnlock()

	for _, fn := range matched {
		fn(change)
	}
}
