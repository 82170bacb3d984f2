package document

import (
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/inkpad/internal/logging"
)

// Update tags attached to events that did not come from a caller's Update.
const (
	TagUndo = "history-undo"
	TagRedo = "history-redo"
	TagLoad = "load"
)

// UpdateOptions modify how a single update is committed.
type UpdateOptions struct {
	// SkipHistory commits the update without recording an undo entry. The
	// change merges into whatever entry is current, which is what a drag
	// gesture wants for its intermediate values.
	SkipHistory bool

	// Tag labels the update for listeners.
	Tag string
}

// UpdateEvent describes one committed update.
type UpdateEvent struct {
	State       *State
	PrevState   *State
	Tag         string
	SkipHistory bool
	// Dirty lists the keys of blocks whose content was created or changed,
	// in document order.
	Dirty []string
}

// Read runs fn with read access to the committed state.
func (e UpdateEvent) Read(fn func(Reader) error) error {
	return e.State.Read(fn)
}

// UpdateListener is called synchronously after every committed update.
type UpdateListener func(UpdateEvent)

// UpdateFilter runs on the draft after the update function and before the
// commit. It may modify the draft; returning an error aborts the update.
type UpdateFilter func(w Writer) error

type listenerEntry struct {
	id uint64
	fn UpdateListener
}

type filterEntry struct {
	id uint64
	fn UpdateFilter
}

// Document is the host editor: it owns the current state, applies updates
// transactionally, keeps undo history and tells listeners about commits.
//
// Update functions and filters run with the document locked and must not
// call back into the document. Listeners run after the lock is released
// and may start new updates.
type Document struct {
	mu sync.Mutex

	state    *State
	history  history
	editable bool

	listeners []listenerEntry
	filters   []filterEntry
	nextID    uint64

	initText *string
	initJSON string

	log *logging.Logger
}

// New creates a document. Without initial content it holds one empty
// paragraph.
func New(opts ...Option) (*Document, error) {
	d := &Document{
		editable: true,
		history:  history{max: DefaultMaxHistory},
		log:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}

	var blocks []Node
	switch {
	case d.initJSON != "":
		parsed, err := unmarshalBlocks(d.initJSON)
		if err != nil {
			return nil, err
		}
		blocks = parsed
	case d.initText != nil:
		blocks = splitParagraphs(*d.initText)
	default:
		blocks = []Node{{Type: NodeParagraph}}
	}
	for i := range blocks {
		if blocks[i].Key == "" {
			blocks[i].Key = uuid.NewString()
		}
	}

	d.state = newState(blocks, 0)
	d.log = d.log.WithComponent("document")
	return d, nil
}

// State returns the committed state.
func (d *Document) State() *State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Read runs fn with read access to the committed state.
func (d *Document) Read(fn func(Reader) error) error {
	return d.State().Read(fn)
}

// IsEditable reports whether updates are accepted.
func (d *Document) IsEditable() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.editable
}

// SetEditable toggles whether updates are accepted.
func (d *Document) SetEditable(editable bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.editable = editable
}

// Update runs fn against a draft of the current state and commits the
// result. If fn or a filter fails nothing is committed and the error is
// returned unchanged. An update that changes nothing commits nothing and
// notifies no one.
func (d *Document) Update(fn func(Writer) error, opts UpdateOptions) error {
	d.mu.Lock()
	if !d.editable {
		d.mu.Unlock()
		return ErrReadOnly
	}

	dr := newDraft(d.state)
	if err := fn(dr); err != nil {
		d.mu.Unlock()
		return err
	}
	for _, f := range d.filters {
		if err := f.fn(dr); err != nil {
			d.mu.Unlock()
			return err
		}
	}
	if !dr.changed() {
		d.mu.Unlock()
		return nil
	}

	prev := d.state
	d.state = newState(dr.blocks, prev.version+1)
	if !opts.SkipHistory {
		d.history.record(prev)
	}
	ev := UpdateEvent{
		State:       d.state,
		PrevState:   prev,
		Tag:         opts.Tag,
		SkipHistory: opts.SkipHistory,
		Dirty:       dr.dirtyKeys(),
	}
	listeners := d.snapshotListeners()
	d.mu.Unlock()

	d.log.Debug("commit version=%d tag=%q dirty=%d", ev.State.version, ev.Tag, len(ev.Dirty))
	notify(listeners, ev)
	return nil
}

// Load replaces the whole document with serialized state.
func (d *Document) Load(data string, opts UpdateOptions) error {
	blocks, err := unmarshalBlocks(data)
	if err != nil {
		return err
	}
	if opts.Tag == "" {
		opts.Tag = TagLoad
	}
	return d.Update(func(w Writer) error {
		w.Clear()
		for _, b := range blocks {
			key := w.Append(b.Type, b.Text)
			if err := w.SetFormat(key, b.Format); err != nil {
				return err
			}
			if err := w.SetColor(key, b.Color); err != nil {
				return err
			}
		}
		return nil
	}, opts)
}

// Undo restores the state before the last recorded update.
func (d *Document) Undo() error {
	return d.travel(TagUndo, d.history.popUndo, ErrNothingToUndo)
}

// Redo reapplies the last undone update.
func (d *Document) Redo() error {
	return d.travel(TagRedo, d.history.popRedo, ErrNothingToRedo)
}

func (d *Document) travel(tag string, pop func(*State) (*State, bool), empty error) error {
	d.mu.Lock()
	if !d.editable {
		d.mu.Unlock()
		return ErrReadOnly
	}
	target, ok := pop(d.state)
	if !ok {
		d.mu.Unlock()
		return empty
	}

	prev := d.state
	d.state = newState(target.blocks, prev.version+1)
	ev := UpdateEvent{State: d.state, PrevState: prev, Tag: tag, SkipHistory: true}
	listeners := d.snapshotListeners()
	d.mu.Unlock()

	d.log.Debug("%s to version=%d", tag, ev.State.version)
	notify(listeners, ev)
	return nil
}

// CanUndo reports whether Undo has an entry to restore.
func (d *Document) CanUndo() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.history.undo) > 0
}

// CanRedo reports whether Redo has an entry to restore.
func (d *Document) CanRedo() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.history.redo) > 0
}

// ClearHistory drops all undo and redo entries.
func (d *Document) ClearHistory() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.history.clear()
}

// RegisterUpdateListener adds fn to the listeners called after every
// commit, in registration order. The returned func removes it and is safe
// to call more than once.
func (d *Document) RegisterUpdateListener(fn UpdateListener) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	id := d.nextID
	d.listeners = append(d.listeners, listenerEntry{id: id, fn: fn})

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		for i, l := range d.listeners {
			if l.id == id {
				d.listeners = append(d.listeners[:i:i], d.listeners[i+1:]...)
				return
			}
		}
	}
}

// RegisterUpdateFilter adds fn to the filters run on every draft. The
// returned func removes it.
func (d *Document) RegisterUpdateFilter(fn UpdateFilter) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	id := d.nextID
	d.filters = append(d.filters, filterEntry{id: id, fn: fn})

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		for i, f := range d.filters {
			if f.id == id {
				d.filters = append(d.filters[:i:i], d.filters[i+1:]...)
				return
			}
		}
	}
}

// snapshotListeners copies the listener list; the caller holds d.mu.
func (d *Document) snapshotListeners() []UpdateListener {
	out := make([]UpdateListener, len(d.listeners))
	for i, l := range d.listeners {
		out[i] = l.fn
	}
	return out
}

func notify(listeners []UpdateListener, ev UpdateEvent) {
	for _, fn := range listeners {
		fn(ev)
	}
}
