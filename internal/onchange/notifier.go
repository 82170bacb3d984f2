// Package onchange turns the document's per-commit change events into a
// debounced stream of snapshots.
//
// Every event overwrites a single snapshot slot and restarts the delay
// timer. The callback runs only after the document has been quiet for a
// whole delay, and it always receives the newest snapshot.
package onchange

import (
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dshills/inkpad/internal/document"
	"github.com/dshills/inkpad/internal/logging"
)

// DefaultDelay is the idle period used when none is configured.
const DefaultDelay = 1000 * time.Millisecond

// ErrClosed is returned by OnEvent after Close.
var ErrClosed = errors.New("notifier closed")

// Snapshot is the document as seen by one change event.
type Snapshot struct {
	Text      string `json:"text"`
	StateJSON string `json:"stateJson"`
}

// Callback receives debounced snapshots.
type Callback func(Snapshot)

// Source is a change event that grants read access to the document state
// it carries. document.UpdateEvent implements it.
type Source interface {
	Read(fn func(document.Reader) error) error
}

// State is the notifier's position in its lifecycle.
type State int

const (
	// StateIdle means no snapshot is waiting to be delivered.
	StateIdle State = iota
	// StatePending means a snapshot is stored and the timer is armed.
	StatePending
	// StateDisposed is terminal; no callback will run again.
	StateDisposed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// Notifier debounces change events into snapshot callbacks.
type Notifier struct {
	mu sync.Mutex

	clock    clock.Clock
	delay    time.Duration
	callback Callback
	onError  func(error)
	ignore   bool

	state State
	last  Snapshot
	timer *clock.Timer
	// gen identifies the armed timer; a timer whose generation is stale
	// was superseded or cancelled and must not deliver.
	gen uint64

	log *logging.Logger
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithDelay sets the idle period. Non-positive values select DefaultDelay.
func WithDelay(d time.Duration) Option {
	return func(n *Notifier) {
		if d > 0 {
			n.delay = d
		}
	}
}

// WithClock sets the clock used to schedule deliveries.
func WithClock(c clock.Clock) Option {
	return func(n *Notifier) {
		if c != nil {
			n.clock = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(n *Notifier) {
		if l != nil {
			n.log = l
		}
	}
}

// WithErrorHandler sets where Attach reports snapshot extraction failures.
// By default they are logged.
func WithErrorHandler(fn func(error)) Option {
	return func(n *Notifier) {
		n.onError = fn
	}
}

// WithIgnoreHistoryMerge makes Attach skip updates committed with
// SkipHistory, such as the intermediate steps of a drag. Undo and redo
// are still delivered.
func WithIgnoreHistoryMerge() Option {
	return func(n *Notifier) {
		n.ignore = true
	}
}

// New creates an idle notifier that delivers to cb.
func New(cb Callback, opts ...Option) *Notifier {
	n := &Notifier{
		clock:    clock.New(),
		delay:    DefaultDelay,
		callback: cb,
		log:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.log = n.log.WithComponent("onchange")
	if n.onError == nil {
		n.onError = func(err error) {
			n.log.Error("snapshot extraction failed: %v", err)
		}
	}
	return n
}

// Delay returns the configured idle period.
func (n *Notifier) Delay() time.Duration {
	return n.delay
}

// State returns the current lifecycle state.
func (n *Notifier) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// OnEvent records the snapshot carried by ev and restarts the delay. It
// must be called synchronously for every change. If reading ev fails the
// error is returned as is and the stored snapshot and timer are left
// untouched.
func (n *Notifier) OnEvent(ev Source) error {
	if n.State() == StateDisposed {
		return ErrClosed
	}

	snap, err := Extract(ev)
	if err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.state == StateDisposed {
		return ErrClosed
	}
	n.last = snap
	n.arm()
	return nil
}

// UpdateCallback replaces the callback. A delivery already scheduled will
// use the new one.
func (n *Notifier) UpdateCallback(cb Callback) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.callback = cb
}

// Flush delivers a pending snapshot immediately.
func (n *Notifier) Flush() {
	n.mu.Lock()
	if n.state != StatePending {
		n.mu.Unlock()
		return
	}
	n.cancel()
	n.state = StateIdle
	snap, cb := n.last, n.callback
	n.mu.Unlock()

	n.deliver(cb, snap)
}

// Close cancels any scheduled delivery. The notifier is unusable
// afterwards. Close is idempotent.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.state == StateDisposed {
		return
	}
	n.cancel()
	n.state = StateDisposed
}

// Attach subscribes the notifier to doc and returns the unsubscribe func.
// Extraction errors go to the error handler.
func (n *Notifier) Attach(doc *document.Document) func() {
	return doc.RegisterUpdateListener(func(ev document.UpdateEvent) {
		if n.ignore && ev.SkipHistory && ev.Tag != document.TagUndo && ev.Tag != document.TagRedo {
			return
		}
		if err := n.OnEvent(ev); err != nil && !errors.Is(err, ErrClosed) {
			n.onError(err)
		}
	})
}

// Extract reads the text and serialized state carried by ev.
func Extract(ev Source) (Snapshot, error) {
	var snap Snapshot
	err := ev.Read(func(r document.Reader) error {
		snap = Snapshot{Text: r.TextContent(), StateJSON: r.JSON()}
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// arm replaces any scheduled delivery with a fresh one; the caller holds n.mu.
func (n *Notifier) arm() {
	n.cancel()
	n.gen++
	gen := n.gen
	n.state = StatePending
	n.timer = n.clock.AfterFunc(n.delay, func() { n.fire(gen) })
}

// cancel stops the scheduled delivery; the caller holds n.mu.
func (n *Notifier) cancel() {
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.gen++
}

func (n *Notifier) fire(gen uint64) {
	n.mu.Lock()
	if n.state != StatePending || gen != n.gen {
		n.mu.Unlock()
		return
	}
	n.state = StateIdle
	n.timer = nil
	snap, cb := n.last, n.callback
	n.mu.Unlock()

	n.deliver(cb, snap)
}

func (n *Notifier) deliver(cb Callback, snap Snapshot) {
	if cb == nil {
		return
	}
	n.log.Debug("deliver snapshot bytes=%d", len(snap.StateJSON))
	cb(snap)
}
