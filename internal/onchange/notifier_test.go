package onchange

import (
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/tidwall/gjson"

	"github.com/dshills/inkpad/internal/document"
)

// fakeReader is a fixed document view.
type fakeReader struct{ text string }

func (r fakeReader) Blocks() []document.Node { return nil }

func (r fakeReader) Len() int { return 1 }

func (r fakeReader) Node(string) (document.Node, bool) { return document.Node{}, false }

func (r fakeReader) TextContent() string { return r.text }

func (r fakeReader) JSON() string { return `{"text":"` + r.text + `"}` }

// fakeEvent grants read access to a fakeReader, or fails with err.
type fakeEvent struct {
	text string
	err  error
}

func (e fakeEvent) Read(fn func(document.Reader) error) error {
	if e.err != nil {
		return e.err
	}
	return fn(fakeReader{text: e.text})
}

const waitTimeout = time.Second

func newTestNotifier(t *testing.T, opts ...Option) (*Notifier, *clock.Mock, chan Snapshot) {
	t.Helper()
	mock := clock.NewMock()
	calls := make(chan Snapshot, 16)
	opts = append([]Option{WithClock(mock), WithDelay(time.Second)}, opts...)
	n := New(func(s Snapshot) { calls <- s }, opts...)
	t.Cleanup(n.Close)
	return n, mock, calls
}

func mustEvent(t *testing.T, n *Notifier, text string) {
	t.Helper()
	if err := n.OnEvent(fakeEvent{text: text}); err != nil {
		t.Fatalf("OnEvent(%q) error = %v", text, err)
	}
}

func expectSnapshot(t *testing.T, calls chan Snapshot, text string) {
	t.Helper()
	select {
	case s := <-calls:
		if s.Text != text {
			t.Errorf("snapshot text = %q, want %q", s.Text, text)
		}
	case <-time.After(waitTimeout):
		t.Fatalf("no callback, want snapshot %q", text)
	}
}

func expectNoCallback(t *testing.T, calls chan Snapshot) {
	t.Helper()
	select {
	case s := <-calls:
		t.Fatalf("unexpected callback with %q", s.Text)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestNotifier_DebounceDeliversLatest(t *testing.T) {
	n, mock, calls := newTestNotifier(t)

	mustEvent(t, n, "t0")
	mock.Add(200 * time.Millisecond)
	mustEvent(t, n, "t200")
	mock.Add(200 * time.Millisecond)
	mustEvent(t, n, "t400")

	mock.Add(999 * time.Millisecond)
	expectNoCallback(t, calls)
	if n.State() != StatePending {
		t.Errorf("State() = %v, want pending", n.State())
	}

	mock.Add(time.Millisecond)
	expectSnapshot(t, calls, "t400")
	if got := mock.Now(); !got.Equal(time.Unix(0, 0).Add(1400 * time.Millisecond)) {
		t.Errorf("fired at %v", got)
	}

	mock.Add(10 * time.Second)
	expectNoCallback(t, calls)
	if n.State() != StateIdle {
		t.Errorf("State() = %v, want idle", n.State())
	}
}

func TestNotifier_SingleEventAfterIdle(t *testing.T) {
	n, mock, calls := newTestNotifier(t)

	mustEvent(t, n, "only")
	mock.Add(time.Second)
	expectSnapshot(t, calls, "only")

	mustEvent(t, n, "again")
	mock.Add(2 * time.Second)
	expectSnapshot(t, calls, "again")
	expectNoCallback(t, calls)
}

func TestNotifier_CloseCancelsPending(t *testing.T) {
	n, mock, calls := newTestNotifier(t)

	mustEvent(t, n, "doomed")
	mock.Add(500 * time.Millisecond)
	n.Close()
	n.Close()

	mock.Add(10 * time.Second)
	expectNoCallback(t, calls)

	if n.State() != StateDisposed {
		t.Errorf("State() = %v, want disposed", n.State())
	}
	if err := n.OnEvent(fakeEvent{text: "late"}); !errors.Is(err, ErrClosed) {
		t.Errorf("OnEvent after Close error = %v, want ErrClosed", err)
	}
	mock.Add(10 * time.Second)
	expectNoCallback(t, calls)
}

func TestNotifier_UpdateCallback(t *testing.T) {
	n, mock, oldCalls := newTestNotifier(t)

	mustEvent(t, n, "payload")
	mock.Add(300 * time.Millisecond)

	newCalls := make(chan Snapshot, 1)
	n.UpdateCallback(func(s Snapshot) { newCalls <- s })

	if n.State() != StatePending {
		t.Fatalf("UpdateCallback changed state to %v", n.State())
	}
	mock.Add(700 * time.Millisecond)
	expectSnapshot(t, newCalls, "payload")
	expectNoCallback(t, oldCalls)
}

func TestNotifier_ReadFailureLeavesStateUntouched(t *testing.T) {
	n, mock, calls := newTestNotifier(t)

	mustEvent(t, n, "good")
	mock.Add(500 * time.Millisecond)

	boom := errors.New("read scope failed")
	if err := n.OnEvent(fakeEvent{err: boom}); !errors.Is(err, boom) {
		t.Fatalf("OnEvent error = %v, want %v", err, boom)
	}

	// The failed event neither replaced the snapshot nor re-armed the timer.
	mock.Add(500 * time.Millisecond)
	expectSnapshot(t, calls, "good")

	mustEvent(t, n, "recovered")
	mock.Add(time.Second)
	expectSnapshot(t, calls, "recovered")
}

func TestNotifier_ReadFailureWhileIdle(t *testing.T) {
	n, mock, calls := newTestNotifier(t)

	if err := n.OnEvent(fakeEvent{err: errors.New("x")}); err == nil {
		t.Fatal("OnEvent error = nil")
	}
	if n.State() != StateIdle {
		t.Errorf("State() = %v, want idle", n.State())
	}
	mock.Add(5 * time.Second)
	expectNoCallback(t, calls)
}

func TestNotifier_Flush(t *testing.T) {
	n, mock, calls := newTestNotifier(t)

	n.Flush()
	expectNoCallback(t, calls)

	mustEvent(t, n, "now")
	n.Flush()
	expectSnapshot(t, calls, "now")

	mock.Add(5 * time.Second)
	expectNoCallback(t, calls)
}

func TestNotifier_NilCallback(t *testing.T) {
	mock := clock.NewMock()
	n := New(nil, WithClock(mock))
	defer n.Close()

	mustEvent(t, n, "ignored")
	mock.Add(DefaultDelay)

	deadline := time.Now().Add(waitTimeout)
	for n.State() != StateIdle {
		if time.Now().After(deadline) {
			t.Fatalf("State() = %v, want idle", n.State())
		}
		time.Sleep(time.Millisecond)
	}
}

func TestNew_Defaults(t *testing.T) {
	n := New(nil, WithDelay(0), WithDelay(-time.Second))
	defer n.Close()

	if n.Delay() != DefaultDelay {
		t.Errorf("Delay() = %v, want %v", n.Delay(), DefaultDelay)
	}
	if n.State() != StateIdle {
		t.Errorf("State() = %v, want idle", n.State())
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{StateIdle, "idle"},
		{StatePending, "pending"},
		{StateDisposed, "disposed"},
		{State(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}

func TestNotifier_AttachToDocument(t *testing.T) {
	doc, err := document.New(document.WithInitialText("hello"))
	if err != nil {
		t.Fatal(err)
	}
	n, mock, calls := newTestNotifier(t)
	detach := n.Attach(doc)

	key := doc.State().Blocks()[0].Key
	for _, text := range []string{"hello w", "hello wo", "hello world"} {
		err := doc.Update(func(w document.Writer) error { return w.SetText(key, text) }, document.UpdateOptions{})
		if err != nil {
			t.Fatal(err)
		}
	}

	mock.Add(time.Second)
	select {
	case s := <-calls:
		if s.Text != "hello world" {
			t.Errorf("Text = %q", s.Text)
		}
		if got := gjson.Get(s.StateJSON, "root.children.0.text").String(); got != "hello world" {
			t.Errorf("StateJSON text = %q", got)
		}
		if s.StateJSON != doc.State().JSON() {
			t.Error("StateJSON does not match the committed state")
		}
	case <-time.After(waitTimeout):
		t.Fatal("no callback")
	}

	detach()
	if err := doc.Update(func(w document.Writer) error { return w.SetText(key, "detached") }, document.UpdateOptions{}); err != nil {
		t.Fatal(err)
	}
	mock.Add(time.Second)
	expectNoCallback(t, calls)
}

func TestNotifier_IgnoreHistoryMerge(t *testing.T) {
	doc, err := document.New(document.WithInitialText("x"))
	if err != nil {
		t.Fatal(err)
	}
	n, mock, calls := newTestNotifier(t, WithIgnoreHistoryMerge())
	n.Attach(doc)

	key := doc.State().Blocks()[0].Key
	if err := doc.Update(func(w document.Writer) error { return w.SetText(key, "merged") }, document.UpdateOptions{SkipHistory: true}); err != nil {
		t.Fatal(err)
	}
	mock.Add(time.Second)
	expectNoCallback(t, calls)

	if err := doc.Update(func(w document.Writer) error { return w.SetText(key, "recorded") }, document.UpdateOptions{}); err != nil {
		t.Fatal(err)
	}
	if err := doc.Undo(); err != nil {
		t.Fatal(err)
	}
	mock.Add(time.Second)
	expectSnapshot(t, calls, "merged")
}
