package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/inkpad/internal/autocomplete"
	"github.com/dshills/inkpad/internal/color"
	"github.com/dshills/inkpad/internal/document"
	"github.com/dshills/inkpad/internal/history"
	"github.com/dshills/inkpad/internal/onchange"
	"github.com/dshills/inkpad/internal/plugin"
	"github.com/dshills/inkpad/internal/settings"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	scr := tcell.NewSimulationScreen("UTF-8")
	if err := scr.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	scr.SetSize(40, 10)
	t.Cleanup(scr.Fini)
	return scr
}

func newDoc(t *testing.T, text string) *document.Document {
	t.Helper()
	d, err := document.New(document.WithInitialText(text))
	if err != nil {
		t.Fatalf("document.New: %v", err)
	}
	return d
}

func row(scr tcell.Screen, y int) string {
	w, _ := scr.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := scr.GetContent(x, y) //nolint:staticcheck // reading back the simulated cells
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), " \x00")
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func typeText(s *Surface, text string) {
	for _, r := range text {
		s.HandleKey(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

func TestSurface_Typing(t *testing.T) {
	scr := newScreen(t)
	d := newDoc(t, "")
	s := New(scr, Config{Document: d})

	typeText(s, "hello")
	s.HandleKey(key(tcell.KeyEnter))
	typeText(s, "wor")
	s.HandleKey(key(tcell.KeyBackspace2))

	if got := d.State().TextContent(); got != "hello\n\nwo" {
		t.Fatalf("text = %q, want hello\\n\\nwo", got)
	}

	s.Draw()
	if got := row(scr, 0); got != "hello" {
		t.Errorf("row 0 = %q, want hello", got)
	}
	if got := row(scr, 2); got != "wo" {
		t.Errorf("row 2 = %q, want wo", got)
	}
	if got := row(scr, 9); !strings.HasPrefix(got, "2 blocks") {
		t.Errorf("status = %q, want 2 blocks prefix", got)
	}
}

func TestSurface_BackspaceRemovesEmptyBlock(t *testing.T) {
	scr := newScreen(t)
	d := newDoc(t, "a")
	s := New(scr, Config{Document: d})

	s.HandleKey(key(tcell.KeyEnter))
	if d.State().Len() != 2 {
		t.Fatalf("Len() = %d, want 2", d.State().Len())
	}
	s.HandleKey(key(tcell.KeyBackspace))
	if d.State().Len() != 1 {
		t.Errorf("Len() = %d, want 1", d.State().Len())
	}
	s.HandleKey(key(tcell.KeyBackspace))
	s.HandleKey(key(tcell.KeyBackspace))
	if d.State().Len() != 1 || d.State().TextContent() != "" {
		t.Errorf("state = %d blocks %q, want one empty block", d.State().Len(), d.State().TextContent())
	}
}

func TestSurface_UndoRedo(t *testing.T) {
	scr := newScreen(t)
	d := newDoc(t, "")
	h, err := history.NewHistoryState(d)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	s := New(scr, Config{Document: d, History: h})

	typeText(s, "ab")
	s.HandleKey(key(tcell.KeyCtrlZ))
	if got := d.State().TextContent(); got != "a" {
		t.Errorf("after undo = %q, want a", got)
	}
	s.HandleKey(key(tcell.KeyCtrlY))
	if got := d.State().TextContent(); got != "ab" {
		t.Errorf("after redo = %q, want ab", got)
	}

	// Empty timelines are not errors.
	s.HandleKey(key(tcell.KeyCtrlY))
	s.HandleKey(key(tcell.KeyCtrlZ))
	s.HandleKey(key(tcell.KeyCtrlZ))
	s.HandleKey(key(tcell.KeyCtrlZ))
	if got := d.State().TextContent(); got != "" {
		t.Errorf("after full undo = %q, want empty", got)
	}
}

func TestSurface_Quit(t *testing.T) {
	s := New(newScreen(t), Config{Document: newDoc(t, "")})
	if !s.HandleKey(key(tcell.KeyCtrlQ)) {
		t.Error("Ctrl-Q did not quit")
	}
	if s.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Error("plain q quit")
	}
}

func TestSurface_Autocomplete(t *testing.T) {
	scr := newScreen(t)
	d := newDoc(t, "")
	store := autocomplete.New([]string{"playground"})
	completer := plugin.NewAutocomplete(store)
	if _, err := completer.Register(d); err != nil {
		t.Fatal(err)
	}
	s := New(scr, Config{Document: d, Autocomplete: store, Completer: completer})

	typeText(s, "playg")
	s.Draw()
	if got := row(scr, 0); got != "playground" {
		t.Errorf("row 0 = %q, want playground with suggestion", got)
	}
	if got := row(scr, 9); !strings.Contains(got, "tab: playground") {
		t.Errorf("status = %q, want tab hint", got)
	}

	s.HandleKey(key(tcell.KeyTab))
	if got := d.State().TextContent(); got != "playground" {
		t.Errorf("text = %q, want playground", got)
	}
}

func TestSurface_PickerHue(t *testing.T) {
	scr := newScreen(t)
	d := newDoc(t, "tint")
	h, err := history.NewHistoryState(d)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	picker := color.NewPicker("#ff0000")
	s := New(scr, Config{Document: d, History: h, Picker: picker})

	s.HandleKey(key(tcell.KeyRight))
	if got := picker.Color().HSV.H; got != 10 {
		t.Errorf("hue = %v, want 10", got)
	}
	first := picker.Color().Hex
	s.HandleKey(key(tcell.KeyLeft))
	s.HandleKey(key(tcell.KeyLeft))
	if got := picker.Color().HSV.H; got != 350 {
		t.Errorf("hue = %v, want 350", got)
	}

	block := d.State().Blocks()[0]
	if block.Color != picker.Color().Hex {
		t.Errorf("block color = %q, want %q", block.Color, picker.Color().Hex)
	}
	if !h.CanUndo() {
		t.Fatal("hue key was not recorded in history")
	}

	s.Draw()
	if got := row(scr, 8); !strings.Contains(got, picker.Color().Hex) {
		t.Errorf("picker row = %q, want %s", got, picker.Color().Hex)
	}

	s.HandleKey(key(tcell.KeyCtrlZ))
	s.HandleKey(key(tcell.KeyCtrlZ))
	if got := d.State().Blocks()[0].Color; got != first {
		t.Errorf("color after two undos = %q, want %q", got, first)
	}
	s.HandleKey(key(tcell.KeyCtrlZ))
	if got := d.State().Blocks()[0].Color; got != "" {
		t.Errorf("color after three undos = %q, want none", got)
	}
}

func TestSurface_PickerHueSnapshot(t *testing.T) {
	scr := newScreen(t)
	d := newDoc(t, "tint")
	mock := clock.NewMock()
	snaps := make(chan onchange.Snapshot, 4)
	set, err := plugin.Build(settings.Defaults(), plugin.Deps{
		Clock:      mock,
		OnSnapshot: func(snap onchange.Snapshot) { snaps <- snap },
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := set.Mount(d); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	defer set.Unmount()

	picker := color.NewPicker("#ff0000")
	s := New(scr, Config{Document: d, Picker: picker})
	s.HandleKey(key(tcell.KeyRight))
	mock.Add(5 * time.Second)

	select {
	case snap := <-snaps:
		if !strings.Contains(snap.StateJSON, picker.Color().Hex) {
			t.Errorf("snapshot = %s, want color %s", snap.StateJSON, picker.Color().Hex)
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot after hue key")
	}
}

func TestSurface_CharLimitStatus(t *testing.T) {
	scr := newScreen(t)
	d := newDoc(t, "")
	limit := plugin.NewCharacterLimit(3)
	if _, err := limit.Register(d); err != nil {
		t.Fatal(err)
	}
	s := New(scr, Config{Document: d, CharLimit: limit})

	typeText(s, "abcde")
	s.Draw()
	if got := row(scr, 9); !strings.Contains(got, "5/3") {
		t.Errorf("status = %q, want 5/3", got)
	}
}

func TestSurface_RunStopsOnContext(t *testing.T) {
	scr := newScreen(t)
	s := New(scr, Config{Document: newDoc(t, "")})

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-errc:
		if err != context.Canceled {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestSurface_RunQuitKey(t *testing.T) {
	scr := newScreen(t)
	d := newDoc(t, "")
	s := New(scr, Config{Document: d})

	errc := make(chan error, 1)
	go func() { errc <- s.Run(context.Background()) }()
	scr.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	scr.InjectKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)

	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Run() = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Ctrl-Q")
	}
	if got := d.State().TextContent(); got != "x" {
		t.Errorf("text = %q, want x", got)
	}
}
