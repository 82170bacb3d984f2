// Package tui draws the playground editor on a terminal with tcell.
package tui

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/inkpad/internal/autocomplete"
	"github.com/dshills/inkpad/internal/color"
	"github.com/dshills/inkpad/internal/document"
	"github.com/dshills/inkpad/internal/logging"
	"github.com/dshills/inkpad/internal/plugin"
)

// TagColorPicker marks updates made by the color picker.
const TagColorPicker = "color-picker"

// HueStep is how far Left and Right move the picker hue.
const HueStep = 10.0

// History is the undo timeline the surface drives.
type History interface {
	Undo() error
	Redo() error
	CanUndo() bool
	CanRedo() bool
}

// Config holds the surface's collaborators. Document is required; the
// rest are optional.
type Config struct {
	Document     *document.Document
	History      History
	Picker       *color.Picker
	Autocomplete *autocomplete.Store
	Completer    *plugin.Autocomplete
	CharLimit    *plugin.CharacterLimit
	Log          *logging.Logger
}

// Surface renders a document and routes key presses to it.
type Surface struct {
	mu     sync.Mutex
	screen tcell.Screen
	cfg    Config
	log    *logging.Logger
}

// New creates a surface drawing on screen. The caller owns screen's
// Init and Fini.
func New(screen tcell.Screen, cfg Config) *Surface {
	s := &Surface{
		screen: screen,
		cfg:    cfg,
		log:    logging.OrNop(cfg.Log).WithComponent("tui"),
	}
	if cfg.Picker != nil {
		cfg.Picker.OnChange(s.applyColor)
	}
	return s
}

// Run draws and handles events until Ctrl-Q, ctx is done or the screen
// is finalized.
func (s *Surface) Run(ctx context.Context) error {
	redraw := func() { _ = s.screen.PostEvent(tcell.NewEventInterrupt(nil)) }
	unsub := s.cfg.Document.RegisterUpdateListener(func(document.UpdateEvent) { redraw() })
	defer unsub()
	if s.cfg.Autocomplete != nil {
		defer s.cfg.Autocomplete.Subscribe(func(string) { redraw() })()
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			redraw()
		case <-done:
		}
	}()

	s.Draw()
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return nil
		}
		switch e := ev.(type) {
		case *tcell.EventKey:
			if s.HandleKey(e) {
				return nil
			}
		case *tcell.EventResize:
			s.screen.Sync()
		case *tcell.EventInterrupt:
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		s.Draw()
	}
}

// HandleKey applies one key press. It reports whether the user asked to
// quit.
func (s *Surface) HandleKey(ev *tcell.EventKey) bool {
	var err error
	switch {
	case isCtrl(ev, 'q', tcell.KeyCtrlQ), isCtrl(ev, 'c', tcell.KeyCtrlC):
		return true
	case isCtrl(ev, 'z', tcell.KeyCtrlZ):
		err = s.undo()
	case isCtrl(ev, 'y', tcell.KeyCtrlY):
		err = s.redo()
	case ev.Key() == tcell.KeyTab:
		if c, _ := s.plugins(); c != nil {
			_, err = c.Accept(s.cfg.Document)
		}
	case ev.Key() == tcell.KeyEnter:
		err = s.cfg.Document.Update(func(w document.Writer) error {
			w.Append(document.NodeParagraph, "")
			return nil
		}, document.UpdateOptions{})
	case ev.Key() == tcell.KeyBackspace || ev.Key() == tcell.KeyBackspace2:
		err = s.cfg.Document.Update(deleteBackward, document.UpdateOptions{})
	case ev.Key() == tcell.KeyLeft:
		s.moveHue(-HueStep)
	case ev.Key() == tcell.KeyRight:
		s.moveHue(HueStep)
	case ev.Key() == tcell.KeyRune && ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) == 0:
		err = s.insert(ev.Rune())
	}
	if err != nil {
		s.log.Warn("key %s: %v", ev.Name(), err)
	}
	return false
}

// SetPlugins swaps the plugins the surface talks to, for example after the
// plugin set was rebuilt. Either may be nil.
func (s *Surface) SetPlugins(completer *plugin.Autocomplete, limit *plugin.CharacterLimit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Completer = completer
	s.cfg.CharLimit = limit
}

func (s *Surface) plugins() (*plugin.Autocomplete, *plugin.CharacterLimit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Completer, s.cfg.CharLimit
}

func (s *Surface) undo() error {
	if s.cfg.History != nil {
		return ignoreEmpty(s.cfg.History.Undo())
	}
	return ignoreEmpty(s.cfg.Document.Undo())
}

func (s *Surface) redo() error {
	if s.cfg.History != nil {
		return ignoreEmpty(s.cfg.History.Redo())
	}
	return ignoreEmpty(s.cfg.Document.Redo())
}

func ignoreEmpty(err error) error {
	if errors.Is(err, document.ErrNothingToUndo) || errors.Is(err, document.ErrNothingToRedo) {
		return nil
	}
	return err
}

func (s *Surface) insert(r rune) error {
	return s.cfg.Document.Update(func(w document.Writer) error {
		last, ok := w.Last()
		if !ok {
			w.Append(document.NodeParagraph, string(r))
			return nil
		}
		return w.SetText(last.Key, last.Text+string(r))
	}, document.UpdateOptions{})
}

// deleteBackward removes the last grapheme, or the last block when it is
// empty and not the only one.
func deleteBackward(w document.Writer) error {
	last, ok := w.Last()
	if !ok {
		return nil
	}
	if last.Text == "" {
		if w.Len() > 1 {
			return w.Remove(last.Key)
		}
		return nil
	}
	n := uniseg.GraphemeClusterCount(last.Text)
	return w.SetText(last.Key, plugin.TruncateGraphemes(last.Text, n-1))
}

func (s *Surface) moveHue(delta float64) {
	if s.cfg.Picker == nil {
		return
	}
	s.cfg.Picker.SetHue(s.cfg.Picker.Color().HSV.H+delta, false)
}

// applyColor tints the last block with the picker color.
func (s *Surface) applyColor(c color.Color, skipHistory bool) {
	err := s.cfg.Document.Update(func(w document.Writer) error {
		last, ok := w.Last()
		if !ok {
			return nil
		}
		return w.SetColor(last.Key, c.Hex)
	}, document.UpdateOptions{SkipHistory: skipHistory, Tag: TagColorPicker})
	if err != nil {
		s.log.Warn("apply color %s: %v", c.Hex, err)
	}
}

func isCtrl(ev *tcell.EventKey, r rune, key tcell.Key) bool {
	if ev.Key() == key {
		return true
	}
	return ev.Key() == tcell.KeyRune && ev.Modifiers()&tcell.ModCtrl != 0 && unicode.ToLower(ev.Rune()) == r
}

// Draw renders the whole surface.
func (s *Surface) Draw() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.screen.Clear()
	w, h := s.screen.Size()
	if w <= 0 || h <= 0 {
		return
	}

	s.drawBlocks(w, h-2)
	s.drawPicker(w, h-2)
	s.drawStatus(w, h-1)
	s.screen.Show()
}

func (s *Surface) drawBlocks(width, height int) {
	blocks := s.cfg.Document.State().Blocks()
	suggestion := ""
	if s.cfg.Autocomplete != nil {
		suggestion = s.cfg.Autocomplete.Suggestion()
	}

	y := 0
	for i, b := range blocks {
		if y >= height {
			return
		}
		style := blockStyle(b)
		x := 0
		prefix := blockPrefix(b.Type)
		x, y = s.put(x, y, width, prefix, style)
		x, y = s.put(x, y, width, b.Text, style)
		if i == len(blocks)-1 && suggestion != "" {
			x, y = s.put(x, y, width, suggestion, tcell.StyleDefault.Dim(true))
		}
		if i == len(blocks)-1 {
			s.screen.ShowCursor(x, y)
		}
		y += 2
	}
}

// put writes text grapheme by grapheme from (x, y), wrapping at width,
// and returns the position after the last cell written.
func (s *Surface) put(x, y, width int, text string, style tcell.Style) (int, int) {
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		runes := g.Runes()
		cw := g.Width()
		if x+cw > width {
			x = 0
			y++
		}
		s.screen.SetContent(x, y, runes[0], runes[1:], style)
		x += cw
	}
	return x, y
}

func (s *Surface) drawPicker(width, y int) {
	if s.cfg.Picker == nil {
		return
	}
	c := s.cfg.Picker.Color()
	swatch := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.RGB.R), int32(c.RGB.G), int32(c.RGB.B)))
	x, _ := s.put(0, y, width, "████", swatch)

	label := " " + c.Hex
	if name, exact := c.Name(); name != "" {
		if exact {
			label += " " + name
		} else {
			label += " ~" + name
		}
	}
	s.put(x, y, width, label, tcell.StyleDefault)
}

func (s *Surface) drawStatus(width, y int) {
	style := tcell.StyleDefault.Reverse(true)
	for x := 0; x < width; x++ {
		s.screen.SetContent(x, y, ' ', nil, style)
	}

	x, _ := s.put(0, y, width, s.statusText(), style)
	if s.cfg.CharLimit != nil {
		rem := s.cfg.CharLimit.Remaining()
		limStyle := style
		if rem < 0 {
			limStyle = limStyle.Foreground(tcell.ColorRed)
		}
		s.put(x, y, width, fmt.Sprintf(" | %d/%d", s.cfg.CharLimit.Limit()-rem, s.cfg.CharLimit.Limit()), limStyle)
	}
}

func (s *Surface) statusText() string {
	text := fmt.Sprintf("%d blocks", s.cfg.Document.State().Len())
	if s.cfg.History != nil {
		if s.cfg.History.CanUndo() {
			text += " | undo"
		}
		if s.cfg.History.CanRedo() {
			text += " | redo"
		}
	}
	if s.cfg.Autocomplete != nil {
		if sug := s.cfg.Autocomplete.Suggestion(); sug != "" {
			text += " | tab: " + s.cfg.Autocomplete.Query() + sug
		}
	}
	return text
}

func blockPrefix(t document.NodeType) string {
	switch t {
	case document.NodeHeading:
		return "# "
	case document.NodeQuote:
		return "> "
	case document.NodeListItem:
		return "• "
	default:
		return ""
	}
}

func blockStyle(b document.Node) tcell.Style {
	style := tcell.StyleDefault
	if b.Color != "" {
		style = style.Foreground(tcell.GetColor(b.Color))
	}
	if b.Type == document.NodeHeading || b.Format.Has(document.FormatBold) {
		style = style.Bold(true)
	}
	if b.Format.Has(document.FormatItalic) {
		style = style.Italic(true)
	}
	if b.Format.Has(document.FormatUnderline) {
		style = style.Underline(true)
	}
	if b.Format.Has(document.FormatStrikethrough) {
		style = style.StrikeThrough(true)
	}
	if b.Type == document.NodeCode || b.Format.Has(document.FormatCode) {
		style = style.Dim(true)
	}
	return style
}
