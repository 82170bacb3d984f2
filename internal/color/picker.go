package color

import "sync"

// Presets are the swatches offered under the picker.
var Presets = []string{
	"#d0021b", "#f5a623", "#f8e71c", "#8b572a", "#7ed321",
	"#417505", "#bd10e0", "#9013fe", "#4a90e2", "#50e3c2",
	"#b8e986", "#000000", "#4a4a4a", "#9b9b9b", "#ffffff",
}

// ChangeFunc receives every color the picker commits. skipHistory is true
// for intermediate values produced while a drag is in progress, so the
// receiver can apply them without recording an undo entry.
type ChangeFunc func(c Color, skipHistory bool)

// Picker is the state behind the interactive color widget: the committed
// color plus whatever the user has typed into the hex field so far.
type Picker struct {
	mu       sync.Mutex
	color    Color
	hexInput string
	onChange ChangeFunc
}

// NewPicker creates a picker showing initial, which may be any CSS color.
func NewPicker(initial string) *Picker {
	c := FromHex(initial)
	return &Picker{color: c, hexInput: c.Hex}
}

// OnChange registers fn, replacing any earlier callback.
func (p *Picker) OnChange(fn ChangeFunc) {
	p.mu.Lock()
	p.onChange = fn
	p.mu.Unlock()
}

// Color returns the committed color.
func (p *Picker) Color() Color {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.color
}

// HexInput returns the text currently in the hex field.
func (p *Picker) HexInput() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hexInput
}

// SetHexInput records typed text. The color changes only once the text is
// a complete "#rrggbb" value; partial input is kept but never applied.
func (p *Picker) SetHexInput(s string) bool {
	p.mu.Lock()
	p.hexInput = s
	if !IsCompleteHex(s) {
		p.mu.Unlock()
		return false
	}
	p.mu.Unlock()

	p.commit(Convert(p.Color(), FormatHex, s), false, false)
	return true
}

// Select applies a preset or any CSS color string.
func (p *Picker) Select(s string) {
	p.commit(Convert(p.Color(), FormatHex, s), false, true)
}

// SetRGB applies an RGB triple.
func (p *Picker) SetRGB(rgb RGB, skipHistory bool) {
	p.commit(Convert(p.Color(), FormatRGB, rgb), skipHistory, true)
}

// SetHue moves the hue slider, keeping saturation and value.
func (p *Picker) SetHue(h float64, skipHistory bool) {
	cur := p.Color().HSV
	p.commit(Convert(p.Color(), FormatHSV, HSV{H: h, S: cur.S, V: cur.V}), skipHistory, true)
}

// MoveSaturationValue maps a pointer position on the width×height
// saturation/value plane to a color. x grows saturation, y grows darkness.
// Positions outside the plane are clamped to its edges.
func (p *Picker) MoveSaturationValue(x, y, width, height int, skipHistory bool) {
	if width <= 0 || height <= 0 {
		return
	}
	x = clampInt(x, 0, width)
	y = clampInt(y, 0, height)

	cur := p.Color().HSV
	hsv := HSV{
		H: cur.H,
		S: float64(x) / float64(width) * 100,
		V: 100 - float64(y)/float64(height)*100,
	}
	p.commit(Convert(p.Color(), FormatHSV, hsv), skipHistory, true)
}

func (p *Picker) commit(c Color, skipHistory, syncInput bool) {
	p.mu.Lock()
	p.color = c
	if syncInput {
		p.hexInput = c.Hex
	}
	fn := p.onChange
	p.mu.Unlock()

	if fn != nil {
		fn(c, skipHistory)
	}
}
