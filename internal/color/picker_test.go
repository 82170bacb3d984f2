package color

import "testing"

type change struct {
	color       Color
	skipHistory bool
}

func recordChanges(p *Picker) *[]change {
	var got []change
	p.OnChange(func(c Color, skipHistory bool) {
		got = append(got, change{c, skipHistory})
	})
	return &got
}

func TestNewPicker(t *testing.T) {
	p := NewPicker("#abc")
	if p.Color().Hex != "#aabbcc" {
		t.Errorf("Color().Hex = %q, want #aabbcc", p.Color().Hex)
	}
	if p.HexInput() != "#aabbcc" {
		t.Errorf("HexInput() = %q, want #aabbcc", p.HexInput())
	}
}

func TestPicker_SetHexInput_Partial(t *testing.T) {
	p := NewPicker("#000000")
	changes := recordChanges(p)

	for _, partial := range []string{"#", "#1", "#12", "#1234", "#12345", "#12345z"} {
		if p.SetHexInput(partial) {
			t.Errorf("SetHexInput(%q) applied a partial value", partial)
		}
		if p.HexInput() != partial {
			t.Errorf("HexInput() = %q, want %q", p.HexInput(), partial)
		}
	}
	if p.Color().Hex != "#000000" {
		t.Errorf("partial input changed color to %q", p.Color().Hex)
	}
	if len(*changes) != 0 {
		t.Errorf("got %d change callbacks, want 0", len(*changes))
	}

	if !p.SetHexInput("#123456") {
		t.Fatal("SetHexInput(#123456) was not applied")
	}
	if p.Color().Hex != "#123456" {
		t.Errorf("Color().Hex = %q, want #123456", p.Color().Hex)
	}
	if len(*changes) != 1 || (*changes)[0].skipHistory {
		t.Errorf("changes = %+v, want one non-skipped change", *changes)
	}
}

func TestPicker_SetHue(t *testing.T) {
	p := NewPicker("#ff0000")
	changes := recordChanges(p)

	p.SetHue(120, true)

	if p.Color().Hex != "#00ff00" {
		t.Errorf("Color().Hex = %q, want #00ff00", p.Color().Hex)
	}
	if p.Color().HSV.H != 120 {
		t.Errorf("HSV.H = %v, want 120", p.Color().HSV.H)
	}
	if p.HexInput() != "#00ff00" {
		t.Errorf("HexInput() = %q, want synced hex", p.HexInput())
	}
	if len(*changes) != 1 || !(*changes)[0].skipHistory {
		t.Errorf("changes = %+v, want one skipped change", *changes)
	}
}

func TestPicker_MoveSaturationValue(t *testing.T) {
	p := NewPicker("#ff0000")

	p.MoveSaturationValue(50, 0, 100, 100, true)
	hsv := p.Color().HSV
	if hsv.S != 50 || hsv.V != 100 || hsv.H != 0 {
		t.Errorf("HSV = %v, want {0 50 100}", hsv)
	}

	p.MoveSaturationValue(-10, 500, 100, 100, false)
	hsv = p.Color().HSV
	if hsv.S != 0 || hsv.V != 0 {
		t.Errorf("HSV = %v, want clamped to S=0 V=0", hsv)
	}

	before := p.Color()
	p.MoveSaturationValue(10, 10, 0, 0, false)
	if p.Color() != before {
		t.Error("zero-sized plane changed the color")
	}
}

func TestPicker_Select(t *testing.T) {
	p := NewPicker("#000000")
	changes := recordChanges(p)

	p.Select("red")
	if p.Color().Hex != "#ff0000" || p.HexInput() != "#ff0000" {
		t.Errorf("Select(red) = %q / %q", p.Color().Hex, p.HexInput())
	}

	p.SetRGB(RGB{0, 0, 255}, false)
	if p.Color().Hex != "#0000ff" {
		t.Errorf("SetRGB hex = %q", p.Color().Hex)
	}
	if len(*changes) != 2 {
		t.Errorf("got %d changes, want 2", len(*changes))
	}
}

func TestPresetsAreNormalized(t *testing.T) {
	for _, p := range Presets {
		if NormalizeHex(p) != p {
			t.Errorf("preset %q is not in normalized form", p)
		}
	}
}
