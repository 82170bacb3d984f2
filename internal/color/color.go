package color

import (
	"fmt"
	"math"
	"strconv"
)

// Black is the fallback for any input that cannot be resolved.
const Black = "#000000"

// RGB is a color in 8-bit red, green, blue channels, each in [0,255].
type RGB struct {
	R, G, B int
}

// Clamp returns the triple with each channel forced into [0,255].
func (c RGB) Clamp() RGB {
	return RGB{R: clampInt(c.R, 0, 255), G: clampInt(c.G, 0, 255), B: clampInt(c.B, 0, 255)}
}

// String returns the CSS rgb() form.
func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// HSV is a color in hue (degrees, [0,360)), saturation and value (both [0,100]).
type HSV struct {
	H, S, V float64
}

// Normalize wraps the hue into [0,360) and clamps saturation and value.
func (c HSV) Normalize() HSV {
	h := math.Mod(c.H, 360)
	if h < 0 {
		h += 360
	}
	if math.IsNaN(h) {
		h = 0
	}
	return HSV{H: h, S: clampFloat(c.S, 0, 100), V: clampFloat(c.V, 0, 100)}
}

// Color holds one color value in three consistent representations.
type Color struct {
	Hex string
	RGB RGB
	HSV HSV
}

// Format names the representation that is authoritative for a conversion.
type Format string

// Formats accepted by Convert.
const (
	FormatHex Format = "hex"
	FormatRGB Format = "rgb"
	FormatHSV Format = "hsv"
)

// Valid reports whether f is one of the known formats.
func (f Format) Valid() bool {
	switch f {
	case FormatHex, FormatRGB, FormatHSV:
		return true
	default:
		return false
	}
}

// FromHex builds a Color from any CSS color string.
func FromHex(s string) Color {
	return Convert(Color{}, FormatHex, s)
}

// FromRGB builds a Color from an RGB triple.
func FromRGB(rgb RGB) Color {
	return Convert(Color{}, FormatRGB, rgb)
}

// FromHSV builds a Color from an HSV triple.
func FromHSV(hsv HSV) Color {
	return Convert(Color{}, FormatHSV, hsv)
}

// Convert rebuilds a Color from the representation named by format. The
// value must be a string for FormatHex, an RGB for FormatRGB and an HSV
// for FormatHSV. An unknown format or a mismatched value type returns prev
// unchanged; callers should check Format.Valid first.
func Convert(prev Color, format Format, value any) Color {
	switch format {
	case FormatHex:
		s, ok := value.(string)
		if !ok {
			return prev
		}
		hex := NormalizeHex(s)
		rgb := HexToRGB(hex)
		return Color{Hex: hex, RGB: rgb, HSV: RGBToHSV(rgb)}

	case FormatRGB:
		rgb, ok := value.(RGB)
		if !ok {
			return prev
		}
		rgb = rgb.Clamp()
		return Color{Hex: RGBToHex(rgb), RGB: rgb, HSV: RGBToHSV(rgb)}

	case FormatHSV:
		hsv, ok := value.(HSV)
		if !ok {
			return prev
		}
		hsv = hsv.Normalize()
		rgb := HSVToRGB(hsv)
		return Color{Hex: RGBToHex(rgb), RGB: rgb, HSV: hsv}

	default:
		return prev
	}
}

// HexToRGB parses the red, green and blue channels of a hex color. Alpha is
// ignored. Input that is not already in full hex form is normalized first.
func HexToRGB(hex string) RGB {
	if !isFullHex(hex) {
		hex = NormalizeHex(hex)
	}
	return RGB{
		R: parseChannel(hex[1:3]),
		G: parseChannel(hex[3:5]),
		B: parseChannel(hex[5:7]),
	}
}

// RGBToHex formats rgb as a lowercase "#rrggbb" string.
func RGBToHex(rgb RGB) string {
	rgb = rgb.Clamp()
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// RGBToHSV converts rgb to hue, saturation and value.
func RGBToHSV(rgb RGB) HSV {
	rgb = rgb.Clamp()
	r := float64(rgb.R) / 255
	g := float64(rgb.G) / 255
	b := float64(rgb.B) / 255

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	diff := maxC - minC

	var h, s float64
	if maxC != 0 {
		s = diff / maxC * 100
	}

	switch {
	case diff == 0:
		h = 0
	case maxC == r:
		h = 60 * math.Mod((g-b)/diff, 6)
	case maxC == g:
		h = 60 * ((b-r)/diff + 2)
	default:
		h = 60 * ((r-g)/diff + 4)
	}
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		h -= 360
	}

	return HSV{H: h, S: s, V: maxC * 100}
}

// HSVToRGB converts hsv to 8-bit RGB channels.
func HSVToRGB(hsv HSV) RGB {
	hsv = hsv.Normalize()
	s := hsv.S / 100
	v := hsv.V / 100

	sector := math.Floor(hsv.H / 60)
	f := hsv.H/60 - sector
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch int(sector) % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}

	return RGB{R: toChannel(r), G: toChannel(g), B: toChannel(b)}
}

func toChannel(x float64) int {
	return clampInt(int(math.Round(x*255)), 0, 255)
}

func parseChannel(s string) int {
	n, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0
	}
	return int(n)
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func clampFloat(x, lo, hi float64) float64 {
	if math.IsNaN(x) || x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
