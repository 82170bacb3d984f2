package color

import (
	"math"
	"sync"

	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

type namedColor struct {
	name string
	rgb  RGB
	lab  colorful.Color
}

var (
	namedOnce sync.Once
	named     []namedColor
)

func namedColors() []namedColor {
	namedOnce.Do(func() {
		named = make([]namedColor, 0, len(colornames.Names))
		for _, name := range colornames.Names {
			c := colornames.Map[name]
			rgb := RGB{R: int(c.R), G: int(c.G), B: int(c.B)}
			named = append(named, namedColor{name: name, rgb: rgb, lab: rgb.Colorful()})
		}
	})
	return named
}

// Colorful converts the triple into a go-colorful color.
func (c RGB) Colorful() colorful.Color {
	c = c.Clamp()
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Colorful converts the color into a go-colorful color.
func (c Color) Colorful() colorful.Color {
	return c.RGB.Colorful()
}

// Name returns the CSS color name perceptually closest to c, measured as
// distance in CIE L*a*b* space. exact is true when the channels match the
// named color exactly. Ties resolve to the alphabetically first name.
func (c Color) Name() (name string, exact bool) {
	target := c.Colorful()
	best := math.Inf(1)
	for _, n := range namedColors() {
		if n.rgb == c.RGB.Clamp() {
			return n.name, true
		}
		if d := target.DistanceLab(n.lab); d < best {
			best = d
			name = n.name
		}
	}
	return name, false
}

// Blend mixes c toward other in L*a*b* space; t=0 yields c, t=1 yields other.
func (c Color) Blend(other Color, t float64) Color {
	mixed := c.Colorful().BlendLab(other.Colorful(), clampFloat(t, 0, 1)).Clamped()
	r, g, b := mixed.RGB255()
	return FromRGB(RGB{R: int(r), G: int(g), B: int(b)})
}
