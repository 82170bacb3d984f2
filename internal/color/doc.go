// Package color converts colors between hexadecimal, RGB and HSV form.
//
// A Color carries all three representations at once. Every Color is built
// from a single authoritative input (the representation the caller just
// edited) and the other two are derived from it, so repeated edits never
// accumulate round-trip drift:
//
//	c := color.FromHex("#abc")       // Hex "#aabbcc", RGB and HSV derived
//	c = color.Convert(c, color.FormatHSV, color.HSV{H: 120, S: 50, V: 50})
//
// Input parsing is lenient. NormalizeHex never fails: shorthand forms are
// expanded, CSS color names are resolved, and anything else becomes
// "#000000". The package also holds the Picker model used by the
// interactive color widget.
package color
