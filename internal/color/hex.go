package color

import (
	"strings"

	"golang.org/x/image/colornames"
)

// NormalizeHex turns a CSS color string into lowercase "#rrggbb" or
// "#rrggbbaa" form. Shorthand "#rgb" and "#rgba" are expanded by doubling
// each digit; names such as "rebeccapurple" are looked up in the CSS
// named-color table. Anything that cannot be resolved yields Black.
func NormalizeHex(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return Black
	}

	if strings.HasPrefix(s, "#") {
		digits := s[1:]
		if !isHexDigits(digits) {
			return Black
		}
		switch len(digits) {
		case 3, 4:
			var b strings.Builder
			b.Grow(1 + 2*len(digits))
			b.WriteByte('#')
			for i := 0; i < len(digits); i++ {
				b.WriteByte(digits[i])
				b.WriteByte(digits[i])
			}
			return b.String()
		case 6, 8:
			return s
		default:
			return Black
		}
	}

	if c, ok := colornames.Map[s]; ok {
		return RGBToHex(RGB{R: int(c.R), G: int(c.G), B: int(c.B)})
	}
	return Black
}

// isFullHex reports whether s is already "#rrggbb" or "#rrggbbaa".
func isFullHex(s string) bool {
	if len(s) != 7 && len(s) != 9 {
		return false
	}
	return s[0] == '#' && isHexDigits(s[1:])
}

// IsCompleteHex reports whether s is a finished six-digit hex color, the
// form the picker's text field accepts while the user is typing.
func IsCompleteHex(s string) bool {
	return len(s) == 7 && s[0] == '#' && isHexDigits(s[1:])
}

func isHexDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
