package plugin

import (
	"github.com/rivo/uniseg"

	"github.com/dshills/inkpad/internal/document"
)

// MaxLength trims the document so its text content never exceeds a number
// of user-perceived characters. The trim runs as an update filter, so it
// is part of the update that overflowed and never gets its own history
// entry.
type MaxLength struct {
	max int
}

// NewMaxLength creates the plugin. max is clamped to at least 1.
func NewMaxLength(max int) *MaxLength {
	if max < 1 {
		max = 1
	}
	return &MaxLength{max: max}
}

// Name implements Plugin.
func (p *MaxLength) Name() string { return "maxlength" }

// Max returns the character limit.
func (p *MaxLength) Max() int { return p.max }

// Register implements Plugin.
func (p *MaxLength) Register(doc *document.Document) (func(), error) {
	return doc.RegisterUpdateFilter(p.filter), nil
}

func (p *MaxLength) filter(w document.Writer) error {
	if uniseg.GraphemeClusterCount(w.TextContent()) <= p.max {
		return nil
	}

	sep := uniseg.GraphemeClusterCount(document.BlockSeparator)
	budget := p.max
	for i, b := range w.Blocks() {
		if i > 0 {
			budget -= sep
		}
		if budget < 0 {
			if err := w.Remove(b.Key); err != nil {
				return err
			}
			continue
		}
		n := uniseg.GraphemeClusterCount(b.Text)
		if n > budget {
			if err := w.SetText(b.Key, TruncateGraphemes(b.Text, budget)); err != nil {
				return err
			}
			n = budget
		}
		budget -= n
	}
	return nil
}

// TruncateGraphemes returns the first n grapheme clusters of s.
func TruncateGraphemes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	g := uniseg.NewGraphemes(s)
	count := 0
	for g.Next() {
		count++
		if count == n {
			_, end := g.Positions()
			return s[:end]
		}
	}
	return s
}
