package plugin

import (
	"sync"
	"unicode/utf16"

	"github.com/dshills/inkpad/internal/document"
)

// CharacterLimit tracks how many characters remain before a soft limit.
// Unlike MaxLength it never edits the document.
type CharacterLimit struct {
	mu        sync.Mutex
	limit     int
	utf8      bool
	remaining int
	onOver    func(remaining int)
}

// CharLimitOption configures a CharacterLimit.
type CharLimitOption func(*CharacterLimit)

// WithUTF8Bytes counts UTF-8 bytes instead of UTF-16 code units.
func WithUTF8Bytes() CharLimitOption {
	return func(p *CharacterLimit) {
		p.utf8 = true
	}
}

// WithOverLimit sets the func called each time the text goes from within
// the limit to over it.
func WithOverLimit(fn func(remaining int)) CharLimitOption {
	return func(p *CharacterLimit) {
		p.onOver = fn
	}
}

// NewCharacterLimit creates the plugin.
func NewCharacterLimit(limit int, opts ...CharLimitOption) *CharacterLimit {
	p := &CharacterLimit{limit: limit, remaining: limit}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements Plugin.
func (p *CharacterLimit) Name() string { return "charlimit" }

// Register implements Plugin.
func (p *CharacterLimit) Register(doc *document.Document) (func(), error) {
	p.update(doc.State().TextContent())
	return doc.RegisterUpdateListener(func(ev document.UpdateEvent) {
		p.update(ev.State.TextContent())
	}), nil
}

// Limit returns the configured limit.
func (p *CharacterLimit) Limit() int { return p.limit }

// Remaining returns limit minus the current length. It is negative when
// over the limit.
func (p *CharacterLimit) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.remaining
}

// Count returns the length of s in the configured unit.
func (p *CharacterLimit) Count(s string) int {
	if p.utf8 {
		return len(s)
	}
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

func (p *CharacterLimit) update(text string) {
	p.mu.Lock()
	wasOver := p.remaining < 0
	p.remaining = p.limit - p.Count(text)
	remaining, fn := p.remaining, p.onOver
	p.mu.Unlock()

	if fn != nil && !wasOver && remaining < 0 {
		fn(remaining)
	}
}
