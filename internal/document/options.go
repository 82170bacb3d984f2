package document

import (
	"strings"

	"github.com/dshills/inkpad/internal/logging"
)

// DefaultMaxHistory is the default number of undo entries kept.
const DefaultMaxHistory = 1000

// Option configures a Document during creation.
type Option func(*Document)

// WithInitialText seeds the document with paragraphs split on BlockSeparator.
func WithInitialText(text string) Option {
	return func(d *Document) {
		d.initText = &text
	}
}

// WithInitialJSON seeds the document from serialized state. It takes
// precedence over WithInitialText.
func WithInitialJSON(data string) Option {
	return func(d *Document) {
		d.initJSON = data
	}
}

// WithMaxHistory sets the maximum number of undo entries.
func WithMaxHistory(n int) Option {
	return func(d *Document) {
		if n > 0 {
			d.history.max = n
		}
	}
}

// WithEditable sets whether updates are accepted. Documents are editable
// by default.
func WithEditable(editable bool) Option {
	return func(d *Document) {
		d.editable = editable
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(d *Document) {
		if l != nil {
			d.log = l
		}
	}
}

func splitParagraphs(text string) []Node {
	parts := strings.Split(text, BlockSeparator)
	blocks := make([]Node, 0, len(parts))
	for _, p := range parts {
		blocks = append(blocks, Node{Type: NodeParagraph, Text: p})
	}
	return blocks
}
