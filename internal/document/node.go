package document

import "fmt"

// NodeType identifies the kind of a block.
type NodeType string

// Block types.
const (
	NodeRoot      NodeType = "root"
	NodeParagraph NodeType = "paragraph"
	NodeHeading   NodeType = "heading"
	NodeQuote     NodeType = "quote"
	NodeListItem  NodeType = "listitem"
	NodeCode      NodeType = "code"
)

// ParseNodeType validates a serialized block type. The root type is not a
// valid block.
func ParseNodeType(s string) (NodeType, error) {
	switch t := NodeType(s); t {
	case NodeParagraph, NodeHeading, NodeQuote, NodeListItem, NodeCode:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownNodeType, s)
	}
}

// TextFormat is a bit set of inline text formats applied to a whole block.
type TextFormat int

// Text formats.
const (
	FormatBold TextFormat = 1 << iota
	FormatItalic
	FormatStrikethrough
	FormatUnderline
	FormatCode
)

// Has reports whether every bit of f2 is set in f.
func (f TextFormat) Has(f2 TextFormat) bool {
	return f&f2 == f2
}

// Node is one top-level block of the document.
type Node struct {
	Key    string
	Type   NodeType
	Text   string
	Format TextFormat
	// Color is the block's text color as a hex string, or "" for the
	// default.
	Color string
}
