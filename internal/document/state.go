package document

import "strings"

// BlockSeparator joins block texts in TextContent.
const BlockSeparator = "\n\n"

// Reader is the read-only view of a document state handed to Read scopes.
type Reader interface {
	// Blocks returns a copy of the blocks in document order.
	Blocks() []Node
	// Len returns the number of blocks.
	Len() int
	// Node returns the block with the given key.
	Node(key string) (Node, bool)
	// TextContent returns the plain text of the document.
	TextContent() string
	// JSON returns the serialized document state.
	JSON() string
}

// State is an immutable document state. Every committed update produces
// a new State; old ones stay valid for as long as they are referenced.
type State struct {
	blocks  []Node
	version uint64
}

func newState(blocks []Node, version uint64) *State {
	return &State{blocks: blocks, version: version}
}

// Version returns the commit number that produced this state.
func (s *State) Version() uint64 {
	return s.version
}

// Read runs fn with read access to the state and returns fn's error.
func (s *State) Read(fn func(Reader) error) error {
	return fn(s)
}

// Blocks returns a copy of the blocks in document order.
func (s *State) Blocks() []Node {
	out := make([]Node, len(s.blocks))
	copy(out, s.blocks)
	return out
}

// Len returns the number of blocks.
func (s *State) Len() int {
	return len(s.blocks)
}

// Node returns the block with the given key.
func (s *State) Node(key string) (Node, bool) {
	if i := indexOf(s.blocks, key); i >= 0 {
		return s.blocks[i], true
	}
	return Node{}, false
}

// TextContent returns the block texts joined by BlockSeparator.
func (s *State) TextContent() string {
	return textContent(s.blocks)
}

// JSON returns the serialized state.
func (s *State) JSON() string {
	return marshalBlocks(s.blocks)
}

// IsEmpty reports whether the document has no text at all.
func (s *State) IsEmpty() bool {
	for _, b := range s.blocks {
		if b.Text != "" {
			return false
		}
	}
	return true
}

func textContent(blocks []Node) string {
	parts := make([]string, len(blocks))
	for i, b := range blocks {
		parts[i] = b.Text
	}
	return strings.Join(parts, BlockSeparator)
}

func indexOf(blocks []Node, key string) int {
	for i, b := range blocks {
		if b.Key == key {
			return i
		}
	}
	return -1
}
