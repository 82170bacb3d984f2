package document

import (
	"fmt"

	"github.com/google/uuid"
)

// Writer is the mutable view of a document handed to Update functions and
// update filters. Changes are made on a draft and only become visible when
// the update commits.
type Writer interface {
	Reader

	// Append adds a block at the end and returns its key.
	Append(t NodeType, text string) string
	// Insert adds a block before position index and returns its key.
	Insert(index int, t NodeType, text string) (string, error)
	// SetText replaces the text of a block.
	SetText(key, text string) error
	// SetType changes the type of a block.
	SetType(key string, t NodeType) error
	// SetFormat replaces the text format of a block.
	SetFormat(key string, format TextFormat) error
	// SetColor replaces the text color of a block.
	SetColor(key, color string) error
	// Remove deletes a block.
	Remove(key string) error
	// Clear removes every block.
	Clear()
	// Last returns the final block.
	Last() (Node, bool)
}

// draft is a copy-on-write Writer over a base state.
type draft struct {
	blocks []Node
	dirty  map[string]bool
	// structural is set when blocks were added, removed or reordered.
	structural bool
}

func newDraft(base *State) *draft {
	return &draft{
		blocks: base.Blocks(),
		dirty:  make(map[string]bool),
	}
}

func (d *draft) changed() bool {
	return d.structural || len(d.dirty) > 0
}

func (d *draft) dirtyKeys() []string {
	keys := make([]string, 0, len(d.dirty))
	for _, b := range d.blocks {
		if d.dirty[b.Key] {
			keys = append(keys, b.Key)
		}
	}
	return keys
}

func (d *draft) Blocks() []Node {
	out := make([]Node, len(d.blocks))
	copy(out, d.blocks)
	return out
}

func (d *draft) Len() int { return len(d.blocks) }

func (d *draft) Node(key string) (Node, bool) {
	if i := indexOf(d.blocks, key); i >= 0 {
		return d.blocks[i], true
	}
	return Node{}, false
}

func (d *draft) TextContent() string { return textContent(d.blocks) }

func (d *draft) JSON() string { return marshalBlocks(d.blocks) }

func (d *draft) Append(t NodeType, text string) string {
	key, _ := d.Insert(len(d.blocks), t, text)
	return key
}

func (d *draft) Insert(index int, t NodeType, text string) (string, error) {
	if index < 0 || index > len(d.blocks) {
		return "", fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	if t == "" {
		t = NodeParagraph
	}
	n := Node{Key: uuid.NewString(), Type: t, Text: text}

	d.blocks = append(d.blocks, Node{})
	copy(d.blocks[index+1:], d.blocks[index:])
	d.blocks[index] = n

	d.structural = true
	d.dirty[n.Key] = true
	return n.Key, nil
}

func (d *draft) SetText(key, text string) error {
	return d.modify(key, func(n *Node) bool {
		if n.Text == text {
			return false
		}
		n.Text = text
		return true
	})
}

func (d *draft) SetType(key string, t NodeType) error {
	return d.modify(key, func(n *Node) bool {
		if n.Type == t {
			return false
		}
		n.Type = t
		return true
	})
}

func (d *draft) SetFormat(key string, format TextFormat) error {
	return d.modify(key, func(n *Node) bool {
		if n.Format == format {
			return false
		}
		n.Format = format
		return true
	})
}

func (d *draft) SetColor(key, color string) error {
	return d.modify(key, func(n *Node) bool {
		if n.Color == color {
			return false
		}
		n.Color = color
		return true
	})
}

func (d *draft) modify(key string, fn func(*Node) bool) error {
	i := indexOf(d.blocks, key)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, key)
	}
	if fn(&d.blocks[i]) {
		d.dirty[key] = true
	}
	return nil
}

func (d *draft) Remove(key string) error {
	i := indexOf(d.blocks, key)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, key)
	}
	d.blocks = append(d.blocks[:i], d.blocks[i+1:]...)
	delete(d.dirty, key)
	d.structural = true
	return nil
}

func (d *draft) Clear() {
	if len(d.blocks) == 0 {
		return
	}
	d.blocks = nil
	d.dirty = make(map[string]bool)
	d.structural = true
}

func (d *draft) Last() (Node, bool) {
	if len(d.blocks) == 0 {
		return Node{}, false
	}
	return d.blocks[len(d.blocks)-1], true
}
