package document

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// emptyStateJSON is the serialized form of a document with no blocks.
const emptyStateJSON = `{"root":{"type":"root","version":1,"children":[]}}`

type nodeJSON struct {
	Key    string `json:"key"`
	Type   string `json:"type"`
	Text   string `json:"text"`
	Format int    `json:"format"`
	Color  string `json:"color,omitempty"`
}

func marshalBlocks(blocks []Node) string {
	out := emptyStateJSON
	for _, b := range blocks {
		var err error
		out, err = sjson.Set(out, "root.children.-1", nodeJSON{
			Key:    b.Key,
			Type:   string(b.Type),
			Text:   b.Text,
			Format: int(b.Format),
			Color:  b.Color,
		})
		if err != nil {
			// sjson only fails on malformed paths; the path above is fixed.
			panic(fmt.Sprintf("document: serialize block %s: %v", b.Key, err))
		}
	}
	return out
}

// ParseJSON restores a State from the form produced by State.JSON. Blocks
// with a missing or repeated key get a fresh one.
func ParseJSON(data string) (*State, error) {
	blocks, err := unmarshalBlocks(data)
	if err != nil {
		return nil, err
	}
	return newState(blocks, 0), nil
}

func unmarshalBlocks(data string) ([]Node, error) {
	if !gjson.Valid(data) {
		return nil, ErrInvalidJSON
	}
	root := gjson.Get(data, "root")
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: missing root", ErrInvalidJSON)
	}
	if t := root.Get("type"); t.Exists() && t.String() != string(NodeRoot) {
		return nil, fmt.Errorf("%w: root type %q", ErrInvalidJSON, t.String())
	}

	children := root.Get("children")
	if children.Exists() && !children.IsArray() {
		return nil, fmt.Errorf("%w: children is not an array", ErrInvalidJSON)
	}

	seen := make(map[string]bool)
	var blocks []Node
	var parseErr error
	children.ForEach(func(_, child gjson.Result) bool {
		nt, err := ParseNodeType(child.Get("type").String())
		if err != nil {
			parseErr = err
			return false
		}
		key := child.Get("key").String()
		if key == "" || seen[key] {
			key = uuid.NewString()
		}
		seen[key] = true
		blocks = append(blocks, Node{
			Key:    key,
			Type:   nt,
			Text:   child.Get("text").String(),
			Format: TextFormat(child.Get("format").Int()),
			Color:  child.Get("color").String(),
		})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return blocks, nil
}
