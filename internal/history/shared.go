// Package history shares one undo/redo timeline between several documents,
// such as a main editor and the nested editors inside it.
package history

import (
	"errors"
	"sync"

	"github.com/dshills/inkpad/internal/document"
)

// DefaultMaxEntries bounds the shared timeline.
const DefaultMaxEntries = 1000

// ErrAlreadyTracked is returned when Track is called twice for one document.
var ErrAlreadyTracked = errors.New("document already tracked")

// Shared records which document each undoable update happened in, so Undo
// and Redo act on the right document in global order.
type Shared struct {
	mu      sync.Mutex
	undo    []*document.Document
	redo    []*document.Document
	max     int
	tracked map[*document.Document]func()
}

// NewShared creates an empty shared history. max <= 0 selects
// DefaultMaxEntries.
func NewShared(max int) *Shared {
	if max <= 0 {
		max = DefaultMaxEntries
	}
	return &Shared{max: max, tracked: make(map[*document.Document]func())}
}

// Track starts recording doc's undoable updates. The returned func stops
// tracking and drops doc's entries from the timeline.
func (s *Shared) Track(doc *document.Document) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tracked[doc]; ok {
		return nil, ErrAlreadyTracked
	}

	unregister := doc.RegisterUpdateListener(func(ev document.UpdateEvent) {
		if ev.SkipHistory || ev.Tag == document.TagUndo || ev.Tag == document.TagRedo {
			return
		}
		s.record(doc)
	})
	s.tracked[doc] = unregister

	return func() { s.untrack(doc) }, nil
}

// Undo undoes the most recent recorded update, in whichever document it
// happened. Entries whose document has no undo left, because its own
// history was cleared or trimmed, are dropped and the next one is tried.
func (s *Shared) Undo() error {
	for {
		doc, ok := s.pop(&s.undo)
		if !ok {
			return document.ErrNothingToUndo
		}
		err := doc.Undo()
		if errors.Is(err, document.ErrNothingToUndo) {
			continue
		}
		if err != nil {
			return err
		}
		s.push(&s.redo, doc)
		return nil
	}
}

// Redo reapplies the most recently undone update. Stale entries are
// dropped the same way as in Undo.
func (s *Shared) Redo() error {
	for {
		doc, ok := s.pop(&s.redo)
		if !ok {
			return document.ErrNothingToRedo
		}
		err := doc.Redo()
		if errors.Is(err, document.ErrNothingToRedo) {
			continue
		}
		if err != nil {
			return err
		}
		s.push(&s.undo, doc)
		return nil
	}
}

func (s *Shared) pop(stack *[]*document.Document) (*document.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(*stack)
	if n == 0 {
		return nil, false
	}
	doc := (*stack)[n-1]
	*stack = (*stack)[:n-1]
	return doc, true
}

func (s *Shared) push(stack *[]*document.Document, doc *document.Document) {
	s.mu.Lock()
	*stack = append(*stack, doc)
	s.mu.Unlock()
}

// CanUndo reports whether Undo has an entry.
func (s *Shared) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undo) > 0
}

// CanRedo reports whether Redo has an entry.
func (s *Shared) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.redo) > 0
}

// Close stops tracking every document.
func (s *Shared) Close() {
	s.mu.Lock()
	docs := make([]*document.Document, 0, len(s.tracked))
	for d := range s.tracked {
		docs = append(docs, d)
	}
	s.mu.Unlock()

	for _, d := range docs {
		s.untrack(d)
	}
}

func (s *Shared) record(doc *document.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.undo = append(s.undo, doc)
	if len(s.undo) > s.max {
		s.undo = s.undo[len(s.undo)-s.max:]
	}
	s.redo = nil
}

func (s *Shared) untrack(doc *document.Document) {
	s.mu.Lock()
	unregister, ok := s.tracked[doc]
	delete(s.tracked, doc)
	s.undo = without(s.undo, doc)
	s.redo = without(s.redo, doc)
	s.mu.Unlock()

	if ok {
		unregister()
	}
}

func without(stack []*document.Document, doc *document.Document) []*document.Document {
	out := stack[:0]
	for _, d := range stack {
		if d != doc {
			out = append(out, d)
		}
	}
	return out
}

// State is the history handed down from the root editor. Nested editors
// call Track with their own document to join its timeline.
type State struct {
	*Shared
	root *document.Document
}

// NewHistoryState creates a shared history rooted at doc.
func NewHistoryState(doc *document.Document) (*State, error) {
	s := NewShared(0)
	if _, err := s.Track(doc); err != nil {
		return nil, err
	}
	return &State{Shared: s, root: doc}, nil
}

// Root returns the document the history was created for.
func (h *State) Root() *document.Document {
	return h.root
}
