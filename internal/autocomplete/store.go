// Package autocomplete holds the shared autocomplete state: the word being
// typed and the suggested completion for it.
package autocomplete

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"
)

// MinQueryLength is the shortest query that produces a suggestion.
const MinQueryLength = 2

// Listener receives the new suggestion whenever it changes. An empty
// string means there is no suggestion.
type Listener func(suggestion string)

// Store matches the current query against a dictionary and publishes the
// remaining suffix of the first matching word.
type Store struct {
	mu         sync.Mutex
	words      []string
	folded     []string
	query      string
	suggestion string
	listeners  map[uint64]Listener
	order      []uint64
	nextID     uint64
	fold       cases.Caser
}

// New creates a store over dictionary. Order matters: the first word that
// matches wins.
func New(dictionary []string) *Store {
	s := &Store{
		listeners: make(map[uint64]Listener),
		fold:      cases.Fold(),
	}
	for _, w := range dictionary {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		s.words = append(s.words, w)
		s.folded = append(s.folded, s.fold.String(w))
	}
	return s
}

// SetQuery updates the word being typed and recomputes the suggestion.
func (s *Store) SetQuery(q string) {
	s.mu.Lock()
	s.query = q
	next := s.lookup(q)
	if next == s.suggestion {
		s.mu.Unlock()
		return
	}
	s.suggestion = next
	listeners := s.snapshot()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
}

// Query returns the current query.
func (s *Store) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Suggestion returns the current completion suffix, or "".
func (s *Store) Suggestion() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.suggestion
}

// Clear drops the query and suggestion.
func (s *Store) Clear() {
	s.SetQuery("")
}

// Subscribe registers fn and returns a func that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.listeners[id] = fn
	s.order = append(s.order, id)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// lookup finds the completion for q; the caller holds s.mu.
func (s *Store) lookup(q string) string {
	if len([]rune(q)) < MinQueryLength {
		return ""
	}
	fq := s.fold.String(q)
	for i, fw := range s.folded {
		if len(fw) <= len(fq) || !strings.HasPrefix(fw, fq) {
			continue
		}
		if rest, ok := s.suffixAfter(s.words[i], fq); ok {
			return rest
		}
	}
	return ""
}

// suffixAfter returns the part of word after the shortest prefix that folds
// to fq. Folding can change the rune count, so the prefix is found by
// folding rather than by counting query runes. It reports false when fq
// ends inside the folding of a single rune; the caller holds s.mu.
func (s *Store) suffixAfter(word, fq string) (string, bool) {
	for i := range word {
		if i == 0 {
			continue
		}
		fp := s.fold.String(word[:i])
		if fp == fq {
			return word[i:], true
		}
		if len(fp) > len(fq) {
			return "", false
		}
	}
	return "", false
}

// snapshot returns live listeners in subscription order; the caller holds s.mu.
func (s *Store) snapshot() []Listener {
	out := make([]Listener, 0, len(s.listeners))
	live := s.order[:0]
	for _, id := range s.order {
		if fn, ok := s.listeners[id]; ok {
			out = append(out, fn)
			live = append(live, id)
		}
	}
	s.order = live
	return out
}
