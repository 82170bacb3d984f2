package plugin

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/inkpad/internal/autocomplete"
	"github.com/dshills/inkpad/internal/document"
)

// TagAutocomplete marks the update that inserts an accepted suggestion.
const TagAutocomplete = "autocomplete"

// Autocomplete feeds the word being typed at the end of the document into
// an autocomplete store.
type Autocomplete struct {
	store *autocomplete.Store
}

// NewAutocomplete creates the plugin over store.
func NewAutocomplete(store *autocomplete.Store) *Autocomplete {
	return &Autocomplete{store: store}
}

// Name implements Plugin.
func (p *Autocomplete) Name() string { return "autocomplete" }

// Register implements Plugin. Teardown clears the store.
func (p *Autocomplete) Register(doc *document.Document) (func(), error) {
	p.store.SetQuery(lastWord(doc.State()))
	unregister := doc.RegisterUpdateListener(func(ev document.UpdateEvent) {
		p.store.SetQuery(lastWord(ev.State))
	})
	return func() {
		unregister()
		p.store.Clear()
	}, nil
}

// Accept appends the current suggestion to the last block. It reports
// whether there was a suggestion to insert.
func (p *Autocomplete) Accept(doc *document.Document) (bool, error) {
	suggestion := p.store.Suggestion()
	if suggestion == "" {
		return false, nil
	}
	err := doc.Update(func(w document.Writer) error {
		last, ok := w.Last()
		if !ok {
			return document.ErrNodeNotFound
		}
		return w.SetText(last.Key, last.Text+suggestion)
	}, document.UpdateOptions{Tag: TagAutocomplete})
	if err != nil {
		return false, err
	}
	return true, nil
}

// lastWord returns the trailing run of letters and digits of the last block.
func lastWord(s *document.State) string {
	blocks := s.Blocks()
	if len(blocks) == 0 {
		return ""
	}
	text := blocks[len(blocks)-1].Text
	i := strings.LastIndexFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if i < 0 {
		return text
	}
	_, size := utf8.DecodeRuneInString(text[i:])
	return text[i+size:]
}
