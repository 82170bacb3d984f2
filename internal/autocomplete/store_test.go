package autocomplete

import "testing"

func TestStore_SetQuery(t *testing.T) {
	s := New([]string{"document", "doctor", "Straße", "  ", "American"})

	tests := []struct {
		query string
		want  string
	}{
		{"d", ""},
		{"do", "cument"},
		{"DOC", "ument"},
		{"doct", "or"},
		{"doctor", ""},
		{"amer", "ican"},
		{"STRA", "ße"},
		{"strass", "e"},
		{"STRASS", "e"},
		{"straß", "e"},
		{"stras", ""},
		{"xyz", ""},
		{"", ""},
	}

	for _, tt := range tests {
		s.SetQuery(tt.query)
		if got := s.Suggestion(); got != tt.want {
			t.Errorf("SetQuery(%q): Suggestion() = %q, want %q", tt.query, got, tt.want)
		}
		if s.Query() != tt.query {
			t.Errorf("Query() = %q, want %q", s.Query(), tt.query)
		}
	}
}

func TestStore_Subscribe(t *testing.T) {
	s := New([]string{"hello", "help"})

	var got []string
	unsub := s.Subscribe(func(sug string) { got = append(got, sug) })

	s.SetQuery("he")  // "llo"
	s.SetQuery("hel") // "lo"
	s.SetQuery("hel") // unchanged, no call
	s.Clear()         // ""

	want := []string{"llo", "lo", ""}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	unsub()
	s.SetQuery("he")
	if len(got) != len(want) {
		t.Error("unsubscribed listener was called")
	}
}

func TestDefaultDictionary(t *testing.T) {
	s := New(DefaultDictionary)
	s.SetQuery("playg")
	if got := s.Suggestion(); got != "round" {
		t.Errorf("Suggestion() = %q, want round", got)
	}
}
