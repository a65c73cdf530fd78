package cli

import (
	"reflect"
	"testing"
)

func TestSplitWords(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"add milk", []string{"add", "milk"}},
		{"  add   milk  ", []string{"add", "milk"}},
		{`add "buy milk"`, []string{"add", "buy milk"}},
		{`add 'say "hi"'`, []string{"add", `say "hi"`}},
		{`add it\'s`, []string{"add", "it's"}},
		{`add a\ b`, []string{"add", "a b"}},
		{`edit 1 ""`, []string{"edit", "1", ""}},
		{`add pre"fix"post`, []string{"add", "prefixpost"}},
		{"", nil},
	}

	for _, tt := range tests {
		got, err := splitWords(tt.in)
		if err != nil {
			t.Errorf("splitWords(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitWords(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitWords_Unterminated(t *testing.T) {
	for _, in := range []string{`add "milk`, `add 'milk`, `add milk\`} {
		if _, err := splitWords(in); err != errUnterminatedQuote {
			t.Errorf("splitWords(%q): expected errUnterminatedQuote, got %v", in, err)
		}
	}
}
