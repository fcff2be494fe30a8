package deferrable

import "testing"

func TestSuggest(t *testing.T) {
	candidates := []string{"name", "value", "path.cat", "upper"}

	tests := []struct {
		word string
		want string
	}{
		{word: "valu", want: "value"},
		{word: "nme", want: "name"},
		{word: "pcat", want: "path.cat"},
		{word: "values", want: "value"},
		{word: "zzz", want: ""},
		{word: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			if got := suggest(tt.word, candidates); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}

	if got := suggest("a", nil); got != "" {
		t.Errorf("expected no suggestion without candidates, got %q", got)
	}
}
