package repl

import (
	"errors"
	"reflect"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"wallet list", []string{"wallet", "list"}},
		{"  tx   add  ", []string{"tx", "add"}},
		{`wallet create "Holiday fund"`, []string{"wallet", "create", "Holiday fund"}},
		{`tx add 1 --note 'it''s'`, []string{"tx", "add", "1", "--note", "its"}},
		{`a "say \"hi\""`, []string{"a", `say "hi"`}},
		{`a\ b c`, []string{"a b", "c"}},
		{`x ""`, []string{"x", ""}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := Split(tt.line)
			if err != nil {
				t.Fatalf("Split(%q) error = %v", tt.line, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestSplit_Unterminated(t *testing.T) {
	for _, line := range []string{`"open`, `'open`, `trail\`} {
		if _, err := Split(line); !errors.Is(err, ErrUnterminatedQuote) {
			t.Errorf("Split(%q) error = %v, want ErrUnterminatedQuote", line, err)
		}
	}
}
