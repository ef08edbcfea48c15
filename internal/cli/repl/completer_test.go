package repl

import (
	"reflect"
	"testing"
)

func TestCompleter_Complete(t *testing.T) {
	c := NewCompleter("wallet list", "wallet create", "whoami", "tx list", "tx add")

	tests := []struct {
		prefix string
		want   []string
	}{
		{"w", []string{"wallet create", "wallet list", "whoami"}},
		{"wallet ", []string{"wallet create", "wallet list"}},
		{"wallet   l", []string{"wallet list"}},
		{"tx", []string{"tx add", "tx list"}},
		{"share", nil},
		{"", []string{"tx add", "tx list", "wallet create", "wallet list", "whoami"}},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			if got := c.Complete(tt.prefix); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Complete(%q) = %q, want %q", tt.prefix, got, tt.want)
			}
		})
	}
}
