package repl

import (
	"sort"
	"strings"
)

// Completer suggests command paths for a typed prefix.
type Completer struct {
	commands []string
}

// NewCompleter creates a completer over command paths such as
// "wallet list".
func NewCompleter(commands ...string) *Completer {
	c := &Completer{commands: append([]string(nil), commands...)}
	sort.Strings(c.commands)
	return c
}

// Complete returns the paths starting with prefix. Whitespace in prefix
// is normalised so "wallet   l" matches "wallet list".
func (c *Completer) Complete(prefix string) []string {
	prefix = strings.Join(strings.Fields(prefix), " ") + trailingSpace(prefix)

	var out []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			out = append(out, cmd)
		}
	}
	return out
}

func trailingSpace(s string) string {
	if strings.TrimSpace(s) != "" && strings.HasSuffix(s, " ") {
		return " "
	}
	return ""
}
