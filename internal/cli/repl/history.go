package repl

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultHistorySize caps the number of remembered lines.
const DefaultHistorySize = 1000

// History keeps recent lines, most recent last.
type History struct {
	mu      sync.Mutex
	entries []string
	maxSize int
	file    string
	skip    func(string) bool
}

// NewHistory creates a history backed by file. An empty file keeps it in
// memory only.
func NewHistory(file string, maxSize int) *History {
	if maxSize <= 0 {
		maxSize = DefaultHistorySize
	}
	return &History{
		maxSize: maxSize,
		file:    file,
		skip:    isSecretLine,
	}
}

// Add records a line. Repeats of the last line and lines carrying
// secrets are not recorded.
func (h *History) Add(line string) {
	if line == "" || h.skip(line) {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1] == line {
		return
	}
	h.entries = append(h.entries, line)
	if len(h.entries) > h.maxSize {
		h.entries = h.entries[len(h.entries)-h.maxSize:]
	}
}

// Get returns the entry at index, 0 being the most recent.
func (h *History) Get(index int) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if index < 0 || index >= len(h.entries) {
		return ""
	}
	return h.entries[len(h.entries)-1-index]
}

// Entries returns a copy, oldest first.
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.entries...)
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Load appends the lines stored in the history file.
func (h *History) Load() error {
	if h.file == "" {
		return nil
	}
	file, err := os.Open(h.file)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		h.Add(scanner.Text())
	}
	return scanner.Err()
}

// Save writes the entries to the history file, readable only by the owner.
func (h *History) Save() error {
	if h.file == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(h.file), 0700); err != nil {
		return err
	}

	var b strings.Builder
	for _, entry := range h.Entries() {
		b.WriteString(entry)
		b.WriteByte('\n')
	}
	return os.WriteFile(h.file, []byte(b.String()), 0600)
}

// isSecretLine reports lines that pass a password or token on the
// command line.
func isSecretLine(line string) bool {
	for _, field := range strings.Fields(strings.ToLower(line)) {
		field = strings.Trim(field, `"'`)
		if strings.Contains(field, "passphrase") {
			return true
		}
		name, _, _ := strings.Cut(field, "=")
		switch name {
		case "-p", "--password", "--old-password", "--new-password", "--token":
			return true
		}
	}
	return false
}
