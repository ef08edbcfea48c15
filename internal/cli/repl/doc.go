// Package repl implements the interactive pocket shell.
//
//   - repl.go: read loop, dispatch and asynchronous notices
//   - split.go: shell-like word splitting with quotes and escapes
//   - completer.go: prefix completion over command paths
//   - history.go: capped history persisted to ~/.pocket/history
//
// A line ending in "?" lists completions for what precedes it instead of
// running it.
package repl
