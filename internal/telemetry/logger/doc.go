// Package logger provides structured logging for the pocket client.
//
// It wraps log/slog behind a small Logger interface:
//
//   - logger.go: handler construction and dynamic level
//   - context.go: request ID and command carried by the context onto
//     every record
//   - redact.go: masking of credentials before they reach the output
//
// The CLI logs to stderr at warn by default so that stdout stays clean for
// command output; --verbose lowers the level to debug.
package logger
