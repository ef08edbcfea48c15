// Package command provides the pocket CLI commands.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - root.go: App, global flags, Before/After lifecycle
//   - runtime.go: Runtime, the per-process context object
//   - auth.go: login, register, logout, whoami, status
//   - account.go: account subcommand group
//   - wallet.go: wallet subcommand group
//   - tx.go: tx subcommand group
//   - share.go: share subcommand group
//   - dashboard.go: dashboard overview
//   - config.go: config subcommand group
//   - shell.go: interactive shell
//   - system.go: version and stats
//
// Commands follow a consistent pattern of parsing flags, calling the
// appropriate service and formatting output.
package command
