// Package main provides the entry point for pocket.
//
// pocket is the command-line client for the CloudPocket finance backend:
//
//   - Sign in, register and manage the account
//   - Wallets, transactions and the dashboard overview
//   - Wallet sharing and invitations
//   - Local configuration
//
// Usage:
//
//	pocket login --email ann@example.com
//	pocket wallet list -o json
//	pocket shell
//
// The CLI supports both single-command mode and interactive shell mode.
package main
