// Package confloader loads layered configuration with koanf.
//
// Priority (highest to lowest):
//
//  1. Values set by the caller with LoadMap after Load (command-line flags)
//  2. Environment variables
//  3. The configuration file
//  4. Defaults
//
// Environment variables use a prefix and a double underscore between
// nesting levels, so single underscores stay part of a key:
//
//	POCKET_SERVER                -> server
//	POCKET_LOGIN_PATH            -> login_path
//	POCKET_TOKEN_STORE__BACKEND  -> token_store.backend
//
// Watcher reports writes to a configuration file so a long-running shell
// can reload it.
package confloader
