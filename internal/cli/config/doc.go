// Package config defines the pocket CLI configuration.
//
//   - spec.go: CLIConfig and its defaults (~/.pocket/config.yaml)
//   - loader.go: layered loading, saving and single-key edits
package config
