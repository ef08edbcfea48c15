package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cloudpocket/pocket-cli/internal/infra/tlsroots"
)

// Output formats.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// DefaultServer is the backend address used when none is configured.
const DefaultServer = "http://localhost:8080"

// CLIConfig is the configuration for the pocket CLI.
type CLIConfig struct {
	Server     string           `koanf:"server" yaml:"server" json:"server"`
	Output     string           `koanf:"output" yaml:"output" json:"output"`
	LoginPath  string           `koanf:"login_path" yaml:"login_path" json:"login_path"`
	TokenStore TokenStoreConfig `koanf:"token_store" yaml:"token_store" json:"token_store"`
	Log        LogConfig        `koanf:"log" yaml:"log" json:"log"`
	RateLimit  RateLimitConfig  `koanf:"rate_limit" yaml:"rate_limit" json:"rate_limit"`
	TLS        tlsroots.Config  `koanf:"tls" yaml:"tls,omitempty" json:"tls,omitzero"`
}

// TokenStoreConfig selects where the session token is kept.
type TokenStoreConfig struct {
	Backend    string        `koanf:"backend" yaml:"backend" json:"backend"` // memory, badger, redis
	Dir        string        `koanf:"dir" yaml:"dir,omitempty" json:"dir,omitempty"`
	RedisAddr  string        `koanf:"redis_addr" yaml:"redis_addr,omitempty" json:"redis_addr,omitempty"`
	RedisDB    int           `koanf:"redis_db" yaml:"redis_db,omitempty" json:"redis_db,omitempty"`
	RedisTTL   time.Duration `koanf:"redis_ttl" yaml:"redis_ttl,omitempty" json:"redis_ttl,omitempty"`
	Passphrase string        `koanf:"passphrase" yaml:"passphrase,omitempty" json:"passphrase,omitempty"`
}

// LogConfig configures diagnostics on stderr.
type LogConfig struct {
	Level  string `koanf:"level" yaml:"level" json:"level"`
	Format string `koanf:"format" yaml:"format" json:"format"`
}

// RateLimitConfig caps outgoing requests. Zero RPS disables the limit.
type RateLimitConfig struct {
	RPS   float64 `koanf:"rps" yaml:"rps" json:"rps"`
	Burst int     `koanf:"burst" yaml:"burst" json:"burst"`
}

// Default returns the default configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Server:    DefaultServer,
		Output:    OutputTable,
		LoginPath: "/auth/login",
		TokenStore: TokenStoreConfig{
			Backend: "badger",
			Dir:     filepath.Join(DefaultDir(), "credentials"),
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		RateLimit: RateLimitConfig{
			RPS:   10,
			Burst: 20,
		},
	}
}

// defaultsMap flattens Default for the loader.
func defaultsMap() map[string]any {
	d := Default()
	return map[string]any{
		"server":              d.Server,
		"output":              d.Output,
		"login_path":          d.LoginPath,
		"token_store.backend": d.TokenStore.Backend,
		"token_store.dir":     d.TokenStore.Dir,
		"log.level":           d.Log.Level,
		"log.format":          d.Log.Format,
		"rate_limit.rps":      d.RateLimit.RPS,
		"rate_limit.burst":    d.RateLimit.Burst,
	}
}

// Validate checks enumerated fields.
func (c *CLIConfig) Validate() error {
	switch c.Output {
	case OutputTable, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("invalid output format %q (want table, json or yaml)", c.Output)
	}
	switch c.TokenStore.Backend {
	case "memory", "badger", "redis":
	default:
		return fmt.Errorf("invalid token_store.backend %q (want memory, badger or redis)", c.TokenStore.Backend)
	}
	if c.TokenStore.Backend == "redis" && c.TokenStore.RedisAddr == "" {
		return fmt.Errorf("token_store.redis_addr is required for the redis backend")
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("rate_limit values must not be negative")
	}
	return nil
}

// DefaultDir returns ~/.pocket, or .pocket when the home directory is
// unknown.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pocket"
	}
	return filepath.Join(home, ".pocket")
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}
