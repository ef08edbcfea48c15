package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cloudpocket/pocket-cli/internal/infra/confloader"
)

// EnvPrefix marks the environment variables read by Load.
const EnvPrefix = "POCKET_"

// Load reads defaults, the file at path and POCKET_ variables, then
// applies flags (dotted keys; empty values are ignored). A missing file is
// not an error.
func Load(path string, flags map[string]any) (*CLIConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	l := confloader.NewLoader(
		confloader.WithEnvPrefix(EnvPrefix),
		confloader.WithConfigFile(path),
		confloader.WithOptionalFile(),
		confloader.WithDefaults(defaultsMap()),
	)

	var cfg CLIConfig
	if err := l.Load(&cfg); err != nil {
		return nil, err
	}
	if len(flags) > 0 {
		if err := l.LoadMap(flags); err != nil {
			return nil, err
		}
		if err := l.Unmarshal(&cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes cfg as YAML, readable only by the owner.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// ReadFile decodes only the file at path, without defaults or
// environment, so that Save writes back what the user wrote. A missing
// file yields Default.
func ReadFile(path string) (*CLIConfig, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

type setter func(c *CLIConfig, v string) error

func setString(field func(*CLIConfig) *string) setter {
	return func(c *CLIConfig, v string) error {
		*field(c) = v
		return nil
	}
}

var setters = map[string]setter{
	"server":                 setString(func(c *CLIConfig) *string { return &c.Server }),
	"output":                 setString(func(c *CLIConfig) *string { return &c.Output }),
	"login_path":             setString(func(c *CLIConfig) *string { return &c.LoginPath }),
	"token_store.backend":    setString(func(c *CLIConfig) *string { return &c.TokenStore.Backend }),
	"token_store.dir":        setString(func(c *CLIConfig) *string { return &c.TokenStore.Dir }),
	"token_store.redis_addr": setString(func(c *CLIConfig) *string { return &c.TokenStore.RedisAddr }),
	"token_store.passphrase": setString(func(c *CLIConfig) *string { return &c.TokenStore.Passphrase }),
	"log.level":              setString(func(c *CLIConfig) *string { return &c.Log.Level }),
	"log.format":             setString(func(c *CLIConfig) *string { return &c.Log.Format }),
	"tls.ca_file":            setString(func(c *CLIConfig) *string { return &c.TLS.CAFile }),
	"tls.cert_file":          setString(func(c *CLIConfig) *string { return &c.TLS.CertFile }),
	"tls.key_file":           setString(func(c *CLIConfig) *string { return &c.TLS.KeyFile }),
	"tls.server_name":        setString(func(c *CLIConfig) *string { return &c.TLS.ServerName }),
	"token_store.redis_db": func(c *CLIConfig, v string) error {
		n, err := strconv.Atoi(v)
		c.TokenStore.RedisDB = n
		return err
	},
	"token_store.redis_ttl": func(c *CLIConfig, v string) error {
		d, err := time.ParseDuration(v)
		c.TokenStore.RedisTTL = d
		return err
	},
	"rate_limit.rps": func(c *CLIConfig, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		c.RateLimit.RPS = f
		return err
	},
	"rate_limit.burst": func(c *CLIConfig, v string) error {
		n, err := strconv.Atoi(v)
		c.RateLimit.Burst = n
		return err
	},
	"tls.insecure_skip_verify": func(c *CLIConfig, v string) error {
		b, err := strconv.ParseBool(v)
		c.TLS.InsecureSkipVerify = b
		return err
	},
}

// Keys lists the keys accepted by Set.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set assigns one dotted key from its string form and validates the
// result.
func (c *CLIConfig) Set(key, value string) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown config key %q", key)
	}
	if err := set(c, value); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return c.Validate()
}
