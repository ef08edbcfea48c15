package command

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/cloudpocket/pocket-cli/internal/cli/config"
	"github.com/cloudpocket/pocket-cli/internal/cli/output"
	"github.com/cloudpocket/pocket-cli/internal/telemetry/logger"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration management",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration",
				Action: configShow,
			},
			{
				Name:      "set",
				Usage:     "Set a key in the configuration file",
				ArgsUsage: "KEY VALUE",
				Action:    configSet,
			},
			{
				Name:   "path",
				Usage:  "Print the configuration file path",
				Action: configPath,
			},
			{
				Name:   "keys",
				Usage:  "List the keys accepted by set",
				Action: configKeys,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	cfg := *runtimeFrom(c).Config()
	if cfg.TokenStore.Passphrase != "" {
		cfg.TokenStore.Passphrase = "***"
	}

	if outputFormat(c) == output.FormatJSON {
		return runtimeFrom(c).Print(output.FormatJSON, false, cfg)
	}

	// Nested settings read better as YAML than as a flat table.
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	_, err = c.App.Writer.Write(data)
	return err
}

func configSet(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.ShowSubcommandHelp(c)
	}
	key, value := c.Args().Get(0), c.Args().Get(1)

	path := runtimeFrom(c).ConfigPath()
	cfg, err := config.ReadFile(path)
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := config.Save(cfg, path); err != nil {
		return err
	}

	if logger.IsSensitiveKey(key[strings.LastIndex(key, ".")+1:]) {
		value = "***"
	}
	printMessage(c, "%s = %s (%s)", key, value, path)
	return nil
}

func configPath(c *cli.Context) error {
	printMessage(c, "%s", runtimeFrom(c).ConfigPath())
	return nil
}

func configKeys(c *cli.Context) error {
	printMessage(c, "%s", strings.Join(config.Keys(), "\n"))
	return nil
}
