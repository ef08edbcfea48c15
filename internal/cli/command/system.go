package command

import (
	"github.com/urfave/cli/v2"

	"github.com/cloudpocket/pocket-cli/internal/infra/buildinfo"
)

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:   "version",
		Usage:  "Show build information",
		Action: version,
	}
}

// StatsCommand returns the stats command.
func StatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show client metrics in Prometheus text format",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "prefix", Value: "pocket_", Usage: "Only families whose name starts with prefix"},
		},
		Action: stats,
	}
}

func version(c *cli.Context) error {
	return printResult(c, buildinfo.Get())
}

func stats(c *cli.Context) error {
	rt := runtimeFrom(c)
	if err := rt.Restore(c.Context); err != nil {
		return err
	}
	return rt.Metrics.WriteText(c.App.Writer, c.String("prefix"))
}
