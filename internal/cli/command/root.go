package command

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/cloudpocket/pocket-cli/internal/cli/connection"
	"github.com/cloudpocket/pocket-cli/internal/cli/output"
	"github.com/cloudpocket/pocket-cli/internal/core/domain"
	"github.com/cloudpocket/pocket-cli/internal/infra/buildinfo"
	"github.com/cloudpocket/pocket-cli/internal/telemetry/logger"
)

// metaRuntime is the App.Metadata key holding the *Runtime.
const metaRuntime = "runtime"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:     "pocket",
		Usage:    "CloudPocket command-line client",
		Version:  buildinfo.String(),
		Flags:    globalFlags(),
		Metadata: map[string]any{},
		Commands: []*cli.Command{
			LoginCommand(),
			RegisterCommand(),
			LogoutCommand(),
			WhoamiCommand(),
			StatusCommand(),
			AccountCommand(),
			WalletCommand(),
			TxCommand(),
			ShareCommand(),
			DashboardCommand(),
			ConfigCommand(),
			ShellCommand(),
			VersionCommand(),
			StatsCommand(),
		},
		Before:         before,
		After:          after,
		ExitErrHandler: reportError,
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "CloudPocket backend address (default http://localhost:8080)",
			EnvVars: []string{"POCKET_SERVER"},
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Configuration file (default ~/.pocket/config.yaml)",
			EnvVars: []string{"POCKET_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable debug logging",
		},
		&cli.BoolFlag{
			Name:  "ephemeral",
			Usage: "Keep the session token in memory only",
		},
	}
}

// overrides maps the global flags that were set onto config keys.
func overrides(c *cli.Context) map[string]any {
	m := map[string]any{}
	if c.IsSet("server") {
		m["server"] = c.String("server")
	}
	if c.IsSet("output") {
		m["output"] = c.String("output")
	}
	if c.Bool("verbose") {
		m["log.level"] = "debug"
	}
	if c.Bool("ephemeral") {
		m["token_store.backend"] = "memory"
	}
	return m
}

func before(c *cli.Context) error {
	if path := commandPath(c); path != "" {
		c.Context = logger.WithCommand(c.Context, path)
	}
	if runtimeFrom(c) != nil {
		return nil
	}
	rt, err := newRuntime(runtimeOptions{
		ConfigPath: c.String("config"),
		Overrides:  overrides(c),
		Out:        c.App.Writer,
		ErrOut:     c.App.ErrWriter,
	})
	if err != nil {
		return err
	}
	c.App.Metadata[metaRuntime] = rt
	return nil
}

func after(c *cli.Context) error {
	rt := runtimeFrom(c)
	if rt == nil || rt.shared {
		return nil
	}
	delete(c.App.Metadata, metaRuntime)
	return rt.Close()
}

// commandPath names the command a line invokes, e.g. "wallet list".
func commandPath(c *cli.Context) string {
	args := c.Args().Slice()
	if len(args) == 0 {
		return ""
	}
	cmd := c.App.Command(args[0])
	if cmd == nil {
		return ""
	}
	if len(args) > 1 {
		for _, sub := range cmd.Subcommands {
			if sub.HasName(args[1]) {
				return cmd.Name + " " + sub.Name
			}
		}
	}
	return cmd.Name
}

// reportError prints the error code or the request line of a failed
// backend call under --verbose. The message itself is printed by the caller.
func reportError(c *cli.Context, err error) {
	if err == nil || !c.Bool("verbose") {
		return
	}
	if code := domain.GetErrorCode(err); code != "" {
		fmt.Fprintf(c.App.ErrWriter, "code: %s\n", code)
	}
	var re *connection.RequestError
	if errors.As(err, &re) {
		fmt.Fprintf(c.App.ErrWriter, "detail: %s\n", re.Detail())
	}
}

// runtimeFrom retrieves the runtime from context.
func runtimeFrom(c *cli.Context) *Runtime {
	if rt, ok := c.App.Metadata[metaRuntime].(*Runtime); ok {
		return rt
	}
	return nil
}

// printResult writes data in the format chosen by --output, falling back
// to the configured default.
func printResult(c *cli.Context, data any) error {
	rt := runtimeFrom(c)
	format := rt.Config().Output
	if c.IsSet("output") {
		format = c.String("output")
	}
	f, err := output.ParseFormat(format)
	if err != nil {
		return err
	}
	return rt.Print(f, c.Bool("wide"), data)
}

// outputFormat returns the effective output format.
func outputFormat(c *cli.Context) output.Format {
	format := runtimeFrom(c).Config().Output
	if c.IsSet("output") {
		format = c.String("output")
	}
	f, _ := output.ParseFormat(format)
	return f
}

// printMessage writes a plain status line.
func printMessage(c *cli.Context, format string, args ...any) {
	fmt.Fprintf(c.App.Writer, format+"\n", args...)
}

// argID parses the positional argument at index as an ID.
func argID(c *cli.Context, index int, name string) (uint, error) {
	raw := c.Args().Get(index)
	if raw == "" {
		return 0, fmt.Errorf("missing %s", name)
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return uint(id), nil
}

// stringValue returns the flag value, prompting for it on the terminal
// when empty. The shell never prompts since it owns the input stream.
func stringValue(c *cli.Context, flag, label string) (string, error) {
	return promptValue(c, flag, label, false)
}

// secretValue is stringValue for passwords: an interactive terminal reads
// the answer with echo disabled.
func secretValue(c *cli.Context, flag, label string) (string, error) {
	return promptValue(c, flag, label, true)
}

// terminalFd reports the descriptor of r when r is an interactive terminal.
var terminalFd = func(r io.Reader) (int, bool) {
	f, ok := r.(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(f.Fd())
	return fd, term.IsTerminal(fd)
}

// readPassword reads one line from the terminal without echo.
var readPassword = term.ReadPassword

func promptValue(c *cli.Context, flag, label string, secret bool) (string, error) {
	if v := c.String(flag); v != "" {
		return v, nil
	}
	rt := runtimeFrom(c)
	if rt.inShell {
		return "", fmt.Errorf("--%s is required", flag)
	}

	fmt.Fprintf(c.App.ErrWriter, "%s: ", label)
	if fd, ok := terminalFd(c.App.Reader); secret && ok {
		b, err := readPassword(fd)
		fmt.Fprintln(c.App.ErrWriter)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", flag, err)
		}
		if len(b) == 0 {
			return "", fmt.Errorf("--%s is required", flag)
		}
		return string(b), nil
	}

	if rt.in == nil {
		rt.in = bufio.NewReader(c.App.Reader)
	}
	line, err := rt.in.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if line == "" && err != nil {
		return "", fmt.Errorf("--%s is required", flag)
	}
	return line, nil
}
