package command

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/cloudpocket/pocket-cli/internal/cli/repl"
	"github.com/cloudpocket/pocket-cli/internal/core/service"
	"github.com/cloudpocket/pocket-cli/internal/telemetry/logger"
)

// ShellCommand returns the shell command.
func ShellCommand() *cli.Command {
	return &cli.Command{
		Name:    "shell",
		Aliases: []string{"repl"},
		Usage:   "Start an interactive shell",
		Action:  shell,
	}
}

func shell(c *cli.Context) error {
	rt := runtimeFrom(c)
	if rt.inShell {
		return errors.New("already in the shell")
	}
	if err := rt.Restore(c.Context); err != nil {
		return err
	}

	shared := rt.shared
	rt.shared, rt.inShell = true, true
	defer func() { rt.shared, rt.inShell = shared, false }()

	app := c.App
	exec := func(ctx context.Context, args []string) error {
		return app.RunContext(ctx, append([]string{app.Name}, args...))
	}

	var r *repl.REPL
	r = repl.New(exec,
		repl.WithIO(app.Reader, app.Writer),
		repl.WithPrompt(func() string { return prompt(rt.Session) }),
		repl.WithCompleter(repl.NewCompleter(commandPaths(app.Commands)...)),
		repl.WithHistory(repl.NewHistory(filepath.Join(filepath.Dir(rt.ConfigPath()), "history"), 0)),
		repl.WithLogger(logger.Slog(rt.Logger)),
		repl.WithConfigReload(rt.ConfigPath(), func() {
			if err := rt.Reload(); err != nil {
				r.Notify("config reload failed: " + err.Error())
			}
		}),
	)

	restore := rt.setNotifier(r.Notify)
	defer restore()

	return r.Run(c.Context)
}

// prompt shows the logged-in user.
func prompt(s *service.SessionStore) string {
	if u := s.User(); u != nil && s.State() == service.StateAuthenticated {
		return "pocket(" + u.Email + ")> "
	}
	return "pocket> "
}

// commandPaths lists every command as typed in the shell, subcommands
// joined to their parent by a space.
func commandPaths(cmds []*cli.Command) []string {
	paths := []string{"exit", "quit", "history"}
	for _, cmd := range cmds {
		if cmd.Hidden {
			continue
		}
		if len(cmd.Subcommands) == 0 {
			paths = append(paths, cmd.Name)
			continue
		}
		for _, sub := range cmd.Subcommands {
			if !sub.Hidden {
				paths = append(paths, cmd.Name+" "+sub.Name)
			}
		}
	}
	return paths
}
