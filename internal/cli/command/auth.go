package command

import (
	"errors"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/cloudpocket/pocket-cli/internal/storage"
	"github.com/cloudpocket/pocket-cli/pkg/token"
)

// LoginCommand returns the login command.
func LoginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Sign in and store the session token",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email"},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Account password (prompted when omitted)", EnvVars: []string{"POCKET_PASSWORD"}},
		},
		Action: login,
	}
}

// RegisterCommand returns the register command.
func RegisterCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "Create an account and sign in",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Display name"},
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email"},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Account password (prompted when omitted)"},
		},
		Action: register,
	}
}

// LogoutCommand returns the logout command.
func LogoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Forget the stored session token",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "all", Usage: "Forget the tokens of every server in the store"},
		},
		Action: logout,
	}
}

// WhoamiCommand returns the whoami command.
func WhoamiCommand() *cli.Command {
	return &cli.Command{
		Name:   "whoami",
		Usage:  "Show the logged-in user",
		Action: whoami,
	}
}

// StatusCommand returns the status command.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show session state and token expiry",
		Action: status,
	}
}

func login(c *cli.Context) error {
	rt := runtimeFrom(c)
	if err := rt.Connect(c.Context); err != nil {
		return err
	}

	email, err := stringValue(c, "email", "Email")
	if err != nil {
		return err
	}
	password, err := secretValue(c, "password", "Password")
	if err != nil {
		return err
	}

	if err := rt.Session.Login(c.Context, email, password); err != nil {
		return err
	}
	u := rt.Session.User()
	printMessage(c, "Logged in as %s <%s>", u.Name, u.Email)
	return nil
}

func register(c *cli.Context) error {
	rt := runtimeFrom(c)
	if err := rt.Connect(c.Context); err != nil {
		return err
	}

	name, err := stringValue(c, "name", "Name")
	if err != nil {
		return err
	}
	email, err := stringValue(c, "email", "Email")
	if err != nil {
		return err
	}
	password, err := secretValue(c, "password", "Password")
	if err != nil {
		return err
	}

	if err := rt.Session.Register(c.Context, name, email, password); err != nil {
		return err
	}
	u := rt.Session.User()
	printMessage(c, "Registered and logged in as %s <%s>", u.Name, u.Email)
	return nil
}

func logout(c *cli.Context) error {
	rt := runtimeFrom(c)
	if err := rt.Restore(c.Context); err != nil {
		return err
	}

	if c.Bool("all") {
		origins, err := storage.ClearAll(c.Context, rt.Tokens.Engine())
		if err != nil {
			return err
		}
		rt.Session.Logout(c.Context)
		printMessage(c, "Logged out of %d server(s)", len(origins))
		return nil
	}

	rt.Session.Logout(c.Context)
	printMessage(c, "Logged out")
	return nil
}

func whoami(c *cli.Context) error {
	rt := runtimeFrom(c)
	if err := rt.RequireSession(c.Context); err != nil {
		return err
	}
	return printResult(c, rt.Session.User())
}

// statusView is the result of the status command.
type statusView struct {
	Server    string    `json:"server"`
	State     string    `json:"state"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Token     string    `json:"token,omitempty"`
	Algorithm string    `json:"algorithm,omitempty"`
	ExpiresAt time.Time `json:"expiresAt,omitzero"`
	Remaining string    `json:"remaining,omitempty"`
}

func status(c *cli.Context) error {
	rt := runtimeFrom(c)
	if err := rt.Restore(c.Context); err != nil {
		return err
	}

	view := statusView{
		Server: rt.Gateway.BaseURL(),
		State:  rt.Session.State().String(),
	}
	if u := rt.Session.User(); u != nil {
		view.Name = u.Name
		view.Email = u.Email
	}

	raw, err := rt.Tokens.Get(c.Context)
	if err != nil {
		return err
	}
	if raw != "" {
		view.Token = token.Fingerprint(raw)
		info, err := token.Inspect(raw)
		switch {
		case errors.Is(err, token.ErrNotJWT):
			rt.Logger.Debug("stored token is opaque", "fingerprint", view.Token)
		case err != nil:
			return err
		default:
			view.Algorithm = info.Algorithm
			if info.HasExpiry() {
				now := time.Now()
				view.ExpiresAt = info.ExpiresAt
				view.Remaining = info.Remaining(now).Truncate(time.Second).String()
			}
		}
	}

	return printResult(c, view)
}
