package command

import (
	"errors"

	"github.com/urfave/cli/v2"

	"github.com/cloudpocket/pocket-cli/internal/core/domain"
)

// AccountCommand returns the account subcommand group.
func AccountCommand() *cli.Command {
	return &cli.Command{
		Name:  "account",
		Usage: "Manage the logged-in account",
		Subcommands: []*cli.Command{
			{
				Name:  "password",
				Usage: "Change the password",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "old-password", Usage: "Current password (prompted when omitted)"},
					&cli.StringFlag{Name: "new-password", Usage: "New password (prompted when omitted)"},
				},
				Action: accountPassword,
			},
			{
				Name:  "email",
				Usage: "Change the email address",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "New email", Required: true},
				},
				Action: accountEmail,
			},
			{
				Name:  "delete",
				Usage: "Delete the account and log out",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Confirm deletion"},
				},
				Action: accountDelete,
			},
		},
	}
}

func accountPassword(c *cli.Context) error {
	rt := runtimeFrom(c)
	if err := rt.RequireSession(c.Context); err != nil {
		return err
	}

	oldPassword, err := secretValue(c, "old-password", "Current password")
	if err != nil {
		return err
	}
	newPassword, err := secretValue(c, "new-password", "New password")
	if err != nil {
		return err
	}

	// A wrong current password is answered with 401, which also ends the
	// session.
	msg, err := rt.Account.ChangePassword(c.Context, oldPassword, newPassword)
	if err != nil {
		return err
	}
	printMessage(c, "%s", msg)
	return nil
}

func accountEmail(c *cli.Context) error {
	rt := runtimeFrom(c)
	if err := rt.RequireSession(c.Context); err != nil {
		return err
	}

	u, err := rt.Account.ChangeEmail(c.Context, c.String("email"))
	if err != nil {
		return err
	}
	rt.Session.UpdateUser(domain.UserPatch{Email: &u.Email})
	return printResult(c, rt.Session.User())
}

func accountDelete(c *cli.Context) error {
	if !c.Bool("yes") {
		return errors.New("refusing to delete the account without --yes")
	}

	rt := runtimeFrom(c)
	if err := rt.RequireSession(c.Context); err != nil {
		return err
	}
	if err := rt.Account.Delete(c.Context); err != nil {
		return err
	}
	rt.Session.Logout(c.Context)
	printMessage(c, "Account deleted")
	return nil
}
