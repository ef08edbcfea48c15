package command

import (
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/cloudpocket/pocket-cli/internal/cli/output"
	"github.com/cloudpocket/pocket-cli/internal/core/domain"
)

// ShareCommand returns the share subcommand group.
func ShareCommand() *cli.Command {
	return &cli.Command{
		Name:    "share",
		Aliases: []string{"shares"},
		Usage:   "Share wallets and answer invitations",
		Subcommands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Invite a user to a wallet",
				ArgsUsage: "WALLET_ID",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Recipient email", Required: true},
					&cli.StringFlag{Name: "permission", Value: string(domain.PermissionRead), Usage: "read or write"},
				},
				Action: shareCreate,
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List wallets shared with you",
				Action:  shareList,
			},
			{
				Name:   "pending",
				Usage:  "List invitations awaiting your answer",
				Action: sharePending,
			},
			{
				Name:      "accept",
				Usage:     "Accept an invitation",
				ArgsUsage: "SHARE_ID",
				Action:    shareRespond(domain.ShareAccepted),
			},
			{
				Name:      "reject",
				Usage:     "Reject an invitation",
				ArgsUsage: "SHARE_ID",
				Action:    shareRespond(domain.ShareRejected),
			},
		},
	}
}

// shareTable renders shares with their parties by name.
type shareTable []domain.WalletShare

// Table implements output.Tabler.
func (l shareTable) Table(wide bool) *output.Table {
	t := &output.Table{Headers: []string{"ID", "WALLET", "OWNER", "SHARED_WITH", "PERMISSION", "STATUS"}}
	if wide {
		t.Headers = append(t.Headers, "CREATED_AT")
	}
	for _, s := range l {
		row := []string{
			strconv.FormatUint(uint64(s.ID), 10),
			orDash(s.Wallet.Name),
			orDash(s.Owner.Email),
			orDash(s.SharedWith.Email),
			string(s.Permission),
			string(s.Status),
		}
		if wide {
			created := "-"
			if !s.CreatedAt.IsZero() {
				created = s.CreatedAt.Local().Format("2006-01-02 15:04")
			}
			row = append(row, created)
		}
		t.AddRow(row...)
	}
	return t
}

func shareCreate(c *cli.Context) error {
	walletID, err := argID(c, 0, "WALLET_ID")
	if err != nil {
		return err
	}
	rt := runtimeFrom(c)
	if err := rt.RequireSession(c.Context); err != nil {
		return err
	}

	share, err := rt.Shares.Share(c.Context, walletID, c.String("email"), domain.Permission(c.String("permission")))
	if err != nil {
		return err
	}
	return printResult(c, shareTable{*share})
}

func listShares(c *cli.Context, pending bool) error {
	rt := runtimeFrom(c)
	if err := rt.RequireSession(c.Context); err != nil {
		return err
	}

	fetch := rt.Shares.Shared
	if pending {
		fetch = rt.Shares.Pending
	}
	shares, err := fetch(c.Context)
	if err != nil {
		return err
	}
	return printResult(c, shareTable(shares))
}

func shareList(c *cli.Context) error { return listShares(c, false) }

func sharePending(c *cli.Context) error { return listShares(c, true) }

func shareRespond(status domain.ShareStatus) cli.ActionFunc {
	return func(c *cli.Context) error {
		shareID, err := argID(c, 0, "SHARE_ID")
		if err != nil {
			return err
		}
		rt := runtimeFrom(c)
		if err := rt.RequireSession(c.Context); err != nil {
			return err
		}

		msg, err := rt.Shares.Respond(c.Context, shareID, status)
		if err != nil {
			return err
		}
		printMessage(c, "%s", msg)
		return nil
	}
}
