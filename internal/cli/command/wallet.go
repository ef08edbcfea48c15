package command

import (
	"errors"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/cloudpocket/pocket-cli/internal/cli/output"
	"github.com/cloudpocket/pocket-cli/internal/core/domain"
)

// errNothingToUpdate is returned by update commands without any field flag.
var errNothingToUpdate = errors.New("nothing to update; pass at least one field flag")

// WalletCommand returns the wallet subcommand group.
func WalletCommand() *cli.Command {
	return &cli.Command{
		Name:    "wallet",
		Aliases: []string{"wallets"},
		Usage:   "Manage wallets",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List own wallets",
				Action:  walletList,
			},
			{
				Name:      "show",
				Usage:     "Show a wallet with its balance and transactions",
				ArgsUsage: "WALLET_ID",
				Action:    walletShow,
			},
			{
				Name:   "create",
				Usage:  "Create a wallet",
				Flags:  walletFlags(true),
				Action: walletCreate,
			},
			{
				Name:      "update",
				Usage:     "Update a wallet",
				ArgsUsage: "WALLET_ID",
				Flags:     walletFlags(false),
				Action:    walletUpdate,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a wallet",
				ArgsUsage: "WALLET_ID",
				Action:    walletDelete,
			},
		},
	}
}

func walletFlags(create bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Wallet name", Required: create},
		&cli.StringFlag{Name: "code", Usage: "Wallet code (generated when omitted)"},
		&cli.StringFlag{Name: "target", Usage: "What the wallet saves for"},
		&cli.Float64Flag{Name: "goal", Aliases: []string{"g"}, Usage: "Savings goal amount"},
	}
}

func walletList(c *cli.Context) error {
	rt := runtimeFrom(c)
	if err := rt.RequireSession(c.Context); err != nil {
		return err
	}

	wallets, err := rt.Wallets.List(c.Context)
	if err != nil {
		return err
	}
	return printResult(c, wallets)
}

// walletDetail is the result of wallet show.
type walletDetail struct {
	Wallet       domain.Wallet        `json:"wallet"`
	Summary      domain.Summary       `json:"summary"`
	Transactions []domain.Transaction `json:"transactions"`
}

// Table renders the wallet and its summary as FIELD/VALUE rows.
func (d walletDetail) Table(bool) *output.Table {
	money := func(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) }
	t := &output.Table{Headers: []string{"FIELD", "VALUE"}}
	t.AddRow("ID", strconv.FormatUint(uint64(d.Wallet.ID), 10))
	t.AddRow("NAME", d.Wallet.Name)
	t.AddRow("CODE", d.Wallet.Code)
	t.AddRow("TARGET", orDash(d.Wallet.Target))
	t.AddRow("GOAL", money(d.Summary.Goal))
	t.AddRow("INCOME", money(d.Summary.Income))
	t.AddRow("EXPENSE", money(d.Summary.Expense))
	t.AddRow("BALANCE", money(d.Summary.Balance))
	t.AddRow("PROGRESS", strconv.FormatFloat(d.Summary.Progress, 'f', 1, 64)+"%")
	t.AddRow("TRANSACTIONS", strconv.Itoa(d.Summary.Count))
	return t
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func walletShow(c *cli.Context) error {
	id, err := argID(c, 0, "WALLET_ID")
	if err != nil {
		return err
	}
	rt := runtimeFrom(c)
	if err := rt.RequireSession(c.Context); err != nil {
		return err
	}

	w, err := rt.Wallets.Get(c.Context, id)
	if err != nil {
		return err
	}
	summary, txs, err := rt.Wallets.Summary(c.Context, id, w.Goal)
	if err != nil {
		return err
	}
	return printResult(c, walletDetail{Wallet: *w, Summary: summary, Transactions: txs})
}

func walletCreate(c *cli.Context) error {
	rt := runtimeFrom(c)
	if err := rt.RequireSession(c.Context); err != nil {
		return err
	}

	w, err := rt.Wallets.Create(c.Context, domain.WalletInput{
		Name:   c.String("name"),
		Code:   c.String("code"),
		Target: c.String("target"),
		Goal:   c.Float64("goal"),
	})
	if err != nil {
		return err
	}
	return printResult(c, w)
}

func walletUpdate(c *cli.Context) error {
	id, err := argID(c, 0, "WALLET_ID")
	if err != nil {
		return err
	}

	var patch domain.WalletPatch
	if c.IsSet("name") {
		v := c.String("name")
		patch.Name = &v
	}
	if c.IsSet("code") {
		v := c.String("code")
		patch.Code = &v
	}
	if c.IsSet("target") {
		v := c.String("target")
		patch.Target = &v
	}
	if c.IsSet("goal") {
		v := c.Float64("goal")
		patch.Goal = &v
	}
	if patch.IsEmpty() {
		return errNothingToUpdate
	}

	rt := runtimeFrom(c)
	if err := rt.RequireSession(c.Context); err != nil {
		return err
	}
	w, err := rt.Wallets.Update(c.Context, id, patch)
	if err != nil {
		return err
	}
	return printResult(c, w)
}

func walletDelete(c *cli.Context) error {
	id, err := argID(c, 0, "WALLET_ID")
	if err != nil {
		return err
	}
	rt := runtimeFrom(c)
	if err := rt.RequireSession(c.Context); err != nil {
		return err
	}
	if err := rt.Wallets.Delete(c.Context, id); err != nil {
		return err
	}
	printMessage(c, "Wallet %d deleted", id)
	return nil
}
