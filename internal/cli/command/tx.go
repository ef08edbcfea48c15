package command

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/cloudpocket/pocket-cli/internal/core/domain"
)

// TxCommand returns the tx subcommand group.
func TxCommand() *cli.Command {
	return &cli.Command{
		Name:    "tx",
		Aliases: []string{"transaction", "transactions"},
		Usage:   "Manage wallet transactions",
		Subcommands: []*cli.Command{
			{
				Name:      "list",
				Aliases:   []string{"ls"},
				Usage:     "List a wallet's transactions",
				ArgsUsage: "WALLET_ID",
				Action:    txList,
			},
			{
				Name:      "add",
				Usage:     "Record a transaction",
				ArgsUsage: "WALLET_ID",
				Flags:     txFlags(true),
				Action:    txAdd,
			},
			{
				Name:      "update",
				Usage:     "Update a transaction",
				ArgsUsage: "WALLET_ID TX_ID",
				Flags:     txFlags(false),
				Action:    txUpdate,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a transaction",
				ArgsUsage: "WALLET_ID TX_ID",
				Action:    txDelete,
			},
		},
	}
}

func txFlags(create bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Title", Required: create},
		&cli.StringFlag{Name: "type", Usage: "income or expense", Required: create},
		&cli.Float64Flag{Name: "amount", Aliases: []string{"a"}, Usage: "Positive amount", Required: create},
		&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "Date as YYYY-MM-DD (default today)"},
		&cli.StringFlag{Name: "category", Usage: "Category"},
		&cli.StringFlag{Name: "desc", Usage: "Free-text description"},
	}
}

func txList(c *cli.Context) error {
	walletID, err := argID(c, 0, "WALLET_ID")
	if err != nil {
		return err
	}
	rt := runtimeFrom(c)
	if err := rt.RequireSession(c.Context); err != nil {
		return err
	}

	txs, err := rt.Transactions.List(c.Context, walletID)
	if err != nil {
		return err
	}
	return printResult(c, txs)
}

func txAdd(c *cli.Context) error {
	walletID, err := argID(c, 0, "WALLET_ID")
	if err != nil {
		return err
	}

	date := c.String("date")
	if date == "" {
		date = time.Now().Format(domain.DateLayout)
	}
	in := domain.TransactionInput{
		Title:    c.String("title"),
		Type:     domain.TransactionType(c.String("type")),
		Amount:   c.Float64("amount"),
		Date:     date,
		Category: c.String("category"),
		Desc:     c.String("desc"),
	}

	rt := runtimeFrom(c)
	if err := rt.RequireSession(c.Context); err != nil {
		return err
	}
	tx, err := rt.Transactions.Create(c.Context, walletID, in)
	if err != nil {
		return err
	}
	return printResult(c, tx)
}

func txUpdate(c *cli.Context) error {
	walletID, err := argID(c, 0, "WALLET_ID")
	if err != nil {
		return err
	}
	txID, err := argID(c, 1, "TX_ID")
	if err != nil {
		return err
	}

	var patch domain.TransactionPatch
	if c.IsSet("title") {
		v := c.String("title")
		patch.Title = &v
	}
	if c.IsSet("type") {
		v := domain.TransactionType(c.String("type"))
		patch.Type = &v
	}
	if c.IsSet("amount") {
		v := c.Float64("amount")
		patch.Amount = &v
	}
	if c.IsSet("date") {
		v := c.String("date")
		patch.Date = &v
	}
	if c.IsSet("category") {
		v := c.String("category")
		patch.Category = &v
	}
	if c.IsSet("desc") {
		v := c.String("desc")
		patch.Desc = &v
	}
	if patch == (domain.TransactionPatch{}) {
		return errNothingToUpdate
	}

	rt := runtimeFrom(c)
	if err := rt.RequireSession(c.Context); err != nil {
		return err
	}
	tx, err := rt.Transactions.Update(c.Context, walletID, txID, patch)
	if err != nil {
		return err
	}
	return printResult(c, tx)
}

func txDelete(c *cli.Context) error {
	walletID, err := argID(c, 0, "WALLET_ID")
	if err != nil {
		return err
	}
	txID, err := argID(c, 1, "TX_ID")
	if err != nil {
		return err
	}
	rt := runtimeFrom(c)
	if err := rt.RequireSession(c.Context); err != nil {
		return err
	}
	if err := rt.Transactions.Delete(c.Context, walletID, txID); err != nil {
		return err
	}
	printMessage(c, "Transaction %d deleted", txID)
	return nil
}
