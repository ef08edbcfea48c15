package command

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/cloudpocket/pocket-cli/internal/cli/output"
	"github.com/cloudpocket/pocket-cli/internal/core/service"
)

// DashboardCommand returns the dashboard command.
func DashboardCommand() *cli.Command {
	return &cli.Command{
		Name:    "dashboard",
		Aliases: []string{"dash"},
		Usage:   "Show wallets with balances, shared wallets and invitations",
		Action:  dashboard,
	}
}

// dashboardView renders the dashboard as one row per own wallet.
type dashboardView struct {
	*service.Dashboard
}

// Table implements output.Tabler.
func (v dashboardView) Table(bool) *output.Table {
	money := func(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) }
	t := &output.Table{Headers: []string{"ID", "NAME", "GOAL", "BALANCE", "PROGRESS"}}
	for _, o := range v.Wallets {
		t.AddRow(
			strconv.FormatUint(uint64(o.Wallet.ID), 10),
			o.Wallet.Name,
			money(o.Summary.Goal),
			money(o.Summary.Balance),
			strconv.FormatFloat(o.Summary.Progress, 'f', 1, 64)+"%",
		)
	}
	t.AddRow("", "TOTAL", "", money(v.Balance), "")
	return t
}

func dashboard(c *cli.Context) error {
	rt := runtimeFrom(c)
	if err := rt.RequireSession(c.Context); err != nil {
		return err
	}

	table := outputFormat(c) == output.FormatTable
	spinner := output.NewSpinner(c.App.ErrWriter, "Loading dashboard...")
	if table {
		spinner.Start()
	}
	d, err := rt.Dashboard.Load(c.Context)
	if err != nil {
		spinner.Fail("Loading dashboard failed")
		return err
	}
	spinner.Stop()

	if err := printResult(c, dashboardView{d}); err != nil {
		return err
	}
	if table {
		fmt.Fprintf(c.App.Writer, "\n%d shared wallet(s), %d pending invitation(s)\n", len(d.Shared), len(d.Pending))
		if len(d.Pending) > 0 {
			fmt.Fprintln(c.App.Writer, `Run "pocket share pending" to answer them.`)
		}
	}
	return nil
}
