package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"
)

type historyCmd struct {
	head int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list liquidity transactions, newest first" }
func (*historyCmd) Usage() string {
	return `autorug history [-head <n>]
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.head, "head", 0, "Show only the newest N transactions.")
}

func (c *historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app) error {
		user, err := a.user()
		if err != nil {
			return err
		}
		txs, err := a.ledger.Transactions(ctx, user.ID)
		if err != nil {
			return err
		}
		if c.head > 0 && c.head < len(txs) {
			txs = txs[:c.head]
		}
		if len(txs) == 0 {
			a.printf("No transactions yet.\n")
			return nil
		}

		tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tWHEN\tTYPE\tCOIN\tAMOUNT")
		for _, tx := range txs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s SOL\n",
				tx.ID, tx.Timestamp.Local().Format(time.DateTime), tx.Type, tx.CoinName, formatSOL(tx.Amount))
		}
		return tw.Flush()
	})
}

type forgetCmd struct {
	tx string
}

func (*forgetCmd) Name() string     { return "forget" }
func (*forgetCmd) Synopsis() string { return "delete a transaction from the history" }
func (*forgetCmd) Usage() string {
	return `autorug forget -tx <transaction id>

  Removes one history entry. Coins are not affected.
`
}

func (c *forgetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.tx, "tx", "", "Transaction ID.")
}

func (c *forgetCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.tx == "" {
		fmt.Fprintln(os.Stderr, "Error: -tx is required.")
		return subcommands.ExitUsageError
	}
	return run(ctx, func(a *app) error {
		user, err := a.user()
		if err != nil {
			return err
		}
		if err := a.dashboard.DeleteTransaction(ctx, user.ID, c.tx); err != nil {
			return err
		}
		a.printf("Transaction %s deleted.\n", c.tx)
		return nil
	})
}
