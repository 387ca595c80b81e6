package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/mmynk/autorug/internal/calculator"
	"github.com/mmynk/autorug/internal/errs"
	"github.com/mmynk/autorug/internal/models"
)

func formatSOL(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(3)
}

func formatUSD(v float64) string {
	return "$" + decimal.NewFromFloat(v).StringFixed(2)
}

// findCoin resolves ref as a coin ID or, failing that, a case-insensitive name.
func findCoin(ctx context.Context, a *app, userID, ref string) (*models.Coin, error) {
	coins, err := a.ledger.Coins(ctx, userID)
	if err != nil {
		return nil, err
	}
	var match *models.Coin
	for i := range coins {
		if coins[i].ID == ref {
			return &coins[i], nil
		}
		if strings.EqualFold(coins[i].Name, ref) {
			if match != nil {
				return nil, fmt.Errorf("several coins are named %q, use the coin id", ref)
			}
			match = &coins[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("coin %q: %w", ref, errs.ErrNotFound)
	}
	return match, nil
}

type coinsCmd struct{}

func (*coinsCmd) Name() string             { return "coins" }
func (*coinsCmd) Synopsis() string         { return "list your coins and liquidity totals" }
func (*coinsCmd) Usage() string            { return "autorug coins\n" }
func (*coinsCmd) SetFlags(_ *flag.FlagSet) {}

func (*coinsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app) error {
		user, err := a.user()
		if err != nil {
			return err
		}
		ov, err := a.dashboard.Overview(ctx, user.ID)
		if err != nil {
			return err
		}

		s := ov.Summary
		a.printf("Liquidity added:   %s SOL (%s)\n", formatSOL(s.TotalLiquidityAdded), formatUSD(s.TotalAddedUSD))
		a.printf("Liquidity removed: %s SOL (%s)\n", formatSOL(s.TotalLiquidityRemoved), formatUSD(s.TotalRemovedUSD))
		a.printf("Coins created in the last 30 days: %d\n\n", s.CoinsCreatedRecently)

		if len(ov.Coins) == 0 {
			a.printf("No coins yet. Run 'autorug create' to launch one.\n")
			return nil
		}

		tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tPLATFORM\tINVESTMENT\tLIQUIDITY\tPNL")
		for _, c := range ov.Coins {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s%%\n",
				c.ID, c.Name, c.Platform, formatSOL(c.Investment), formatSOL(c.Liquidity()),
				decimal.NewFromFloat(c.PNL).StringFixed(2))
		}
		return tw.Flush()
	})
}

type withdrawCmd struct {
	coin   string
	amount float64
	preset string
}

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "remove liquidity from a coin" }
func (*withdrawCmd) Usage() string {
	return `autorug withdraw -coin <id|name> (-amount <SOL> | -preset 25|50|max)

  Removes liquidity after a short simulated delay. Investment and profit shrink
  in proportion. A coin left with less than 0.001 SOL is removed entirely.
`
}

func (c *withdrawCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.coin, "coin", "", "Coin ID or name.")
	f.Float64Var(&c.amount, "amount", 0, "Amount of SOL to withdraw.")
	f.StringVar(&c.preset, "preset", "", "Withdraw a share of current liquidity: 25, 50 or max.")
}

func (c *withdrawCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.coin == "" || (c.amount == 0) == (c.preset == "") {
		fmt.Fprintln(os.Stderr, "Error: -coin and exactly one of -amount or -preset are required.")
		return subcommands.ExitUsageError
	}
	return run(ctx, func(a *app) error {
		user, err := a.user()
		if err != nil {
			return err
		}
		coin, err := findCoin(ctx, a, user.ID, c.coin)
		if err != nil {
			return err
		}

		a.printf("Removing liquidity from %s...\n", coin.Name)
		var w calculator.Withdrawal
		if c.preset != "" {
			w, err = a.dashboard.RemoveLiquidityPreset(ctx, user.ID, coin.ID, calculator.Preset(c.preset))
		} else {
			w, err = a.dashboard.RemoveLiquidity(ctx, user.ID, coin.ID, c.amount)
		}
		if err != nil {
			return err
		}

		if w.Deleted {
			a.printf("Removed all %s SOL. %s is gone.\n", formatSOL(w.Amount), coin.Name)
		} else {
			a.printf("Removed %s SOL. %s now holds %s SOL.\n", formatSOL(w.Amount), coin.Name, formatSOL(w.Coin.Liquidity()))
		}
		return nil
	})
}

type pnlCmd struct{}

func (*pnlCmd) Name() string             { return "pnl" }
func (*pnlCmd) Synopsis() string         { return "simulate new profit and loss for every coin" }
func (*pnlCmd) Usage() string            { return "autorug pnl\n" }
func (*pnlCmd) SetFlags(_ *flag.FlagSet) {}

func (*pnlCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app) error {
		user, err := a.user()
		if err != nil {
			return err
		}
		coins, err := a.dashboard.GeneratePNL(ctx, user.ID)
		if err != nil {
			return err
		}
		for _, c := range coins {
			a.printf("%s: %s%% (%s SOL)\n", c.Name, decimal.NewFromFloat(c.PNL).StringFixed(2), formatSOL(c.Profit))
		}
		return nil
	})
}
