package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/mmynk/autorug/internal/models"
	"github.com/mmynk/autorug/internal/wizard"
)

type createCmd struct {
	name        string
	image       string
	description string
	platform    string
	liquidity   float64
	links       models.SocialLinks
}

func (*createCmd) Name() string     { return "create" }
func (*createCmd) Synopsis() string { return "launch a new coin through the onboarding wizard" }
func (*createCmd) Usage() string {
	return `autorug create -name <name> [-platform raydium|pumpfun] [-liquidity <SOL>] [-image <url>] [-description <text>] [-website <url> ...]

  Walks the onboarding wizard: coin details, optional social links, launch
  platform, the simulated creation, wallet connection and initial liquidity.
  Social links are skipped when none is given.
`
}

func (c *createCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Coin name (required).")
	f.StringVar(&c.image, "image", "", "Coin image URL.")
	f.StringVar(&c.description, "description", "", "Coin description.")
	f.StringVar(&c.platform, "platform", models.PlatformRaydium, "Launch platform (raydium, pumpfun).")
	f.Float64Var(&c.liquidity, "liquidity", wizard.DefaultLiquidity, "Initial liquidity in SOL.")
	f.StringVar(&c.links.Website, "website", "", "Website link.")
	f.StringVar(&c.links.Telegram, "telegram", "", "Telegram link.")
	f.StringVar(&c.links.Discord, "discord", "", "Discord link.")
	f.StringVar(&c.links.Reddit, "reddit", "", "Reddit link.")
	f.StringVar(&c.links.Twitter, "twitter", "", "Twitter link.")
	f.StringVar(&c.links.TikTok, "tiktok", "", "TikTok link.")
}

func (c *createCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		fmt.Fprintln(os.Stderr, "Error: -name is required.")
		return subcommands.ExitUsageError
	}
	return run(ctx, func(a *app) error {
		user, err := a.user()
		if err != nil {
			return err
		}

		w := wizard.New(user.ID, a.ledger, a.wizard...)
		defer w.Close()

		state, err := c.launch(ctx, a, w)
		if err != nil {
			return fmt.Errorf("%s step: %w", w.State().StepName, err)
		}

		coin, err := a.ledger.Coin(ctx, user.ID, state.CoinID)
		if err != nil {
			return err
		}
		a.printf("Created %s on %s with %s SOL (id %s).\n", coin.Name, coin.Platform, formatSOL(coin.Investment), coin.ID)
		return nil
	})
}

func (c *createCmd) launch(ctx context.Context, a *app, w *wizard.Wizard) (wizard.State, error) {
	if err := w.SetDetails(c.name, c.image, c.description); err != nil {
		return wizard.State{}, err
	}
	if err := w.Next(ctx); err != nil {
		return wizard.State{}, err
	}

	if c.links.IsZero() {
		if err := w.Skip(); err != nil {
			return wizard.State{}, err
		}
	} else {
		if err := w.SetSocialLinks(c.links); err != nil {
			return wizard.State{}, err
		}
		if err := w.Next(ctx); err != nil {
			return wizard.State{}, err
		}
	}

	if err := w.SetPlatform(c.platform); err != nil {
		return wizard.State{}, err
	}
	if err := w.Next(ctx); err != nil {
		return wizard.State{}, err
	}

	a.printf("Creating token...\n")
	if _, err := w.AwaitStep(ctx, wizard.StepWallet); err != nil {
		return wizard.State{}, err
	}

	a.printf("Connecting wallet...\n")
	if err := w.ConnectWallet(); err != nil {
		return wizard.State{}, err
	}
	state, err := w.Wait(ctx, func(s wizard.State) bool { return s.Draft.WalletConnected })
	if err != nil {
		return wizard.State{}, err
	}
	a.printf("Wallet %s connected.\n", state.Draft.WalletAddress)

	if err := w.Next(ctx); err != nil {
		return wizard.State{}, err
	}
	if err := w.SetLiquidity(c.liquidity); err != nil {
		return wizard.State{}, err
	}
	if err := w.Next(ctx); err != nil {
		return wizard.State{}, err
	}
	return w.State(), nil
}
