// Command autorug drives the AutoRug simulation from a terminal: sign in,
// launch coins through the onboarding wizard and manage their liquidity.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// register adds the autorug subcommands to c.
func register(c *subcommands.Commander) {
	c.Register(&registerCmd{}, "account")
	c.Register(&loginCmd{}, "account")
	c.Register(&logoutCmd{}, "account")
	c.Register(&whoamiCmd{}, "account")

	c.Register(&createCmd{}, "coins")
	c.Register(&coinsCmd{}, "coins")
	c.Register(&withdrawCmd{}, "coins")
	c.Register(&pnlCmd{}, "coins")

	c.Register(&historyCmd{}, "history")
	c.Register(&forgetCmd{}, "history")
}
