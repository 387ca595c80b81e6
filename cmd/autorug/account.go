package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// run opens the app, calls fn and maps its error to an exit status.
func run(ctx context.Context, fn func(a *app) error) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	if err := fn(a); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type registerCmd struct {
	username string
	password string
	confirm  string
	name     string
}

func (*registerCmd) Name() string     { return "register" }
func (*registerCmd) Synopsis() string { return "create an account and sign in" }
func (*registerCmd) Usage() string {
	return `autorug register -u <username> -p <password> [-confirm <password>] [-name <display name>]

  Creates a local account. Usernames are unique and trimmed of surrounding spaces.
`
}

func (c *registerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.username, "u", "", "Username.")
	f.StringVar(&c.password, "p", "", "Password.")
	f.StringVar(&c.confirm, "confirm", "", "Password confirmation. Defaults to -p.")
	f.StringVar(&c.name, "name", "", "Optional display name.")
}

func (c *registerCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.username == "" || c.password == "" {
		fmt.Fprintln(os.Stderr, "Error: -u and -p are required.")
		return subcommands.ExitUsageError
	}
	if c.confirm != "" && c.confirm != c.password {
		fmt.Fprintln(os.Stderr, "Error: passwords do not match.")
		return subcommands.ExitUsageError
	}
	return run(ctx, func(a *app) error {
		user, err := a.session.Register(ctx, c.username, c.password, c.name)
		if err != nil {
			return err
		}
		a.printf("Welcome, %s! You are signed in.\n", user.DisplayName())
		return nil
	})
}

type loginCmd struct {
	username string
	password string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "sign in to an existing account" }
func (*loginCmd) Usage() string {
	return `autorug login -u <username> -p <password>
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.username, "u", "", "Username.")
	f.StringVar(&c.password, "p", "", "Password.")
}

func (c *loginCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.username == "" || c.password == "" {
		fmt.Fprintln(os.Stderr, "Error: -u and -p are required.")
		return subcommands.ExitUsageError
	}
	return run(ctx, func(a *app) error {
		user, err := a.session.Login(ctx, c.username, c.password)
		if err != nil {
			return err
		}
		a.printf("Signed in as %s.\n", user.DisplayName())
		return nil
	})
}

type logoutCmd struct{}

func (*logoutCmd) Name() string             { return "logout" }
func (*logoutCmd) Synopsis() string         { return "sign out" }
func (*logoutCmd) Usage() string            { return "autorug logout\n" }
func (*logoutCmd) SetFlags(_ *flag.FlagSet) {}

func (*logoutCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app) error {
		if err := a.session.Logout(ctx); err != nil {
			return err
		}
		a.printf("Signed out.\n")
		return nil
	})
}

type whoamiCmd struct{}

func (*whoamiCmd) Name() string             { return "whoami" }
func (*whoamiCmd) Synopsis() string         { return "show the signed-in user" }
func (*whoamiCmd) Usage() string            { return "autorug whoami\n" }
func (*whoamiCmd) SetFlags(_ *flag.FlagSet) {}

func (*whoamiCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app) error {
		user, err := a.user()
		if err != nil {
			return err
		}
		a.printf("%s (%s)\n", user.DisplayName(), user.ID)
		return nil
	})
}
