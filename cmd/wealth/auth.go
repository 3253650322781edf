package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"wealth/internal/cli"
	"wealth/internal/core"
)

type signupCmd struct {
	first, last, email, password string
}

func (*signupCmd) Name() string     { return "signup" }
func (*signupCmd) Synopsis() string { return "create a user and log in as that user" }
func (*signupCmd) Usage() string {
	return `wealth signup -first <name> [-last <name>] -email <email> -password <password>
`
}

func (c *signupCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.first, "first", "", "First name.")
	f.StringVar(&c.last, "last", "", "Last name.")
	f.StringVar(&c.email, "email", "", "Email address, unique per workspace.")
	f.StringVar(&c.password, "password", "", "Password.")
}

func (c *signupCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, app *cli.App) error {
		res, err := app.Auth.Signup(ctx, core.SignupInput{FirstName: c.first, LastName: c.last, Email: c.email, Password: c.password})
		if err != nil {
			return err
		}
		return printJSON(res)
	})
}

type loginCmd struct {
	email, password string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "log in as an existing user" }
func (*loginCmd) Usage() string {
	return `wealth login -email <email> -password <password>
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "", "Email address.")
	f.StringVar(&c.password, "password", "", "Password.")
}

func (c *loginCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, app *cli.App) error {
		res, err := app.Auth.Login(ctx, c.email, c.password)
		if err != nil {
			return err
		}
		return printJSON(res)
	})
}

type logoutCmd struct{}

func (*logoutCmd) Name() string             { return "logout" }
func (*logoutCmd) Synopsis() string         { return "end the current session" }
func (*logoutCmd) Usage() string            { return "wealth logout\n" }
func (*logoutCmd) SetFlags(_ *flag.FlagSet) {}

func (*logoutCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, app *cli.App) error {
		return app.Auth.Logout(ctx)
	})
}

type whoamiCmd struct{}

func (*whoamiCmd) Name() string             { return "whoami" }
func (*whoamiCmd) Synopsis() string         { return "show the logged-in user" }
func (*whoamiCmd) Usage() string            { return "wealth whoami\n" }
func (*whoamiCmd) SetFlags(_ *flag.FlagSet) {}

func (*whoamiCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, app *cli.App) error {
		u, err := app.Auth.CurrentUser(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s <%s> (id %s)\n", u.FirstName, u.LastName, u.Email, u.ID)
		return nil
	})
}
