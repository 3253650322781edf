package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"wealth/internal/cli"
	"wealth/internal/core"
)

type assetsCmd struct{}

func (*assetsCmd) Name() string             { return "assets" }
func (*assetsCmd) Synopsis() string         { return "list the assets and debts of the logged-in user" }
func (*assetsCmd) Usage() string            { return "wealth assets\n" }
func (*assetsCmd) SetFlags(_ *flag.FlagSet) {}

func (*assetsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, app *cli.App) error {
		userID, err := app.CurrentUserID(ctx)
		if err != nil {
			return err
		}
		assets := app.Repos.Assets.ListByUser(ctx, userID)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "ID\tName\tType\tValue\t")
		for _, a := range assets {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", a.ID, a.Name, a.Type, core.FormatMoney(a.Value, a.Currency))
		}
		s := core.SummarizePortfolio(assets)
		fmt.Fprintf(w, "\t\t%d assets\t%s\t\n", s.TotalAssets, core.FormatMoney(s.TotalValue, core.DefaultCurrency))
		return w.Flush()
	})
}

type addAssetCmd struct {
	name, typ, currency string
	value               float64
}

func (*addAssetCmd) Name() string     { return "add-asset" }
func (*addAssetCmd) Synopsis() string { return "record an asset, or a debt with a negative value" }
func (*addAssetCmd) Usage() string {
	return `wealth add-asset -name <name> -type <type> -value <value> [-currency <code>]

  Debts are recorded with a negative value.
`
}

func (c *addAssetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Asset name.")
	f.StringVar(&c.typ, "type", "", "Asset type, for example Cash, Stocks, Real Estate or Debt.")
	f.Float64Var(&c.value, "value", 0, "Current value; negative for debts.")
	f.StringVar(&c.currency, "currency", core.DefaultCurrency, "Currency code.")
}

func (c *addAssetCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, app *cli.App) error {
		userID, err := app.CurrentUserID(ctx)
		if err != nil {
			return err
		}
		a, err := app.Repos.Assets.Add(ctx, userID, core.AssetInput{Name: c.name, Type: c.typ, Value: c.value, Currency: c.currency})
		if err != nil {
			return err
		}
		return printJSON(a)
	})
}

type updateAssetCmd struct {
	id, name, typ, currency string
	value                   float64
}

func (*updateAssetCmd) Name() string     { return "update-asset" }
func (*updateAssetCmd) Synopsis() string { return "change fields of an asset" }
func (*updateAssetCmd) Usage() string {
	return `wealth update-asset -id <id> [-name <name>] [-type <type>] [-value <value>] [-currency <code>]

  Only the flags given are changed.
`
}

func (c *updateAssetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Asset id.")
	f.StringVar(&c.name, "name", "", "New name.")
	f.StringVar(&c.typ, "type", "", "New type.")
	f.Float64Var(&c.value, "value", 0, "New value.")
	f.StringVar(&c.currency, "currency", "", "New currency code.")
}

func (c *updateAssetCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var patch core.AssetPatch
	if isSet(f, "name") {
		patch.Name = &c.name
	}
	if isSet(f, "type") {
		patch.Type = &c.typ
	}
	if isSet(f, "value") {
		patch.Value = &c.value
	}
	if isSet(f, "currency") {
		patch.Currency = &c.currency
	}
	return withApp(ctx, func(ctx context.Context, app *cli.App) error {
		a, err := app.Repos.Assets.Update(ctx, core.ID(c.id), patch)
		if err != nil {
			return err
		}
		return printJSON(a)
	})
}

type deleteAssetCmd struct {
	id string
}

func (*deleteAssetCmd) Name() string     { return "delete-asset" }
func (*deleteAssetCmd) Synopsis() string { return "remove an asset" }
func (*deleteAssetCmd) Usage() string    { return "wealth delete-asset -id <id>\n" }

func (c *deleteAssetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Asset id.")
}

func (c *deleteAssetCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, app *cli.App) error {
		return app.Repos.Assets.Delete(ctx, core.ID(c.id))
	})
}
