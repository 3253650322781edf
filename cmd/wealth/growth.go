package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"wealth/internal/cli"
	"wealth/internal/core"
)

type sampleCmd struct{}

func (*sampleCmd) Name() string { return "sample" }
func (*sampleCmd) Synopsis() string {
	return "record this month's portfolio value unless it is already recorded"
}
func (*sampleCmd) Usage() string            { return "wealth sample\n" }
func (*sampleCmd) SetFlags(_ *flag.FlagSet) {}

func (*sampleCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, app *cli.App) error {
		userID, err := app.CurrentUserID(ctx)
		if err != nil {
			return err
		}
		res, err := app.Sampler.SampleNow(ctx, userID)
		if err != nil {
			return err
		}
		if !res.Recorded {
			fmt.Println("nothing recorded:", res.Reason)
			return nil
		}
		fmt.Println("recorded", res.Sample)
		return nil
	})
}

type growthCmd struct{}

func (*growthCmd) Name() string             { return "growth" }
func (*growthCmd) Synopsis() string         { return "show the monthly portfolio values" }
func (*growthCmd) Usage() string            { return "wealth growth\n" }
func (*growthCmd) SetFlags(_ *flag.FlagSet) {}

func (*growthCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, app *cli.App) error {
		userID, err := app.CurrentUserID(ctx)
		if err != nil {
			return err
		}
		for _, s := range app.Repos.Growth.Series(ctx, userID) {
			marker := ""
			if s.IsInitialValue {
				marker = " (initial)"
			}
			fmt.Printf("%s  %s%s\n", s.Month, core.FormatMoney(s.PortfolioValue, core.DefaultCurrency), marker)
		}
		return nil
	})
}
