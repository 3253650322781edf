package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"wealth/internal/cli"
	"wealth/internal/log"
)

var commandGroups = []struct {
	name     string
	commands []subcommands.Command
}{
	{"account", []subcommands.Command{&signupCmd{}, &loginCmd{}, &logoutCmd{}, &whoamiCmd{}}},
	{"assets", []subcommands.Command{&assetsCmd{}, &addAssetCmd{}, &updateAssetCmd{}, &deleteAssetCmd{}, &sampleCmd{}, &growthCmd{}}},
	{"budget", []subcommands.Command{&budgetCmd{}, &addItemCmd{}, &moveItemCmd{}, &deleteItemCmd{}}},
	{"savings", []subcommands.Command{&goalsCmd{}}},
	{"workspace", []subcommands.Command{&exportCmd{}, &reportCmd{}, &importCmd{}, &backupCmd{}, &backupsCmd{}, &restoreCmd{}, &clearCmd{}, &inspectCmd{}, &watchCmd{}}},
}

// withApp loads the configuration, opens the workspace and runs fn.
func withApp(ctx context.Context, fn func(context.Context, *cli.App) error) subcommands.ExitStatus {
	cli.LoadEnvFile()
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	logger := cli.SetupLogger(level)

	cfg, err := cli.LoadAndValidateConfig(logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	app, err := cli.Open(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	ctx = log.NewContext(ctx, logger)
	status := subcommands.ExitSuccess
	if err := fn(ctx, app); err != nil {
		fmt.Fprintln(os.Stderr, err)
		status = subcommands.ExitFailure
	}
	if err := app.Close(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		status = subcommands.ExitFailure
	}
	return status
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// isSet reports whether name was given on the command line.
func isSet(f *flag.FlagSet, name string) bool {
	set := false
	f.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			set = true
		}
	})
	return set
}
