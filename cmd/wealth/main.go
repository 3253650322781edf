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

	for _, g := range commandGroups {
		for _, c := range g.commands {
			commander.Register(c, g.name)
		}
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
