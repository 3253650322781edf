package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/PaesslerAG/jsonpath"
	"github.com/google/subcommands"
)

type inspectCmd struct {
	file string
}

func (*inspectCmd) Name() string     { return "inspect" }
func (*inspectCmd) Synopsis() string { return "query an exported document with a JSONPath expression" }
func (*inspectCmd) Usage() string {
	return `wealth inspect -f <file> <path>

  Example: wealth inspect -f export.json '$.assets[?(@.value < 0)].name'
`
}

func (c *inspectCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "Exported document.")
}

func (c *inspectCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.file == "" || f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	if err := inspect(c.file, f.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func inspect(file, path string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%s is not JSON: %w", file, err)
	}
	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return fmt.Errorf("evaluate %q: %w", path, err)
	}
	return printJSON(v)
}
