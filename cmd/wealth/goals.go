package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/subcommands"

	"wealth/internal/cli"
	"wealth/internal/core"
	"wealth/internal/log"
)

type goalsCmd struct {
	total  string
	add    int
	set    string
	target string
	rename string
	remove string
	reset  bool
}

func (*goalsCmd) Name() string     { return "goals" }
func (*goalsCmd) Synopsis() string { return "show or edit the savings goals" }
func (*goalsCmd) Usage() string {
	return `wealth goals [-total <amount>] [-add <n>] [-set <id>=<pct>] [-target <id>=<amount>]
             [-rename <id>=<name>] [-remove <id>] [-reset]

  Edits are applied in the order listed above and saved when the command ends.
  Up to five goals are allowed; percentages above 100 in total are kept but
  reported as invalid.
`
}

func (c *goalsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.total, "total", "", "Total amount to distribute.")
	f.IntVar(&c.add, "add", 0, "Number of goals to add.")
	f.StringVar(&c.set, "set", "", "Set a goal percentage, as id=pct.")
	f.StringVar(&c.target, "target", "", "Set a goal target amount, as id=amount.")
	f.StringVar(&c.rename, "rename", "", "Rename a goal, as id=name.")
	f.StringVar(&c.remove, "remove", "", "Remove the goal with this id.")
	f.BoolVar(&c.reset, "reset", false, "Delete all goals.")
}

func (c *goalsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, app *cli.App) error {
		userID, err := app.CurrentUserID(ctx)
		if err != nil {
			return err
		}
		if c.reset {
			if err := app.Savings.Reset(ctx, userID); err != nil {
				return err
			}
			fmt.Println("goals reset")
			return nil
		}

		sa := app.Savings
		doc := sa.Load(ctx, userID)
		changed := false

		if isSet(f, "total") {
			doc = sa.SetTotal(doc, c.total)
			changed = true
		}
		for i := 0; i < c.add; i++ {
			if doc, _, err = sa.AddField(doc); err != nil {
				return err
			}
			changed = true
		}
		if c.set != "" {
			id, v, err := splitNumber(c.set)
			if err != nil {
				return err
			}
			if doc, err = sa.SetPercentage(doc, id, v); err != nil {
				return err
			}
			changed = true
		}
		if c.target != "" {
			id, v, err := splitNumber(c.target)
			if err != nil {
				return err
			}
			if doc, err = sa.SetTarget(doc, id, v); err != nil {
				return err
			}
			changed = true
		}
		if c.rename != "" {
			id, name, ok := strings.Cut(c.rename, "=")
			if !ok {
				return core.WithMessage(core.ErrInvalidInput, "-rename expects id=name")
			}
			if doc, err = sa.RenameField(doc, id, name); err != nil {
				return err
			}
			changed = true
		}
		if c.remove != "" {
			doc = sa.RemoveField(doc, c.remove)
			changed = true
		}

		if changed {
			if err := app.Autosaver.Schedule(ctx, doc); err != nil {
				return err
			}
			log.FromContext(ctx).DebugContext(ctx, "Goals edit scheduled",
				log.FieldUserID, userID, "pending", app.Autosaver.Pending())
		}
		printGoals(app, doc)
		return nil
	})
}

func splitNumber(s string) (string, float64, error) {
	id, raw, ok := strings.Cut(s, "=")
	if !ok {
		return "", 0, core.WithMessage(core.ErrInvalidInput, fmt.Sprintf("expected id=number, got %q", s))
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", 0, core.WithMessage(core.ErrInvalidInput, fmt.Sprintf("%q is not a number", raw))
	}
	return id, v, nil
}

func printGoals(app *cli.App, doc core.GoalsDocument) {
	sa := app.Savings
	fmt.Printf("Total %s\n", doc.TotalAmount)
	for _, g := range doc.GoalFields {
		line := fmt.Sprintf("  %s  %-20s %6s%%  %s", g.ID, g.Name, core.FormatAmount(g.Percentage), core.FormatAmount(g.Amount))
		if p, ok := sa.Progress(g); ok {
			line += fmt.Sprintf("  target %s (%.0f%%)", core.FormatAmount(g.TargetAmount), p*100)
		}
		fmt.Println(line)
	}
	state := "valid"
	if !sa.IsValid(doc) {
		state = "invalid, over 100%"
	}
	fmt.Printf("Allocated %s%% (%s)\n", core.FormatAmount(sa.TotalPercentage(doc)), state)
}
