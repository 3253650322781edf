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

type budgetCmd struct {
	income                float64
	needs, wants, savings float64
	currency              string
	remove                bool
}

func (*budgetCmd) Name() string     { return "budget" }
func (*budgetCmd) Synopsis() string { return "show or compose the monthly budget" }
func (*budgetCmd) Usage() string {
	return `wealth budget [-income <amount> [-needs 50] [-wants 30] [-savings 20] [-currency USD]] [-delete]

  Without -income the current budget is shown. With -income the budget is
  (re)composed; the three percentages must add up to 100. Items are kept.
`
}

func (c *budgetCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.income, "income", 0, "Monthly income.")
	f.Float64Var(&c.needs, "needs", 50, "Percentage of income for needs.")
	f.Float64Var(&c.wants, "wants", 30, "Percentage of income for wants.")
	f.Float64Var(&c.savings, "savings", 20, "Percentage of income for savings.")
	f.StringVar(&c.currency, "currency", core.DefaultCurrency, "Currency code.")
	f.BoolVar(&c.remove, "delete", false, "Delete the budget.")
}

func (c *budgetCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, app *cli.App) error {
		userID, err := app.CurrentUserID(ctx)
		if err != nil {
			return err
		}
		if c.remove {
			return app.Budgets.Delete(ctx, userID)
		}

		var b core.BudgetAllocation
		if isSet(f, "income") {
			b, err = app.Budgets.Compose(ctx, userID, core.BudgetInput{
				MonthlyIncome: c.income,
				Needs:         c.needs,
				Wants:         c.wants,
				Savings:       c.savings,
				Currency:      c.currency,
			})
		} else {
			b, err = app.Budgets.Get(ctx, userID)
		}
		if err != nil {
			return err
		}
		printBudget(b)
		return nil
	})
}

func printBudget(b core.BudgetAllocation) {
	s := b.Summarize()
	fmt.Printf("Monthly income %s\n\n", core.FormatMoney(b.MonthlyIncome, b.Currency))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Bucket\t%\tAllocated\tUsed\tRemaining\t")
	for _, bs := range s.Buckets {
		over := ""
		if bs.OverBudget {
			over = " over budget"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s%s\t\n", bs.Category, core.FormatAmount(bs.Percentage),
			core.FormatMoney(bs.Amount, b.Currency), core.FormatMoney(bs.Used, b.Currency),
			core.FormatMoney(bs.Remaining, b.Currency), over)
	}
	w.Flush()

	for _, cat := range core.Categories {
		for _, it := range b.Bucket(cat).Items {
			fmt.Printf("  [%s] %s  %s  %s\n", cat, it.ID, it.Name, core.FormatMoney(it.Amount, b.Currency))
		}
	}
}

type addItemCmd struct {
	category, name, description string
	amount                      float64
}

func (*addItemCmd) Name() string     { return "add-item" }
func (*addItemCmd) Synopsis() string { return "add a line item to a budget bucket" }
func (*addItemCmd) Usage() string {
	return `wealth add-item -category needs|wants|savings -name <name> -amount <amount> [-description <text>]
`
}

func (c *addItemCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.category, "category", string(core.Needs), "Bucket: needs, wants or savings.")
	f.StringVar(&c.name, "name", "", "Item name.")
	f.Float64Var(&c.amount, "amount", 0, "Planned amount.")
	f.StringVar(&c.description, "description", "", "Optional description.")
}

func (c *addItemCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, app *cli.App) error {
		userID, err := app.CurrentUserID(ctx)
		if err != nil {
			return err
		}
		cat, err := core.ParseCategory(c.category)
		if err != nil {
			return err
		}
		item, err := app.Budgets.AddItem(ctx, userID, core.BudgetItemInput{Category: cat, Name: c.name, Amount: c.amount, Description: c.description})
		if err != nil {
			return err
		}
		return printJSON(item)
	})
}

type moveItemCmd struct {
	id, category, name string
	amount             float64
}

func (*moveItemCmd) Name() string     { return "move-item" }
func (*moveItemCmd) Synopsis() string { return "edit a budget item or move it to another bucket" }
func (*moveItemCmd) Usage() string {
	return `wealth move-item -id <item id> [-category needs|wants|savings] [-name <name>] [-amount <amount>]
`
}

func (c *moveItemCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Item id.")
	f.StringVar(&c.category, "category", "", "Target bucket.")
	f.StringVar(&c.name, "name", "", "New name.")
	f.Float64Var(&c.amount, "amount", 0, "New amount.")
}

func (c *moveItemCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, app *cli.App) error {
		userID, err := app.CurrentUserID(ctx)
		if err != nil {
			return err
		}
		var patch core.BudgetItemPatch
		if isSet(f, "category") {
			cat, err := core.ParseCategory(c.category)
			if err != nil {
				return err
			}
			patch.Category = &cat
		}
		if isSet(f, "name") {
			patch.Name = &c.name
		}
		if isSet(f, "amount") {
			patch.Amount = &c.amount
		}
		item, err := app.Budgets.UpdateItem(ctx, userID, core.ID(c.id), patch)
		if err != nil {
			return err
		}
		return printJSON(item)
	})
}

type deleteItemCmd struct {
	id string
}

func (*deleteItemCmd) Name() string     { return "delete-item" }
func (*deleteItemCmd) Synopsis() string { return "remove a budget item" }
func (*deleteItemCmd) Usage() string    { return "wealth delete-item -id <item id>\n" }

func (c *deleteItemCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Item id.")
}

func (c *deleteItemCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, app *cli.App) error {
		userID, err := app.CurrentUserID(ctx)
		if err != nil {
			return err
		}
		return app.Budgets.DeleteItem(ctx, userID, core.ID(c.id))
	})
}
