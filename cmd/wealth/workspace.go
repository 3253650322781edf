package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"wealth/internal/cli"
	"wealth/internal/core"
	"wealth/internal/log"
	"wealth/internal/workspace"
)

type exportCmd struct {
	out  string
	user bool
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the workspace as a JSON document" }
func (*exportCmd) Usage() string {
	return `wealth export [-o <file>] [-user]

  Without -user every user's data is exported; the output goes to stdout
  unless -o is given.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.out, "o", "", "Output file.")
	f.BoolVar(&c.user, "user", false, "Restrict budgets to the logged-in user.")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, app *cli.App) error {
		var userID core.ID
		if c.user {
			id, err := app.CurrentUserID(ctx)
			if err != nil {
				return err
			}
			userID = id
		}
		data, err := app.Workspace.Export(ctx, userID)
		if err != nil {
			return err
		}
		return writeOutput(c.out, data)
	})
}

type reportCmd struct {
	out string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "write a readable summary of the logged-in user's data" }
func (*reportCmd) Usage() string    { return "wealth report [-o <file>]\n" }

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.out, "o", "", "Output file.")
}

func (c *reportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, app *cli.App) error {
		userID, err := app.CurrentUserID(ctx)
		if err != nil {
			return err
		}
		data, err := app.Workspace.Report(ctx, userID)
		if err != nil {
			return err
		}
		return writeOutput(c.out, data)
	})
}

type importCmd struct {
	file   string
	user   bool
	backup bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "replace workspace data with an exported document" }
func (*importCmd) Usage() string {
	return `wealth import -f <file> [-user] [-backup]

  The document is validated before anything is written. With -backup the
  current workspace is saved first.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "Document to import.")
	f.BoolVar(&c.user, "user", false, "Only import the logged-in user's budget.")
	f.BoolVar(&c.backup, "backup", false, "Back up the workspace before importing.")
}

func (c *importCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.file == "" {
		fmt.Fprintln(os.Stderr, "import: -f is required")
		return subcommands.ExitUsageError
	}
	return withApp(ctx, func(ctx context.Context, app *cli.App) error {
		data, err := os.ReadFile(c.file)
		if err != nil {
			return err
		}
		opts, err := c.options(ctx, app)
		if err != nil {
			return err
		}
		log.FromContext(ctx).InfoContext(ctx, "Importing document",
			"file", c.file, "bytes", len(data), "backup", opts.Backup)
		sum, err := app.Workspace.Import(ctx, data, opts)
		if err != nil {
			return err
		}
		return printJSON(sum)
	})
}

// options scopes the import to the logged-in user only for -user. A -backup
// without -user snapshots and imports the whole workspace.
func (c *importCmd) options(ctx context.Context, app *cli.App) (workspace.ImportOptions, error) {
	opts := workspace.ImportOptions{Backup: c.backup}
	if c.user {
		id, err := app.CurrentUserID(ctx)
		if err != nil {
			return workspace.ImportOptions{}, err
		}
		opts.UserID = id
	}
	return opts, nil
}

type backupCmd struct {
	all bool
}

func (*backupCmd) Name() string     { return "backup" }
func (*backupCmd) Synopsis() string { return "store a backup of the workspace" }
func (*backupCmd) Usage() string    { return "wealth backup [-all]\n" }

func (c *backupCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.all, "all", false, "Back up every user instead of the logged-in one.")
}

func (c *backupCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, app *cli.App) error {
		var userID core.ID
		if !c.all {
			id, err := app.CurrentUserID(ctx)
			if err != nil {
				return err
			}
			userID = id
		}
		key, err := app.Workspace.CreateBackup(ctx, userID)
		if err != nil {
			return err
		}
		fmt.Println(key)
		return nil
	})
}

type backupsCmd struct {
	all bool
}

func (*backupsCmd) Name() string     { return "backups" }
func (*backupsCmd) Synopsis() string { return "list stored backups" }
func (*backupsCmd) Usage() string    { return "wealth backups [-all]\n" }

func (c *backupsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.all, "all", false, "List backups of every user.")
}

func (c *backupsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, app *cli.App) error {
		var userID core.ID
		if !c.all {
			id, err := app.CurrentUserID(ctx)
			if err != nil {
				return err
			}
			userID = id
		}
		for _, b := range app.Workspace.ListBackups(ctx, userID) {
			fmt.Printf("%s  %s\n", b.Key, b.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		}
		return nil
	})
}

type restoreCmd struct {
	remove bool
}

func (*restoreCmd) Name() string     { return "restore" }
func (*restoreCmd) Synopsis() string { return "import a stored backup" }
func (*restoreCmd) Usage() string    { return "wealth restore [-delete] <backup key>\n" }

func (c *restoreCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.remove, "delete", false, "Delete the backup instead of restoring it.")
}

func (c *restoreCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "restore: expected one backup key")
		return subcommands.ExitUsageError
	}
	key := f.Arg(0)
	return withApp(ctx, func(ctx context.Context, app *cli.App) error {
		if c.remove {
			return app.Workspace.DeleteBackup(ctx, key)
		}
		sum, err := app.Workspace.RestoreBackup(ctx, key)
		if err != nil {
			return err
		}
		return printJSON(sum)
	})
}

type clearCmd struct {
	wipe bool
}

func (*clearCmd) Name() string     { return "clear" }
func (*clearCmd) Synopsis() string { return "delete all workspace data" }
func (*clearCmd) Usage() string {
	return `wealth clear [-wipe]

  Backups are kept unless -wipe is given.
`
}

func (c *clearCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.wipe, "wipe", false, "Also delete backups and every other key.")
}

func (c *clearCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, app *cli.App) error {
		if c.wipe {
			return app.Workspace.Wipe(ctx)
		}
		return app.Workspace.Clear(ctx)
	})
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
