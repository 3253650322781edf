package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"wealth/internal/cli"
	"wealth/internal/events"
)

type watchCmd struct {
	queue string
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "print workspace events published to AMQP" }
func (*watchCmd) Usage() string {
	return `wealth watch [-queue <name>]

  Requires AMQP_URL. Runs until interrupted.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.queue, "queue", "wealth-watch", "Queue bound to the events exchange.")
}

func (c *watchCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg, err := cli.LoadAndValidateConfig(logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if cfg.AMQPURL == "" {
		fmt.Fprintln(os.Stderr, "watch: AMQP_URL is not set")
		return subcommands.ExitFailure
	}

	consumer, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	ctx, done := cli.GracefulShutdown(logger, 5*time.Second, func() {
		if err := consumer.Close(); err != nil {
			logger.Error("Failed to close AMQP connection", "error", err)
		}
	})

	logger.Info("Watching workspace events", "queue", c.queue, "exchange", cfg.AMQPExchange)
	err = consumer.Consume(ctx, c.queue, func(e events.Event) error {
		fmt.Printf("%s  %-26s user=%s", e.Timestamp.Local().Format(time.DateTime), e.Type, e.UserID)
		if e.BackupKey != "" {
			fmt.Printf(" backup=%s", e.BackupKey)
		}
		for k, n := range e.Counts {
			fmt.Printf(" %s=%d", k, n)
		}
		fmt.Println()
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	cli.WaitForShutdown(ctx, done)
	return subcommands.ExitSuccess
}
