package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	lib "github.com/awused/background-fission/lib"
	"github.com/jonboulle/clockwork"
	"github.com/urfave/cli/v2"
)

func runCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "run"
	cmd.Usage = "Change the background now, then keep changing it on schedule"
	cmd.Description = "Runs until interrupted. A cycle in progress is allowed " +
		"to finish before exiting"

	cmd.Action = runAction

	return cmd
}

func runAction(ctxt *cli.Context) error {
	c, done, err := setup(ctxt)
	if err != nil {
		return err
	}
	defer done()

	backend, err := lib.NewBackend(c.Backend)
	if err != nil {
		return err
	}

	expr, err := c.CronExpression()
	if err != nil {
		return err
	}

	clock := clockwork.NewRealClock()
	cycle, err := lib.NewCycle(c, backend, clock)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctxt.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Starting background-fission",
		"schedule", c.Schedule,
		"monitors", len(c.Monitors),
		"backend", backend.Name(),
		"output", c.OutputDir)

	return lib.NewScheduler(expr, clock, cycle.Run).Run(ctx, c.PollDuration())
}
