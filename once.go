package main

import (
	"fmt"

	lib "github.com/awused/background-fission/lib"
	"github.com/jonboulle/clockwork"
	"github.com/urfave/cli/v2"
)

func onceCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "once"
	cmd.Usage = "Change the background a single time and exit"

	cmd.Action = onceAction

	return cmd
}

func onceAction(ctxt *cli.Context) error {
	c, done, err := setup(ctxt)
	if err != nil {
		return err
	}
	defer done()

	backend, err := lib.NewBackend(c.Backend)
	if err != nil {
		return err
	}

	cycle, err := lib.NewCycle(c, backend, clockwork.NewRealClock())
	if err != nil {
		return err
	}

	path, err := cycle.Execute(ctxt.Context)
	if err != nil {
		return err
	}

	fmt.Fprintln(ctxt.App.Writer, path)
	return nil
}
