package main

import (
	"io"
	"log/slog"
	"os"

	lib "github.com/awused/background-fission/lib"
	"github.com/urfave/cli/v2"
)

const configFlag = "config"
const logLevelFlag = "log-level"
const logFormatFlag = "log-format"

func main() {
	lib.AttachParentConsole()

	app := cli.NewApp()
	app.Name = "background-fission"
	app.Usage = "Periodically compose a single wallpaper spanning every monitor"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    configFlag,
			Aliases: []string{"c"},
			Usage:   "Read configuration from `FILE` instead of searching for it",
		},
		&cli.StringFlag{
			Name:  logLevelFlag,
			Usage: "debug, info, warn or error. Overrides the config file",
		},
		&cli.StringFlag{
			Name:  logFormatFlag,
			Usage: "auto, text or json. Overrides the config file",
		},
	}
	app.Commands = []*cli.Command{
		runCommand(),
		onceCommand(),
		previewCommand(),
		detectCommand(),
		initConfigCommand(),
	}

	err := app.Run(os.Args)
	checkErr(err)
}

// Loads the config and sets up logging. Call the returned function on exit.
func setup(ctxt *cli.Context) (*lib.Config, func(), error) {
	c, err := lib.LoadConfig(ctxt.String(configFlag))
	if err != nil {
		return nil, nil, err
	}

	level := c.LogLevel
	if ctxt.IsSet(logLevelFlag) {
		level = ctxt.String(logLevelFlag)
	}
	format := c.LogFormat
	if ctxt.IsSet(logFormatFlag) {
		format = ctxt.String(logFormatFlag)
	}

	closer, err := lib.SetupLogging(c.LogFile, format, level)
	if err != nil {
		return nil, nil, err
	}

	return c, func() { closeLog(closer) }, nil
}

func closeLog(c io.Closer) {
	// Nowhere left to report this
	_ = c.Close()
}

func checkErr(err error) {
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
