package main

import (
	"fmt"

	lib "github.com/awused/background-fission/lib"
	"github.com/urfave/cli/v2"
)

const detectFlag = "detect"

func initConfigCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "init-config"
	cmd.Usage = "Write a starting configuration file"
	cmd.Description = "Writes to --config if given, otherwise to the user " +
		"configuration directory. Existing files are never overwritten"
	cmd.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:  detectFlag,
			Usage: "Lay out monitors to match the connected displays",
		},
		&cli.StringFlag{
			Name:    imagesFlag,
			Aliases: []string{"i"},
			Usage:   "Slideshow `DIR` used with --detect, defaults to ~/Pictures",
		},
	}

	cmd.Action = initConfigAction

	return cmd
}

func initConfigAction(ctxt *cli.Context) error {
	var err error
	file := ctxt.String(configFlag)
	if file == "" {
		file, err = lib.DefaultConfigFile()
		if err != nil {
			return err
		}
	}

	var c *lib.Config
	if ctxt.Bool(detectFlag) {
		c, err = detectConfig(ctxt.String(imagesFlag))
	} else {
		c, err = lib.DefaultConfig()
	}
	if err != nil {
		return err
	}

	err = lib.WriteConfig(c, file)
	if err != nil {
		return err
	}

	fmt.Fprintln(ctxt.App.Writer, file)
	return nil
}
