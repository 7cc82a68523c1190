package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	lib "github.com/awused/background-fission/lib"
	"github.com/urfave/cli/v2"
)

const imagesFlag = "images"

func detectCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "detect"
	cmd.Usage = "Print a configuration matching the connected monitors"
	cmd.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    imagesFlag,
			Aliases: []string{"i"},
			Usage:   "Slideshow `DIR` used for every monitor, defaults to ~/Pictures",
		},
	}

	cmd.Action = detectAction

	return cmd
}

func detectAction(ctxt *cli.Context) error {
	c, err := detectConfig(ctxt.String(imagesFlag))
	if err != nil {
		return err
	}

	if wm, err := lib.WindowManagerName(); err == nil {
		fmt.Fprintf(ctxt.App.Writer, "# Detected window manager: %s\n", wm)
	}
	fmt.Fprintf(ctxt.App.Writer, "# Detected backend: %s\n", lib.DetectBackend())

	return toml.NewEncoder(ctxt.App.Writer).Encode(c)
}

func detectConfig(imageDir string) (*lib.Config, error) {
	if imageDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		imageDir = filepath.Join(home, "Pictures")
	}

	monitors, err := lib.GetMonitors()
	if err != nil {
		return nil, err
	}
	if len(monitors) == 0 {
		return nil, errors.New("no monitors detected")
	}

	return lib.ConfigForMonitors(monitors, imageDir), nil
}
