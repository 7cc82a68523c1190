package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	lib "github.com/awused/background-fission/lib"
	"github.com/urfave/cli/v2"
)

func previewCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "preview"
	cmd.Usage = "Compose a background into FILE without setting it"
	cmd.ArgsUsage = "FILE"
	cmd.Description = "The format is taken from the extension of FILE, " +
		".bmp for BMP and anything else for PNG"

	cmd.Action = previewAction

	return cmd
}

func previewAction(ctxt *cli.Context) error {
	if ctxt.NArg() == 0 {
		return errors.New("missing output file")
	}

	out, err := filepath.Abs(ctxt.Args().First())
	if err != nil {
		return err
	}

	c, done, err := setup(ctxt)
	if err != nil {
		return err
	}
	defer done()

	comp, err := lib.NewComposer().Compose(c)
	if err != nil {
		return err
	}

	return writePreview(comp, out)
}

func writePreview(comp *lib.Composition, out string) error {
	format := "png"
	if strings.EqualFold(filepath.Ext(out), ".bmp") {
		format = "bmp"
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}

	err = comp.Encode(f, format)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
