package fissionlib

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"
)

// Cycle is one regeneration: purge, compose, publish, apply
type Cycle struct {
	config   *Config
	composer *Composer
	output   *OutputDir
	backend  Backend
	clock    clockwork.Clock
}

func NewCycle(c *Config, backend Backend, clock clockwork.Clock) (*Cycle, error) {
	output, err := NewOutputDir(c.OutputDir, c.OutputFormat)
	if err != nil {
		return nil, err
	}

	return &Cycle{
		config:   c,
		composer: NewComposer(),
		output:   output,
		backend:  backend,
		clock:    clock,
	}, nil
}

// Run returns an error when no artifact could be produced. Failing to apply
// the artifact is only logged; the next cycle may well succeed.
func (cy *Cycle) Run(ctx context.Context) error {
	_, err := cy.Execute(ctx)
	return err
}

// Execute is Run, also returning the published artifact. Cancelling ctx does
// not interrupt a cycle once it has started: the old artifact is already gone
// by the time a new one is being composed.
func (cy *Cycle) Execute(ctx context.Context) (string, error) {
	ctx = context.WithoutCancel(ctx)
	start := cy.clock.Now()

	if err := cy.output.Purge(); err != nil {
		return "", err
	}
	slog.Debug("Purged output directory", "dir", cy.output.Dir())

	comp, err := cy.composer.Compose(cy.config)
	if err != nil {
		return "", fmt.Errorf("composing background: %w", err)
	}

	path, err := cy.output.Publish(start, comp.Canvas.Image())
	if err != nil {
		return "", err
	}
	slog.Info("Wrote background", "path", path)

	if err := cy.backend.Apply(ctx, path); err != nil {
		slog.Error("Unable to set background", "backend", cy.backend.Name(), "error", err)
	}
	return path, nil
}
