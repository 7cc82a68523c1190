package fissionlib

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

var ErrNoMonitorRendered = errors.New("no monitor could be rendered")

type MonitorStatus int

const (
	MonitorRendered MonitorStatus = iota
	// A placeholder was drawn in place of the configured image
	MonitorDegraded
	// Nothing was drawn; the region is left transparent
	MonitorFailed
)

func (s MonitorStatus) String() string {
	switch s {
	case MonitorRendered:
		return "rendered"
	case MonitorDegraded:
		return "degraded"
	case MonitorFailed:
		return "failed"
	}
	return fmt.Sprintf("MonitorStatus(%d)", int(s))
}

type MonitorResult struct {
	Index  int
	Source string
	Status MonitorStatus
	Err    error
}

type Composition struct {
	Canvas   *Canvas
	Monitors []MonitorResult
}

func (c *Composition) Encode(w io.Writer, format string) error {
	enc, ok := encoders[format]
	if !ok {
		return fmt.Errorf("unknown output format [%s]", format)
	}
	return enc(w, c.Canvas.Image())
}

type Composer struct {
	resolve func(MonitorConfig, []string) (string, error)
	decode  func(string) (image.Image, error)
}

func NewComposer() *Composer {
	return &Composer{resolve: ResolveImagePath, decode: DecodeImage}
}

// Compose renders every monitor concurrently into a fresh canvas. Monitors
// whose image can't be found or decoded get a placeholder; a monitor task
// that fails outright leaves its region blank. The composition is only
// rejected when no monitor made it onto the canvas. Once started a
// composition always runs to completion.
func (cp *Composer) Compose(c *Config) (*Composition, error) {
	comp := &Composition{
		Canvas:   NewCanvas(c.Width, c.Height),
		Monitors: make([]MonitorResult, len(c.Monitors)),
	}

	// Not errgroup.WithContext: one monitor failing must not cancel the rest
	g := &errgroup.Group{}
	if c.MaxWorkers > 0 {
		g.SetLimit(c.MaxWorkers)
	}

	for i, m := range c.Monitors {
		i, m := i, m
		g.Go(func() error {
			comp.Monitors[i] = cp.renderMonitor(i, m, c, comp.Canvas)
			return nil
		})
	}
	_ = g.Wait()

	rendered := 0
	selected := make([]string, len(comp.Monitors))
	for i, r := range comp.Monitors {
		selected[i] = r.Source
		if r.Status != MonitorFailed {
			rendered++
		}
	}
	slog.Info("Selected images", "images", selected)

	if rendered == 0 {
		return comp, ErrNoMonitorRendered
	}
	return comp, nil
}

func (cp *Composer) renderMonitor(
	i int, m MonitorConfig, c *Config, canvas *Canvas) (res MonitorResult) {

	res = MonitorResult{Index: i, Status: MonitorRendered}

	defer func() {
		if r := recover(); r != nil {
			res.Status = MonitorFailed
			res.Err = fmt.Errorf("monitor %d task failed: %v", i, r)
			slog.Error("Monitor task failed", "monitor", i, "error", res.Err)
		}
	}()

	if err := lowerPriority(); err != nil {
		slog.Debug("Unable to lower worker priority", "monitor", i, "error", err)
	}

	var img image.Image
	path, err := cp.resolve(m, c.ImageFileExtensions)
	if err == nil {
		res.Source = path
		img, err = cp.decode(path)
	}

	if err != nil {
		slog.Warn("Loading image failed, using placeholder",
			"monitor", i, "path", m.Path, "error", err)
		res.Status = MonitorDegraded
		res.Err = err
		img = Placeholder(m.Width, m.Height)
	}

	resized := Resize(img, m.Width, m.Height, c.Filter)

	if err := canvas.Blit(resized, m.XOffset, m.YOffset); err != nil {
		res.Status = MonitorFailed
		res.Err = err
		slog.Error("Unable to place image", "monitor", i, "error", err)
	}

	return res
}
