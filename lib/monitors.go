package fissionlib

// Monitor is a physical display as reported by the windowing system
type Monitor struct {
	Name   string
	Left   int
	Top    int
	Width  int
	Height int
}

// ConfigForMonitors builds a configuration whose canvas is the bounding box
// of every monitor, each showing a slideshow of imageDir. Layouts extending
// into negative coordinates are shifted so the canvas starts at the origin.
func ConfigForMonitors(monitors []Monitor, imageDir string) *Config {
	c := &Config{
		Schedule: DefaultSchedule,
		Backend:  BackendAuto,
	}
	if len(monitors) == 0 {
		return c
	}

	minX, minY := monitors[0].Left, monitors[0].Top
	for _, m := range monitors {
		if m.Left < minX {
			minX = m.Left
		}
		if m.Top < minY {
			minY = m.Top
		}
	}

	for _, m := range monitors {
		mc := MonitorConfig{
			UseSlideshow: true,
			Path:         imageDir,
			Width:        m.Width,
			Height:       m.Height,
			XOffset:      m.Left - minX,
			YOffset:      m.Top - minY,
		}

		if mc.XOffset+mc.Width > c.Width {
			c.Width = mc.XOffset + mc.Width
		}
		if mc.YOffset+mc.Height > c.Height {
			c.Height = mc.YOffset + mc.Height
		}
		c.Monitors = append(c.Monitors, mc)
	}

	return c
}
