package fissionlib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigForMonitors(t *testing.T) {
	c := ConfigForMonitors([]Monitor{
		{Name: "DP-1", Left: 0, Top: 0, Width: 2560, Height: 1440},
		{Name: "HDMI-1", Left: -1920, Top: 360, Width: 1920, Height: 1080},
	}, "/images")

	assert.Equal(t, 4480, c.Width)
	assert.Equal(t, 1440, c.Height)
	assert.Equal(t, []MonitorConfig{
		{UseSlideshow: true, Path: "/images", Width: 2560, Height: 1440, XOffset: 1920},
		{UseSlideshow: true, Path: "/images", Width: 1920, Height: 1080, YOffset: 360},
	}, c.Monitors)

	c.OutputDir = t.TempDir()
	require.NoError(t, c.validate())
}

func TestConfigForNoMonitors(t *testing.T) {
	c := ConfigForMonitors(nil, "/images")
	assert.Empty(t, c.Monitors)
	assert.Error(t, c.validate())
}
