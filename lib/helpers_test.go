package fissionlib

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// gradient is opaque and varies in both directions so resizing produces
// something other than a flat colour
func gradient(w, h int, tint uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: tint,
				A: 0xff,
			})
		}
	}
	return img
}

func writePNG(t *testing.T, path string, img image.Image) string {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func writeFile(t *testing.T, path, contents string) string {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

// requireRegion checks that the pixels of got inside r match want exactly
func requireRegion(t *testing.T, got *image.RGBA, r image.Rectangle, want *image.RGBA) {
	t.Helper()

	require.Equal(t, r.Dx(), want.Bounds().Dx())
	require.Equal(t, r.Dy(), want.Bounds().Dy())

	for y := 0; y < r.Dy(); y++ {
		gotRow := got.Pix[got.PixOffset(r.Min.X, r.Min.Y+y):got.PixOffset(r.Max.X, r.Min.Y+y)]
		wantRow := want.Pix[want.PixOffset(0, y):want.PixOffset(r.Dx(), y)]
		if string(gotRow) != string(wantRow) {
			t.Fatalf("row %d of region %v differs", y, r)
		}
	}
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	names := []string{}
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func testConfig(t *testing.T, width, height int, monitors ...MonitorConfig) *Config {
	t.Helper()

	c := &Config{
		Width:     width,
		Height:    height,
		Monitors:  monitors,
		Backend:   BackendFeh,
		OutputDir: filepath.Join(t.TempDir(), "images"),
	}
	require.NoError(t, c.validate())
	return c
}
