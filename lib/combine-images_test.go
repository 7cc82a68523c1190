package fissionlib

import (
	"errors"
	"image"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanvasStartsTransparent(t *testing.T) {
	c := NewCanvas(8, 4)

	img := c.Image()
	assert.Equal(t, image.Rect(0, 0, 8, 4), img.Bounds())
	for _, b := range img.Pix {
		require.Zero(t, b)
	}
}

func TestCanvasBlit(t *testing.T) {
	c := NewCanvas(20, 10)
	src := gradient(5, 4, 7)

	require.NoError(t, c.Blit(src, 3, 2))

	img := c.Image()
	requireRegion(t, img, image.Rect(3, 2, 8, 6), src)
	// Untouched outside the region
	assert.Zero(t, img.RGBAAt(2, 2).A)
	assert.Zero(t, img.RGBAAt(8, 5).A)
}

func TestCanvasBlitOffsetSource(t *testing.T) {
	c := NewCanvas(10, 10)
	src := gradient(8, 8, 1).SubImage(image.Rect(2, 2, 6, 6)).(*image.RGBA)

	require.NoError(t, c.Blit(src, 0, 0))

	want := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			want.SetRGBA(x, y, src.RGBAAt(x+2, y+2))
		}
	}
	requireRegion(t, c.Image(), image.Rect(0, 0, 4, 4), want)
}

func TestCanvasBlitOutOfBounds(t *testing.T) {
	c := NewCanvas(10, 10)

	for _, pt := range []image.Point{{8, 0}, {0, 8}, {-1, 0}, {0, -1}} {
		err := c.Blit(gradient(4, 4, 0), pt.X, pt.Y)
		assert.True(t, errors.Is(err, ErrOutOfBounds), "offset %v", pt)
	}

	for _, b := range c.Image().Pix {
		require.Zero(t, b)
	}
}

func TestCanvasConcurrentBlits(t *testing.T) {
	c := NewCanvas(40, 10)
	srcs := make([]*image.RGBA, 4)

	var wg sync.WaitGroup
	for i := range srcs {
		srcs[i] = gradient(10, 10, uint8(i*50))
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, c.Blit(srcs[i], i*10, 0))
		}(i)
	}
	wg.Wait()

	for i, src := range srcs {
		requireRegion(t, c.Image(), image.Rect(i*10, 0, i*10+10, 10), src)
	}
}
