package fissionlib

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"golang.org/x/image/draw"
)

var ErrOutOfBounds = errors.New("image does not fit inside the canvas")

// Canvas is the full multi-monitor wallpaper. Workers share it for the
// duration of a single cycle; Blit is the only mutation.
type Canvas struct {
	mu  sync.Mutex
	img *image.RGBA
}

// NewCanvas allocates a transparent canvas
func NewCanvas(width, height int) *Canvas {
	return &Canvas{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

func (c *Canvas) Bounds() image.Rectangle {
	return c.img.Bounds()
}

// Blit copies src onto the canvas with its top-left corner at (x, y). The
// whole of src must land inside the canvas.
func (c *Canvas) Blit(src image.Image, x, y int) error {
	sb := src.Bounds()
	r := image.Rect(x, y, x+sb.Dx(), y+sb.Dy())
	if !r.In(c.Bounds()) {
		return fmt.Errorf("%w: %v outside %v", ErrOutOfBounds, r, c.Bounds())
	}

	c.mu.Lock()
	draw.Draw(c.img, r, src, sb.Min, draw.Src)
	c.mu.Unlock()
	return nil
}

// Image hands out the underlying buffer. Only call once every worker has
// finished.
func (c *Canvas) Image() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.img
}
