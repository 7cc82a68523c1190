package fissionlib

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"
)

// OutputDir owns the directory artifacts are written to. Only the scheduler
// touches it, one cycle at a time.
type OutputDir struct {
	dir    string
	format string
}

func NewOutputDir(dir, format string) (*OutputDir, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if _, ok := encoders[format]; !ok {
		return nil, fmt.Errorf("unknown output format [%s]", format)
	}
	return &OutputDir{dir: abs, format: format}, nil
}

func (o *OutputDir) Dir() string {
	return o.dir
}

// Purge removes every regular file in the directory, creating it if needed
func (o *OutputDir) Purge() error {
	if err := os.MkdirAll(o.dir, 0755); err != nil {
		return fmt.Errorf("error creating output directory [%s]: %w", o.dir, err)
	}

	entries, err := os.ReadDir(o.dir)
	if err != nil {
		return fmt.Errorf("error reading output directory [%s]: %w", o.dir, err)
	}

	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		path := filepath.Join(o.dir, e.Name())
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("error removing old background [%s]: %w", path, err)
		}
	}
	return nil
}

// Publish encodes img into a new file named after the cycle's start time and
// returns its absolute path.
func (o *OutputDir) Publish(start time.Time, img image.Image) (string, error) {
	if err := os.MkdirAll(o.dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory [%s]: %w", o.dir, err)
	}

	out, err := o.nextName(start)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(o.dir, ".background-*.wip")
	if err != nil {
		return "", err
	}

	err = encoders[o.format](tmp, img)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		// Renaming is atomic enough for the backends
		err = os.Rename(tmp.Name(), out)
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("error saving background [%s]: %w", out, err)
	}

	return out, nil
}

// Two cycles in the same second would collide, fall back to a counter
func (o *OutputDir) nextName(start time.Time) (string, error) {
	unique := start.Unix()
	name := filepath.Join(o.dir, fmt.Sprintf("background-%d.%s", unique, o.format))

	for n := 1; ; n++ {
		_, err := os.Lstat(name)
		if os.IsNotExist(err) {
			return name, nil
		}
		if err != nil {
			return "", err
		}
		name = filepath.Join(o.dir, fmt.Sprintf("background-%d-%d.%s", unique, n, o.format))
	}
}
