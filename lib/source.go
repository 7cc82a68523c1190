package fissionlib

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

type PathError struct {
	Path   string
	Reason string
	Err    error
}

func (e *PathError) Error() string {
	if e.Err != nil {
		return e.Reason + " [" + e.Path + "]: " + e.Err.Error()
	}
	return e.Reason + " [" + e.Path + "]"
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// ResolveImagePath picks the file a monitor will show this cycle. In
// slideshow mode the file is chosen uniformly at random from the regular
// files directly inside the directory, optionally limited to exts.
func ResolveImagePath(m MonitorConfig, exts []string) (string, error) {
	base, err := canonicalize(m.Path)
	if err != nil {
		return "", &PathError{Path: m.Path, Reason: "unable to canonicalize path", Err: err}
	}

	fi, err := os.Stat(base)
	if err != nil {
		return "", &PathError{Path: base, Reason: "unable to stat path", Err: err}
	}

	if !m.UseSlideshow {
		if !fi.Mode().IsRegular() {
			return "", &PathError{Path: base, Reason: "path is not a file"}
		}
		return base, nil
	}

	if !fi.IsDir() {
		return "", &PathError{Path: base, Reason: "path is not a directory"}
	}

	files, err := listImageFiles(base, exts)
	if len(files) == 0 {
		return "", &PathError{Path: base, Reason: "unable to choose image", Err: err}
	}

	return files[rand.Intn(len(files))], nil
}

func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// Unreadable entries are skipped; the error is only returned alongside an
// empty result
func listImageFiles(dir string, exts []string) ([]string, error) {
	// os.ReadDir still returns whatever it managed to read on error
	entries, err := os.ReadDir(dir)

	files := []string{}
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if !hasExtension(path, exts) {
			continue
		}

		// Follow symlinks
		fi, serr := os.Stat(path)
		if serr != nil || !fi.Mode().IsRegular() {
			continue
		}
		files = append(files, path)
	}

	return files, err
}

func hasExtension(path string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}

	pathLower := strings.ToLower(path)
	for _, ext := range exts {
		if strings.HasSuffix(pathLower, ext) {
			return true
		}
	}
	return false
}
