package fissionlib

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

const (
	BackendAuto     = "auto"
	BackendCinnamon = "cinnamon"
	BackendGnome    = "gnome"
	BackendFeh      = "feh"
	BackendWindows  = "windows"
)

func validBackend(name string) bool {
	switch name {
	case BackendAuto, BackendCinnamon, BackendGnome, BackendFeh, BackendWindows:
		return true
	}
	return false
}

// Backend makes a finished artifact the visible wallpaper
type Backend interface {
	Name() string
	Apply(ctx context.Context, path string) error
}

type ApplyError struct {
	Backend string
	Step    string
	Err     error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("unable to set background with %s (%s): %s", e.Backend, e.Step, e.Err)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}

// KeyStore is a desktop environment's configuration registry
type KeyStore interface {
	Write(ctx context.Context, key, value string) error
}

// RegistryBackend writes the wallpaper URI then the layout mode. The layout
// is only written once the URI has been accepted.
type RegistryBackend struct {
	name        string
	store       KeyStore
	uriKey      string
	layoutKey   string
	layoutValue string
	// Defaults to a file:// URI
	uri func(path string) string
}

func (b *RegistryBackend) Name() string {
	return b.name
}

func (b *RegistryBackend) Apply(ctx context.Context, path string) error {
	uri := "file://" + path
	if b.uri != nil {
		uri = b.uri(path)
	}

	if err := b.store.Write(ctx, b.uriKey, uri); err != nil {
		return &ApplyError{Backend: b.name, Step: b.uriKey, Err: err}
	}

	if err := b.store.Write(ctx, b.layoutKey, b.layoutValue); err != nil {
		return &ApplyError{Backend: b.name, Step: b.layoutKey, Err: err}
	}
	return nil
}

// HelperBackend hands the artifact to an external program as its final
// argument
type HelperBackend struct {
	name    string
	program string
	args    []string
	run     commandRunner
}

func (b *HelperBackend) Name() string {
	return b.name
}

func (b *HelperBackend) Apply(ctx context.Context, path string) error {
	args := append(append([]string{}, b.args...), path)
	if err := b.run(ctx, b.program, args...); err != nil {
		return &ApplyError{Backend: b.name, Step: b.program, Err: err}
	}
	return nil
}

type commandRunner func(ctx context.Context, name string, args ...string) error

func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.SysProcAttr = sysProcAttr
	out, err := cmd.CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

// dconf only accepts GVariant text
type dconfStore struct {
	run commandRunner
}

func (s dconfStore) Write(ctx context.Context, key, value string) error {
	return s.run(ctx, "dconf", "write", key, gvariantString(value))
}

func gvariantString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}

type gsettingsStore struct {
	schema string
	run    commandRunner
}

func (s gsettingsStore) Write(ctx context.Context, key, value string) error {
	return s.run(ctx, "gsettings", "set", s.schema, key, value)
}

func newCinnamonBackend(run commandRunner) *RegistryBackend {
	return &RegistryBackend{
		name:        BackendCinnamon,
		store:       dconfStore{run: run},
		uriKey:      "/org/cinnamon/desktop/background/picture-uri",
		layoutKey:   "/org/cinnamon/desktop/background/picture-options",
		layoutValue: "spanned",
	}
}

func newGnomeBackend(run commandRunner) *RegistryBackend {
	return &RegistryBackend{
		name:        BackendGnome,
		store:       gsettingsStore{schema: "org.gnome.desktop.background", run: run},
		uriKey:      "picture-uri",
		layoutKey:   "picture-options",
		layoutValue: "spanned",
	}
}

// The image already spans every monitor, so feh must treat the screen as one
func newFehBackend(run commandRunner) *HelperBackend {
	return &HelperBackend{
		name:    BackendFeh,
		program: "feh",
		args:    []string{"--no-xinerama", "--bg-center"},
		run:     run,
	}
}

// backendFromDesktop maps an XDG_CURRENT_DESKTOP value or window manager name
// onto a backend. Empty if nothing matched.
func backendFromDesktop(desktop string) string {
	d := strings.ToLower(desktop)
	switch {
	case strings.Contains(d, "cinnamon"), strings.Contains(d, "muffin"):
		return BackendCinnamon
	case strings.Contains(d, "gnome"), strings.Contains(d, "mutter"),
		strings.Contains(d, "unity"), strings.Contains(d, "budgie"):
		return BackendGnome
	}
	return ""
}
