package fissionlib

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type write struct {
	key   string
	value string
}

type fakeStore struct {
	writes []write
	fail   map[string]error
}

func (s *fakeStore) Write(_ context.Context, key, value string) error {
	s.writes = append(s.writes, write{key, value})
	return s.fail[key]
}

type recordedCommand struct {
	name string
	args []string
}

type fakeRunner struct {
	commands []recordedCommand
	err      error
}

func (r *fakeRunner) run(_ context.Context, name string, args ...string) error {
	r.commands = append(r.commands, recordedCommand{name, args})
	return r.err
}

func TestRegistryBackendWritesURIThenLayout(t *testing.T) {
	store := &fakeStore{}
	b := &RegistryBackend{
		name:        "test",
		store:       store,
		uriKey:      "uri",
		layoutKey:   "layout",
		layoutValue: "spanned",
	}

	require.NoError(t, b.Apply(context.Background(), "/out/background-1.png"))
	assert.Equal(t, []write{
		{"uri", "file:///out/background-1.png"},
		{"layout", "spanned"},
	}, store.writes)
}

func TestRegistryBackendStopsAfterFailedURIWrite(t *testing.T) {
	cause := errors.New("registry unavailable")
	store := &fakeStore{fail: map[string]error{"uri": cause}}
	b := &RegistryBackend{name: "test", store: store, uriKey: "uri", layoutKey: "layout"}

	err := b.Apply(context.Background(), "/out/background-1.png")

	var ae *ApplyError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "uri", ae.Step)
	assert.True(t, errors.Is(err, cause))
	assert.Len(t, store.writes, 1, "layout must not be written")
}

func TestRegistryBackendReportsFailedLayoutWrite(t *testing.T) {
	store := &fakeStore{fail: map[string]error{"layout": errors.New("nope")}}
	b := &RegistryBackend{name: "test", store: store, uriKey: "uri", layoutKey: "layout"}

	err := b.Apply(context.Background(), "/x.png")

	var ae *ApplyError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "layout", ae.Step)
	assert.Len(t, store.writes, 2)
}

func TestCinnamonBackendUsesDconf(t *testing.T) {
	r := &fakeRunner{}
	b := newCinnamonBackend(r.run)

	require.NoError(t, b.Apply(context.Background(), "/home/u/it's.png"))
	require.Len(t, r.commands, 2)

	assert.Equal(t, "dconf", r.commands[0].name)
	assert.Equal(t, []string{
		"write",
		"/org/cinnamon/desktop/background/picture-uri",
		`'file:///home/u/it\'s.png'`,
	}, r.commands[0].args)
	assert.Equal(t, []string{
		"write",
		"/org/cinnamon/desktop/background/picture-options",
		"'spanned'",
	}, r.commands[1].args)
}

func TestCinnamonBackendFailedCommand(t *testing.T) {
	r := &fakeRunner{err: errors.New("exit status 1")}
	b := newCinnamonBackend(r.run)

	err := b.Apply(context.Background(), "/a.png")

	var ae *ApplyError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, BackendCinnamon, ae.Backend)
	assert.Len(t, r.commands, 1)
}

func TestGnomeBackendUsesGsettings(t *testing.T) {
	r := &fakeRunner{}
	b := newGnomeBackend(r.run)

	require.NoError(t, b.Apply(context.Background(), "/a.png"))
	assert.Equal(t, []recordedCommand{
		{"gsettings", []string{"set", "org.gnome.desktop.background", "picture-uri", "file:///a.png"}},
		{"gsettings", []string{"set", "org.gnome.desktop.background", "picture-options", "spanned"}},
	}, r.commands)
}

func TestFehBackend(t *testing.T) {
	r := &fakeRunner{}
	b := newFehBackend(r.run)

	require.NoError(t, b.Apply(context.Background(), "/a.png"))
	assert.Equal(t, []recordedCommand{
		{"feh", []string{"--no-xinerama", "--bg-center", "/a.png"}},
	}, r.commands)

	// Arguments are not shared between calls
	require.NoError(t, b.Apply(context.Background(), "/b.png"))
	assert.Equal(t, []string{"--no-xinerama", "--bg-center", "/b.png"}, r.commands[1].args)
}

func TestFehBackendFailure(t *testing.T) {
	r := &fakeRunner{err: errors.New("exec: \"feh\": executable file not found in $PATH")}
	err := newFehBackend(r.run).Apply(context.Background(), "/a.png")

	var ae *ApplyError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "feh", ae.Step)
	assert.True(t, strings.Contains(err.Error(), "not found"))
}

func TestBackendFromDesktop(t *testing.T) {
	tests := map[string]string{
		"X-Cinnamon":    BackendCinnamon,
		"muffin":        BackendCinnamon,
		"ubuntu:GNOME":  BackendGnome,
		"GNOME Shell":   BackendGnome,
		"Budgie:GNOME":  BackendGnome,
		"i3":            "",
		"":              "",
		"KDE":           "",
		"Mutter(Gnome)": BackendGnome,
	}

	for in, want := range tests {
		assert.Equal(t, want, backendFromDesktop(in), in)
	}
}

func TestGvariantString(t *testing.T) {
	assert.Equal(t, "'plain'", gvariantString("plain"))
	assert.Equal(t, `'a\'b'`, gvariantString("a'b"))
	assert.Equal(t, `'a\\b'`, gvariantString(`a\b`))
}
