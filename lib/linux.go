//go:build !windows

package fissionlib

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"syscall"
)

var sysProcAttr = &syscall.SysProcAttr{}

const dbusAddress = "DBUS_SESSION_BUS_ADDRESS"

// dconf and gsettings silently write to the wrong place without a session
// bus, which is the normal state of affairs when started from a service
// manager. Assume a per-user bus.
func setDBUSAddress() error {
	if os.Getenv(dbusAddress) != "" {
		return nil
	}

	u, err := user.Current()
	if err != nil {
		return err
	}
	if u.Uid == "" {
		return errors.New("no uid for current user")
	}
	return os.Setenv(dbusAddress, "unix:path=/run/user/"+u.Uid+"/bus")
}

// NewBackend resolves a configured backend name once at startup
func NewBackend(name string) (Backend, error) {
	if name == BackendAuto {
		name = DetectBackend()
		slog.Info("Detected backend", "backend", name)
	}

	switch name {
	case BackendCinnamon, BackendGnome:
		if err := setDBUSAddress(); err != nil {
			return nil, err
		}
		if name == BackendCinnamon {
			return newCinnamonBackend(runCommand), nil
		}
		return newGnomeBackend(runCommand), nil
	case BackendFeh:
		return newFehBackend(runCommand), nil
	}

	return nil, fmt.Errorf("backend [%s] is not supported on this platform", name)
}

// DetectBackend checks XDG_CURRENT_DESKTOP, then asks the X server for the
// running window manager. Anything unrecognized gets feh.
func DetectBackend() string {
	if b := backendFromDesktop(os.Getenv("XDG_CURRENT_DESKTOP")); b != "" {
		return b
	}

	wm, err := WindowManagerName()
	if err != nil {
		slog.Debug("Unable to query window manager", "error", err)
		return BackendFeh
	}

	if b := backendFromDesktop(wm); b != "" {
		return b
	}
	return BackendFeh
}

// No-op
func AttachParentConsole() {}
