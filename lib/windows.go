//go:build windows

package fissionlib

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"syscall"
	"unsafe"

	ole "github.com/go-ole/go-ole"
	"golang.org/x/sys/windows/registry"
)

type rect struct {
	left   int32
	top    int32
	right  int32
	bottom int32
}

// DesktopWallpaper does not extend IDispatch so this needs to be done manually
type IDesktopWallpaperVtbl struct {
	QueryInterface            uintptr
	AddRef                    uintptr
	Release                   uintptr
	SetWallpaper              uintptr
	GetWallpaper              uintptr
	GetMonitorDevicePathAt    uintptr
	GetMonitorDevicePathCount uintptr
	GetMonitorRECT            uintptr
	SetBackgroundColor        uintptr
	GetBackgroundColor        uintptr
	SetPosition               uintptr
	GetPosition               uintptr
	SetSlideshow              uintptr
	GetSlideshow              uintptr
	SetSlideshowOptions       uintptr
	GetSlideshowOptions       uintptr
	AdvanceSlideshow          uintptr
	GetStatus                 uintptr
	Enable                    uintptr
}

// Pulled from headers
const CLSID = "{C2CF3110-460E-4fc1-B9D0-8A1C0C9CC4BD}"
const IID = "{B92B56A9-8B55-4E14-9A89-0199BBB6F93B}"
const DWPOS_SPAN = uintptr(5)

// Monitor is counted but isn't attached to the computer
const S_FALSE = uintptr(2147500037)

var sysProcAttr = &syscall.SysProcAttr{HideWindow: true}

var modole32 = syscall.NewLazyDLL("ole32.dll")
var coTaskMemFree = modole32.NewProc("CoTaskMemFree")

const (
	wallpaperKey      = "Wallpaper"
	wallpaperStyleKey = "WallpaperStyle"
	// Span
	wallpaperStyleSpan = "22"
)

func NewBackend(name string) (Backend, error) {
	if name == BackendAuto {
		name = DetectBackend()
		slog.Info("Detected backend", "backend", name)
	}

	if name != BackendWindows {
		return nil, fmt.Errorf("backend [%s] is not supported on this platform", name)
	}

	return &RegistryBackend{
		name:        BackendWindows,
		store:       desktopStore{},
		uriKey:      wallpaperKey,
		layoutKey:   wallpaperStyleKey,
		layoutValue: wallpaperStyleSpan,
		uri:         func(path string) string { return path },
	}, nil
}

func DetectBackend() string {
	return BackendWindows
}

func WindowManagerName() (string, error) {
	return "", errors.New("window manager detection is not supported on Windows")
}

// desktopStore writes through IDesktopWallpaper so the change is visible
// immediately, and mirrors the layout into the registry so it survives a
// restart of explorer.
type desktopStore struct{}

func (desktopStore) Write(ctx context.Context, key, value string) error {
	switch key {
	case wallpaperKey:
		return withDesktopWallpaper(func(desktop *ole.IUnknown, vtable *IDesktopWallpaperVtbl) error {
			// A null monitor ID applies to every monitor
			hr, _, _ := syscall.Syscall(
				vtable.SetWallpaper,
				3,
				uintptr(unsafe.Pointer(desktop)),
				0,
				uintptr(unsafe.Pointer(syscall.StringToUTF16Ptr(value))))
			if hr != 0 {
				return fmt.Errorf("unexpected value from SetWallpaper %d", hr)
			}
			return nil
		})
	case wallpaperStyleKey:
		if err := setRegistryKeys(value); err != nil {
			return err
		}
		return withDesktopWallpaper(func(desktop *ole.IUnknown, vtable *IDesktopWallpaperVtbl) error {
			hr, _, _ := syscall.Syscall(
				vtable.SetPosition,
				2,
				uintptr(unsafe.Pointer(desktop)),
				DWPOS_SPAN,
				0)
			if hr != 0 {
				return fmt.Errorf("unexpected value from SetPosition %d", hr)
			}
			return nil
		})
	}
	return fmt.Errorf("unknown desktop key [%s]", key)
}

func setRegistryKeys(style string) error {
	k, err := registry.OpenKey(registry.CURRENT_USER, `Control Panel\Desktop`, registry.SET_VALUE)
	if err != nil {
		return err
	}
	defer k.Close()

	err = k.SetStringValue("WallpaperStyle", style)
	if err != nil {
		return err
	}

	return k.SetStringValue("TileWallpaper", "0")
}

func withDesktopWallpaper(
	f func(desktop *ole.IUnknown, vtable *IDesktopWallpaperVtbl) error) error {

	err := ole.CoInitialize(0)
	if err != nil {
		return err
	}
	defer ole.CoUninitialize()

	desktop, err := ole.CreateInstance(
		ole.NewGUID(CLSID),
		ole.NewGUID(IID))
	if err != nil {
		return err
	}
	defer desktop.Release()

	return f(desktop, (*IDesktopWallpaperVtbl)(unsafe.Pointer(desktop.RawVTable)))
}

func GetMonitors() ([]Monitor, error) {
	var monitors []Monitor

	err := withDesktopWallpaper(func(desktop *ole.IUnknown, vtable *IDesktopWallpaperVtbl) error {
		var count uint32

		hr, _, err := syscall.Syscall(
			vtable.GetMonitorDevicePathCount,
			2,
			uintptr(unsafe.Pointer(desktop)),
			uintptr(unsafe.Pointer(&count)),
			0)
		if hr != 0 {
			return fmt.Errorf(
				"unexpected value from GetMonitorDevicePathCount %d %v", hr, err)
		}

		for i := uint32(0); i < count; i++ {
			var pathOut *[1 << 30]uint16

			hr, _, err = syscall.Syscall(
				vtable.GetMonitorDevicePathAt,
				3,
				uintptr(unsafe.Pointer(desktop)),
				uintptr(i),
				uintptr(unsafe.Pointer(&pathOut)))
			if hr != 0 {
				return fmt.Errorf(
					"unexpected value from GetMonitorDevicePathAt %d %v", hr, err)
			}

			m := rect{}
			rectHR, _, errno := syscall.Syscall(
				vtable.GetMonitorRECT,
				3,
				uintptr(unsafe.Pointer(desktop)),
				uintptr(unsafe.Pointer(pathOut)),
				uintptr(unsafe.Pointer(&m)))
			if (rectHR != 0 && rectHR != S_FALSE) || errno != 0 {
				return fmt.Errorf(
					"unexpected value from GetMonitorRECT %d %v", rectHR, errno)
			}
			// Convert immediately so memory allocated outside of Go's control
			// can be freed
			path := syscall.UTF16ToString(pathOut[:])

			_, _, errno = syscall.Syscall(
				coTaskMemFree.Addr(),
				1,
				uintptr(unsafe.Pointer(pathOut)),
				0,
				0)
			if errno != 0 {
				return fmt.Errorf(
					"unexpected value from CoTaskMemFree %d, %v", hr, err)
			}

			if rectHR == S_FALSE {
				continue
			}

			monitors = append(monitors, Monitor{
				Name:   path,
				Left:   int(m.left),
				Top:    int(m.top),
				Width:  int(m.right - m.left),
				Height: int(m.bottom - m.top)})
		}
		return nil
	})

	return monitors, err
}

const ATTACH_PARENT_PROCESS = uintptr(^uint32(0)) // (DWORD)-1

var modkernel32 = syscall.NewLazyDLL("kernel32.dll")
var procAttachConsole = modkernel32.NewProc("AttachConsole")

// Attempts to attach to the parent console if one exists so we can get stdout
// Note that it's impossible to properly redirect stdin
// See https://stackoverflow.com/questions/23743217/
func AttachParentConsole() {
	r, _, _ :=
		syscall.Syscall(procAttachConsole.Addr(), 1, ATTACH_PARENT_PROCESS, 0, 0)

	if r == 0 {
		return
	}

	hout, err := syscall.GetStdHandle(syscall.STD_OUTPUT_HANDLE)
	if err != nil {
		return
	}
	herr, err := syscall.GetStdHandle(syscall.STD_ERROR_HANDLE)
	if err != nil {
		return
	}

	os.Stdout = os.NewFile(uintptr(hout), "/dev/stdout")
	os.Stderr = os.NewFile(uintptr(herr), "/dev/stderr")
}
