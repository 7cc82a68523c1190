//go:build !windows

package fissionlib

import (
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
)

var displayRE = regexp.MustCompile(`^:[0-9]+`)

// Trims individual screens out of an X11 DISPLAY variable
func trimDisplay(display string) string {
	trimmed := displayRE.FindString(display)
	if trimmed != "" {
		return trimmed
	}
	return display
}

func connect() (*xgbutil.XUtil, error) {
	// Stop polluting stderr
	xgb.Logger.SetOutput(io.Discard)
	xgbutil.Logger.SetOutput(io.Discard)

	return xgbutil.NewConnDisplay(trimDisplay(os.Getenv("DISPLAY")))
}

func WindowManagerName() (string, error) {
	X, err := connect()
	if err != nil {
		return "", err
	}
	defer X.Conn().Close()

	wm, err := ewmh.GetEwmhWM(X)
	if err != nil {
		return "", err
	}
	return strings.ToLower(wm), nil
}

// GetMonitors lists every active CRTC, ordered left to right then top to
// bottom.
func GetMonitors() ([]Monitor, error) {
	X, err := connect()
	if err != nil {
		return nil, err
	}
	Xgb := X.Conn()
	defer Xgb.Close()

	err = randr.Init(Xgb)
	if err != nil {
		return nil, err
	}

	root := xproto.Setup(Xgb).DefaultScreen(Xgb).Root

	resources, err := randr.GetScreenResources(Xgb, root).Reply()
	if err != nil {
		return nil, err
	}

	monitors := []Monitor{}
	for _, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(Xgb, crtc, 0).Reply()
		if err != nil {
			return nil, err
		}

		// Disabled
		if info.Width == 0 || info.Height == 0 {
			continue
		}

		m := Monitor{
			Left:   int(info.X),
			Top:    int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
		}

		if len(info.Outputs) > 0 {
			out, err := randr.GetOutputInfo(Xgb, info.Outputs[0], 0).Reply()
			if err == nil {
				m.Name = string(out.Name)
			}
		}

		monitors = append(monitors, m)
	}

	sort.Slice(monitors, func(i, j int) bool {
		if monitors[i].Left != monitors[j].Left {
			return monitors[i].Left < monitors[j].Left
		}
		return monitors[i].Top < monitors[j].Top
	})

	return monitors, nil
}
