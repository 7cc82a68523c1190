package fissionlib

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pwntr/tinter"
)

// ParseLevel defaults to Info for anything unrecognized
func ParseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func isTTY(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// NewLogHandler picks coloured text for terminals and JSON otherwise.
// format is one of auto, text or json.
func NewLogHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	format = strings.ToLower(format)
	useTint := format == "text" || (format != "json" && isTTY(w))

	if useTint {
		return tinter.NewHandler(w, &tinter.Options{
			Level:      level,
			TimeFormat: "15:04:05.000",
		})
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// SetupLogging installs the default logger. When file is set output is
// appended to it instead of stderr; the returned closer must be called on
// exit.
func SetupLogging(file, format, level string) (io.Closer, error) {
	var w io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}

	if file != "" {
		f, err := os.OpenFile(file, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			return nil, err
		}
		w, closer = f, f
	}

	slog.SetDefault(slog.New(NewLogHandler(w, format, ParseLevel(level))))
	return closer, nil
}
