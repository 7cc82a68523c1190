package fissionlib

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/awused/awconf"
	"github.com/gorhill/cronexpr"
)

const appName = "background-fission"

const DefaultSchedule = "0 1/30 * * * * *"

type MonitorConfig struct {
	UseSlideshow bool   `toml:"use_slideshow"`
	Path         string `toml:"path"`
	Width        int    `toml:"width"`
	Height       int    `toml:"height"`
	XOffset      int    `toml:"x_offset"`
	YOffset      int    `toml:"y_offset"`
}

// Rect is the region of the canvas this monitor covers
func (m MonitorConfig) Rect() image.Rectangle {
	return image.Rect(m.XOffset, m.YOffset, m.XOffset+m.Width, m.YOffset+m.Height)
}

// Config is read once at startup and never modified afterwards. Every cycle
// receives the same pointer.
type Config struct {
	Width    int             `toml:"width"`
	Height   int             `toml:"height"`
	Monitors []MonitorConfig `toml:"monitors"`
	Schedule string          `toml:"schedule"`
	Backend  string          `toml:"backend"`

	OutputDir    string `toml:"output_dir,omitempty"`
	OutputFormat string `toml:"output_format,omitempty"`
	Filter       string `toml:"filter,omitempty"`
	MaxWorkers   int    `toml:"max_workers,omitempty"`
	// Seconds between checks of the schedule
	PollInterval        int      `toml:"poll_interval,omitempty"`
	ImageFileExtensions []string `toml:"image_file_extensions,omitempty"`

	LogFile   string `toml:"log_file,omitempty"`
	LogLevel  string `toml:"log_level,omitempty"`
	LogFormat string `toml:"log_format,omitempty"`
}

type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + e.Reason
}

func configErrorf(format string, args ...interface{}) error {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// LoadConfig reads the configuration from file, or searches the standard
// locations when file is empty.
func LoadConfig(file string) (*Config, error) {
	c := &Config{}

	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, &ConfigError{Reason: err.Error()}
		}
		return ParseConfig(string(data))
	}

	if err := awconf.LoadConfig(appName, c); err != nil {
		// awconf only looks under $HOME, which is often unset on Windows
		def, derr := DefaultConfigFile()
		if derr != nil {
			return nil, &ConfigError{Reason: err.Error()}
		}
		data, rerr := os.ReadFile(def)
		if rerr != nil {
			return nil, &ConfigError{Reason: err.Error()}
		}
		return ParseConfig(string(data))
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// ParseConfig decodes and validates a TOML document
func ParseConfig(data string) (*Config, error) {
	c := &Config{}
	if _, err := toml.Decode(data, c); err != nil {
		return nil, &ConfigError{Reason: err.Error()}
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// DefaultConfigDir must stay inside awconf's search path on every platform
func DefaultConfigDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

func DefaultConfigFile() (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName+".toml"), nil
}

// DefaultConfig mirrors the file written on first run: one slideshow monitor
// over the user's pictures.
func DefaultConfig() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	return &Config{
		Width:  1920,
		Height: 1080,
		Monitors: []MonitorConfig{{
			UseSlideshow: true,
			Path:         filepath.Join(home, "Pictures"),
			Width:        1920,
			Height:       1080,
		}},
		Schedule: DefaultSchedule,
		Backend:  BackendFeh,
	}, nil
}

// WriteConfig refuses to clobber an existing file
func WriteConfig(c *Config, file string) error {
	err := os.MkdirAll(filepath.Dir(file), 0755)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(file, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}

	err = toml.NewEncoder(f).Encode(c)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func (c *Config) CronExpression() (*cronexpr.Expression, error) {
	return cronexpr.Parse(c.Schedule)
}

func (c *Config) PollDuration() time.Duration {
	return time.Duration(c.PollInterval) * time.Second
}

func (c *Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return configErrorf("canvas size %dx%d must be positive", c.Width, c.Height)
	}

	if len(c.Monitors) == 0 {
		return configErrorf("no monitors present in config")
	}

	canvas := image.Rect(0, 0, c.Width, c.Height)
	for i, m := range c.Monitors {
		if m.Path == "" {
			return configErrorf("monitor %d is missing a path", i)
		}
		if m.Width <= 0 || m.Height <= 0 {
			return configErrorf("monitor %d size %dx%d must be positive", i, m.Width, m.Height)
		}
		if m.XOffset < 0 || m.YOffset < 0 {
			return configErrorf("monitor %d has a negative offset", i)
		}
		if !m.Rect().In(canvas) {
			return configErrorf(
				"monitor %d [%v] does not fit inside the %dx%d canvas", i, m.Rect(), c.Width, c.Height)
		}
	}

	if c.Schedule == "" {
		c.Schedule = DefaultSchedule
	}
	// Six fields lead with seconds. cronexpr would read them as ending in a
	// year, so spell out the year.
	if len(strings.Fields(c.Schedule)) == 6 {
		c.Schedule += " *"
	}
	if _, err := c.CronExpression(); err != nil {
		return configErrorf("unable to parse schedule [%s]: %s", c.Schedule, err)
	}

	c.Backend = strings.ToLower(c.Backend)
	if c.Backend == "" {
		c.Backend = BackendAuto
	}
	if !validBackend(c.Backend) {
		return configErrorf("unknown backend [%s]", c.Backend)
	}

	if c.OutputDir == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return configErrorf("unable to determine output directory: %s", err)
		}
		c.OutputDir = filepath.Join(dir, "images")
	}

	fi, err := os.Stat(c.OutputDir)
	if err == nil && !fi.IsDir() {
		return configErrorf("output_dir [%s] is a regular file", c.OutputDir)
	} else if err != nil && !os.IsNotExist(err) {
		return configErrorf("error calling os.Stat on output_dir [%s]: %s", c.OutputDir, err)
	}

	c.OutputFormat = strings.ToLower(c.OutputFormat)
	if c.OutputFormat == "" {
		c.OutputFormat = "png"
	}
	if _, ok := encoders[c.OutputFormat]; !ok {
		return configErrorf("unknown output_format [%s]", c.OutputFormat)
	}

	c.Filter = strings.ToLower(c.Filter)
	if c.Filter == "" {
		c.Filter = "catmullrom"
	}
	if _, ok := filters[c.Filter]; !ok {
		return configErrorf("unknown filter [%s]", c.Filter)
	}

	if c.MaxWorkers < 0 {
		return configErrorf("max_workers must not be negative")
	}

	if c.PollInterval < 0 {
		return configErrorf("poll_interval must not be negative")
	}
	if c.PollInterval == 0 {
		c.PollInterval = 1
	}

	for i, ext := range c.ImageFileExtensions {
		ext = strings.ToLower(ext)
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.ImageFileExtensions[i] = ext
	}

	return nil
}
