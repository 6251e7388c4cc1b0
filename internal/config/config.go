package config

import (
	"fmt"
	"path/filepath"

	"github.com/openra/ra-launcher/internal/launch"
	"github.com/openra/ra-launcher/internal/platform"
)

// Config is the resolved launcher configuration. Preferences win over the
// launcher file, the launcher file wins over defaults.
type Config struct {
	GameDir    string
	Executable string
	Utility    string
	Renderer   string

	RuntimeCandidates []string // nil keeps the OS defaults
	RuntimeOverride   string
	Native            *bool // nil keeps the OS default

	DownloadDir string
	MaxParallel int
	RateLimit   int64
	FetchLimit  int64

	LogLevel  string
	LogFormat string

	SelectedMod string
}

// Defaults returns the configuration used when nothing is set
func Defaults() Config {
	downloadDir := filepath.Join(".", "downloads")
	if supportDir, err := platform.GetSupportDir(); err == nil {
		downloadDir = filepath.Join(supportDir, "downloads")
	}
	return Config{
		GameDir:     ".",
		Executable:  launch.GameExecutable,
		Utility:     launch.UtilityExecutable,
		Renderer:    DefaultRenderer,
		DownloadDir: downloadDir,
		MaxParallel: DefaultMaxParallel,
		LogLevel:    "info",
		LogFormat:   "text",
		SelectedMod: DefaultSelectedMod,
	}
}

// Resolve layers file and settings over the defaults. Either may be nil.
func Resolve(file *File, settings *Settings) (Config, error) {
	cfg := Defaults()

	if file != nil {
		if err := cfg.applyFile(file); err != nil {
			return Config{}, err
		}
	}
	if settings != nil {
		if err := cfg.applySettings(settings); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

func (c *Config) applyFile(f *File) error {
	if rt := f.Runtime; rt != nil {
		if len(rt.Candidates) > 0 {
			c.RuntimeCandidates = append([]string(nil), rt.Candidates...)
		}
		c.Native = rt.Native
	}
	if g := f.Game; g != nil {
		setIfNotEmpty(&c.GameDir, g.Directory)
		setIfNotEmpty(&c.Executable, g.Executable)
		setIfNotEmpty(&c.Utility, g.Utility)
		if g.Renderer != "" {
			c.Renderer = launch.NormalizeRenderer(g.Renderer)
		}
	}
	if d := f.Downloads; d != nil {
		setIfNotEmpty(&c.DownloadDir, d.Directory)
		if d.MaxParallel > 0 {
			c.MaxParallel = d.MaxParallel
		}
		limit, err := platform.ParseBytes(d.RateLimit)
		if err != nil {
			return fmt.Errorf("downloads.rate_limit: %w", err)
		}
		c.RateLimit = limit
		fetchLimit, err := platform.ParseBytes(d.FetchLimit)
		if err != nil {
			return fmt.Errorf("downloads.fetch_limit: %w", err)
		}
		c.FetchLimit = fetchLimit
	}
	if l := f.Log; l != nil {
		setIfNotEmpty(&c.LogLevel, l.Level)
		setIfNotEmpty(&c.LogFormat, l.Format)
	}
	return nil
}

func (c *Config) applySettings(s *Settings) error {
	setIfNotEmpty(&c.GameDir, s.GetGameDirectory())
	setIfNotEmpty(&c.RuntimeOverride, s.GetRuntimePath())
	setIfNotEmpty(&c.SelectedMod, s.GetSelectedMod())

	prefs := s.app.Preferences()
	if r := prefs.String(KeyRenderer); r != "" {
		c.Renderer = launch.NormalizeRenderer(r)
	}
	if d := prefs.String(KeyDownloadDir); d != "" {
		c.DownloadDir = d
	}
	if n := prefs.Int(KeyMaxParallel); n > 0 {
		c.MaxParallel = n
	}
	if l := s.GetRateLimit(); l != "" {
		limit, err := platform.ParseBytes(l)
		if err != nil {
			return fmt.Errorf("%s: %w", KeyRateLimit, err)
		}
		c.RateLimit = limit
	}
	return nil
}

// LaunchOptions returns the options used to build game and utility commands
func (c Config) LaunchOptions() launch.Options {
	return launch.Options{
		GameDir:    c.GameDir,
		Executable: c.Executable,
		Utility:    c.Utility,
		Renderer:   c.Renderer,
	}
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
