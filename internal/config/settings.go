package config

import (
	"path/filepath"

	"fyne.io/fyne/v2"

	"github.com/openra/ra-launcher/internal/launch"
	"github.com/openra/ra-launcher/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyGameDir        = "game_directory"
	KeyRenderer       = "renderer"
	KeySelectedMod    = "selected_mod"
	KeyRuntimePath    = "runtime_path"
	KeyMaxParallel    = "max_parallel_downloads"
	KeyRateLimit      = "download_rate_limit"
	KeyDownloadDir    = "download_directory"
	KeyRevealExtracts = "reveal_after_extract"
)

// Default values
const (
	DefaultMaxParallel    = 2
	DefaultRenderer       = launch.RendererGL
	DefaultSelectedMod    = "ra"
	DefaultRevealExtracts = false
)

// Settings manages launcher preferences
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetGameDirectory returns the configured game directory, "" if unset
func (s *Settings) GetGameDirectory() string {
	return s.app.Preferences().String(KeyGameDir)
}

// SetGameDirectory sets the game directory
func (s *Settings) SetGameDirectory(dir string) {
	s.app.Preferences().SetString(KeyGameDir, dir)
}

// GetRenderer returns the configured renderer backend
func (s *Settings) GetRenderer() string {
	r := s.app.Preferences().String(KeyRenderer)
	if r == "" {
		return DefaultRenderer
	}
	return launch.NormalizeRenderer(r)
}

// SetRenderer sets the renderer backend
func (s *Settings) SetRenderer(renderer string) {
	s.app.Preferences().SetString(KeyRenderer, launch.NormalizeRenderer(renderer))
}

// GetSelectedMod returns the mod selected when the launcher last closed
func (s *Settings) GetSelectedMod() string {
	return s.app.Preferences().StringWithFallback(KeySelectedMod, DefaultSelectedMod)
}

// SetSelectedMod remembers the selected mod
func (s *Settings) SetSelectedMod(mod string) {
	s.app.Preferences().SetString(KeySelectedMod, mod)
}

// GetRuntimePath returns a user supplied runtime path, "" if unset
func (s *Settings) GetRuntimePath() string {
	return s.app.Preferences().String(KeyRuntimePath)
}

// SetRuntimePath sets the runtime path probed before the defaults
func (s *Settings) SetRuntimePath(path string) {
	s.app.Preferences().SetString(KeyRuntimePath, path)
}

// GetMaxParallelDownloads returns the maximum number of parallel downloads
func (s *Settings) GetMaxParallelDownloads() int {
	value := s.app.Preferences().Int(KeyMaxParallel)
	if value <= 0 {
		return DefaultMaxParallel
	}
	return value
}

// SetMaxParallelDownloads sets the maximum number of parallel downloads
func (s *Settings) SetMaxParallelDownloads(count int) {
	if count < 1 {
		count = 1
	}
	if count > 10 {
		count = 10
	}
	s.app.Preferences().SetInt(KeyMaxParallel, count)
}

// GetRateLimit returns the download bandwidth cap, e.g. "512KB"; "" means unlimited
func (s *Settings) GetRateLimit() string {
	return s.app.Preferences().String(KeyRateLimit)
}

// SetRateLimit sets the download bandwidth cap after validating it
func (s *Settings) SetRateLimit(limit string) error {
	if _, err := platform.ParseBytes(limit); err != nil {
		return err
	}
	s.app.Preferences().SetString(KeyRateLimit, limit)
	return nil
}

// GetDownloadDirectory returns the directory downloads are stored in
func (s *Settings) GetDownloadDirectory() string {
	dir := s.app.Preferences().String(KeyDownloadDir)
	if dir == "" {
		supportDir, err := platform.GetSupportDir()
		if err != nil {
			return filepath.Join(".", "downloads")
		}
		return filepath.Join(supportDir, "downloads")
	}
	return dir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, dir)
}

// GetRevealAfterExtract returns whether extracted mods are shown in the file manager
func (s *Settings) GetRevealAfterExtract() bool {
	return s.app.Preferences().BoolWithFallback(KeyRevealExtracts, DefaultRevealExtracts)
}

// SetRevealAfterExtract sets whether extracted mods are shown in the file manager
func (s *Settings) SetRevealAfterExtract(reveal bool) {
	s.app.Preferences().SetBool(KeyRevealExtracts, reveal)
}

// GetRendererOptions returns the selectable renderer backends
func (s *Settings) GetRendererOptions() []string {
	return []string{launch.RendererGL, launch.RendererCg}
}
