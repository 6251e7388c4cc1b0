package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/openra/ra-launcher/internal/catalog"
	"github.com/openra/ra-launcher/internal/download"
	"github.com/openra/ra-launcher/internal/launch"
	"github.com/openra/ra-launcher/internal/model"
	"github.com/openra/ra-launcher/internal/platform"
)

// Errors returned by the controller
var (
	ErrRuntimeNotFound = errors.New("runtime not found")
	ErrUnknownMod      = errors.New("unknown mod")
)

// Notification titles
const (
	TitleRuntimeMissing = "Runtime missing"
	TitleLaunchFailed   = "Launch failed"
)

// RuntimeDetector reports the runtime the game runs on
type RuntimeDetector interface {
	Detect() model.RuntimeInfo
}

// SourceFactory returns the catalog source for a detected runtime. The game
// utility has to run on the same runtime as the game.
type SourceFactory func(rt model.RuntimeInfo) catalog.Source

// Options wires the controller's collaborators
type Options struct {
	Locator   RuntimeDetector
	NewSource SourceFactory
	Downloads download.Downloader
	Starter   launch.Starter
	Notifier  Notifier
	Launch    launch.Options
	Logger    *slog.Logger
}

// Controller is the launcher's single point of coordination
type Controller struct {
	locator   RuntimeDetector
	newSource SourceFactory
	downloads download.Downloader
	starter   launch.Starter
	notifier  Notifier
	logger    *slog.Logger

	mu         sync.RWMutex
	launchOpts launch.Options
	runtime    model.RuntimeInfo
	catalog    *catalog.Catalog
	tree       catalog.Tree
}

// New creates a controller. Locator, NewSource, Downloads and Starter are
// required.
func New(opts Options) (*Controller, error) {
	if opts.Locator == nil || opts.NewSource == nil || opts.Downloads == nil || opts.Starter == nil {
		return nil, errors.New("controller: locator, source, downloads and starter are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = LogNotifier{Logger: logger}
	}

	c := &Controller{
		locator:    opts.Locator,
		newSource:  opts.NewSource,
		downloads:  opts.Downloads,
		starter:    opts.Starter,
		notifier:   notifier,
		logger:     logger,
		launchOpts: opts.Launch,
		catalog:    catalog.New(),
	}
	c.tree = catalog.BuildTree(c.catalog)
	return c, nil
}

// Init detects the runtime and loads the mod catalog. A missing runtime is not
// an error here; it is reported when a launch is attempted.
func (c *Controller) Init(ctx context.Context) error {
	rt := c.CheckRuntime()
	if !rt.Present {
		c.logger.Warn("Runtime not found, mods cannot be listed or launched")
		return nil
	}
	return c.RefreshMods(ctx)
}

// CheckRuntime re-runs runtime detection and stores the result
func (c *Controller) CheckRuntime() model.RuntimeInfo {
	rt := c.locator.Detect()

	c.mu.Lock()
	c.runtime = rt
	c.mu.Unlock()

	c.logger.Info("Runtime detected", "present", rt.Present, "path", rt.Path)
	return rt
}

// Runtime returns the last detection result
func (c *Controller) Runtime() model.RuntimeInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.runtime
}

// RefreshMods reloads the catalog from the utility and rebuilds the tree
func (c *Controller) RefreshMods(ctx context.Context) error {
	c.mu.RLock()
	rt := c.runtime
	c.mu.RUnlock()

	cat, err := catalog.Load(ctx, c.newSource(rt), c.logger)
	if err != nil {
		return fmt.Errorf("failed to load mods: %w", err)
	}

	c.mu.Lock()
	c.catalog = cat
	c.mu.Unlock()

	c.PopulateModInfo()
	return nil
}

// PopulateModInfo rebuilds the sidebar tree from the loaded catalog
func (c *Controller) PopulateModInfo() catalog.Tree {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tree = catalog.BuildTree(c.catalog)
	return c.tree
}

// Tree returns the most recently populated sidebar tree
func (c *Controller) Tree() catalog.Tree {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tree
}

// Mods returns the descriptors of every loaded mod
func (c *Controller) Mods() []model.ModDescriptor {
	return c.Tree().Descriptors()
}

// Mod returns the metadata of one mod
func (c *Controller) Mod(id string) (model.Mod, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.catalog.Get(id)
}

// Metadata returns one metadata field of mod, "" if unknown
func (c *Controller) Metadata(field, mod string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.catalog.Metadata(field, mod)
}

// ExistsInMod reports whether file exists inside mod's directory
func (c *Controller) ExistsInMod(file, mod string) bool {
	return platform.ExistsInMod(c.gameDir(), mod, file)
}

// SetRenderer changes the renderer passed to future launches
func (c *Controller) SetRenderer(renderer string) {
	c.mu.Lock()
	c.launchOpts.Renderer = launch.NormalizeRenderer(renderer)
	c.mu.Unlock()
}

// LaunchMod spawns the game for id. It does not wait for the game to exit.
func (c *Controller) LaunchMod(id string) error {
	c.mu.RLock()
	rt := c.runtime
	opts := c.launchOpts
	cat := c.catalog
	c.mu.RUnlock()

	if !rt.Present {
		c.notifier.Notify(TitleRuntimeMissing, "The runtime required to play is not installed.")
		return ErrRuntimeNotFound
	}
	if _, ok := cat.Get(id); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMod, id)
	}

	mods, err := cat.Chain(id)
	if err != nil {
		return c.launchFailed(&launch.LaunchError{Mod: id, Err: err})
	}
	cmd, err := launch.GameCommand(rt, opts, mods)
	if err != nil {
		return c.launchFailed(&launch.LaunchError{Mod: id, Err: err})
	}

	pid, err := c.starter.Start(cmd)
	if err != nil {
		return c.launchFailed(&launch.LaunchError{Mod: id, Cmd: cmd, Err: err})
	}
	c.logger.Info("Game launched", "mod", id, "pid", pid, "command", cmd.String())
	return nil
}

func (c *Controller) launchFailed(err *launch.LaunchError) error {
	c.logger.Error("Launch failed", "mod", err.Mod, "error", err.Err)
	c.notifier.Notify(TitleLaunchFailed, err.Error())
	return err
}

// FetchURL issues a fetch answered through the bridge under callback
func (c *Controller) FetchURL(url, callback string) string {
	return c.downloads.Fetch(url, callback)
}

// RegisterDownload schedules a keyed download
func (c *Controller) RegisterDownload(key, url, destinationPath string) bool {
	return c.downloads.RegisterDownload(key, url, destinationPath)
}

// LookupDownload returns a snapshot of key's entry
func (c *Controller) LookupDownload(key string) (model.DownloadEntry, bool) {
	return c.downloads.LookupDownload(key)
}

// OnDownloadUpdate registers a callback for every download progress or state change
func (c *Controller) OnDownloadUpdate(callback func(model.DownloadEntry)) {
	c.downloads.SetUpdateCallback(callback)
}

// Downloads returns snapshots of every entry
func (c *Controller) Downloads() []model.DownloadEntry {
	return c.downloads.GetAllDownloads()
}

// ClearDownload forgets a finished entry
func (c *Controller) ClearDownload(key string) bool {
	return c.downloads.ClearDownload(key)
}

// ExtractDownload unpacks a completed download into targetDir inside mod's
// directory and returns the directory written to
func (c *Controller) ExtractDownload(key, targetDir, mod string) (string, error) {
	target := platform.ModPath(c.gameDir(), mod, targetDir)
	if err := c.downloads.ExtractDownload(key, target); err != nil {
		return "", err
	}
	c.logger.Debug("Extraction target resolved", "key", key, "mod", mod, "target", target)
	return target, nil
}

// InstallMod unpacks a mod archive into the game's mods directory and reloads
// the catalog. It returns the directory written to.
func (c *Controller) InstallMod(ctx context.Context, archivePath string) (string, error) {
	gameDir := c.gameDir()
	if gameDir == "" {
		return "", errors.New("game directory is not configured")
	}
	target := filepath.Join(gameDir, platform.ModsDirName)
	if err := download.Unzip(archivePath, target); err != nil {
		return "", fmt.Errorf("failed to install mod: %w", err)
	}
	c.logger.Info("Mod archive installed", "archive", archivePath, "target", target)

	if !c.Runtime().Present {
		c.logger.Warn("Runtime not found, installed mods are listed once it is available")
		return target, nil
	}
	if err := c.RefreshMods(ctx); err != nil {
		return target, err
	}
	return target, nil
}

// Close stops every download
func (c *Controller) Close() error {
	return c.downloads.Close()
}

func (c *Controller) gameDir() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.launchOpts.GameDir
}
