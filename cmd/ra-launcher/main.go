package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/openra/ra-launcher/internal/bridge"
	"github.com/openra/ra-launcher/internal/catalog"
	"github.com/openra/ra-launcher/internal/config"
	"github.com/openra/ra-launcher/internal/controller"
	"github.com/openra/ra-launcher/internal/download"
	"github.com/openra/ra-launcher/internal/launch"
	"github.com/openra/ra-launcher/internal/locator"
	"github.com/openra/ra-launcher/internal/model"
	"github.com/openra/ra-launcher/internal/platform"
	"github.com/openra/ra-launcher/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID = "net.openra.launcher"

	WindowWidth  = 900
	WindowHeight = 600

	initTimeout = 30 * time.Second
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(outW io.Writer, args []string) error {
	opts, shouldExit, err := parseArgs(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}
	if opts.Version {
		fmt.Fprintf(outW, "ra-launcher %s\n", version)
		return nil
	}

	file, err := config.LoadFile(opts.ConfigPath)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}

	if opts.Headless {
		cfg, err := resolve(file, nil, opts)
		if err != nil {
			return err
		}
		return runHeadless(outW, cfg, opts)
	}
	return runWindow(file, opts)
}

// resolve layers the file and preferences, then the command line overrides
func resolve(file *config.File, settings *config.Settings, opts options) (config.Config, error) {
	cfg, err := config.Resolve(file, settings)
	if err != nil {
		return config.Config{}, &ExitError{Code: 2, Message: err.Error()}
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	if opts.LogFormat != "" {
		cfg.LogFormat = opts.LogFormat
	}
	return cfg, nil
}

// newController wires every collaborator from cfg
func newController(cfg config.Config, b bridge.Bridge, notifier controller.Notifier, starter launch.Starter, logger *slog.Logger) (*controller.Controller, error) {
	locatorOpts := []locator.Option{locator.WithLogger(logger)}
	if cfg.RuntimeCandidates != nil {
		locatorOpts = append(locatorOpts, locator.WithCandidates(cfg.RuntimeCandidates...))
	}
	if cfg.Native != nil {
		locatorOpts = append(locatorOpts, locator.WithNative(*cfg.Native))
	}
	locatorOpts = append(locatorOpts, locator.WithOverride(cfg.RuntimeOverride))

	if err := platform.CreateDirectoryIfNotExists(cfg.DownloadDir); err != nil {
		logger.Warn("Failed to create download directory", "dir", cfg.DownloadDir, "error", err)
	}
	registry := download.NewRegistry(download.Options{
		Directory:   cfg.DownloadDir,
		MaxParallel: cfg.MaxParallel,
		RateLimit:   cfg.RateLimit,
		FetchLimit:  cfg.FetchLimit,
		Bridge:      b,
		Logger:      logger,
	})

	launchOpts := cfg.LaunchOptions()
	return controller.New(controller.Options{
		Locator: locator.New(locatorOpts...),
		NewSource: func(rt model.RuntimeInfo) catalog.Source {
			return catalog.NewUtilitySource(launch.ExecRunner{}, rt, launchOpts)
		},
		Downloads: registry,
		Starter:   starter,
		Notifier:  notifier,
		Launch:    launchOpts,
		Logger:    logger,
	})
}

func runWindow(file *config.File, opts options) error {
	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewLauncherTheme())

	settings := config.NewSettings(myApp)
	cfg, err := resolve(file, settings, opts)
	if err != nil {
		return err
	}
	logger := config.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	logger.Info("Launcher starting", "version", version, "game_dir", cfg.GameDir)

	myWindow := myApp.NewWindow(ui.AppTitle)
	myWindow.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	events := ui.NewEventBridge(logger)
	ctrl, err := newController(cfg, events, ui.NewDialogNotifier(myWindow), launch.NewExecStarter(logger), logger)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	if err := ctrl.Init(ctx); err != nil {
		logger.Error("Failed to load mods", "error", err)
	}
	cancel()

	ui.NewRootUI(myWindow, ctrl, settings, events, logger)
	myWindow.ShowAndRun()
	return nil
}
