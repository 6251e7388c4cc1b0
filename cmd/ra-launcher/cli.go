package main

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/openra/ra-launcher/internal/config"
	"github.com/openra/ra-launcher/internal/platform"
)

// ExitError is an error that carries the process exit code
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// options are the parsed command line flags
type options struct {
	ConfigPath string
	Headless   bool
	List       bool
	Launch     string
	Fetch      string
	LogLevel   string
	LogFormat  string
	Version    bool
}

// parseArgs parses args. It reports shouldExit for -h.
func parseArgs(args []string, output io.Writer) (options, bool, error) {
	flagSet := flag.NewFlagSet("ra-launcher", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, `
OpenRA Launcher - finds the runtime, lists installed mods and starts the game.

Usage:
  ra-launcher [options]

Without -headless the launcher window opens.

Options:
`)
		flagSet.PrintDefaults()
	}

	var opts options
	flagSet.StringVar(&opts.ConfigPath, "config", defaultConfigPath(), "Path to the launcher HCL file.")
	flagSet.BoolVar(&opts.Headless, "headless", false, "Run without a window.")
	flagSet.BoolVar(&opts.List, "list", false, "Print the installed mods and exit (implies -headless).")
	flagSet.StringVar(&opts.Launch, "launch", "", "Launch the given mod and exit (implies -headless).")
	flagSet.StringVar(&opts.Fetch, "fetch", "", "Fetch a URL through the content bridge, print the handler call and exit (implies -headless).")
	flagSet.StringVar(&opts.LogLevel, "log-level", "", "Override the log level: 'debug', 'info', 'warn' or 'error'.")
	flagSet.StringVar(&opts.LogFormat, "log-format", "", "Override the log format: 'text' or 'json'.")
	flagSet.BoolVar(&opts.Version, "version", false, "Print the version and exit.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return options{}, true, nil
		}
		return options{}, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if flagSet.NArg() > 0 {
		return options{}, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected argument %q", flagSet.Arg(0))}
	}

	opts.LogLevel = strings.ToLower(opts.LogLevel)
	switch opts.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return options{}, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	opts.LogFormat = strings.ToLower(opts.LogFormat)
	if opts.LogFormat != "" && opts.LogFormat != "text" && opts.LogFormat != "json" {
		return options{}, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	if opts.List || opts.Launch != "" || opts.Fetch != "" {
		opts.Headless = true
	}
	return opts, false, nil
}

func defaultConfigPath() string {
	supportDir, err := platform.GetSupportDir()
	if err != nil {
		return config.DefaultFileName
	}
	return filepath.Join(supportDir, config.DefaultFileName)
}
