// Package locator finds the managed-code runtime the game needs. Absence is
// a normal outcome: Detect never returns an error, it reports Present=false.
package locator

import (
	"log/slog"
	"runtime"

	"github.com/openra/ra-launcher/internal/model"
	"github.com/openra/ra-launcher/internal/platform"
)

// Default runtime install locations per OS, probed in order
var (
	DarwinCandidates = []string{
		"/Library/Frameworks/Mono.framework/Versions/Current/bin/mono",
		"/Library/Frameworks/Mono.framework/Commands/mono",
		"/opt/homebrew/bin/mono",
		"/usr/local/bin/mono",
	}
	LinuxCandidates = []string{
		"/usr/bin/mono",
		"/usr/local/bin/mono",
	}
)

// DefaultCandidates returns the probe list for the running OS
func DefaultCandidates() []string {
	switch runtime.GOOS {
	case platform.OSDarwin:
		return append([]string(nil), DarwinCandidates...)
	case platform.OSWindows:
		return nil
	default:
		return append([]string(nil), LinuxCandidates...)
	}
}

// Locator probes a fixed list of candidate paths
type Locator struct {
	candidates []string
	native     bool
	isExec     func(string) bool
	logger     *slog.Logger
}

// Option configures a Locator
type Option func(*Locator)

// WithCandidates replaces the default probe list
func WithCandidates(paths ...string) Option {
	return func(l *Locator) {
		l.candidates = append([]string(nil), paths...)
	}
}

// WithOverride probes path before every other candidate
func WithOverride(path string) Option {
	return func(l *Locator) {
		if path != "" {
			l.candidates = append([]string{path}, l.candidates...)
		}
	}
}

// WithNative marks the game as runnable without a separate runtime binary.
// The runtime is then reported present with an empty path when no candidate matches.
func WithNative(native bool) Option {
	return func(l *Locator) {
		l.native = native
	}
}

// WithLogger sets the logger used for probe diagnostics
func WithLogger(logger *slog.Logger) Option {
	return func(l *Locator) {
		l.logger = logger
	}
}

// New creates a locator with the OS defaults, then applies opts in order
func New(opts ...Option) *Locator {
	l := &Locator{
		candidates: DefaultCandidates(),
		native:     runtime.GOOS == platform.OSWindows,
		isExec:     platform.IsExecutableFile,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Candidates returns the probe list in order
func (l *Locator) Candidates() []string {
	return append([]string(nil), l.candidates...)
}

// Detect probes the candidates and reports the first executable match
func (l *Locator) Detect() model.RuntimeInfo {
	for _, path := range l.candidates {
		if path == "" {
			continue
		}
		if l.isExec(path) {
			l.logger.Debug("Runtime found", "path", path)
			return model.RuntimeInfo{Present: true, Path: path}
		}
		l.logger.Debug("Runtime candidate rejected", "path", path)
	}

	if l.native {
		l.logger.Debug("No runtime binary found, running natively")
		return model.RuntimeInfo{Present: true}
	}
	return model.RuntimeInfo{}
}
