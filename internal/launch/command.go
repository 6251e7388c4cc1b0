// Package launch builds and spawns the game and utility processes.
package launch

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/openra/ra-launcher/internal/model"
)

// Executable and argument constants
const (
	GameExecutable    = "OpenRA.Game.exe"
	UtilityExecutable = "OpenRA.Utility.exe"

	ModsArgPrefix     = "Game.Mods="
	RendererArgPrefix = "Graphics.Renderer="

	ListModsFlag = "--list-mods"
	ModInfoFlag  = "-i"
)

// Renderer backends accepted by the game
const (
	RendererGL = "Gl"
	RendererCg = "Cg"
)

// ErrNoMods is returned when a game command is built without any mod
var ErrNoMods = errors.New("no mods to launch")

// Command describes one process invocation
type Command struct {
	Program string
	Args    []string
	Dir     string
}

// String renders the command line for logs
func (c Command) String() string {
	return strings.TrimSpace(c.Program + " " + strings.Join(c.Args, " "))
}

// Options controls how game and utility commands are built
type Options struct {
	GameDir    string
	Executable string // game executable name, GameExecutable if empty
	Utility    string // utility executable name, UtilityExecutable if empty
	Renderer   string // RendererGL if empty
}

// NormalizeRenderer maps user input to a supported renderer name
func NormalizeRenderer(r string) string {
	if strings.EqualFold(r, RendererCg) {
		return RendererCg
	}
	return RendererGL
}

// GameCommand builds the game invocation for mods, the selected mod first and
// the mods it requires after it.
func GameCommand(rt model.RuntimeInfo, opts Options, mods []string) (Command, error) {
	if len(mods) == 0 {
		return Command{}, ErrNoMods
	}
	exe := opts.Executable
	if exe == "" {
		exe = GameExecutable
	}
	args := []string{
		ModsArgPrefix + strings.Join(mods, ","),
		RendererArgPrefix + NormalizeRenderer(opts.Renderer),
	}
	return wrap(rt, opts.GameDir, exe, args), nil
}

// UtilityCommand builds an invocation of the game utility with args
func UtilityCommand(rt model.RuntimeInfo, opts Options, args ...string) Command {
	exe := opts.Utility
	if exe == "" {
		exe = UtilityExecutable
	}
	return wrap(rt, opts.GameDir, exe, args)
}

// wrap runs exe through the runtime when one was detected, natively otherwise
func wrap(rt model.RuntimeInfo, dir, exe string, args []string) Command {
	exePath := exe
	if dir != "" && !filepath.IsAbs(exe) {
		exePath = filepath.Join(dir, exe)
	}
	if rt.Path == "" {
		return Command{Program: exePath, Args: args, Dir: dir}
	}
	return Command{
		Program: rt.Path,
		Args:    append([]string{exePath}, args...),
		Dir:     dir,
	}
}

// LaunchError wraps a failure to spawn the game
type LaunchError struct {
	Mod string
	Cmd Command
	Err error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch %s: %v", e.Mod, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}
