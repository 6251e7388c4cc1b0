package catalog

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/openra/ra-launcher/internal/launch"
	"github.com/openra/ra-launcher/internal/model"
)

// ErrorPrefix marks a utility response that reports a failure
const ErrorPrefix = "Error:"

// Metadata keys in utility -i output
const (
	FieldTitle       = "Title"
	FieldVersion     = "Version"
	FieldAuthor      = "Author"
	FieldDescription = "Description"
	FieldRequires    = "Requires"
	FieldStandalone  = "Standalone"
)

// ErrModNotFound is returned for ids the source does not know
var ErrModNotFound = errors.New("mod not found")

// Source lists installed mods and their metadata
type Source interface {
	ListMods(ctx context.Context) ([]string, error)
	ModInfo(ctx context.Context, id string) (model.Mod, error)
}

// UtilitySource asks the game utility for the catalog
type UtilitySource struct {
	runner  launch.Runner
	runtime model.RuntimeInfo
	opts    launch.Options
}

// NewUtilitySource creates a source that runs the utility through runner
func NewUtilitySource(runner launch.Runner, rt model.RuntimeInfo, opts launch.Options) *UtilitySource {
	return &UtilitySource{runner: runner, runtime: rt, opts: opts}
}

// ListMods runs the utility with --list-mods
func (s *UtilitySource) ListMods(ctx context.Context) ([]string, error) {
	out, err := s.call(ctx, launch.ListModsFlag)
	if err != nil {
		return nil, fmt.Errorf("could not list mods: %w", err)
	}

	var mods []string
	for _, line := range splitLines(out) {
		if line != "" {
			mods = append(mods, line)
		}
	}
	return mods, nil
}

// ModInfo runs the utility with -i id and parses the reply
func (s *UtilitySource) ModInfo(ctx context.Context, id string) (model.Mod, error) {
	out, err := s.call(ctx, launch.ModInfoFlag, id)
	if err != nil {
		return model.Mod{}, fmt.Errorf("could not read metadata for %s: %w", id, err)
	}
	mod := ParseModInfo(out)
	mod.ID = id
	return mod, nil
}

func (s *UtilitySource) call(ctx context.Context, args ...string) (string, error) {
	cmd := launch.UtilityCommand(s.runtime, s.opts, args...)
	out, err := s.runner.Output(ctx, cmd)
	if err != nil {
		return "", err
	}
	response := string(out)
	if strings.HasPrefix(strings.TrimSpace(response), ErrorPrefix) {
		return "", errors.New(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(response), ErrorPrefix)))
	}
	return response, nil
}

// ParseModInfo reads "Key: Value" lines. Unknown keys and malformed lines are skipped.
func ParseModInfo(response string) model.Mod {
	var mod model.Mod
	for _, line := range splitLines(response) {
		i := strings.Index(line, ":")
		if i <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:i])
		value := strings.TrimSpace(line[i+1:])

		switch key {
		case FieldTitle:
			mod.Title = value
		case FieldVersion:
			mod.Version = value
		case FieldAuthor:
			mod.Author = value
		case FieldDescription:
			mod.Description = value
		case FieldRequires:
			mod.Requires = value
		case FieldStandalone:
			mod.Standalone, _ = strconv.ParseBool(value)
		}
	}
	return mod
}

func splitLines(s string) []string {
	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(s))
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(strings.TrimRight(scanner.Text(), "\r")))
	}
	return lines
}

// StaticSource serves a fixed set of mods
type StaticSource map[string]model.Mod

// ListMods returns the ids in sorted order
func (s StaticSource) ListMods(context.Context) ([]string, error) {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// ModInfo returns the stored mod
func (s StaticSource) ModInfo(_ context.Context, id string) (model.Mod, error) {
	mod, ok := s[id]
	if !ok {
		return model.Mod{}, fmt.Errorf("%w: %s", ErrModNotFound, id)
	}
	mod.ID = id
	return mod, nil
}
