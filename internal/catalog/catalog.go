package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/openra/ra-launcher/internal/model"
)

// Metadata field names accepted from embedded content
const (
	MetaVersion     = "VERSION"
	MetaTitle       = "TITLE"
	MetaAuthor      = "AUTHOR"
	MetaDescription = "DESCRIPTION"
	MetaRequires    = "REQUIRES"
)

// ErrDependencyCycle is returned when a requires chain loops
var ErrDependencyCycle = errors.New("mod dependency cycle")

// Catalog is an immutable snapshot of installed mods
type Catalog struct {
	mods map[string]model.Mod
}

// New builds a catalog from mods keyed by their ID
func New(mods ...model.Mod) *Catalog {
	c := &Catalog{mods: make(map[string]model.Mod, len(mods))}
	for _, m := range mods {
		c.mods[m.ID] = m
	}
	return c
}

// Load reads every mod from src. Mods whose metadata cannot be read are
// skipped and logged; failing to list mods is an error.
func Load(ctx context.Context, src Source, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ids, err := src.ListMods(ctx)
	if err != nil {
		return nil, err
	}

	mods := make([]model.Mod, 0, len(ids))
	for _, id := range ids {
		mod, err := src.ModInfo(ctx, id)
		if err != nil {
			logger.Warn("Skipping mod without metadata", "mod", id, "error", err)
			continue
		}
		mod.ID = id
		mods = append(mods, mod)
	}
	logger.Debug("Catalog loaded", "mods", len(mods))
	return New(mods...), nil
}

// Len returns the number of mods
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.mods)
}

// Get returns the mod with id
func (c *Catalog) Get(id string) (model.Mod, bool) {
	if c == nil {
		return model.Mod{}, false
	}
	m, ok := c.mods[id]
	return m, ok
}

// IDs returns all mod ids sorted
func (c *Catalog) IDs() []string {
	if c == nil {
		return nil
	}
	ids := make([]string, 0, len(c.mods))
	for id := range c.mods {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Chain returns id followed by every mod it transitively requires
func (c *Catalog) Chain(id string) ([]string, error) {
	if _, ok := c.Get(id); !ok {
		return nil, fmt.Errorf("%w: %s", ErrModNotFound, id)
	}

	chain := []string{id}
	seen := map[string]bool{id: true}
	for m := c.mods[id]; m.Requires != ""; m = c.mods[m.Requires] {
		if seen[m.Requires] {
			return nil, fmt.Errorf("%w: %s", ErrDependencyCycle, strings.Join(append(chain, m.Requires), " -> "))
		}
		if _, ok := c.mods[m.Requires]; !ok {
			return nil, fmt.Errorf("%w: %s requires %s", ErrModNotFound, m.ID, m.Requires)
		}
		seen[m.Requires] = true
		chain = append(chain, m.Requires)
	}
	return chain, nil
}

// Metadata returns one field of a mod, or "" for unknown mods and fields
func (c *Catalog) Metadata(field, id string) string {
	m, ok := c.Get(id)
	if !ok {
		return ""
	}
	switch strings.ToUpper(field) {
	case MetaVersion:
		return m.Version
	case MetaTitle:
		return m.Title
	case MetaAuthor:
		return m.Author
	case MetaDescription:
		return m.Description
	case MetaRequires:
		return m.Requires
	default:
		return ""
	}
}
