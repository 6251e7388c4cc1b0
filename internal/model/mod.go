package model

// ModCategory selects which sidebar group a mod is listed under
type ModCategory string

const (
	CategoryMod   ModCategory = "mod"
	CategoryOther ModCategory = "other"
)

// Mod holds catalog metadata for one installed mod
type Mod struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Version     string `json:"version"`
	Author      string `json:"author"`
	Description string `json:"description"`
	Requires    string `json:"requires,omitempty"` // ID of the mod this one builds on
	Standalone  bool   `json:"standalone"`
}

// DisplayName returns the title, falling back to the ID
func (m *Mod) DisplayName() string {
	if m.Title != "" {
		return m.Title
	}
	return m.ID
}

// ModDescriptor is the read-only sidebar view of a mod
type ModDescriptor struct {
	ID          string      `json:"id"`
	DisplayName string      `json:"display_name"`
	Category    ModCategory `json:"category"`
}
