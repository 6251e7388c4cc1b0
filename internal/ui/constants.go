package ui

import "time"

// Icons (symbols)
const (
	IconSettings = "⚙"
	IconPlay     = "▶"
	IconFolder   = "📁"
	IconExtract  = "📦"
	IconClose    = "×"
	IconError    = "❌"
	IconOK       = "✔"
)

// Text fragments
const (
	MiddleDotSeparator  = " · "
	DashPlaceholder     = "—"
	ProgressLabelFormat = "%d%%"
)

// Window labels
const (
	AppTitle          = "OpenRA Launcher"
	LaunchButtonText  = "Play"
	DownloadsHeading  = "Downloads"
	ModsHeading       = "Mods"
	RendererHeading   = "Renderer"
	NoModSelectedText = "Select a mod to see its details."
)

// Layout sizing
const (
	SidebarOffset float64 = 0.3

	StatusLabelWidth float32 = 96
	SizeLabelWidth   float32 = 140

	RowMinWidth  float32 = 360
	RowMinHeight float32 = 56

	DownloadListHeight float32 = 160
)

// Debounce durations
const (
	UIUpdateDebounce = 100 * time.Millisecond
)
