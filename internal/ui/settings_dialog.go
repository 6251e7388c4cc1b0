package ui

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/openra/ra-launcher/internal/config"
)

// SettingsDialog edits the launcher preferences
type SettingsDialog struct {
	settings *config.Settings
	window   fyne.Window
	dialog   *dialog.ConfirmDialog
	onSaved  func()

	gameDirEntry     *widget.Entry
	runtimeEntry     *widget.Entry
	downloadDirEntry *widget.Entry
	maxParallelEntry *widget.Entry
	rateLimitEntry   *widget.Entry
	rendererSelect   *widget.Select
	revealCheck      *widget.Check
}

// ShowSettingsDialog opens the settings dialog; onSaved runs after a successful save
func ShowSettingsDialog(window fyne.Window, settings *config.Settings, onSaved func()) {
	sd := NewSettingsDialog(settings, window)
	sd.onSaved = onSaved
	sd.Show()
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(settings *config.Settings, window fyne.Window) *SettingsDialog {
	sd := &SettingsDialog{
		settings: settings,
		window:   window,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

func (sd *SettingsDialog) createUI() {
	sd.gameDirEntry = widget.NewEntry()
	sd.gameDirEntry.SetPlaceHolder("Game installation directory")
	gameDirRow := container.NewBorder(nil, nil, nil,
		widget.NewButton("Browse", func() { sd.browseInto(sd.gameDirEntry) }), sd.gameDirEntry)

	sd.runtimeEntry = widget.NewEntry()
	sd.runtimeEntry.SetPlaceHolder("Detected automatically")

	sd.downloadDirEntry = widget.NewEntry()
	sd.downloadDirEntry.SetPlaceHolder("Download directory path")
	downloadDirRow := container.NewBorder(nil, nil, nil,
		widget.NewButton("Browse", func() { sd.browseInto(sd.downloadDirEntry) }), sd.downloadDirEntry)

	sd.maxParallelEntry = widget.NewEntry()
	sd.maxParallelEntry.SetPlaceHolder("1-10")

	sd.rateLimitEntry = widget.NewEntry()
	sd.rateLimitEntry.SetPlaceHolder("Unlimited, e.g. 512KB")

	sd.rendererSelect = widget.NewSelect(sd.settings.GetRendererOptions(), nil)
	sd.revealCheck = widget.NewCheck("Show extracted files in the file manager", nil)

	form := container.NewVBox(
		widget.NewLabel("Game"),
		widget.NewSeparator(),
		widget.NewLabel("Game Directory:"),
		gameDirRow,
		widget.NewLabel("Runtime Path:"),
		sd.runtimeEntry,
		widget.NewLabel("Renderer:"),
		sd.rendererSelect,

		widget.NewSeparator(),
		widget.NewLabel("Downloads"),
		widget.NewSeparator(),
		widget.NewLabel("Download Directory:"),
		downloadDirRow,
		widget.NewLabel("Max Parallel Downloads:"),
		sd.maxParallelEntry,
		widget.NewLabel("Bandwidth Limit per Second:"),
		sd.rateLimitEntry,
		sd.revealCheck,
	)

	sd.dialog = dialog.NewCustomConfirm(
		"Settings",
		"Save",
		"Cancel",
		form,
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(520, 480))
}

func (sd *SettingsDialog) loadCurrentSettings() {
	sd.gameDirEntry.SetText(sd.settings.GetGameDirectory())
	sd.runtimeEntry.SetText(sd.settings.GetRuntimePath())
	sd.downloadDirEntry.SetText(sd.settings.GetDownloadDirectory())
	sd.maxParallelEntry.SetText(strconv.Itoa(sd.settings.GetMaxParallelDownloads()))
	sd.rateLimitEntry.SetText(sd.settings.GetRateLimit())
	sd.rendererSelect.SetSelected(sd.settings.GetRenderer())
	sd.revealCheck.SetChecked(sd.settings.GetRevealAfterExtract())
}

func (sd *SettingsDialog) browseInto(entry *widget.Entry) {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		entry.SetText(uri.Path())
	}, sd.window)
}

func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	if err := sd.settings.SetRateLimit(sd.rateLimitEntry.Text); err != nil {
		dialog.ShowError(err, sd.window)
		return
	}

	sd.settings.SetGameDirectory(sd.gameDirEntry.Text)
	sd.settings.SetRuntimePath(sd.runtimeEntry.Text)
	if sd.downloadDirEntry.Text != "" {
		sd.settings.SetDownloadDirectory(sd.downloadDirEntry.Text)
	}
	if maxParallel, err := strconv.Atoi(sd.maxParallelEntry.Text); err == nil {
		sd.settings.SetMaxParallelDownloads(maxParallel)
	}
	if sd.rendererSelect.Selected != "" {
		sd.settings.SetRenderer(sd.rendererSelect.Selected)
	}
	sd.settings.SetRevealAfterExtract(sd.revealCheck.Checked)

	if sd.onSaved != nil {
		sd.onSaved()
	}
	// Directories, runtime path and download limits apply on next start
	dialog.ShowInformation("Settings", "Settings saved. Directory and download changes apply after a restart.", sd.window)
}
