package ui

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/openra/ra-launcher/internal/bridge"
	"github.com/openra/ra-launcher/internal/catalog"
	"github.com/openra/ra-launcher/internal/config"
	"github.com/openra/ra-launcher/internal/controller"
	"github.com/openra/ra-launcher/internal/model"
	"github.com/openra/ra-launcher/internal/platform"
)

// RootUI represents the launcher window
type RootUI struct {
	window   fyne.Window
	ctrl     *controller.Controller
	settings *config.Settings
	logger   *slog.Logger

	// Sidebar
	modTree  *widget.Tree
	treeData catalog.Tree
	selected string

	// Details pane
	titleLabel    *widget.Label
	detailsLabel  *widget.Label
	descLabel     *widget.Label
	runtimeLabel  *widget.Label
	launchBtn     *widget.Button
	rendererRadio *widget.RadioGroup

	// Downloads
	downloadList *widget.List
	downloads    []model.DownloadEntry

	// UI update debouncing
	lastUIUpdate  time.Time
	uiUpdateMutex sync.Mutex
}

// NewRootUI builds the window content around ctrl. events must be the bridge
// the controller's registry delivers to.
func NewRootUI(window fyne.Window, ctrl *controller.Controller, settings *config.Settings, events *EventBridge, logger *slog.Logger) *RootUI {
	if logger == nil {
		logger = slog.Default()
	}
	ui := &RootUI{
		window:   window,
		ctrl:     ctrl,
		settings: settings,
		logger:   logger,
		selected: settings.GetSelectedMod(),
		treeData: ctrl.Tree(),
	}

	window.SetTitle(AppTitle)
	if logo, err := LoadLogoResource(); err == nil {
		window.SetIcon(logo)
	}

	ctrl.OnDownloadUpdate(ui.onDownloadUpdate)
	events.SetHandler(ui.onBridgeEvent)

	ui.setupUI()
	ui.refreshRuntime()
	ui.selectMod(ui.selected)
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.modTree = widget.NewTree(
		func(id widget.TreeNodeID) []widget.TreeNodeID { return ui.treeData.ChildIDs(id) },
		func(id widget.TreeNodeID) bool { return ui.treeData.IsBranch(id) },
		func(branch bool) fyne.CanvasObject {
			label := widget.NewLabel("")
			if branch {
				label.TextStyle = fyne.TextStyle{Bold: true}
			}
			return label
		},
		func(id widget.TreeNodeID, branch bool, obj fyne.CanvasObject) {
			label := obj.(*widget.Label)
			if n, ok := ui.treeData.Node(id); ok {
				label.SetText(n.Label)
				return
			}
			label.SetText(id)
		},
	)
	ui.modTree.OnSelected = func(id widget.TreeNodeID) {
		n, ok := ui.treeData.Node(id)
		if !ok || n.IsGroup() {
			return
		}
		ui.selectMod(n.ModID)
	}
	ui.modTree.OpenAllBranches()

	// Details pane
	ui.titleLabel = widget.NewLabel(NoModSelectedText)
	ui.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	ui.detailsLabel = widget.NewLabel("")
	ui.descLabel = widget.NewLabel("")
	ui.descLabel.Wrapping = fyne.TextWrapWord
	ui.runtimeLabel = widget.NewLabel("")

	ui.rendererRadio = widget.NewRadioGroup(ui.settings.GetRendererOptions(), func(selected string) {
		if selected == "" {
			return
		}
		ui.settings.SetRenderer(selected)
		ui.ctrl.SetRenderer(selected)
	})
	ui.rendererRadio.Horizontal = true
	ui.rendererRadio.Required = true
	ui.rendererRadio.SetSelected(ui.settings.GetRenderer())

	ui.launchBtn = widget.NewButton(IconPlay+" "+LaunchButtonText, ui.onLaunchClick)
	ui.launchBtn.Importance = widget.HighImportance

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	details := container.NewVBox(
		ui.titleLabel,
		ui.detailsLabel,
		widget.NewSeparator(),
		ui.descLabel,
	)
	controls := container.NewVBox(
		widget.NewSeparator(),
		container.NewHBox(widget.NewLabel(RendererHeading+":"), ui.rendererRadio),
		container.NewBorder(nil, nil, settingsBtn, ui.launchBtn, ui.runtimeLabel),
	)
	detailsPane := container.NewBorder(nil, controls, nil, nil, container.NewVScroll(details))

	// Download list
	ui.downloadList = widget.NewList(
		func() int { return len(ui.downloads) },
		func() fyne.CanvasObject {
			row := NewDownloadRow()
			row.SetCallbacks(ui.onExtractDownload, ui.onRevealDownload, ui.onClearDownload)
			return row
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id >= len(ui.downloads) {
				return
			}
			obj.(*DownloadRow).SetEntry(ui.downloads[id])
		},
	)
	spacer := canvas.NewRectangle(color.Transparent)
	spacer.SetMinSize(fyne.NewSize(0, DownloadListHeight))
	downloadsPane := container.NewBorder(
		widget.NewLabelWithStyle(DownloadsHeading, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		nil, nil, nil,
		container.NewStack(spacer, ui.downloadList),
	)

	sidebar := container.NewBorder(
		widget.NewLabelWithStyle(ModsHeading, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		nil, nil, nil,
		ui.modTree,
	)
	split := container.NewHSplit(sidebar, detailsPane)
	split.Offset = SidebarOffset

	ui.window.SetContent(container.NewBorder(nil, downloadsPane, nil, nil, split))
	ui.logger.Debug("UI setup completed")
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem("Settings", ui.onShowSettings)
	downloadItem := fyne.NewMenuItem("Download package…", ui.onShowDownloadDialog)
	installItem := fyne.NewMenuItem("Install mod…", ui.onInstallMod)
	refreshItem := fyne.NewMenuItem("Refresh mods", ui.onRefreshMods)
	runtimeItem := fyne.NewMenuItem("Check runtime", ui.refreshRuntime)
	supportItem := fyne.NewMenuItem("Open support folder", ui.onOpenSupportDir)

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu("File", settingsItem, downloadItem, fyne.NewMenuItemSeparator(), supportItem),
		fyne.NewMenu("Mods", installItem, refreshItem, runtimeItem),
	))
}

// selectMod shows the details of id
func (ui *RootUI) selectMod(id string) {
	mod, ok := ui.ctrl.Mod(id)
	if !ok {
		ui.selected = ""
		ui.titleLabel.SetText(NoModSelectedText)
		ui.detailsLabel.SetText("")
		ui.descLabel.SetText("")
		ui.updateLaunchButton()
		return
	}

	ui.selected = id
	ui.settings.SetSelectedMod(id)
	ui.titleLabel.SetText(mod.DisplayName())
	ui.detailsLabel.SetText(formatModDetails(mod))
	ui.descLabel.SetText(mod.Description)
	ui.updateLaunchButton()
}

func (ui *RootUI) updateLaunchButton() {
	if ui.selected != "" && ui.ctrl.Runtime().Present {
		ui.launchBtn.Enable()
		return
	}
	ui.launchBtn.Disable()
}

// refreshRuntime re-runs detection and updates the runtime line
func (ui *RootUI) refreshRuntime() {
	rt := ui.ctrl.CheckRuntime()
	switch {
	case rt.Present && rt.Path != "":
		ui.runtimeLabel.SetText("Runtime: " + rt.Path)
	case rt.Present:
		ui.runtimeLabel.SetText("Runtime: native")
	default:
		ui.runtimeLabel.SetText(IconError + " Runtime not found")
	}
	ui.updateLaunchButton()
}

// refreshTree reloads the sidebar from the controller's current tree
func (ui *RootUI) refreshTree() {
	ui.treeData = ui.ctrl.PopulateModInfo()
	ui.modTree.Refresh()
	ui.modTree.OpenAllBranches()
	ui.selectMod(ui.selected)
}

func (ui *RootUI) onRefreshMods() {
	go func() {
		err := ui.ctrl.RefreshMods(context.Background())
		fyne.Do(func() {
			if err != nil {
				ui.logger.Error("Failed to refresh mods", "error", err)
				dialog.ShowError(err, ui.window)
				return
			}
			ui.refreshTree()
		})
	}()
}

func (ui *RootUI) onInstallMod() {
	ShowInstallModDialog(ui.window, func(archivePath string) {
		go func() {
			target, err := ui.ctrl.InstallMod(context.Background(), archivePath)
			fyne.Do(func() {
				if err != nil {
					ui.logger.Error("Failed to install mod", "archive", archivePath, "error", err)
					dialog.ShowError(err, ui.window)
					return
				}
				ui.refreshTree()
				dialog.ShowInformation("Install mod", fmt.Sprintf("Installed %s into %s.", filepath.Base(archivePath), target), ui.window)
			})
		}()
	})
}

func (ui *RootUI) onLaunchClick() {
	if ui.selected == "" {
		return
	}
	// Failures are reported by the controller's notifier
	if err := ui.ctrl.LaunchMod(ui.selected); err != nil {
		ui.logger.Warn("Launch rejected", "mod", ui.selected, "error", err)
	}
}

func (ui *RootUI) onShowSettings() {
	ShowSettingsDialog(ui.window, ui.settings, func() {
		ui.rendererRadio.SetSelected(ui.settings.GetRenderer())
		ui.refreshRuntime()
	})
}

func (ui *RootUI) onShowDownloadDialog() {
	ShowDownloadDialog(ui.window, func(key, url, destination string) {
		if !ui.ctrl.RegisterDownload(key, url, destination) {
			dialog.ShowInformation("Download", fmt.Sprintf("%q is already downloading.", key), ui.window)
			return
		}
		ui.reloadDownloads()
	})
}

func (ui *RootUI) onOpenSupportDir() {
	dir, err := platform.GetSupportDir()
	if err == nil {
		err = platform.CreateDirectoryIfNotExists(dir)
	}
	if err == nil {
		err = platform.OpenFolderInManager(dir)
	}
	if err != nil {
		dialog.ShowError(err, ui.window)
	}
}

// onDownloadUpdate runs on registry goroutines
func (ui *RootUI) onDownloadUpdate(entry model.DownloadEntry) {
	if !entry.Status.IsFinished() && !ui.shouldRefresh() {
		return
	}
	fyne.Do(ui.reloadDownloads)
}

// shouldRefresh limits progress driven list refreshes to one per UIUpdateDebounce
func (ui *RootUI) shouldRefresh() bool {
	ui.uiUpdateMutex.Lock()
	defer ui.uiUpdateMutex.Unlock()

	now := time.Now()
	if now.Sub(ui.lastUIUpdate) < UIUpdateDebounce {
		return false
	}
	ui.lastUIUpdate = now
	return true
}

func (ui *RootUI) reloadDownloads() {
	ui.downloads = ui.ctrl.Downloads()
	ui.downloadList.Refresh()
}

// onBridgeEvent runs on the Fyne goroutine
func (ui *RootUI) onBridgeEvent(ev bridge.Event) {
	switch ev.Kind {
	case bridge.EventDownloadFinished:
		ui.reloadDownloads()
		title := "Download finished"
		content := ev.Key
		if !ev.OK() {
			title = "Download failed"
			content = ev.Key + ": " + ev.Err
		}
		fyne.CurrentApp().SendNotification(fyne.NewNotification(title, content))
	default:
		ui.logger.Debug("Bridge event", "kind", ev.Kind, "callback", ev.Callback, "request_id", ev.RequestID, "ok", ev.OK())
	}
}

func (ui *RootUI) onExtractDownload(key string) {
	if ui.selected == "" {
		dialog.ShowInformation("Extract", "Select the mod to extract into first.", ui.window)
		return
	}
	target, err := ui.ctrl.ExtractDownload(key, "", ui.selected)
	if err != nil {
		ui.logger.Error("Extraction failed", "key", key, "error", err)
		dialog.ShowError(err, ui.window)
		return
	}
	if ui.settings.GetRevealAfterExtract() {
		ui.onRevealFolder(target)
	}
}

func (ui *RootUI) onRevealDownload(path string) {
	ui.onRevealFolder(filepath.Dir(path))
}

func (ui *RootUI) onRevealFolder(dir string) {
	if err := platform.OpenFolderInManager(dir); err != nil {
		ui.logger.Warn("Failed to reveal folder", "dir", dir, "error", err)
		dialog.ShowError(err, ui.window)
	}
}

func (ui *RootUI) onClearDownload(key string) {
	if ui.ctrl.ClearDownload(key) {
		ui.reloadDownloads()
	}
}
