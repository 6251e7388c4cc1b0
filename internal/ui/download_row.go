package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/openra/ra-launcher/internal/model"
)

// DownloadRow shows one registry entry with its actions
type DownloadRow struct {
	widget.BaseWidget

	entry model.DownloadEntry

	nameLabel   *widget.Label
	statusLabel *widget.Label
	sizeLabel   *widget.Label
	progress    *widget.ProgressBar

	extractBtn *widget.Button
	revealBtn  *widget.Button
	clearBtn   *widget.Button

	onExtract func(key string)
	onReveal  func(path string)
	onClear   func(key string)
}

// NewDownloadRow creates an empty row; SetEntry fills it
func NewDownloadRow() *DownloadRow {
	r := &DownloadRow{}
	r.ExtendBaseWidget(r)

	r.nameLabel = widget.NewLabel("")
	r.nameLabel.TextStyle = fyne.TextStyle{Bold: true}
	r.nameLabel.Truncation = fyne.TextTruncateEllipsis
	r.statusLabel = widget.NewLabel("")
	r.statusLabel.Alignment = fyne.TextAlignTrailing
	r.sizeLabel = widget.NewLabel("")
	r.sizeLabel.TextStyle = fyne.TextStyle{Monospace: true}
	r.progress = widget.NewProgressBar()

	r.extractBtn = widget.NewButton(IconExtract, func() {
		if r.onExtract != nil {
			r.onExtract(r.entry.Key)
		}
	})
	r.revealBtn = widget.NewButton(IconFolder, func() {
		if r.onReveal != nil && r.entry.DestinationPath != "" {
			r.onReveal(r.entry.DestinationPath)
		}
	})
	r.clearBtn = widget.NewButton(IconClose, func() {
		if r.onClear != nil {
			r.onClear(r.entry.Key)
		}
	})
	r.clearBtn.Importance = widget.LowImportance
	return r
}

// SetCallbacks sets the action callbacks
func (r *DownloadRow) SetCallbacks(onExtract func(key string), onReveal func(path string), onClear func(key string)) {
	r.onExtract = onExtract
	r.onReveal = onReveal
	r.onClear = onClear
}

// SetEntry shows entry in the row
func (r *DownloadRow) SetEntry(entry model.DownloadEntry) {
	r.entry = entry

	r.nameLabel.SetText(entry.GetDisplayName())
	r.statusLabel.SetText(formatStatus(entry))
	r.sizeLabel.SetText(formatProgress(entry))
	r.progress.SetValue(entry.Progress())
	if entry.Status == model.DownloadStatusCompleted {
		r.progress.SetValue(1)
	}

	// Only finished downloads can be extracted, revealed or cleared
	if entry.Status == model.DownloadStatusCompleted {
		r.extractBtn.Enable()
		r.revealBtn.Enable()
	} else {
		r.extractBtn.Disable()
		r.revealBtn.Disable()
	}
	if entry.Status.IsFinished() {
		r.clearBtn.Enable()
	} else {
		r.clearBtn.Disable()
	}
}

func (r *DownloadRow) CreateRenderer() fyne.WidgetRenderer {
	fixedWidth := func(w float32, obj fyne.CanvasObject) fyne.CanvasObject {
		spacer := canvas.NewRectangle(color.Transparent)
		spacer.SetMinSize(fyne.NewSize(w, obj.MinSize().Height))
		return container.NewStack(spacer, obj)
	}

	info := container.NewHBox(
		fixedWidth(SizeLabelWidth, r.sizeLabel),
		fixedWidth(StatusLabelWidth, r.statusLabel),
	)
	actions := container.NewHBox(r.extractBtn, r.revealBtn, r.clearBtn)
	top := container.NewBorder(nil, nil, nil, container.NewHBox(info, actions), r.nameLabel)

	return widget.NewSimpleRenderer(container.NewVBox(top, r.progress))
}

// MinSize keeps rows readable inside the list
func (r *DownloadRow) MinSize() fyne.Size {
	size := r.BaseWidget.MinSize()
	return fyne.NewSize(max(size.Width, RowMinWidth), max(size.Height, RowMinHeight))
}
