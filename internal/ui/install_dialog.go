package ui

import (
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
)

// ModArchiveExtension is the only archive type mods are installed from
const ModArchiveExtension = ".zip"

// ShowInstallModDialog lets the user pick a mod archive and passes its path to onPicked
func ShowInstallModDialog(window fyne.Window, onPicked func(archivePath string)) {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, window)
			return
		}
		if reader == nil {
			return
		}
		archivePath := reader.URI().Path()
		reader.Close()

		if !isModArchive(archivePath) {
			dialog.ShowInformation("Install mod", "Mods are installed from "+ModArchiveExtension+" archives.", window)
			return
		}
		onPicked(archivePath)
	}, window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{ModArchiveExtension}))
	d.Resize(fyne.NewSize(640, 480))
	d.Show()
}

func isModArchive(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ModArchiveExtension)
}
