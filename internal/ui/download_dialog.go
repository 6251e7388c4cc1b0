package ui

import (
	"errors"
	"net/url"
	"path"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// ShowDownloadDialog asks for a package URL and registers it through onSubmit
func ShowDownloadDialog(window fyne.Window, onSubmit func(key, url, destination string)) {
	urlEntry := widget.NewEntry()
	urlEntry.SetPlaceHolder("https://example.com/package.zip")
	urlEntry.Validator = validateDownloadURL

	keyEntry := widget.NewEntry()
	keyEntry.SetPlaceHolder("Defaults to the file name")

	items := []*widget.FormItem{
		widget.NewFormItem("URL", urlEntry),
		widget.NewFormItem("Key", keyEntry),
	}

	d := dialog.NewForm("Download package", "Download", "Cancel", items, func(confirmed bool) {
		if !confirmed {
			return
		}
		rawURL := strings.TrimSpace(urlEntry.Text)
		destination := downloadFileName(rawURL)
		key := strings.TrimSpace(keyEntry.Text)
		if key == "" {
			key = destination
		}
		onSubmit(key, rawURL, destination)
	}, window)
	d.Resize(fyne.NewSize(480, 200))
	d.Show()
}

// validateDownloadURL accepts absolute http and https URLs
func validateDownloadURL(input string) error {
	u, err := url.Parse(strings.TrimSpace(input))
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("URL must start with http:// or https://")
	}
	if u.Host == "" {
		return errors.New("URL has no host")
	}
	return nil
}

// downloadFileName returns the last path segment of rawURL, "download" if none
func downloadFileName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "download"
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "download"
	}
	return name
}
