package download

import (
	"github.com/openra/ra-launcher/internal/model"
)

// Downloader defines the interface for the download registry.
type Downloader interface {
	SetUpdateCallback(func(model.DownloadEntry))
	RegisterDownload(key, url, destinationPath string) bool
	LookupDownload(key string) (model.DownloadEntry, bool)
	GetAllDownloads() []model.DownloadEntry
	ClearDownload(key string) bool
	ExtractDownload(key, targetDir string) error

	// Fetch issues a GET whose result is delivered to callback through the
	// bridge. It returns the request identifier for correlation only.
	Fetch(url, callback string) string

	// Close cancels in-flight work and forgets every entry
	Close() error
}
