package ui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/openra/ra-launcher/internal/model"
)

// formatProgress renders "1.2 MiB / 4.0 MiB", or only the received size when
// the total is unknown
func formatProgress(entry model.DownloadEntry) string {
	received := humanize.IBytes(uint64(max(entry.BytesReceived, 0)))
	if entry.BytesTotal < 0 {
		return received
	}
	return received + " / " + humanize.IBytes(uint64(entry.BytesTotal))
}

// formatStatus renders the status column, with the percentage while transferring
func formatStatus(entry model.DownloadEntry) string {
	switch entry.Status {
	case model.DownloadStatusInProgress:
		if entry.BytesTotal > 0 {
			return fmt.Sprintf(ProgressLabelFormat, entry.Percent())
		}
		return "Downloading"
	case model.DownloadStatusPending:
		return "Waiting"
	case model.DownloadStatusCompleted:
		return IconOK + " Done"
	case model.DownloadStatusFailed:
		return IconError + " Failed"
	default:
		return DashPlaceholder
	}
}

// formatModDetails renders the mod metadata shown beside the tree
func formatModDetails(mod model.Mod) string {
	var parts []string
	if mod.Version != "" {
		parts = append(parts, "Version "+mod.Version)
	}
	if mod.Author != "" {
		parts = append(parts, "by "+mod.Author)
	}
	if mod.Requires != "" {
		parts = append(parts, "requires "+mod.Requires)
	}
	if len(parts) == 0 {
		return DashPlaceholder
	}
	return strings.Join(parts, MiddleDotSeparator)
}
