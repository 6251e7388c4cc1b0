package model

import (
	"strings"
	"time"
)

// DownloadEntry is a snapshot of a single keyed download
type DownloadEntry struct {
	Key             string
	URL             string
	DestinationPath string
	Status          DownloadStatus
	BytesReceived   int64
	BytesTotal      int64     // -1 if the server did not announce a length
	LastError       string    // last error message if any
	StartedAt       time.Time // when the entry was registered
	FinishedAt      time.Time // when the entry reached a terminal state
}

// Progress returns the completed fraction in 0.0..1.0, or 0 when the total is unknown
func (de *DownloadEntry) Progress() float64 {
	if de.Status == DownloadStatusCompleted {
		return 1.0
	}
	if de.BytesTotal <= 0 {
		return 0
	}
	p := float64(de.BytesReceived) / float64(de.BytesTotal)
	if p > 1.0 {
		p = 1.0
	}
	return p
}

// Percent returns Progress as an integer percentage
func (de *DownloadEntry) Percent() int {
	return int(de.Progress() * 100)
}

// GetDisplayName returns the destination filename, or the URL if no destination is known
func (de *DownloadEntry) GetDisplayName() string {
	if de.DestinationPath != "" {
		parts := strings.FieldsFunc(de.DestinationPath, func(r rune) bool {
			return r == '/' || r == '\\'
		})
		if len(parts) > 0 {
			return parts[len(parts)-1]
		}
	}
	if de.URL != "" {
		return de.URL
	}
	return de.Key
}
