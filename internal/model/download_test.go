package model

import (
	"testing"
	"time"
)

func TestDownloadEntry_Progress(t *testing.T) {
	tests := []struct {
		name     string
		entry    DownloadEntry
		expected float64
	}{
		{"unknown total", DownloadEntry{Status: DownloadStatusInProgress, BytesReceived: 10, BytesTotal: -1}, 0},
		{"half", DownloadEntry{Status: DownloadStatusInProgress, BytesReceived: 50, BytesTotal: 100}, 0.5},
		{"overshoot clamps", DownloadEntry{Status: DownloadStatusInProgress, BytesReceived: 150, BytesTotal: 100}, 1.0},
		{"completed without total", DownloadEntry{Status: DownloadStatusCompleted, BytesReceived: 7, BytesTotal: -1}, 1.0},
		{"pending", DownloadEntry{Status: DownloadStatusPending, BytesTotal: 100}, 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := test.entry.Progress()
			if result != test.expected {
				t.Errorf("Progress() = %v, expected %v", result, test.expected)
			}
		})
	}
}

func TestDownloadEntry_Percent(t *testing.T) {
	entry := DownloadEntry{Status: DownloadStatusInProgress, BytesReceived: 1, BytesTotal: 4}
	if entry.Percent() != 25 {
		t.Errorf("Percent() = %d, expected 25", entry.Percent())
	}
}

func TestDownloadEntry_GetDisplayName(t *testing.T) {
	tests := []struct {
		dest     string
		url      string
		key      string
		expected string
	}{
		{"/tmp/cache/ra-packages.zip", "http://x/y", "ra", "ra-packages.zip"},
		{`C:\cache\cnc.zip`, "http://x/y", "cnc", "cnc.zip"},
		{"", "http://x/y", "ra", "http://x/y"},
		{"", "", "ra", "ra"},
	}

	for _, test := range tests {
		entry := &DownloadEntry{Key: test.key, URL: test.url, DestinationPath: test.dest}
		result := entry.GetDisplayName()
		if result != test.expected {
			t.Errorf("GetDisplayName() with dest=%q url=%q = %q, expected %q", test.dest, test.url, result, test.expected)
		}
	}
}

func TestDownloadEntry_Creation(t *testing.T) {
	now := time.Now()
	entry := &DownloadEntry{
		Key:        "ra-packages",
		URL:        "http://example/ra.zip",
		Status:     DownloadStatusPending,
		BytesTotal: -1,
		StartedAt:  now,
	}

	if entry.Status != DownloadStatusPending {
		t.Errorf("Expected status to be DownloadStatusPending, got %s", entry.Status)
	}

	if !entry.StartedAt.Equal(now) {
		t.Errorf("Expected StartedAt to be %v, got %v", now, entry.StartedAt)
	}
}
