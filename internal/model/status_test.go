package model

import "testing"

func TestDownloadStatus_IsActive(t *testing.T) {
	tests := []struct {
		status   DownloadStatus
		expected bool
	}{
		{DownloadStatusNotRegistered, false},
		{DownloadStatusPending, true},
		{DownloadStatusInProgress, true},
		{DownloadStatusCompleted, false},
		{DownloadStatusFailed, false},
	}

	for _, test := range tests {
		result := test.status.IsActive()
		if result != test.expected {
			t.Errorf("DownloadStatus(%s).IsActive() = %v, expected %v", test.status, result, test.expected)
		}
	}
}

func TestDownloadStatus_IsFinished(t *testing.T) {
	tests := []struct {
		status   DownloadStatus
		expected bool
	}{
		{DownloadStatusNotRegistered, false},
		{DownloadStatusPending, false},
		{DownloadStatusInProgress, false},
		{DownloadStatusCompleted, true},
		{DownloadStatusFailed, true},
	}

	for _, test := range tests {
		result := test.status.IsFinished()
		if result != test.expected {
			t.Errorf("DownloadStatus(%s).IsFinished() = %v, expected %v", test.status, result, test.expected)
		}
	}
}

func TestDownloadStatus_String(t *testing.T) {
	status := DownloadStatusInProgress
	expected := "InProgress"
	result := status.String()

	if result != expected {
		t.Errorf("DownloadStatus.String() = %s, expected %s", result, expected)
	}
}
