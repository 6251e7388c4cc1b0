package model

// DownloadStatus represents the status of a registered download
type DownloadStatus string

const (
	// DownloadStatusNotRegistered is reported for keys the registry does not know
	DownloadStatusNotRegistered DownloadStatus = "NotRegistered"

	// DownloadStatusPending means the download is registered but no byte has arrived yet
	DownloadStatusPending DownloadStatus = "Pending"

	// DownloadStatusInProgress means the transfer has received its first byte
	DownloadStatusInProgress DownloadStatus = "InProgress"

	// DownloadStatusCompleted means the transfer finished and the file is in place
	DownloadStatusCompleted DownloadStatus = "Completed"

	// DownloadStatusFailed means the transfer terminated with an error
	DownloadStatusFailed DownloadStatus = "Failed"
)

// String returns the string representation of DownloadStatus
func (ds DownloadStatus) String() string {
	return string(ds)
}

// IsActive returns true while the download still owns its key
func (ds DownloadStatus) IsActive() bool {
	return ds == DownloadStatusPending || ds == DownloadStatusInProgress
}

// IsFinished returns true if the download reached a terminal state
func (ds DownloadStatus) IsFinished() bool {
	return ds == DownloadStatusCompleted || ds == DownloadStatusFailed
}
