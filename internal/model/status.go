package model

// ProgressStatus represents the state carried by a progress event
type ProgressStatus string

const (
	// ProgressStatusDownloading means bytes are still being received
	ProgressStatusDownloading ProgressStatus = "downloading"

	// ProgressStatusFinished means the download of the current file is complete
	ProgressStatusFinished ProgressStatus = "finished"

	// ProgressStatusOther covers every other state (starting, post-processing, error)
	ProgressStatusOther ProgressStatus = "other"
)

// ParseProgressStatus maps a status string reported by the download library
// onto a ProgressStatus. Unknown values map to ProgressStatusOther.
func ParseProgressStatus(s string) ProgressStatus {
	switch ProgressStatus(s) {
	case ProgressStatusDownloading:
		return ProgressStatusDownloading
	case ProgressStatusFinished:
		return ProgressStatusFinished
	default:
		return ProgressStatusOther
	}
}

// String returns the string representation of ProgressStatus
func (ps ProgressStatus) String() string {
	return string(ps)
}

// IsTerminal returns true if no further byte progress is expected for the file
func (ps ProgressStatus) IsTerminal() bool {
	return ps == ProgressStatusFinished
}
