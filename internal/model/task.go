package model

import (
	"fmt"
	"strings"
)

// ProgressEvent is a single progress tick emitted by the download library.
// It only lives for the duration of one callback invocation.
type ProgressEvent struct {
	Status           ProgressStatus
	DownloadedBytes  int64   // bytes received so far
	TotalBytes       int64   // 0 if unknown
	SpeedBytesPerSec float64 // 0 if unknown
	ETASeconds       int     // negative if unknown
	Title            string  // video title
}

// ProgressFunc receives progress events synchronously from a running download
type ProgressFunc func(ProgressEvent)

// Percent returns completion in the 0..100 range, and false if the total size is unknown
func (e ProgressEvent) Percent() (float64, bool) {
	if e.TotalBytes <= 0 {
		return 0, false
	}
	return float64(e.DownloadedBytes) / float64(e.TotalBytes) * 100, true
}

// VideoInfo holds metadata returned by extraction without downloading
type VideoInfo struct {
	ID          string
	Title       string
	DurationSec float64
	ViewCount   int64
}

// DownloadResult is the outcome of processing a single URL
type DownloadResult struct {
	URL        string `yaml:"url"`
	Title      string `yaml:"title,omitempty"`
	Succeeded  bool   `yaml:"succeeded"`
	Error      string `yaml:"error,omitempty"`      // error message if any
	ErrorType  string `yaml:"error_type,omitempty"` // Go type name of the error
	OutputPath string `yaml:"output_path,omitempty"`
}

// GetDisplayTitle returns title, filename, or URL in order of preference
func (r *DownloadResult) GetDisplayTitle() string {
	if r.Title != "" && !strings.HasPrefix(r.Title, "http") {
		return r.Title
	}

	if r.OutputPath != "" {
		// Support both / and \ separators
		parts := strings.FieldsFunc(r.OutputPath, func(c rune) bool {
			return c == '/' || c == '\\'
		})
		if len(parts) > 0 {
			filename := parts[len(parts)-1]
			if idx := strings.LastIndex(filename, "."); idx > 0 {
				filename = filename[:idx]
			}
			return filename
		}
	}

	return r.URL
}

// BatchSummary accumulates outcomes across a run
type BatchSummary struct {
	Total     int `yaml:"total"`
	Succeeded int `yaml:"succeeded"`
	Failed    int `yaml:"failed"`
}

// Record adds a single result to the tally
func (s *BatchSummary) Record(result DownloadResult) {
	s.Total++
	if result.Succeeded {
		s.Succeeded++
	} else {
		s.Failed++
	}
}

// String returns the summary in a single line
func (s BatchSummary) String() string {
	return fmt.Sprintf("total=%d succeeded=%d failed=%d", s.Total, s.Succeeded, s.Failed)
}
