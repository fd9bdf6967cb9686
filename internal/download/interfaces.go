package download

import (
	"context"

	"github.com/ytget/yt-audio/internal/model"
)

// Extractor is the external video extraction/download capability.
type Extractor interface {
	// ExtractInfo returns video metadata without downloading anything
	ExtractInfo(ctx context.Context, url string) (*model.VideoInfo, error)

	// Download fetches the audio of url, converts it and writes it using
	// opts.OutputTemplate. progress is called synchronously on every tick.
	Download(ctx context.Context, url string, opts Options, progress model.ProgressFunc) error
}

// Options configures a single download
type Options struct {
	// OutputTemplate is a yt-dlp output template, e.g. "/music/My_Song.%(ext)s"
	OutputTemplate string

	// Title is used for progress events when the library does not report one
	Title string
}
