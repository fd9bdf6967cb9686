package download

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/ytget/yt-audio/internal/config"
	"github.com/ytget/yt-audio/internal/model"
)

// DefaultProgressInterval is how often yt-dlp progress is delivered to the callback
const DefaultProgressInterval = 250 * time.Millisecond

// ErrNoVideoInfo is returned when extraction succeeds but yields no metadata
var ErrNoVideoInfo = errors.New("no video information returned")

// YTDLPExtractor implements Extractor on top of the yt-dlp binary
type YTDLPExtractor struct {
	settings         *config.Settings
	progressInterval time.Duration
}

// NewYTDLPExtractor creates an extractor using the given settings
func NewYTDLPExtractor(settings *config.Settings) *YTDLPExtractor {
	if settings == nil {
		settings = config.Default()
	}
	return &YTDLPExtractor{
		settings:         settings,
		progressInterval: DefaultProgressInterval,
	}
}

// Install makes sure a yt-dlp binary is available, downloading it if needed
func Install(ctx context.Context) error {
	if _, err := ytdlp.Install(ctx, nil); err != nil {
		return fmt.Errorf("failed to install yt-dlp: %w", err)
	}
	return nil
}

// ExtractInfo returns title, duration and view count without downloading
func (e *YTDLPExtractor) ExtractInfo(ctx context.Context, url string) (*model.VideoInfo, error) {
	dl := ytdlp.New().
		SkipDownload().
		DumpSingleJSON().
		NoPlaylist()
	if e.settings.NoWarnings {
		dl.NoWarnings()
	}

	result, err := dl.Run(ctx, url)
	if err != nil {
		return nil, err
	}

	infos, err := result.GetExtractedInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to parse video info: %w", err)
	}
	if len(infos) == 0 || infos[0] == nil {
		return nil, ErrNoVideoInfo
	}

	return newVideoInfo(infos[0]), nil
}

// newVideoInfo copies the fields we print out of yt-dlp's metadata.
// Missing optional fields stay zero.
func newVideoInfo(info *ytdlp.ExtractedInfo) *model.VideoInfo {
	v := &model.VideoInfo{ID: info.ID}
	if info.Title != nil {
		v.Title = *info.Title
	}
	if info.Duration != nil {
		v.DurationSec = *info.Duration
	}
	if info.ViewCount != nil {
		v.ViewCount = int64(*info.ViewCount)
	}
	return v
}

// Download fetches the best audio stream and converts it with yt-dlp's
// audio extraction post-processor.
func (e *YTDLPExtractor) Download(ctx context.Context, url string, opts Options, progress model.ProgressFunc) error {
	dl := ytdlp.New().
		Format(e.settings.Format).
		ExtractAudio().
		AudioFormat(e.settings.AudioFormat).
		AudioQuality(e.settings.AudioQuality).
		NoPlaylist().
		Output(opts.OutputTemplate)

	if e.settings.WriteThumbnail {
		dl.WriteThumbnail()
	}
	if e.settings.NoWarnings {
		dl.NoWarnings()
	}
	if e.settings.Quiet {
		// Keep progress reporting alive in quiet mode.
		dl.Quiet().Progress()
	}

	if progress != nil {
		dl.ProgressFunc(e.progressInterval, func(update ytdlp.ProgressUpdate) {
			title := opts.Title
			if update.Info != nil && update.Info.Title != nil && *update.Info.Title != "" {
				title = *update.Info.Title
			}
			progress(newProgressEvent(
				string(update.Status),
				int64(update.DownloadedBytes),
				int64(update.TotalBytes),
				update.Started,
				update.ETA(),
				title,
				time.Now(),
			))
		})
	}

	if _, err := dl.Run(ctx, url); err != nil {
		return err
	}
	return nil
}

// newProgressEvent converts raw progress values into a ProgressEvent.
// Speed is averaged since the download started; an unknown ETA is -1.
func newProgressEvent(status string, downloaded, total int64, started time.Time, eta time.Duration, title string, now time.Time) model.ProgressEvent {
	if downloaded < 0 {
		downloaded = 0
	}
	if total < 0 {
		total = 0
	}

	event := model.ProgressEvent{
		Status:          model.ParseProgressStatus(status),
		DownloadedBytes: downloaded,
		TotalBytes:      total,
		ETASeconds:      -1,
		Title:           title,
	}

	if !started.IsZero() {
		if elapsed := now.Sub(started).Seconds(); elapsed > 0 {
			event.SpeedBytesPerSec = float64(downloaded) / elapsed
		}
	}

	switch {
	case eta > 0:
		event.ETASeconds = int(eta.Seconds())
	case total > 0 && downloaded >= total:
		event.ETASeconds = 0
	}

	return event
}
