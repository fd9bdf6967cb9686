package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/ytget/yt-audio/internal/logging"
	"github.com/ytget/yt-audio/internal/model"
	"github.com/ytget/yt-audio/internal/platform"
)

// OutputExtensionTemplate is appended to the sanitized title to build the output template
const OutputExtensionTemplate = ".%(ext)s"

// DefaultFileName is used when a title sanitizes to an empty string
const DefaultFileName = "audio"

// Service runs downloads sequentially and tallies their outcomes
type Service struct {
	extractor Extractor
	outputDir string
	out       io.Writer
	progress  model.ProgressFunc
	logger    *slog.Logger
}

// NewService creates a new download service. User-facing messages are
// written to out; progress is called for every progress event.
func NewService(extractor Extractor, outputDir string, out io.Writer, progress model.ProgressFunc) *Service {
	if out == nil {
		out = io.Discard
	}
	if progress == nil {
		progress = func(model.ProgressEvent) {}
	}
	return &Service{
		extractor: extractor,
		outputDir: outputDir,
		out:       out,
		progress:  progress,
		logger:    logging.L("download"),
	}
}

// SetLogger replaces the service logger
func (s *Service) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Run processes every URL in order and returns the summary and the
// individual results. A failing URL never stops the batch; only context
// cancellation does.
func (s *Service) Run(ctx context.Context, urls []string) (model.BatchSummary, []model.DownloadResult) {
	var summary model.BatchSummary
	results := make([]model.DownloadResult, 0, len(urls))

	total := len(urls)
	plural := "s"
	if total == 1 {
		plural = ""
	}
	s.printf("Starting download of %d video%s\n", total, plural)
	s.printf("Output directory: %s\n", s.outputDir)

	for i, url := range urls {
		if ctx.Err() != nil {
			s.printf("\nInterrupted, %d video(s) not processed\n", total-i)
			s.logger.Warn("batch interrupted", logging.KeyIndex, i, "remaining", total-i)
			break
		}

		s.printf("\nProcessing video %d/%d\n", i+1, total)
		result := s.ProcessURL(ctx, url)
		summary.Record(result)
		results = append(results, result)
	}

	return summary, results
}

// ProcessURL extracts metadata for url and downloads its audio. Failures are
// reported and returned in the result, never propagated.
func (s *Service) ProcessURL(ctx context.Context, url string) model.DownloadResult {
	start := time.Now()
	result := model.DownloadResult{URL: url}

	s.printf("\nInitializing download for: %s\n", url)

	info, err := s.extractor.ExtractInfo(ctx, url)
	if err != nil {
		return s.fail(result, err)
	}
	if info == nil {
		return s.fail(result, ErrNoVideoInfo)
	}
	result.Title = info.Title

	s.printf("\nVideo details:\n")
	s.printf("Title: %s\n", info.Title)
	s.printf("Duration: %d seconds\n", int64(info.DurationSec))
	s.printf("View count: %d\n", info.ViewCount)

	baseName := platform.CreateSafeFilename(info.Title)
	if baseName == "" {
		baseName = platform.CreateSafeFilename(info.ID)
	}
	if baseName == "" {
		baseName = DefaultFileName
	}

	opts := Options{
		OutputTemplate: filepath.Join(s.outputDir, baseName+OutputExtensionTemplate),
		Title:          info.Title,
	}
	if err := s.extractor.Download(ctx, url, opts, s.progress); err != nil {
		return s.fail(result, err)
	}

	if file, err := platform.FindOutputFile(s.outputDir, baseName); err == nil {
		result.OutputPath = file.Path
		if file.Kind != platform.MediaKindAudio {
			s.logger.Warn("output file is not recognized as audio", logging.KeyURL, url, logging.KeyPath, file.Path, "kind", file.Kind)
		}
	} else {
		s.logger.Debug("output file not found", logging.KeyURL, url, logging.KeyError, err)
	}

	s.printf("\nDownload completed successfully!\n")
	result.Succeeded = true
	s.logger.Info("download completed",
		logging.KeyURL, url,
		logging.KeyTitle, result.GetDisplayTitle(),
		logging.KeyPath, result.OutputPath,
		logging.KeyDurationMs, time.Since(start).Milliseconds(),
	)
	return result
}

// PrintSummary writes the end-of-run summary
func (s *Service) PrintSummary(summary model.BatchSummary) {
	s.printf("\nDownload Summary:\n")
	s.printf("Total videos: %d\n", summary.Total)
	s.printf("Successfully downloaded: %d\n", summary.Succeeded)
	s.printf("Failed: %d\n", summary.Failed)
}

func (s *Service) fail(result model.DownloadResult, err error) model.DownloadResult {
	result.Succeeded = false
	result.Error = err.Error()
	result.ErrorType = ErrorTypeName(err)

	// Progress for this URL stops without a newline, so start a fresh line.
	s.printf("\nError occurred while downloading %s: %s\n", result.URL, result.Error)
	s.printf("Error type: %s\n", result.ErrorType)

	s.logger.Error("download failed",
		logging.KeyURL, result.URL,
		logging.KeyTitle, result.GetDisplayTitle(),
		logging.KeyError, result.Error,
		logging.KeyErrorType, result.ErrorType,
	)
	return result
}

func (s *Service) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

// ErrorTypeName returns the Go type name of the innermost wrapped error,
// without pointer markers, e.g. "exec.ExitError".
func ErrorTypeName(err error) string {
	if err == nil {
		return ""
	}
	for {
		next := errors.Unwrap(err)
		if next == nil {
			break
		}
		err = next
	}
	return strings.TrimLeft(fmt.Sprintf("%T", err), "*")
}
