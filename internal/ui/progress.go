package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/ytget/yt-audio/internal/model"
	"github.com/ytget/yt-audio/internal/platform"
)

// ProgressReporter renders progress events as an in-place terminal line.
// It is safe to call from the goroutine the download library uses for
// callbacks and never panics.
type ProgressReporter struct {
	mu  sync.Mutex
	out io.Writer
}

// NewProgressReporter creates a reporter writing to out
func NewProgressReporter(out io.Writer) *ProgressReporter {
	return &ProgressReporter{out: out}
}

// Report handles a single progress event. It has the model.ProgressFunc signature.
func (r *ProgressReporter) Report(event model.ProgressEvent) {
	defer func() {
		// Rendering must not abort the download.
		_ = recover()
	}()

	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case event.Status == model.ProgressStatusDownloading:
		line, ok := RenderLine(event)
		if !ok {
			return
		}
		r.write(CarriageReturn + line)
	case event.Status.IsTerminal():
		r.write(LineFeed)
	}
}

// Func returns the reporter as a model.ProgressFunc
func (r *ProgressReporter) Func() model.ProgressFunc {
	return r.Report
}

func (r *ProgressReporter) write(s string) {
	if r.out == nil {
		return
	}
	_, _ = io.WriteString(r.out, s)
	flush(r.out)
}

// flush pushes buffered output to the terminal. Unbuffered writers such as
// *os.File need nothing.
func flush(w io.Writer) {
	if f, ok := w.(interface{ Flush() error }); ok {
		_ = f.Flush()
	}
}

// RenderLine builds the status line for a downloading event without the
// leading carriage return. It returns false if the total size is unknown.
func RenderLine(event model.ProgressEvent) (string, bool) {
	percent, ok := event.Percent()
	if !ok {
		return "", false
	}

	return fmt.Sprintf("%s [%s] %5.1f%% | %s/%s | %s/s | ETA: %s",
		fitTitle(event.Title, TitleWidth),
		RenderBar(percent, BarWidth),
		percent,
		platform.FormatBytes(float64(event.DownloadedBytes)),
		platform.FormatBytes(float64(event.TotalBytes)),
		platform.FormatBytes(event.SpeedBytesPerSec),
		platform.FormatTime(event.ETASeconds),
	), true
}

// RenderBar draws a bar of width cells with floor(width*percent/100) filled.
// Percent is clamped to 0..100.
func RenderBar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(float64(width) * percent / 100)
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat(FilledGlyph, filled) + strings.Repeat(EmptyGlyph, width-filled)
}

// fitTitle truncates or right-pads title to exactly width characters
func fitTitle(title string, width int) string {
	n := utf8.RuneCountInString(title)
	if n > width {
		return string([]rune(title)[:width])
	}
	return title + strings.Repeat(" ", width-n)
}
