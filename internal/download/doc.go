package download

// Package download implements the audio download pipeline built on top of
// yt-dlp (via github.com/lrstanley/go-ytdlp). It processes URLs strictly one
// after another, feeds progress events to a reporter and tallies outcomes.
