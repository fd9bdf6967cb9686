package platform

// Package platform contains OS/platform integration and external tooling glue:
// filesystem helpers, human readable formatting, output-directory locking and
// playlist expansion via the ytdlp library.
