package ui

// Package ui renders download progress on a terminal: a single line that is
// rewritten in place on every progress tick and terminated on completion.
