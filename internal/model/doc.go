package model

// Package model defines domain data structures used across the app: progress
// events emitted during a download, per-URL results, the batch summary and
// playlist entities used for playlist expansion.
