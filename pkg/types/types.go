package types

import "time"

// BackupEntry is one record in the manifest: a single file captured
// during a single backup run.
type BackupEntry struct {
	// Item is the logical name of the dotfile, e.g. "zshrc"
	Item string `json:"item"`

	// OriginalPath is the absolute path of the live file at backup time
	OriginalPath string `json:"original_path"`

	// BackupPath is the absolute path where the copy was stored
	BackupPath string `json:"backup_path"`

	// Timestamp identifies the run this entry belongs to,
	// formatted as TimestampLayout
	Timestamp string `json:"timestamp"`
}

// TimestampLayout is the run identifier format. It sorts
// lexicographically in chronological order, which Latest() relies on.
const TimestampLayout = "20060102_150405"

// NewTimestamp returns a run identifier for the given time.
func NewTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// Run groups the manifest entries recorded under one timestamp.
type Run struct {
	Timestamp string        `json:"timestamp"`
	Entries   []BackupEntry `json:"entries"`
}

// FileResult records the outcome for a single file during a backup or
// restore run. Failures are accumulated, never fatal to the run.
type FileResult struct {
	Item string `json:"item"`
	Path string `json:"path"`
	Err  error  `json:"-"`
}

// Failed reports whether this file's operation failed.
func (r FileResult) Failed() bool {
	return r.Err != nil
}

// RunResult is the aggregate outcome of a backup or restore run.
type RunResult struct {
	Timestamp string       `json:"timestamp"`
	Processed []FileResult `json:"processed"`
	Skipped   []FileResult `json:"skipped"`
	Failed    []FileResult `json:"failed"`
}

// Ok reports whether the run completed with no per-file failures.
func (r *RunResult) Ok() bool {
	return len(r.Failed) == 0
}
