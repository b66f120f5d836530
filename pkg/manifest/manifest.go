// Package manifest implements the durable record of backup runs: a
// JSON array of entries at <backup-root>/manifest.json, appended to on
// every run and queryable by timestamp.
//
// Corruption policy: readers (restore, list) fail hard with
// MANIFEST_CORRUPT since guessing structure before overwriting live
// files is unsafe. The writer path (Append) quarantines a corrupt file
// to manifest.json.corrupt-<timestamp> and starts fresh, so a damaged
// manifest never blocks new backups.
package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/arthur-debert/dotstash/pkg/errors"
	"github.com/arthur-debert/dotstash/pkg/logging"
	"github.com/arthur-debert/dotstash/pkg/types"
)

// Store reads and writes the manifest file. All writes go through an
// atomic write-temp-then-rename so an interrupted run leaves either
// the old manifest or the new one, never a torn file.
type Store struct {
	fs   types.FS
	path string
}

// New creates a Store for the manifest at path.
func New(fs types.FS, path string) *Store {
	return &Store{fs: fs, path: path}
}

// Path returns the manifest file location.
func (s *Store) Path() string {
	return s.path
}

// Load returns all entries in manifest order. A missing file is an
// empty manifest; an unparseable one is MANIFEST_CORRUPT.
func (s *Store) Load() ([]types.BackupEntry, error) {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []types.BackupEntry{}, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read manifest %s", s.path)
	}

	var entries []types.BackupEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestCorrupt,
			"manifest %s is not valid JSON", s.path)
	}
	return entries, nil
}

// Append adds entries and writes the manifest back atomically. If the
// existing manifest is corrupt it is quarantined and a fresh one
// started. Duplicate (original_path, timestamp) pairs are rejected: a
// file is backed up at most once per run.
func (s *Store) Append(newEntries ...types.BackupEntry) error {
	logger := logging.GetLogger("manifest")

	entries, err := s.Load()
	if err != nil {
		if !errors.IsErrorCode(err, errors.ErrManifestCorrupt) {
			return err
		}
		quarantine := s.path + ".corrupt-" + types.NewTimestamp(time.Now())
		if renameErr := s.fs.Rename(s.path, quarantine); renameErr != nil {
			return errors.Wrapf(renameErr, errors.ErrManifestWrite,
				"failed to quarantine corrupt manifest to %s", quarantine)
		}
		logger.Warn().
			Str("quarantine", quarantine).
			Msg("Manifest was corrupt, moved aside and starting fresh")
		entries = []types.BackupEntry{}
	}

	seen := make(map[[2]string]bool, len(entries))
	for _, e := range entries {
		seen[[2]string{e.OriginalPath, e.Timestamp}] = true
	}
	for _, e := range newEntries {
		key := [2]string{e.OriginalPath, e.Timestamp}
		if seen[key] {
			return errors.Newf(errors.ErrInvalidInput,
				"duplicate manifest entry for %s in run %s", e.OriginalPath, e.Timestamp)
		}
		seen[key] = true
		entries = append(entries, e)
	}

	return s.write(entries)
}

// write marshals entries and renames a temp file over the manifest.
func (s *Store) write(entries []types.BackupEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrManifestWrite, "failed to marshal manifest")
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", dir)
	}

	tmp := s.path + ".tmp"
	if err := s.fs.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrManifestWrite, "failed to write %s", tmp)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		return errors.Wrapf(err, errors.ErrManifestWrite,
			"failed to replace manifest %s", s.path)
	}
	return nil
}

// ListTimestamps returns the distinct run timestamps, most recent
// first. The timestamp layout sorts lexicographically.
func (s *Store) ListTimestamps() ([]string, error) {
	entries, err := s.Load()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var timestamps []string
	for _, e := range entries {
		if !seen[e.Timestamp] {
			seen[e.Timestamp] = true
			timestamps = append(timestamps, e.Timestamp)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(timestamps)))
	return timestamps, nil
}

// EntriesFor returns all entries recorded under timestamp, in
// manifest order.
func (s *Store) EntriesFor(timestamp string) ([]types.BackupEntry, error) {
	entries, err := s.Load()
	if err != nil {
		return nil, err
	}

	var matched []types.BackupEntry
	for _, e := range entries {
		if e.Timestamp == timestamp {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

// Latest resolves the most recent run timestamp. An empty manifest is
// TIMESTAMP_NOT_FOUND, not a silent no-op.
func (s *Store) Latest() (string, error) {
	timestamps, err := s.ListTimestamps()
	if err != nil {
		return "", err
	}
	if len(timestamps) == 0 {
		return "", errors.New(errors.ErrTimestampNotFound, "manifest has no backup runs")
	}
	return timestamps[0], nil
}

// Runs groups the manifest by timestamp, most recent first.
func (s *Store) Runs() ([]types.Run, error) {
	timestamps, err := s.ListTimestamps()
	if err != nil {
		return nil, err
	}

	runs := make([]types.Run, 0, len(timestamps))
	for _, ts := range timestamps {
		entries, err := s.EntriesFor(ts)
		if err != nil {
			return nil, err
		}
		runs = append(runs, types.Run{Timestamp: ts, Entries: entries})
	}
	return runs, nil
}

// DeleteRun removes every entry for timestamp from the manifest.
// Deleting the run's backup directory is the caller's job; the store
// only owns the manifest file.
func (s *Store) DeleteRun(timestamp string) error {
	entries, err := s.Load()
	if err != nil {
		return err
	}

	kept := entries[:0]
	removed := 0
	for _, e := range entries {
		if e.Timestamp == timestamp {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	if removed == 0 {
		return errors.Newf(errors.ErrTimestampNotFound,
			"no backup run %s in manifest", timestamp)
	}
	return s.write(kept)
}
