// Package backup implements the backup recorder: it captures the
// tracked dotfiles into a timestamped directory under the backup root
// and records the run in the manifest.
package backup

import (
	"os"
	"path/filepath"
	"time"

	"github.com/arthur-debert/dotstash/pkg/config"
	"github.com/arthur-debert/dotstash/pkg/errors"
	"github.com/arthur-debert/dotstash/pkg/fileops"
	"github.com/arthur-debert/dotstash/pkg/logging"
	"github.com/arthur-debert/dotstash/pkg/manifest"
	"github.com/arthur-debert/dotstash/pkg/paths"
	"github.com/arthur-debert/dotstash/pkg/types"
)

// Recorder captures tracked dotfiles into per-run backup directories.
type Recorder struct {
	fs    types.FS
	paths paths.Paths
	store *manifest.Store
	cfg   *config.Config

	// Now is the clock used for run timestamps; tests override it.
	Now func() time.Time
}

// New creates a Recorder.
func New(fsys types.FS, p paths.Paths, store *manifest.Store, cfg *config.Config) *Recorder {
	return &Recorder{
		fs:    fsys,
		paths: p,
		store: store,
		cfg:   cfg,
		Now:   time.Now,
	}
}

// Run backs up every tracked dotfile that exists and is not already a
// dotstash-owned symlink. Per-file failures are accumulated and do not
// stop the run; the manifest is appended once, atomically, after all
// copies finish, so an interrupted run never records partial state.
// Runs started within the same second get distinct timestamps.
func (r *Recorder) Run() (*types.RunResult, error) {
	logger := logging.GetLogger("backup")
	finish := logging.LogOperationStart(logger, "backup")
	defer finish()

	ts, err := r.nextTimestamp(r.paths.RunDir, true)
	if err != nil {
		return nil, err
	}
	runDir := r.paths.RunDir(ts)
	result := &types.RunResult{Timestamp: ts}

	var entries []types.BackupEntry
	usedNames := make(map[string]bool)

	for _, tf := range r.cfg.Tracked {
		live := r.paths.ExpandHome(tf.Path)

		info, err := r.fs.Lstat(live)
		if err != nil {
			if os.IsNotExist(err) {
				logger.Debug().Str("path", live).Msg("Path does not exist, skipping")
				result.Skipped = append(result.Skipped, types.FileResult{Item: tf.Item, Path: live})
				continue
			}
			result.Failed = append(result.Failed, types.FileResult{
				Item: tf.Item, Path: live,
				Err: errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", live),
			})
			continue
		}

		if info.Mode()&os.ModeSymlink != 0 {
			target, err := fileops.ResolveLink(r.fs, live)
			if err == nil && r.paths.IsInDotfiles(target) {
				logger.Debug().Str("path", live).Str("target", target).
					Msg("Already a dotstash symlink, skipping")
				result.Skipped = append(result.Skipped, types.FileResult{Item: tf.Item, Path: live})
				continue
			}
			// Foreign symlink: back up the content it points at.
		}

		backupPath := filepath.Join(runDir, backupName(tf.Item, live, usedNames))
		if err := fileops.CopyFile(r.fs, live, backupPath); err != nil {
			logger.Error().Err(err).Str("path", live).Msg("Backup copy failed")
			result.Failed = append(result.Failed, types.FileResult{Item: tf.Item, Path: live, Err: err})
			continue
		}

		entries = append(entries, types.BackupEntry{
			Item:         tf.Item,
			OriginalPath: live,
			BackupPath:   backupPath,
			Timestamp:    ts,
		})
		result.Processed = append(result.Processed, types.FileResult{Item: tf.Item, Path: live})
	}

	if len(entries) > 0 {
		if err := r.store.Append(entries...); err != nil {
			return result, err
		}
	}

	logger.Info().
		Str("timestamp", ts).
		Int("backed_up", len(result.Processed)).
		Int("skipped", len(result.Skipped)).
		Int("failed", len(result.Failed)).
		Msg("Backup run finished")
	return result, nil
}

// nextTimestamp returns a run identifier whose directory does not
// exist yet, advancing the clock one second at a time until one is
// free. Two runs in the same second must never share a directory: the
// second run's copies would overwrite the first run's before the
// manifest could reject the duplicate. With withManifest set,
// timestamps that already have manifest entries are skipped too.
func (r *Recorder) nextTimestamp(dirFor func(string) string, withManifest bool) (string, error) {
	now := r.Now()
	for {
		ts := types.NewTimestamp(now)
		if withManifest {
			existing, err := r.store.EntriesFor(ts)
			if err != nil && !errors.IsErrorCode(err, errors.ErrManifestCorrupt) {
				return "", err
			}
			if len(existing) > 0 {
				now = now.Add(time.Second)
				continue
			}
		}
		dir := dirFor(ts)
		_, err := r.fs.Lstat(dir)
		if os.IsNotExist(err) {
			return ts, nil
		}
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", dir)
		}
		now = now.Add(time.Second)
	}
}

// backupName picks the file name inside the run directory: the live
// file's base name, falling back to the item name when two tracked
// paths share a base name.
func backupName(item, live string, used map[string]bool) string {
	name := filepath.Base(live)
	if used[name] {
		name = item
	}
	used[name] = true
	return name
}

// TmuxFiles are the paths captured by the tmux side-backup set.
var TmuxFiles = []string{"~/.tmux.conf", "~/.tmux"}

// RunTmux captures the tmux files into <backup-root>/tmux-<timestamp>.
// This set is deliberately kept outside the manifest; it mirrors the
// separately-keyed tmux backups the restore side looks up by
// directory name.
func (r *Recorder) RunTmux() (*types.RunResult, error) {
	logger := logging.GetLogger("backup.tmux")
	ts, err := r.nextTimestamp(r.paths.TmuxRunDir, false)
	if err != nil {
		return nil, err
	}
	runDir := r.paths.TmuxRunDir(ts)
	result := &types.RunResult{Timestamp: ts}

	for _, raw := range TmuxFiles {
		live := r.paths.ExpandHome(raw)

		info, err := r.fs.Lstat(live)
		if err != nil {
			if os.IsNotExist(err) {
				result.Skipped = append(result.Skipped, types.FileResult{Path: live})
				continue
			}
			result.Failed = append(result.Failed, types.FileResult{
				Path: live,
				Err:  errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", live),
			})
			continue
		}

		dst := filepath.Join(runDir, filepath.Base(live))
		var copyErr error
		if info.IsDir() {
			copyErr = fileops.CopyTree(r.fs, live, dst)
		} else {
			copyErr = fileops.CopyFile(r.fs, live, dst)
		}
		if copyErr != nil {
			logger.Error().Err(copyErr).Str("path", live).Msg("Tmux backup copy failed")
			result.Failed = append(result.Failed, types.FileResult{Path: live, Err: copyErr})
			continue
		}
		result.Processed = append(result.Processed, types.FileResult{Path: live})
	}

	logger.Info().Str("dir", runDir).Int("copied", len(result.Processed)).
		Msg("Tmux backup finished")
	return result, nil
}
