// Package restore reverses backup runs: it copies recorded files back
// over their live paths and removes any symlinks the installer put
// there.
package restore

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/dotstash/pkg/errors"
	"github.com/arthur-debert/dotstash/pkg/fileops"
	"github.com/arthur-debert/dotstash/pkg/logging"
	"github.com/arthur-debert/dotstash/pkg/manifest"
	"github.com/arthur-debert/dotstash/pkg/paths"
	"github.com/arthur-debert/dotstash/pkg/types"
)

// Latest is the sentinel timestamp meaning the most recent run.
const Latest = "latest"

// Restorer copies backed-up files back over their original paths.
type Restorer struct {
	fs    types.FS
	paths paths.Paths
	store *manifest.Store
}

// New creates a Restorer.
func New(fsys types.FS, p paths.Paths, store *manifest.Store) *Restorer {
	return &Restorer{fs: fsys, paths: p, store: store}
}

// Restore reverses the backup run identified by timestamp ("" and
// "latest" resolve to the most recent run). For each entry: a
// dotstash-owned symlink at the live path is removed, then the backup
// copy is written back preserving permissions. Restoring the same run
// twice yields the same end state. Per-file failures (backup file
// vanished, permissions) are accumulated; an unknown timestamp or a
// corrupt manifest is fatal.
func (r *Restorer) Restore(timestamp string) (*types.RunResult, error) {
	logger := logging.GetLogger("restore")

	if timestamp == "" || timestamp == Latest {
		ts, err := r.store.Latest()
		if err != nil {
			return nil, err
		}
		timestamp = ts
	}

	entries, err := r.store.EntriesFor(timestamp)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errors.Newf(errors.ErrTimestampNotFound,
			"no backup run %s in manifest", timestamp)
	}

	result := &types.RunResult{Timestamp: timestamp}
	for _, entry := range entries {
		if _, err := r.fs.Stat(entry.BackupPath); err != nil {
			if os.IsNotExist(err) {
				err = errors.Newf(errors.ErrFileNotFound,
					"backup file %s is gone, manifest and disk have diverged", entry.BackupPath)
			} else {
				err = errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", entry.BackupPath)
			}
			logger.Error().Err(err).Str("item", entry.Item).Msg("Restore failed for file")
			result.Failed = append(result.Failed, types.FileResult{
				Item: entry.Item, Path: entry.OriginalPath, Err: err,
			})
			continue
		}

		if err := r.removeOwnedSymlink(entry.OriginalPath); err != nil {
			logger.Error().Err(err).Str("item", entry.Item).Msg("Restore failed for file")
			result.Failed = append(result.Failed, types.FileResult{
				Item: entry.Item, Path: entry.OriginalPath, Err: err,
			})
			continue
		}

		if err := fileops.CopyFile(r.fs, entry.BackupPath, entry.OriginalPath); err != nil {
			logger.Error().Err(err).Str("item", entry.Item).Msg("Restore failed for file")
			result.Failed = append(result.Failed, types.FileResult{
				Item: entry.Item, Path: entry.OriginalPath, Err: err,
			})
			continue
		}

		result.Processed = append(result.Processed, types.FileResult{
			Item: entry.Item, Path: entry.OriginalPath,
		})
	}

	logger.Info().
		Str("timestamp", timestamp).
		Int("restored", len(result.Processed)).
		Int("failed", len(result.Failed)).
		Msg("Restore finished")
	return result, nil
}

// removeOwnedSymlink removes the live path only when it is a symlink
// pointing into the dotfiles repo. Regular files and foreign symlinks
// are left for CopyFile to overwrite, so unrelated user files are
// never deleted.
func (r *Restorer) removeOwnedSymlink(live string) error {
	isLink, err := fileops.IsSymlink(r.fs, live)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", live)
	}
	if !isLink {
		return nil
	}

	target, err := fileops.ResolveLink(r.fs, live)
	if err != nil {
		return err
	}
	if !r.paths.IsInDotfiles(target) {
		return nil
	}
	if err := r.fs.Remove(live); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to remove symlink %s", live)
	}
	return nil
}

// TmuxRuns lists the tmux side-backup directories, most recent first.
func (r *Restorer) TmuxRuns() ([]string, error) {
	dirEntries, err := r.fs.ReadDir(r.paths.BackupRoot())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess,
			"failed to read backup root %s", r.paths.BackupRoot())
	}

	var runs []string
	for _, de := range dirEntries {
		if de.IsDir() && strings.HasPrefix(de.Name(), paths.TmuxRunPrefix) {
			runs = append(runs, de.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(runs)))
	return runs, nil
}

// RestoreTmux copies a tmux side-backup set back into the home
// directory. dir may be a directory name under the backup root, an
// absolute path, or empty for the most recent set.
func (r *Restorer) RestoreTmux(dir string) (*types.RunResult, error) {
	logger := logging.GetLogger("restore.tmux")

	if dir == "" {
		runs, err := r.TmuxRuns()
		if err != nil {
			return nil, err
		}
		if len(runs) == 0 {
			return nil, errors.New(errors.ErrTimestampNotFound, "no tmux backups found")
		}
		dir = runs[0]
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(r.paths.BackupRoot(), dir)
	}

	dirEntries, err := r.fs.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileNotFound, "tmux backup %s", dir)
	}

	result := &types.RunResult{Timestamp: filepath.Base(dir)}
	for _, de := range dirEntries {
		src := filepath.Join(dir, de.Name())
		dst := filepath.Join(r.paths.HomeDir(), de.Name())

		var copyErr error
		if de.IsDir() {
			copyErr = fileops.CopyTree(r.fs, src, dst)
		} else {
			copyErr = fileops.CopyFile(r.fs, src, dst)
		}
		if copyErr != nil {
			logger.Error().Err(copyErr).Str("path", dst).Msg("Tmux restore failed for file")
			result.Failed = append(result.Failed, types.FileResult{Path: dst, Err: copyErr})
			continue
		}
		result.Processed = append(result.Processed, types.FileResult{Path: dst})
	}

	logger.Info().Str("dir", dir).Int("restored", len(result.Processed)).
		Msg("Tmux restore finished")
	return result, nil
}

// Cleanup deletes one run: its backup directory and its manifest
// entries. This is the explicit user action; nothing prunes runs
// automatically.
func (r *Restorer) Cleanup(timestamp string) error {
	if err := r.store.DeleteRun(timestamp); err != nil {
		return err
	}
	runDir := r.paths.RunDir(timestamp)
	if err := r.fs.RemoveAll(runDir); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to remove %s", runDir)
	}
	return nil
}

// CleanupOrphans removes run directories that have no manifest
// entries, the leftovers of interrupted runs. Returns the removed
// directory names.
func (r *Restorer) CleanupOrphans() ([]string, error) {
	timestamps, err := r.store.ListTimestamps()
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(timestamps))
	for _, ts := range timestamps {
		known[ts] = true
	}

	dirEntries, err := r.fs.ReadDir(r.paths.BackupRoot())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess,
			"failed to read backup root %s", r.paths.BackupRoot())
	}

	var removed []string
	for _, de := range dirEntries {
		name := de.Name()
		if !de.IsDir() || known[name] || strings.HasPrefix(name, paths.TmuxRunPrefix) {
			continue
		}
		// Only touch directories that look like run timestamps.
		if len(name) != len(types.TimestampLayout) || !strings.Contains(name, "_") {
			continue
		}
		if err := r.fs.RemoveAll(filepath.Join(r.paths.BackupRoot(), name)); err != nil {
			return removed, errors.Wrapf(err, errors.ErrFileAccess, "failed to remove orphan %s", name)
		}
		removed = append(removed, name)
	}
	return removed, nil
}
