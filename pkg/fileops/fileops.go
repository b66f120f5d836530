// Package fileops holds the copy primitives shared by the backup and
// restore paths.
package fileops

import (
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/dotstash/pkg/errors"
	"github.com/arthur-debert/dotstash/pkg/types"
)

// CopyFile copies src to dst, preserving the source's permission bits.
// Symlinks are followed: the content copied is what src resolves to.
// dst is overwritten if it exists.
func CopyFile(fsys types.FS, src, dst string) error {
	info, err := fsys.Stat(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileNotFound, "source %s", src)
	}
	if info.IsDir() {
		return errors.Newf(errors.ErrInvalidInput, "source %s is a directory", src)
	}

	data, err := fsys.ReadFile(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", src)
	}

	if err := fsys.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create parent of %s", dst)
	}
	if err := fsys.WriteFile(dst, data, info.Mode().Perm()); err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "failed to write %s", dst)
	}
	// WriteFile perm is ignored when dst already exists; enforce it.
	if err := fsys.Chmod(dst, info.Mode().Perm()); err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "failed to set mode on %s", dst)
	}
	return nil
}

// CopyTree recursively copies the directory at src into dst,
// preserving file modes. Symlinks inside the tree are followed.
func CopyTree(fsys types.FS, src, dst string) error {
	info, err := fsys.Stat(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileNotFound, "source %s", src)
	}
	if !info.IsDir() {
		return CopyFile(fsys, src, dst)
	}

	if err := fsys.MkdirAll(dst, info.Mode().Perm()); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", dst)
	}

	entries, err := fsys.ReadDir(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", src)
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		if entry.IsDir() {
			if err := CopyTree(fsys, srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		if err := CopyFile(fsys, srcPath, dstPath); err != nil {
			return err
		}
	}
	return nil
}

// ResolveLink returns the absolute target of the symlink at path.
// Relative targets resolve against the link's directory.
func ResolveLink(fsys types.FS, path string) (string, error) {
	target, err := fsys.Readlink(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to read link %s", path)
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	return filepath.Clean(target), nil
}

// IsSymlink reports whether path is a symbolic link.
func IsSymlink(fsys types.FS, path string) (bool, error) {
	info, err := fsys.Lstat(path)
	if err != nil {
		return false, err
	}
	return info.Mode()&fs.ModeSymlink != 0, nil
}
