package types

import (
	"io/fs"
)

// FS is the filesystem interface required for dotstash operations.
// The OS implementation lives in pkg/filesystem; tests can substitute
// an afero-backed one.
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error

	// Rename must be atomic within a directory; the manifest store
	// depends on this for crash-safe appends.
	Rename(oldpath, newpath string) error

	Chmod(name string, mode fs.FileMode) error
}

// Confirmer answers yes/no questions before destructive actions.
// Injecting it keeps the components testable and enables the
// non-interactive --yes mode.
type Confirmer interface {
	// Confirm asks the question and returns the user's answer.
	// def is returned when the user just presses enter.
	Confirm(question string, def bool) (bool, error)
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(question string, def bool) (bool, error)

// Confirm implements Confirmer.
func (f ConfirmerFunc) Confirm(question string, def bool) (bool, error) {
	return f(question, def)
}

// AssumeYes is a Confirmer that approves everything, used by --yes.
var AssumeYes Confirmer = ConfirmerFunc(func(string, bool) (bool, error) {
	return true, nil
})
