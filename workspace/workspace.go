package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	billy "gopkg.in/src-d/go-billy.v4"
	"gopkg.in/src-d/go-billy.v4/osfs"
)

// Workspace owns the working copies below a common root
type Workspace struct {
	fs    billy.Filesystem
	locks *Locks
}

// Open returns a Workspace rooted at the local directory root, which must exist
func Open(root string) (*Workspace, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot open workspace root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("workspace root %s is not a directory", root)
	}
	return New(osfs.New(root)), nil
}

// New returns a Workspace on top of fs
func New(fs billy.Filesystem) *Workspace {
	return &Workspace{fs: fs, locks: NewLocks()}
}

// Root is the directory working copies live in
func (w *Workspace) Root() string {
	return w.fs.Root()
}

// Path returns the working copy directory for project
func (w *Workspace) Path(project string) string {
	return filepath.Join(w.fs.Root(), project)
}

// Exists reports whether project has a working copy
func (w *Workspace) Exists(project string) (bool, error) {
	_, err := w.fs.Stat(project)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Lock serializes work on project; call the returned func to release it
func (w *Workspace) Lock(project string) (unlock func()) {
	return w.locks.Lock(project)
}
