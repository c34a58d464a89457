package types

import (
	"io/fs"
	"os"
	"path/filepath"
)

// Entry is a filesystem entry seen during a search. Metadata is fetched on
// first use and cached; a failed fetch is remembered and returned again by Info.
type Entry struct {
	Path string
	Name string

	dirEntry fs.DirEntry
	follow   bool

	info    fs.FileInfo
	infoErr error
	fetched bool
}

// NewEntry creates an Entry for a bare path. Metadata is read with Lstat
// unless follow is set.
func NewEntry(path string, follow bool) *Entry {
	return &Entry{
		Path:   path,
		Name:   filepath.Base(path),
		follow: follow,
	}
}

// NewListedEntry creates an Entry for a child returned by a directory listing
func NewListedEntry(parent string, de fs.DirEntry, follow bool) *Entry {
	return &Entry{
		Path:     filepath.Join(parent, de.Name()),
		Name:     de.Name(),
		dirEntry: de,
		follow:   follow,
	}
}

// Info returns the entry's metadata. Symlinks are resolved only when the
// entry was created with follow set.
func (e *Entry) Info() (fs.FileInfo, error) {
	if e.fetched {
		return e.info, e.infoErr
	}
	e.fetched = true

	switch {
	case e.follow:
		e.info, e.infoErr = os.Stat(e.Path)
	case e.dirEntry != nil:
		e.info, e.infoErr = e.dirEntry.Info()
	default:
		e.info, e.infoErr = os.Lstat(e.Path)
	}
	if e.infoErr != nil {
		e.info = nil
	}
	return e.info, e.infoErr
}

// Mode returns the entry's file mode, or false when metadata is unavailable
func (e *Entry) Mode() (fs.FileMode, bool) {
	info, err := e.Info()
	if err != nil {
		return 0, false
	}
	return info.Mode(), true
}

// IsDir reports whether the entry is a directory after applying the follow
// setting. Listing type bits are used when no metadata is needed.
func (e *Entry) IsDir() bool {
	if e.dirEntry != nil && (!e.follow || e.dirEntry.Type()&fs.ModeSymlink == 0) {
		return e.dirEntry.IsDir()
	}
	mode, ok := e.Mode()
	return ok && mode.IsDir()
}
