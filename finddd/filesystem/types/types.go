package types

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/common"
)

// FileKind is one of the entry kinds a search can be restricted to
type FileKind string

const (
	KindDirectory  FileKind = "d"
	KindRegular    FileKind = "f"
	KindSymlink    FileKind = "l"
	KindExecutable FileKind = "x"
	KindEmpty      FileKind = "e"
	KindSocket     FileKind = "s"
	KindFifo       FileKind = "p"
)

var kindNames = map[string]FileKind{
	"d": KindDirectory, "dir": KindDirectory, "directory": KindDirectory,
	"f": KindRegular, "file": KindRegular,
	"l": KindSymlink, "symlink": KindSymlink,
	"x": KindExecutable, "executable": KindExecutable,
	"e": KindEmpty, "empty": KindEmpty,
	"s": KindSocket, "socket": KindSocket,
	"p": KindFifo, "pipe": KindFifo, "fifo": KindFifo,
}

// ParseFileKind accepts a short code or long name for a kind
func ParseFileKind(s string) (FileKind, error) {
	kind, ok := kindNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: %q", common.ErrUnknownFileKind, s)
	}
	return kind, nil
}

// String returns the kind's short code
func (k FileKind) String() string {
	return string(k)
}

// SearchResult is what a traversal produced before dispatch
type SearchResult struct {
	ID      string   `json:"id"`
	Root    string   `json:"root"`
	Matches []string `json:"matches"`
	// Dirs marks which entries of Matches are directories
	Dirs  map[string]bool     `json:"-"`
	Stats *common.SearchStats `json:"-"`
}

// IsDir reports whether a matched path was reported as a directory
func (r *SearchResult) IsDir(path string) bool {
	return r.Dirs[path]
}
