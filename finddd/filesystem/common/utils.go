package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// PathUtils provides path manipulation utilities used across filesystem packages
type PathUtils struct{}

// NewPathUtils creates a new PathUtils instance
func NewPathUtils() *PathUtils {
	return &PathUtils{}
}

// IsHiddenName reports whether a base name carries the hidden-file marker
func (pu *PathUtils) IsHiddenName(name string) bool {
	return strings.HasPrefix(name, ".")
}

// Suffix returns the final extension of name including its leading dot.
// Dot-files without a further extension have no suffix.
func (pu *PathUtils) Suffix(name string) string {
	ext := filepath.Ext(name)
	if ext == name || ext == "." {
		return ""
	}
	return ext
}

// FileUtils provides file inspection utilities used across packages
type FileUtils struct{}

// NewFileUtils creates a new FileUtils instance
func NewFileUtils() *FileUtils {
	return &FileUtils{}
}

// IsEmptyDir reports whether the directory at path has no children
func (fu *FileUtils) IsEmptyDir(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("failed to open directory %s: %w", path, err)
	}
	defer f.Close()

	_, err = f.Readdirnames(1)
	if err == io.EOF {
		return true, nil
	}
	return false, err
}

// DepthUtils provides depth calculation utilities used across packages
type DepthUtils struct{}

// NewDepthUtils creates a new DepthUtils instance
func NewDepthUtils() *DepthUtils {
	return &DepthUtils{}
}

// Segments counts the lexical components of a cleaned path. An absolute
// path counts its root as one component.
func (du *DepthUtils) Segments(path string) int {
	path = filepath.Clean(path)
	vol := filepath.VolumeName(path)
	rest := path[len(vol):]

	n := 0
	if vol != "" || filepath.IsAbs(path) {
		n++
	}
	for _, part := range strings.Split(rest, string(filepath.Separator)) {
		if part != "" && part != "." {
			n++
		}
	}
	return n
}

// CalculateDepth returns the segment count of target minus that of base.
// The result is negative when target sits above base.
func (du *DepthUtils) CalculateDepth(basePath, targetPath string) int {
	return du.Segments(targetPath) - du.Segments(basePath)
}
