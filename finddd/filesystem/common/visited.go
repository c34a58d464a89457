package common

import (
	"io/fs"
	"path/filepath"

	"github.com/RoaringBitmap/roaring/roaring64"
)

// VisitedSet remembers directories already entered during a walk, keyed by
// device and inode, so symlink cycles are entered at most once.
type VisitedSet struct {
	byDevice map[uint64]*roaring64.Bitmap
	fallback map[string]struct{}
}

// NewVisitedSet creates an empty VisitedSet
func NewVisitedSet() *VisitedSet {
	return &VisitedSet{
		byDevice: make(map[uint64]*roaring64.Bitmap),
		fallback: make(map[string]struct{}),
	}
}

// Visit records the directory described by info and reports whether it was
// new. path is only used when the platform exposes no inode identity.
func (vs *VisitedSet) Visit(path string, info fs.FileInfo) bool {
	dev, ino, ok := fileIdentity(info)
	if !ok {
		key := resolvedKey(path)
		if _, seen := vs.fallback[key]; seen {
			return false
		}
		vs.fallback[key] = struct{}{}
		return true
	}

	bm, exists := vs.byDevice[dev]
	if !exists {
		bm = roaring64.New()
		vs.byDevice[dev] = bm
	}
	if bm.Contains(ino) {
		return false
	}
	bm.Add(ino)
	return true
}

// Len returns how many directories have been recorded
func (vs *VisitedSet) Len() int {
	n := len(vs.fallback)
	for _, bm := range vs.byDevice {
		n += int(bm.GetCardinality())
	}
	return n
}

func resolvedKey(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return filepath.Clean(path)
}
