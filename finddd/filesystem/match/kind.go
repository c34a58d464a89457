package match

import (
	"fmt"
	"io/fs"

	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/common"
	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/interfaces"
	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/types"
)

var fileUtils = common.NewFileUtils()

// FileKindMatcher accepts entries of any requested kind
type FileKindMatcher struct {
	kinds      []types.FileKind
	executable interfaces.ExecutableDetector
}

// NewFileKindMatcher creates a FileKindMatcher. Requesting the executable
// kind without an available detector is a configuration error.
func NewFileKindMatcher(kinds []types.FileKind, executable interfaces.Capability[interfaces.ExecutableDetector]) (*FileKindMatcher, error) {
	km := &FileKindMatcher{}
	seen := make(map[types.FileKind]bool, len(kinds))

	for _, k := range kinds {
		switch k {
		case types.KindDirectory, types.KindRegular, types.KindSymlink,
			types.KindEmpty, types.KindSocket, types.KindFifo:
		case types.KindExecutable:
			detector, ok := executable.Get()
			if !ok {
				return nil, fmt.Errorf("%w: executable detection on this platform", common.ErrNotImplemented)
			}
			km.executable = detector
		default:
			return nil, fmt.Errorf("%w: %q", common.ErrUnknownFileKind, string(k))
		}
		if !seen[k] {
			seen[k] = true
			km.kinds = append(km.kinds, k)
		}
	}
	return km, nil
}

// Match reports whether entry is of any requested kind
func (km *FileKindMatcher) Match(entry *types.Entry) bool {
	if len(km.kinds) == 0 {
		return true
	}
	mode, ok := entry.Mode()
	if !ok {
		return false
	}
	for _, k := range km.kinds {
		if km.is(k, entry, mode) {
			return true
		}
	}
	return false
}

func (km *FileKindMatcher) is(kind types.FileKind, entry *types.Entry, mode fs.FileMode) bool {
	switch kind {
	case types.KindDirectory:
		return mode.IsDir()
	case types.KindRegular:
		return mode.IsRegular()
	case types.KindSymlink:
		return mode&fs.ModeSymlink != 0
	case types.KindSocket:
		return mode&fs.ModeSocket != 0
	case types.KindFifo:
		return mode&fs.ModeNamedPipe != 0
	case types.KindExecutable:
		return km.executable.IsExecutable(entry)
	case types.KindEmpty:
		if mode.IsDir() {
			empty, err := fileUtils.IsEmptyDir(entry.Path)
			return err == nil && empty
		}
		if mode.IsRegular() {
			info, err := entry.Info()
			return err == nil && info.Size() == 0
		}
	}
	return false
}
