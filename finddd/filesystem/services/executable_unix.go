//go:build unix

package services

import (
	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/interfaces"
	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/types"

	"golang.org/x/sys/unix"
)

// AccessExecutableDetector asks the kernel whether the current user may
// execute a regular file
type AccessExecutableDetector struct{}

// IsExecutable reports whether entry is a regular file with execute access
func (AccessExecutableDetector) IsExecutable(entry *types.Entry) bool {
	mode, ok := entry.Mode()
	if !ok || !mode.IsRegular() {
		return false
	}
	return unix.Access(entry.Path, unix.X_OK) == nil
}

// DefaultExecutableDetector returns the platform's executable detector
func DefaultExecutableDetector() interfaces.Capability[interfaces.ExecutableDetector] {
	return interfaces.Available[interfaces.ExecutableDetector](AccessExecutableDetector{})
}
