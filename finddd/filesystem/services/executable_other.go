//go:build !unix

package services

import (
	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/interfaces"
)

// DefaultExecutableDetector returns the platform's executable detector.
// Executable detection is not provided here.
func DefaultExecutableDetector() interfaces.Capability[interfaces.ExecutableDetector] {
	return interfaces.Unavailable[interfaces.ExecutableDetector]()
}
