package interfaces

import (
	"context"

	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/types"
)

// IgnoreChecker decides whether an entry is excluded by ignore files
type IgnoreChecker interface {
	ShouldExclude(entry *types.Entry) bool
}

// IgnoreLoader builds an IgnoreChecker rooted at a search root that reads
// the named ignore files from each directory
type IgnoreLoader interface {
	Load(root string, fileNames []string) (IgnoreChecker, error)
}

// ExecutableDetector decides whether an entry is executable by the current user
type ExecutableDetector interface {
	IsExecutable(entry *types.Entry) bool
}

// Callback is invoked once per matched path during dispatch
type Callback func(ctx context.Context, path string) error

// Capability binds an optional collaborator. A feature whose collaborator is
// Unavailable must be rejected when a search is configured.
type Capability[T any] struct {
	impl      T
	available bool
}

// Available binds impl as the collaborator
func Available[T any](impl T) Capability[T] {
	return Capability[T]{impl: impl, available: true}
}

// Unavailable marks the collaborator as not supplied
func Unavailable[T any]() Capability[T] {
	return Capability[T]{}
}

// Get returns the collaborator and whether it was supplied
func (c Capability[T]) Get() (T, bool) {
	return c.impl, c.available
}

// IsAvailable reports whether the collaborator was supplied
func (c Capability[T]) IsAvailable() bool {
	return c.available
}
