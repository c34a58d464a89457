package match

import (
	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/interfaces"
	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/types"
)

// IgnoreMatcher rejects entries excluded by ignore files
type IgnoreMatcher struct {
	checker interfaces.IgnoreChecker
}

// NewIgnoreMatcher adapts an IgnoreChecker
func NewIgnoreMatcher(checker interfaces.IgnoreChecker) *IgnoreMatcher {
	return &IgnoreMatcher{checker: checker}
}

// Match reports whether entry survives the ignore rules
func (im *IgnoreMatcher) Match(entry *types.Entry) bool {
	return !im.checker.ShouldExclude(entry)
}
