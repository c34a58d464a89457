package match

import (
	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/common"
	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/types"
)

var depthUtils = common.NewDepthUtils()

// DepthMatcher bounds how far below root an entry sits. Only one bound is
// honoured, in the order exact, min, max; min and max are strict.
type DepthMatcher struct {
	root  string
	exact *int
	min   *int
	max   *int
}

// NewDepthMatcher creates a DepthMatcher relative to root
func NewDepthMatcher(root string, exact, min, max *int) *DepthMatcher {
	return &DepthMatcher{root: root, exact: exact, min: min, max: max}
}

// Depth returns the entry's depth below root. An entry above root is a
// programming error and panics with common.ErrInvariantViolation.
func (dm *DepthMatcher) Depth(entry *types.Entry) int {
	depth := depthUtils.CalculateDepth(dm.root, entry.Path)
	if depth < 0 {
		panic(common.InvariantError("negative depth %d for %s under %s", depth, entry.Path, dm.root))
	}
	return depth
}

// Match applies the configured bound
func (dm *DepthMatcher) Match(entry *types.Entry) bool {
	if dm.exact == nil && dm.min == nil && dm.max == nil {
		return true
	}
	depth := dm.Depth(entry)

	switch {
	case dm.exact != nil:
		return depth == *dm.exact
	case dm.min != nil:
		return depth > *dm.min
	default:
		return depth < *dm.max
	}
}
