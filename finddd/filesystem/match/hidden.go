package match

import (
	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/common"
	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/types"
)

var pathUtils = common.NewPathUtils()

// HiddenMatcher rejects dot-named entries unless hidden entries are visible
type HiddenMatcher struct {
	visible bool
}

// NewHiddenMatcher creates a HiddenMatcher
func NewHiddenMatcher(visible bool) *HiddenMatcher {
	return &HiddenMatcher{visible: visible}
}

// Match reports whether entry may be shown
func (hm *HiddenMatcher) Match(entry *types.Entry) bool {
	return hm.visible || !pathUtils.IsHiddenName(entry.Name)
}
