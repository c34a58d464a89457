package match

import (
	"fmt"

	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/common"
	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/types"
)

// SizeMatcher bounds an entry's size in bytes. All bounds are exclusive.
type SizeMatcher struct {
	min    *int64
	max    *int64
	within bool
}

// NewSizeMatcher validates the bounds. within needs both bounds with
// min < max; without within at most one bound may be set.
func NewSizeMatcher(min, max *int64, within bool) (*SizeMatcher, error) {
	if within {
		if min == nil || max == nil {
			return nil, fmt.Errorf("%w: size within needs both min and max", common.ErrInvalidRange)
		}
		if *min >= *max {
			return nil, fmt.Errorf("%w: size min %d must be below max %d", common.ErrInvalidRange, *min, *max)
		}
	} else if min != nil && max != nil {
		return nil, fmt.Errorf("%w: size min and max together need within", common.ErrInvalidRange)
	}
	return &SizeMatcher{min: min, max: max, within: within}, nil
}

// Match compares the entry's size with the bounds. Entries whose metadata
// cannot be read never match a bounded SizeMatcher.
func (sm *SizeMatcher) Match(entry *types.Entry) bool {
	if sm.min == nil && sm.max == nil {
		return true
	}
	info, err := entry.Info()
	if err != nil {
		return false
	}
	size := info.Size()

	switch {
	case sm.within:
		return *sm.min < size && size < *sm.max
	case sm.min != nil:
		return size > *sm.min
	default:
		return size < *sm.max
	}
}
