package match

import (
	"fmt"
	"time"

	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/common"
	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/types"
)

// ModTimeMatcher bounds an entry's modification time. Bounds are exclusive.
type ModTimeMatcher struct {
	older  *time.Time
	newer  *time.Time
	within bool
}

// NewModTimeMatcher validates the bounds the same way NewSizeMatcher does:
// within needs older < newer, otherwise at most one bound is set.
func NewModTimeMatcher(older, newer *time.Time, within bool) (*ModTimeMatcher, error) {
	if within {
		if older == nil || newer == nil {
			return nil, fmt.Errorf("%w: time within needs both older and newer", common.ErrInvalidRange)
		}
		if !older.Before(*newer) {
			return nil, fmt.Errorf("%w: older %s must be before newer %s",
				common.ErrInvalidRange, older.Format(time.RFC3339), newer.Format(time.RFC3339))
		}
	} else if older != nil && newer != nil {
		return nil, fmt.Errorf("%w: older and newer together need within", common.ErrInvalidRange)
	}
	return &ModTimeMatcher{older: older, newer: newer, within: within}, nil
}

// Match compares the entry's modification time with the bounds
func (mm *ModTimeMatcher) Match(entry *types.Entry) bool {
	if mm.older == nil && mm.newer == nil {
		return true
	}
	info, err := entry.Info()
	if err != nil {
		return false
	}
	t := info.ModTime()

	switch {
	case mm.within:
		return t.After(*mm.older) && t.Before(*mm.newer)
	case mm.newer != nil:
		return t.After(*mm.newer)
	default:
		return t.Before(*mm.older)
	}
}
