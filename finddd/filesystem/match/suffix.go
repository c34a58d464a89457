package match

import (
	"strings"

	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/types"
)

// SuffixMatcher accepts entries whose final extension is in a set
type SuffixMatcher struct {
	suffixes map[string]struct{}
}

// NewSuffixMatcher normalises each suffix to start with a dot. Empty
// strings are dropped; an empty set matches everything.
func NewSuffixMatcher(suffixes ...string) *SuffixMatcher {
	set := make(map[string]struct{}, len(suffixes))
	for _, s := range suffixes {
		if s == "" {
			continue
		}
		if !strings.HasPrefix(s, ".") {
			s = "." + s
		}
		set[s] = struct{}{}
	}
	return &SuffixMatcher{suffixes: set}
}

// Match reports whether the entry's suffix is in the set
func (sm *SuffixMatcher) Match(entry *types.Entry) bool {
	if len(sm.suffixes) == 0 {
		return true
	}
	_, ok := sm.suffixes[pathUtils.Suffix(entry.Name)]
	return ok
}
