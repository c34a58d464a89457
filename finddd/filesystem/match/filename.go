package match

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/common"
	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/types"

	"github.com/bmatcuk/doublestar/v4"
)

// FilenameMode selects how a pattern is compared with an entry's base name
type FilenameMode int

const (
	ModeExact FilenameMode = iota
	ModeSubstring
	ModeGlob
	ModeRegex
)

// String returns the mode name used in configuration
func (m FilenameMode) String() string {
	switch m {
	case ModeExact:
		return "exact"
	case ModeSubstring:
		return "substring"
	case ModeGlob:
		return "glob"
	case ModeRegex:
		return "regex"
	default:
		return "unknown"
	}
}

// ParseFilenameMode parses a mode name
func ParseFilenameMode(s string) (FilenameMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exact":
		return ModeExact, nil
	case "", "substring", "str", "string":
		return ModeSubstring, nil
	case "glob":
		return ModeGlob, nil
	case "regex", "re", "regexp":
		return ModeRegex, nil
	}
	return ModeSubstring, fmt.Errorf("%w: unknown pattern mode %q", common.ErrConfiguration, s)
}

// FilenameMatcher tests an entry's base name against a pattern
type FilenameMatcher struct {
	mode       FilenameMode
	pattern    string
	re         *regexp.Regexp
	ignoreCase bool
}

// NewFilenameMatcher compiles pattern for mode. Regex patterns are compiled
// here and glob syntax is validated here, so bad patterns fail before any
// filesystem access. ignoreCase does not apply to regex; use (?i) instead.
func NewFilenameMatcher(pattern string, mode FilenameMode, ignoreCase bool) (*FilenameMatcher, error) {
	fm := &FilenameMatcher{mode: mode, ignoreCase: ignoreCase && mode != ModeRegex}

	switch mode {
	case ModeRegex:
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: regex %q: %v", common.ErrInvalidPattern, pattern, err)
		}
		fm.re = re
		fm.pattern = pattern
		return fm, nil
	case ModeGlob:
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("%w: glob %q", common.ErrInvalidPattern, pattern)
		}
	case ModeExact, ModeSubstring:
	default:
		return nil, fmt.Errorf("%w: unknown pattern mode %d", common.ErrConfiguration, mode)
	}

	if fm.ignoreCase {
		pattern = strings.ToLower(pattern)
	}
	fm.pattern = pattern
	return fm, nil
}

// NewRegexpMatcher wraps an already compiled expression
func NewRegexpMatcher(re *regexp.Regexp) *FilenameMatcher {
	return &FilenameMatcher{mode: ModeRegex, pattern: re.String(), re: re}
}

// Match tests the entry's base name. Regex matches must start at the first
// character of the name.
func (fm *FilenameMatcher) Match(entry *types.Entry) bool {
	name := entry.Name
	if fm.ignoreCase {
		name = strings.ToLower(name)
	}

	switch fm.mode {
	case ModeExact:
		return name == fm.pattern
	case ModeSubstring:
		return strings.Contains(name, fm.pattern)
	case ModeGlob:
		ok, err := doublestar.Match(fm.pattern, name)
		return err == nil && ok
	case ModeRegex:
		loc := fm.re.FindStringIndex(name)
		return loc != nil && loc[0] == 0
	}
	return false
}

// Mode returns the configured mode
func (fm *FilenameMatcher) Mode() FilenameMode {
	return fm.mode
}

// String returns the mode and pattern, for diagnostics
func (fm *FilenameMatcher) String() string {
	return fm.mode.String() + ":" + fm.pattern
}
