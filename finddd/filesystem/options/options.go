package options

import (
	"fmt"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/common"
	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/match"
	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/types"
)

// DispatchPolicy defines what happens to pending callbacks after one fails
type DispatchPolicy string

const (
	// DispatchBestEffort runs every callback and reports all failures joined
	DispatchBestEffort DispatchPolicy = "best-effort"
	// DispatchFailFast skips callbacks not yet started after the first failure
	DispatchFailFast DispatchPolicy = "fail-fast"
)

// ParseDispatchPolicy parses a policy name
func ParseDispatchPolicy(s string) (DispatchPolicy, error) {
	switch DispatchPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", DispatchBestEffort:
		return DispatchBestEffort, nil
	case DispatchFailFast:
		return DispatchFailFast, nil
	}
	return "", fmt.Errorf("%w: unknown dispatch policy %q", common.ErrConfiguration, s)
}

// SearchOptions configures a single search. It is copied when a search
// starts and not modified afterwards.
type SearchOptions struct {
	PatternMode     match.FilenameMode // How the primary pattern is compared
	IgnoreCase      bool               // Case-insensitive name and exclusion matching
	Hidden          bool               // Show dot-named entries and descend into them
	FollowSymlinks  bool               // Resolve symlinks while listing
	IgnoreFiles     bool               // Honour ignore files found under the root
	IgnoreFileNames []string           // Ignore file names looked up per directory
	Exclude         []string           // Glob patterns whose matches are neither reported nor descended

	SizeMin    *int64 // Exclusive lower size bound in bytes
	SizeMax    *int64 // Exclusive upper size bound in bytes
	SizeWithin bool   // Require SizeMin < size < SizeMax

	Newer      *time.Time // Modified strictly after
	Older      *time.Time // Modified strictly before
	TimeWithin bool       // Require Older < mtime < Newer

	FileKinds []types.FileKind // Accept any of these kinds
	Suffixes  []string         // Accept any of these suffixes (files only)

	DepthExact *int // Depth equals
	DepthMin   *int // Depth strictly greater than
	DepthMax   *int // Depth strictly less than

	MaxResults int            // Cap on directories plus files reported (0 = uncapped)
	Workers    int            // Callback worker pool size
	Dispatch   DispatchPolicy // Callback failure policy
}

// SearchOption overrides a field of SearchOptions for one call
type SearchOption func(*SearchOptions)

// DefaultIgnoreFileNames are looked up in every directory when ignore files are enabled
var DefaultIgnoreFileNames = []string{".gitignore", ".ignore"}

// DefaultSearchOptions returns the documented defaults
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		PatternMode:     match.ModeSubstring,
		IgnoreCase:      false,
		Hidden:          false,
		FollowSymlinks:  false,
		IgnoreFiles:     false,
		IgnoreFileNames: slices.Clone(DefaultIgnoreFileNames),
		MaxResults:      0,
		Workers:         runtime.NumCPU(),
		Dispatch:        DispatchBestEffort,
	}
}

// Clone returns a copy that shares no slices with o
func (o SearchOptions) Clone() SearchOptions {
	c := o
	c.IgnoreFileNames = slices.Clone(o.IgnoreFileNames)
	c.Exclude = slices.Clone(o.Exclude)
	c.FileKinds = slices.Clone(o.FileKinds)
	c.Suffixes = slices.Clone(o.Suffixes)
	return c
}

// Apply returns a copy of o with overrides applied in order
func (o SearchOptions) Apply(overrides ...SearchOption) SearchOptions {
	c := o.Clone()
	for _, opt := range overrides {
		opt(&c)
	}
	return c
}

// Validate checks settings that are not owned by a single predicate
func (o SearchOptions) Validate() error {
	if o.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", common.ErrConfiguration, o.Workers)
	}
	if _, err := ParseDispatchPolicy(string(o.Dispatch)); err != nil {
		return err
	}
	if o.IgnoreFiles && len(o.IgnoreFileNames) == 0 {
		return fmt.Errorf("%w: ignore files enabled without any file names", common.ErrConfiguration)
	}
	for _, name := range o.IgnoreFileNames {
		if name == "" || strings.ContainsRune(name, '/') {
			return fmt.Errorf("%w: invalid ignore file name %q", common.ErrConfiguration, name)
		}
	}
	return nil
}

// EffectiveWorkers returns the pool size to use
func (o SearchOptions) EffectiveWorkers() int {
	if o.Workers <= 0 {
		return runtime.NumCPU()
	}
	return o.Workers
}

// WithPatternMode sets how the primary pattern is compared
func WithPatternMode(mode match.FilenameMode) SearchOption {
	return func(o *SearchOptions) { o.PatternMode = mode }
}

// WithIgnoreCase toggles case-insensitive name matching
func WithIgnoreCase(ignoreCase bool) SearchOption {
	return func(o *SearchOptions) { o.IgnoreCase = ignoreCase }
}

// WithHidden toggles visibility of dot-named entries
func WithHidden(hidden bool) SearchOption {
	return func(o *SearchOptions) { o.Hidden = hidden }
}

// WithFollowSymlinks toggles symlink resolution
func WithFollowSymlinks(follow bool) SearchOption {
	return func(o *SearchOptions) { o.FollowSymlinks = follow }
}

// WithIgnoreFiles toggles ignore-file support; names replace the defaults when given
func WithIgnoreFiles(enabled bool, names ...string) SearchOption {
	return func(o *SearchOptions) {
		o.IgnoreFiles = enabled
		if len(names) > 0 {
			o.IgnoreFileNames = slices.Clone(names)
		}
	}
}

// WithExclude appends exclusion globs to those already configured
func WithExclude(patterns ...string) SearchOption {
	return func(o *SearchOptions) { o.Exclude = append(o.Exclude, patterns...) }
}

// WithSizeMin sets the exclusive lower size bound
func WithSizeMin(min int64) SearchOption {
	return func(o *SearchOptions) { o.SizeMin = &min }
}

// WithSizeMax sets the exclusive upper size bound
func WithSizeMax(max int64) SearchOption {
	return func(o *SearchOptions) { o.SizeMax = &max }
}

// WithSizeWithin requires min < size < max
func WithSizeWithin(min, max int64) SearchOption {
	return func(o *SearchOptions) {
		o.SizeMin, o.SizeMax, o.SizeWithin = &min, &max, true
	}
}

// WithNewer requires modification strictly after t
func WithNewer(t time.Time) SearchOption {
	return func(o *SearchOptions) { o.Newer = &t }
}

// WithOlder requires modification strictly before t
func WithOlder(t time.Time) SearchOption {
	return func(o *SearchOptions) { o.Older = &t }
}

// WithTimeWithin requires older < mtime < newer
func WithTimeWithin(older, newer time.Time) SearchOption {
	return func(o *SearchOptions) {
		o.Older, o.Newer, o.TimeWithin = &older, &newer, true
	}
}

// WithFileKinds restricts results to any of kinds
func WithFileKinds(kinds ...types.FileKind) SearchOption {
	return func(o *SearchOptions) { o.FileKinds = append(o.FileKinds, kinds...) }
}

// WithSuffixes restricts file results to any of suffixes
func WithSuffixes(suffixes ...string) SearchOption {
	return func(o *SearchOptions) { o.Suffixes = append(o.Suffixes, suffixes...) }
}

// WithDepthExact requires depth == d
func WithDepthExact(d int) SearchOption {
	return func(o *SearchOptions) { o.DepthExact = &d }
}

// WithDepthMin requires depth > d
func WithDepthMin(d int) SearchOption {
	return func(o *SearchOptions) { o.DepthMin = &d }
}

// WithDepthMax requires depth < d
func WithDepthMax(d int) SearchOption {
	return func(o *SearchOptions) { o.DepthMax = &d }
}

// WithMaxResults caps the number of reported entries
func WithMaxResults(n int) SearchOption {
	return func(o *SearchOptions) { o.MaxResults = n }
}

// WithWorkers sets the callback pool size
func WithWorkers(n int) SearchOption {
	return func(o *SearchOptions) { o.Workers = n }
}

// WithDispatchPolicy sets the callback failure policy
func WithDispatchPolicy(policy DispatchPolicy) SearchOption {
	return func(o *SearchOptions) { o.Dispatch = policy }
}
