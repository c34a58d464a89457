package services

import (
	"fmt"
	"regexp"

	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/common"
	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/interfaces"
	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/match"
	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/options"
)

// PredicateSet holds the combinators a traversal consumes.
//
// Descend decides which sub-directories are entered. Common holds what
// directory and file matches share, Descend included. DirMatch and
// FileMatch decide what is reported; both end in the same Budget.
type PredicateSet struct {
	Descend   *match.All
	Common    *match.All
	DirMatch  *match.All
	FileMatch *match.All
	Budget    *match.Budget
}

// PredicateBuilder assembles PredicateSets from search options
type PredicateBuilder struct {
	ignore     interfaces.Capability[interfaces.IgnoreLoader]
	executable interfaces.Capability[interfaces.ExecutableDetector]
}

// NewPredicateBuilder creates a PredicateBuilder bound to the given collaborators
func NewPredicateBuilder(
	ignore interfaces.Capability[interfaces.IgnoreLoader],
	executable interfaces.Capability[interfaces.ExecutableDetector],
) *PredicateBuilder {
	return &PredicateBuilder{ignore: ignore, executable: executable}
}

// PrimaryMatcher builds the filename predicate for the search pattern. A
// non-nil re takes precedence over pattern and mode.
func PrimaryMatcher(pattern string, re *regexp.Regexp, opts options.SearchOptions) (*match.FilenameMatcher, error) {
	if re != nil {
		return match.NewRegexpMatcher(re), nil
	}
	return match.NewFilenameMatcher(pattern, opts.PatternMode, opts.IgnoreCase)
}

// Build validates opts and returns a fresh PredicateSet for one search
// below root. Every configuration error is reported here.
func (b *PredicateBuilder) Build(root string, primary match.Matcher, opts options.SearchOptions) (*PredicateSet, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if primary == nil {
		primary = match.Nop{}
	}

	descend, err := b.buildDescend(root, opts)
	if err != nil {
		return nil, err
	}

	kinds, err := match.NewFileKindMatcher(opts.FileKinds, b.executable)
	if err != nil {
		return nil, err
	}
	modTime, err := match.NewModTimeMatcher(opts.Older, opts.Newer, opts.TimeWithin)
	if err != nil {
		return nil, err
	}
	depth := match.NewDepthMatcher(root, opts.DepthExact, opts.DepthMin, opts.DepthMax)

	shared, err := match.NewAll(descend, kinds, depth, modTime, primary)
	if err != nil {
		return nil, err
	}

	size, err := match.NewSizeMatcher(opts.SizeMin, opts.SizeMax, opts.SizeWithin)
	if err != nil {
		return nil, err
	}
	suffix := match.NewSuffixMatcher(opts.Suffixes...)

	budget := match.NewBudget(opts.MaxResults)
	limit := budget.Matcher()

	dirMatch, err := match.NewAll(shared, limit)
	if err != nil {
		return nil, err
	}
	fileMatch, err := match.NewAll(size, suffix, shared, limit)
	if err != nil {
		return nil, err
	}

	return &PredicateSet{
		Descend:   descend,
		Common:    shared,
		DirMatch:  dirMatch,
		FileMatch: fileMatch,
		Budget:    budget,
	}, nil
}

func (b *PredicateBuilder) buildDescend(root string, opts options.SearchOptions) (*match.All, error) {
	matchers := []match.Matcher{match.NewHiddenMatcher(opts.Hidden)}

	for _, pattern := range opts.Exclude {
		glob, err := match.NewFilenameMatcher(pattern, match.ModeGlob, opts.IgnoreCase)
		if err != nil {
			return nil, fmt.Errorf("exclude pattern: %w", err)
		}
		matchers = append(matchers, match.Not(glob))
	}

	if opts.IgnoreFiles {
		loader, ok := b.ignore.Get()
		if !ok {
			return nil, fmt.Errorf("%w: ignore file support", common.ErrNotImplemented)
		}
		checker, err := loader.Load(root, opts.IgnoreFileNames)
		if err != nil {
			return nil, fmt.Errorf("%w: loading ignore files: %v", common.ErrConfiguration, err)
		}
		matchers = append(matchers, match.NewIgnoreMatcher(checker))
	}

	return match.NewAll(matchers...)
}
