package filesystem

import (
	"context"
	"path/filepath"
	"regexp"

	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/common"
	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/interfaces"
	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/options"
	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/services"
	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/types"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Finder is the entry point for filesystem searches. It holds instance
// defaults that every call may override and the optional collaborators
// some predicates depend on.
type Finder struct {
	defaults options.SearchOptions
	log      zerolog.Logger

	ignore        interfaces.Capability[interfaces.IgnoreLoader]
	ignoreSet     bool
	executable    interfaces.Capability[interfaces.ExecutableDetector]
	executableSet bool

	builder *services.PredicateBuilder

	// Utilities
	validationUtils *common.ValidationUtils
	errorUtils      *common.ErrorUtils
}

// FinderOption configures a Finder
type FinderOption func(*Finder)

// WithLogger sets the logger used for search diagnostics
func WithLogger(log zerolog.Logger) FinderOption {
	return func(f *Finder) { f.log = log }
}

// WithDefaults replaces the instance defaults
func WithDefaults(defaults options.SearchOptions) FinderOption {
	return func(f *Finder) { f.defaults = defaults.Clone() }
}

// WithDefaultOptions applies overrides to the instance defaults
func WithDefaultOptions(overrides ...options.SearchOption) FinderOption {
	return func(f *Finder) { f.defaults = f.defaults.Apply(overrides...) }
}

// WithIgnoreLoader binds the ignore-file collaborator
func WithIgnoreLoader(c interfaces.Capability[interfaces.IgnoreLoader]) FinderOption {
	return func(f *Finder) { f.ignore, f.ignoreSet = c, true }
}

// WithExecutableDetector binds the executable-detection collaborator
func WithExecutableDetector(c interfaces.Capability[interfaces.ExecutableDetector]) FinderOption {
	return func(f *Finder) { f.executable, f.executableSet = c, true }
}

// New creates a Finder. Without explicit collaborators it uses the gitignore
// service and the platform's executable detector.
func New(opts ...FinderOption) *Finder {
	f := &Finder{
		defaults:        options.DefaultSearchOptions(),
		log:             zerolog.Nop(),
		validationUtils: common.NewValidationUtils(),
		errorUtils:      common.NewErrorUtils(),
	}
	for _, opt := range opts {
		opt(f)
	}

	if !f.ignoreSet {
		f.ignore = interfaces.Available[interfaces.IgnoreLoader](services.NewGitIgnoreService(f.log))
	}
	if !f.executableSet {
		f.executable = services.DefaultExecutableDetector()
	}
	f.builder = services.NewPredicateBuilder(f.ignore, f.executable)

	return f
}

// Defaults returns a copy of the instance defaults
func (f *Finder) Defaults() options.SearchOptions {
	return f.defaults.Clone()
}

// Search walks root and returns every entry whose name matches pattern
// under the active PatternMode, subject to the other options.
func (f *Finder) Search(ctx context.Context, root, pattern string, overrides ...options.SearchOption) (*types.SearchResult, error) {
	return f.search(ctx, root, pattern, nil, f.defaults.Apply(overrides...))
}

// SearchRegexp is Search with a precompiled regular expression as pattern
func (f *Finder) SearchRegexp(ctx context.Context, root string, re *regexp.Regexp, overrides ...options.SearchOption) (*types.SearchResult, error) {
	return f.search(ctx, root, "", re, f.defaults.Apply(overrides...))
}

// Find searches root and then invokes cb once per match on a worker pool.
// It returns after every callback has returned.
func (f *Finder) Find(ctx context.Context, root, pattern string, cb interfaces.Callback, overrides ...options.SearchOption) error {
	opts := f.defaults.Apply(overrides...)
	result, err := f.search(ctx, root, pattern, nil, opts)
	if err != nil {
		return err
	}
	return f.dispatch(ctx, result, cb, opts)
}

// FindRegexp is Find with a precompiled regular expression as pattern
func (f *Finder) FindRegexp(ctx context.Context, root string, re *regexp.Regexp, cb interfaces.Callback, overrides ...options.SearchOption) error {
	opts := f.defaults.Apply(overrides...)
	result, err := f.search(ctx, root, "", re, opts)
	if err != nil {
		return err
	}
	return f.dispatch(ctx, result, cb, opts)
}

func (f *Finder) search(ctx context.Context, root, pattern string, re *regexp.Regexp, opts options.SearchOptions) (*types.SearchResult, error) {
	if err := f.validationUtils.ValidatePath(root); err != nil {
		return nil, err
	}
	root = filepath.Clean(root)

	// Configuration errors are reported before the filesystem is touched.
	primary, err := services.PrimaryMatcher(pattern, re, opts)
	if err != nil {
		return nil, err
	}
	preds, err := f.builder.Build(root, primary, opts)
	if err != nil {
		return nil, err
	}

	if err := f.validationUtils.ValidateSearchRoot(root); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	log := f.log.With().Str("search_id", id).Str("root", root).Logger()
	log.Debug().
		Str("pattern", primary.String()).
		Int("file_predicates", preds.FileMatch.Len()).
		Int64("max_results", preds.Budget.Limit()).
		Bool("follow", opts.FollowSymlinks).
		Msg("Search started")

	result, err := NewTraverser(preds, opts.FollowSymlinks, log).Walk(ctx, root)
	if result != nil {
		result.ID = id
	}
	if err != nil {
		return result, f.errorUtils.LogAndWrapError(log, err, zerolog.WarnLevel, "search of %s failed", root)
	}

	log.Info().
		Fields(result.Stats.GetMetrics()).
		Int64("matches", result.Stats.Matches()).
		Bool("budget_exhausted", preds.Budget.Exhausted()).
		Msg("Search finished")

	return result, nil
}

func (f *Finder) dispatch(ctx context.Context, result *types.SearchResult, cb interfaces.Callback, opts options.SearchOptions) error {
	log := f.log.With().Str("search_id", result.ID).Logger()
	return NewDispatcher(opts.Workers, opts.Dispatch, log).Dispatch(ctx, result.Matches, cb, result.Stats)
}

var defaultFinder = New()

// Find runs a search with the package default Finder
func Find(ctx context.Context, root, pattern string, cb interfaces.Callback, overrides ...options.SearchOption) error {
	return defaultFinder.Find(ctx, root, pattern, cb, overrides...)
}
