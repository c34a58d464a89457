package cli

import (
	"context"
	"fmt"
	"time"

	internal "github.com/ZanzyTHEbar/finddd/finddd"
	"github.com/ZanzyTHEbar/finddd/finddd/config"
	"github.com/ZanzyTHEbar/finddd/finddd/filesystem"
	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/match"
	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/options"
	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/types"
	"github.com/ZanzyTHEbar/finddd/finddd/logger"

	"github.com/google/shlex"
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

type rootFlags struct {
	configPath string
	logLevel   string
	color      string
	null       bool

	mode        string
	glob        bool
	regex       bool
	hidden      bool
	follow      bool
	ignoreCase  bool
	ignoreFiles bool
	exclude     []string
	types       []string
	extensions  []string

	sizeMin    string
	sizeMax    string
	newer      string
	older      string
	exactDepth int
	minDepth   int
	maxDepth   int

	maxResults int
	threads    int
	failFast   bool
	exec       string
}

// NewRootCommand creates and returns the root cobra command for finddd
func NewRootCommand() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   internal.DefaultAppCMDShortCut + " [pattern] [path]",
		Short: "Find entries in a directory tree",
		Long: `finddd walks a directory tree once and prints every entry whose name
matches pattern and every other filter given.

The pattern is a substring by default; use --glob, --regex or --mode to
change how it is compared. An empty pattern matches every name. The path
defaults to the current directory.

Configuration is loaded from ./config.yaml or the user config directory
when present. Flags override configuration file settings.

Examples:
  # Python files at most two levels deep
  finddd -e py -d 2

  # Directories named build, excluding node_modules
  finddd -t d -E node_modules --mode exact build

  # Run a command on every Go file, stopping at the first failure
  finddd -e go --exec "gofmt -l {}" --fail-fast`,
		Args:         cobra.MaximumNArgs(2),
		Version:      Version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.configPath, "config", "", "Path to config file (default: ./config.yaml or "+internal.DefaultGlobalConfigFile+")")
	f.StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	f.StringVar(&flags.color, "color", colorAuto, "When to colour directories: auto, always or never")
	f.BoolVarP(&flags.null, "print0", "0", false, "Separate results with NUL instead of newline")

	f.StringVarP(&flags.mode, "mode", "m", "", "Pattern mode: exact, substring, glob or regex")
	f.BoolVarP(&flags.glob, "glob", "g", false, "Treat the pattern as a glob")
	f.BoolVar(&flags.regex, "regex", false, "Treat the pattern as a regular expression anchored at the start of the name")
	f.BoolVarP(&flags.hidden, "hidden", "H", false, "Include hidden entries and descend into hidden directories")
	f.BoolVarP(&flags.follow, "follow", "L", false, "Follow symbolic links")
	f.BoolVarP(&flags.ignoreCase, "ignore-case", "i", false, "Case-insensitive name matching")
	f.BoolVarP(&flags.ignoreFiles, "ignore-files", "I", false, "Honour .gitignore and .ignore files")
	f.StringSliceVarP(&flags.exclude, "exclude", "E", nil, "Exclude entries matching the glob; excluded directories are not entered")
	f.StringSliceVarP(&flags.types, "type", "t", nil, "Filter by kind: d, f, l, x, e, s, p (repeatable)")
	f.StringSliceVarP(&flags.extensions, "extension", "e", nil, "Filter files by extension (repeatable)")

	f.StringVar(&flags.sizeMin, "size-min", "", "Only files larger than this (e.g. 10k, 4MiB)")
	f.StringVar(&flags.sizeMax, "size-max", "", "Only files smaller than this")
	f.StringVar(&flags.newer, "newer", "", "Only entries modified after a date or duration ago (e.g. 2024-01-31, 3d)")
	f.StringVar(&flags.older, "older", "", "Only entries modified before a date or duration ago")
	f.IntVar(&flags.exactDepth, "exact-depth", -1, "Only entries exactly this deep")
	f.IntVar(&flags.minDepth, "min-depth", -1, "Only entries at least this deep")
	f.IntVarP(&flags.maxDepth, "max-depth", "d", -1, "Only entries at most this deep")

	f.IntVar(&flags.maxResults, "max-results", 0, "Stop reporting after this many results (0 = unlimited)")
	f.IntVarP(&flags.threads, "threads", "j", 0, "Workers used for --exec (0 = one per CPU)")
	f.BoolVar(&flags.failFast, "fail-fast", false, "Stop starting --exec commands after the first failure")
	f.StringVarP(&flags.exec, "exec", "x", "", "Run a command for each result; {} is replaced by the path. Quote arguments as in a shell")

	return cmd
}

func run(cmd *cobra.Command, flags *rootFlags, args []string) error {
	cfg, err := config.LoadConfig(flags.configPath)
	if err != nil {
		return err
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}

	log, closer, err := logger.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closer.Close()

	defaults, err := cfg.SearchDefaults()
	if err != nil {
		return err
	}
	overrides, err := flags.searchOptions(cmd, time.Now())
	if err != nil {
		return err
	}

	pattern, root := "", "."
	if len(args) > 0 {
		pattern = args[0]
	}
	if len(args) > 1 {
		root = args[1]
	}

	out, err := newPrinter(cmd.OutOrStdout(), flags.color, flags.null)
	if err != nil {
		return err
	}

	finder := filesystem.New(
		filesystem.WithLogger(log),
		filesystem.WithDefaults(defaults),
	)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if flags.exec != "" {
		command, err := shlex.Split(flags.exec)
		if err != nil {
			return fmt.Errorf("--exec: %w", err)
		}
		cb, err := execCallback(command, out)
		if err != nil {
			return err
		}
		return finder.Find(ctx, root, pattern, cb, overrides...)
	}

	result, err := finder.Search(ctx, root, pattern, overrides...)
	if err != nil {
		return err
	}
	printResult(out, result)
	return nil
}

func printResult(out *printer, result *types.SearchResult) {
	for _, path := range result.Matches {
		out.Print(path, result.IsDir(path))
	}
}

// searchOptions turns the flags the user set into per-call overrides.
// Depth flags are inclusive on the command line and strict in the library.
func (flags *rootFlags) searchOptions(cmd *cobra.Command, now time.Time) ([]options.SearchOption, error) {
	f := cmd.Flags()
	var opts []options.SearchOption

	switch {
	case flags.glob && flags.regex:
		return nil, fmt.Errorf("--glob and --regex are mutually exclusive")
	case flags.glob:
		opts = append(opts, options.WithPatternMode(match.ModeGlob))
	case flags.regex:
		opts = append(opts, options.WithPatternMode(match.ModeRegex))
	case f.Changed("mode"):
		mode, err := match.ParseFilenameMode(flags.mode)
		if err != nil {
			return nil, err
		}
		opts = append(opts, options.WithPatternMode(mode))
	}

	if f.Changed("hidden") {
		opts = append(opts, options.WithHidden(flags.hidden))
	}
	if f.Changed("follow") {
		opts = append(opts, options.WithFollowSymlinks(flags.follow))
	}
	if f.Changed("ignore-case") {
		opts = append(opts, options.WithIgnoreCase(flags.ignoreCase))
	}
	if f.Changed("ignore-files") {
		opts = append(opts, options.WithIgnoreFiles(flags.ignoreFiles))
	}
	if len(flags.exclude) > 0 {
		opts = append(opts, options.WithExclude(flags.exclude...))
	}
	if len(flags.types) > 0 {
		kinds := make([]types.FileKind, 0, len(flags.types))
		for _, t := range flags.types {
			kind, err := types.ParseFileKind(t)
			if err != nil {
				return nil, err
			}
			kinds = append(kinds, kind)
		}
		opts = append(opts, options.WithFileKinds(kinds...))
	}
	if len(flags.extensions) > 0 {
		opts = append(opts, options.WithSuffixes(flags.extensions...))
	}

	sizeOpts, err := flags.sizeOptions()
	if err != nil {
		return nil, err
	}
	opts = append(opts, sizeOpts...)

	timeOpts, err := flags.timeOptions(now)
	if err != nil {
		return nil, err
	}
	opts = append(opts, timeOpts...)

	switch {
	case flags.exactDepth >= 0:
		opts = append(opts, options.WithDepthExact(flags.exactDepth))
	case flags.minDepth >= 0:
		opts = append(opts, options.WithDepthMin(flags.minDepth-1))
	case flags.maxDepth >= 0:
		opts = append(opts, options.WithDepthMax(flags.maxDepth+1))
	}

	if f.Changed("max-results") {
		opts = append(opts, options.WithMaxResults(flags.maxResults))
	}
	if f.Changed("threads") {
		opts = append(opts, options.WithWorkers(flags.threads))
	}
	if flags.failFast {
		opts = append(opts, options.WithDispatchPolicy(options.DispatchFailFast))
	}

	return opts, nil
}

func (flags *rootFlags) sizeOptions() ([]options.SearchOption, error) {
	var min, max int64
	var err error
	if flags.sizeMin != "" {
		if min, err = parseSize(flags.sizeMin); err != nil {
			return nil, err
		}
	}
	if flags.sizeMax != "" {
		if max, err = parseSize(flags.sizeMax); err != nil {
			return nil, err
		}
	}

	switch {
	case flags.sizeMin != "" && flags.sizeMax != "":
		return []options.SearchOption{options.WithSizeWithin(min, max)}, nil
	case flags.sizeMin != "":
		return []options.SearchOption{options.WithSizeMin(min)}, nil
	case flags.sizeMax != "":
		return []options.SearchOption{options.WithSizeMax(max)}, nil
	}
	return nil, nil
}

func (flags *rootFlags) timeOptions(now time.Time) ([]options.SearchOption, error) {
	var newer, older time.Time
	var err error
	if flags.newer != "" {
		if newer, err = parseTimeRef(flags.newer, now); err != nil {
			return nil, err
		}
	}
	if flags.older != "" {
		if older, err = parseTimeRef(flags.older, now); err != nil {
			return nil, err
		}
	}

	switch {
	case flags.newer != "" && flags.older != "":
		// Modified after newer and before older: older is the later instant.
		return []options.SearchOption{options.WithTimeWithin(newer, older)}, nil
	case flags.newer != "":
		return []options.SearchOption{options.WithNewer(newer)}, nil
	case flags.older != "":
		return []options.SearchOption{options.WithOlder(older)}, nil
	}
	return nil, nil
}
