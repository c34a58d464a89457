package match

import (
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/common"
	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/interfaces"
	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeEntry creates a file of size bytes under dir and returns its Entry
func writeEntry(t *testing.T, dir, name string, size int) *types.Entry {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	return types.NewEntry(path, false)
}

func mkdirEntry(t *testing.T, dir, name string) *types.Entry {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(path, 0o755))
	return types.NewEntry(path, false)
}

func int64p(v int64) *int64 { return &v }
func intp(v int) *int       { return &v }

// unconfigured returns one instance of every predicate built without
// patterns, bounds or kinds
func unconfigured(t *testing.T, root string) []Matcher {
	t.Helper()
	size, err := NewSizeMatcher(nil, nil, false)
	require.NoError(t, err)
	modTime, err := NewModTimeMatcher(nil, nil, false)
	require.NoError(t, err)
	kinds, err := NewFileKindMatcher(nil, interfaces.Unavailable[interfaces.ExecutableDetector]())
	require.NoError(t, err)
	empty, err := NewAll()
	require.NoError(t, err)

	return []Matcher{
		size,
		modTime,
		kinds,
		NewSuffixMatcher(),
		NewDepthMatcher(root, nil, nil, nil),
		NewHiddenMatcher(true),
		NewBudget(0).Matcher(),
		empty,
		Nop{},
	}
}

func TestUnconfiguredPredicatesMatchEverything(t *testing.T) {
	root := t.TempDir()
	entries := []*types.Entry{
		writeEntry(t, root, "a.py", 10),
		writeEntry(t, root, "empty", 0),
		writeEntry(t, root, "sub/deep/b.go", 4096),
		mkdirEntry(t, root, "dir"),
	}

	for _, m := range unconfigured(t, root) {
		for _, e := range entries {
			assert.True(t, m.Match(e), "%T rejected %s", m, e.Path)
		}
	}
}

func TestNotInvertsEveryPredicate(t *testing.T) {
	root := t.TempDir()
	entries := []*types.Entry{
		writeEntry(t, root, "a.py", 10),
		writeEntry(t, root, ".env", 300),
		writeEntry(t, root, "sub/c.go", 2000),
		mkdirEntry(t, root, "pkg"),
	}

	glob, err := NewFilenameMatcher("*.py", ModeGlob, false)
	require.NoError(t, err)
	size, err := NewSizeMatcher(int64p(256), int64p(1024), true)
	require.NoError(t, err)
	kinds, err := NewFileKindMatcher([]types.FileKind{types.KindDirectory}, interfaces.Unavailable[interfaces.ExecutableDetector]())
	require.NoError(t, err)

	matchers := append(unconfigured(t, root),
		glob,
		size,
		kinds,
		NewHiddenMatcher(false),
		NewSuffixMatcher("go"),
		NewDepthMatcher(root, intp(1), nil, nil),
	)

	for _, m := range matchers {
		for _, e := range entries {
			assert.Equal(t, !m.Match(e), Not(m).Match(e), "%T on %s", m, e.Path)
		}
	}
}

func TestAllIsConjunction(t *testing.T) {
	e := types.NewEntry("/tmp/x.py", false)
	yes := MatcherFunc(func(*types.Entry) bool { return true })
	no := MatcherFunc(func(*types.Entry) bool { return false })

	cases := []struct {
		name     string
		matchers []Matcher
		want     bool
	}{
		{"empty", nil, true},
		{"single true", []Matcher{yes}, true},
		{"single false", []Matcher{no}, false},
		{"true true", []Matcher{yes, yes}, true},
		{"true false", []Matcher{yes, no}, false},
		{"false true", []Matcher{no, yes}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			all, err := NewAll(tc.matchers...)
			require.NoError(t, err)
			assert.Equal(t, tc.want, all.Match(e))
		})
	}
}

func TestAllShortCircuits(t *testing.T) {
	var calls int
	counting := MatcherFunc(func(*types.Entry) bool { calls++; return true })
	no := MatcherFunc(func(*types.Entry) bool { return false })

	all, err := NewAll(no, counting)
	require.NoError(t, err)
	assert.False(t, all.Match(types.NewEntry("/x", false)))
	assert.Zero(t, calls)
}

func TestAllRejectsBudgetBeforeLastPosition(t *testing.T) {
	budget := NewBudget(3)

	_, err := NewAll(budget.Matcher(), Nop{})
	assert.ErrorIs(t, err, common.ErrBudgetNotLast)
	assert.ErrorIs(t, err, common.ErrConfiguration)

	inner, err := NewAll(Nop{}, budget.Matcher())
	require.NoError(t, err)
	_, err = NewAll(inner, Nop{})
	assert.ErrorIs(t, err, common.ErrBudgetNotLast, "nested budget")

	_, err = NewAll(Not(budget.Matcher()), Nop{})
	assert.ErrorIs(t, err, common.ErrBudgetNotLast, "negated budget")

	_, err = NewAll(Nop{}, inner)
	assert.NoError(t, err)

	_, err = NewAll(Nop{}, nil)
	assert.ErrorIs(t, err, common.ErrConfiguration)
}

func TestBudgetSharedAcrossCombinators(t *testing.T) {
	budget := NewBudget(3)
	dirs, err := NewAll(Nop{}, budget.Matcher())
	require.NoError(t, err)
	files, err := NewAll(NewSuffixMatcher(), budget.Matcher())
	require.NoError(t, err)

	e := types.NewEntry("/x", false)
	got := []bool{
		dirs.Match(e),
		files.Match(e),
		dirs.Match(e),
		files.Match(e),
		dirs.Match(e),
	}
	assert.Equal(t, []bool{true, true, true, false, false}, got)
	assert.Equal(t, int64(3), budget.Used())
	assert.True(t, budget.Exhausted())
}

func TestBudgetLastOnlyCountsSurvivors(t *testing.T) {
	budget := NewBudget(2)
	onlyPy := NewSuffixMatcher("py")
	all, err := NewAll(onlyPy, budget.Matcher())
	require.NoError(t, err)

	for _, name := range []string{"a.go", "b.py", "c.go", "d.py", "e.py"} {
		all.Match(types.NewEntry("/r/"+name, false))
	}
	assert.Equal(t, int64(2), budget.Used())
}

func TestBudgetUncapped(t *testing.T) {
	budget := NewBudget(0)
	m := budget.Matcher()
	for range 100 {
		assert.True(t, m.Match(nil))
	}
	assert.Zero(t, budget.Used())
	assert.False(t, budget.Exhausted())
}

func TestBudgetConcurrentConsumers(t *testing.T) {
	budget := NewBudget(10)
	var granted atomic.Int64
	var wg sync.WaitGroup
	for range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 10 {
				if budget.TryConsume() {
					granted.Add(1)
				}
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(10), granted.Load())
	assert.Equal(t, int64(10), budget.Used())
}

func TestFilenameModes(t *testing.T) {
	e := types.NewEntry("/r/Report.final.TXT", false)

	cases := []struct {
		pattern    string
		mode       FilenameMode
		ignoreCase bool
		want       bool
	}{
		{"Report.final.TXT", ModeExact, false, true},
		{"report.final.txt", ModeExact, false, false},
		{"report.final.txt", ModeExact, true, true},
		{"final", ModeSubstring, false, true},
		{"FINAL", ModeSubstring, false, false},
		{"FINAL", ModeSubstring, true, true},
		{"", ModeSubstring, false, true},
		{"*.TXT", ModeGlob, false, true},
		{"*.txt", ModeGlob, false, false},
		{"*.txt", ModeGlob, true, true},
		{"Rep?rt.*", ModeGlob, false, true},
		{`Report\.\w+`, ModeRegex, false, true},
		{`final`, ModeRegex, false, false},
		{`(?i)report`, ModeRegex, false, true},
		{`report`, ModeRegex, true, false},
	}
	for _, tc := range cases {
		m, err := NewFilenameMatcher(tc.pattern, tc.mode, tc.ignoreCase)
		require.NoError(t, err)
		assert.Equal(t, tc.want, m.Match(e), "%s %q ignoreCase=%v", tc.mode, tc.pattern, tc.ignoreCase)
	}
}

func TestFilenameMatchesBaseNameOnly(t *testing.T) {
	m, err := NewFilenameMatcher("src", ModeSubstring, false)
	require.NoError(t, err)
	assert.False(t, m.Match(types.NewEntry("/src/main.go", false)))
}

func TestFilenameInvalidPatterns(t *testing.T) {
	_, err := NewFilenameMatcher("([a-", ModeRegex, false)
	assert.ErrorIs(t, err, common.ErrInvalidPattern)
	assert.ErrorIs(t, err, common.ErrConfiguration)

	_, err = NewFilenameMatcher("[abc", ModeGlob, false)
	assert.ErrorIs(t, err, common.ErrInvalidPattern)
}

func TestRegexpMatcher(t *testing.T) {
	m := NewRegexpMatcher(regexp.MustCompile(`\d+`))
	assert.Equal(t, ModeRegex, m.Mode())
	assert.True(t, m.Match(types.NewEntry("/r/2024-report", false)))
	assert.False(t, m.Match(types.NewEntry("/r/report-2024", false)))
}

func TestParseFilenameMode(t *testing.T) {
	for _, s := range []string{"exact", "substring", "glob", "regex"} {
		mode, err := ParseFilenameMode(s)
		require.NoError(t, err)
		assert.Equal(t, s, mode.String())
	}
	mode, err := ParseFilenameMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeSubstring, mode)

	_, err = ParseFilenameMode("fuzzy")
	assert.ErrorIs(t, err, common.ErrConfiguration)
}

func TestSuffixNormalisation(t *testing.T) {
	m := NewSuffixMatcher("py")
	assert.True(t, m.Match(types.NewEntry("/r/x.py", false)))
	assert.False(t, m.Match(types.NewEntry("/r/x.go", false)))
	assert.False(t, m.Match(types.NewEntry("/r/.py", false)), "dot-file has no suffix")

	m = NewSuffixMatcher(".go", "", "md")
	assert.True(t, m.Match(types.NewEntry("/r/x.go", false)))
	assert.True(t, m.Match(types.NewEntry("/r/README.md", false)))
	assert.False(t, m.Match(types.NewEntry("/r/Makefile", false)))
}

func TestHiddenDefault(t *testing.T) {
	env := types.NewEntry("/r/.env", false)
	plain := types.NewEntry("/r/env", false)

	assert.False(t, NewHiddenMatcher(false).Match(env))
	assert.True(t, NewHiddenMatcher(true).Match(env))
	assert.True(t, NewHiddenMatcher(false).Match(plain))
	assert.True(t, NewHiddenMatcher(true).Match(plain))
}

func TestSizeWithin(t *testing.T) {
	dir := t.TempDir()
	m, err := NewSizeMatcher(int64p(256), int64p(1024), true)
	require.NoError(t, err)

	assert.False(t, m.Match(writeEntry(t, dir, "small", 100)))
	assert.False(t, m.Match(writeEntry(t, dir, "big", 1025)))
	assert.False(t, m.Match(writeEntry(t, dir, "edge", 1024)), "bounds are exclusive")
	assert.True(t, m.Match(writeEntry(t, dir, "fits", 1000)))
}

func TestSizeSingleBound(t *testing.T) {
	dir := t.TempDir()
	small := writeEntry(t, dir, "small", 10)
	big := writeEntry(t, dir, "big", 5000)

	min, err := NewSizeMatcher(int64p(100), nil, false)
	require.NoError(t, err)
	assert.False(t, min.Match(small))
	assert.True(t, min.Match(big))

	max, err := NewSizeMatcher(nil, int64p(100), false)
	require.NoError(t, err)
	assert.True(t, max.Match(small))
	assert.False(t, max.Match(big))
}

func TestSizeInvalidRanges(t *testing.T) {
	_, err := NewSizeMatcher(int64p(10), nil, true)
	assert.ErrorIs(t, err, common.ErrInvalidRange)
	_, err = NewSizeMatcher(int64p(10), int64p(10), true)
	assert.ErrorIs(t, err, common.ErrInvalidRange)
	_, err = NewSizeMatcher(int64p(10), int64p(20), false)
	assert.ErrorIs(t, err, common.ErrInvalidRange)
}

func TestSizeMissingEntryNeverMatches(t *testing.T) {
	m, err := NewSizeMatcher(nil, int64p(100), false)
	require.NoError(t, err)
	assert.False(t, m.Match(types.NewEntry(filepath.Join(t.TempDir(), "gone"), false)))
}

func TestModTime(t *testing.T) {
	dir := t.TempDir()
	e := writeEntry(t, dir, "f", 1)
	mtime := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(e.Path, mtime, mtime))

	before := mtime.Add(-time.Hour)
	after := mtime.Add(time.Hour)

	newer, err := NewModTimeMatcher(nil, &before, false)
	require.NoError(t, err)
	assert.True(t, newer.Match(e))

	older, err := NewModTimeMatcher(&before, nil, false)
	require.NoError(t, err)
	assert.False(t, older.Match(types.NewEntry(e.Path, false)))

	within, err := NewModTimeMatcher(&before, &after, true)
	require.NoError(t, err)
	assert.True(t, within.Match(types.NewEntry(e.Path, false)))

	_, err = NewModTimeMatcher(&after, &before, true)
	assert.ErrorIs(t, err, common.ErrInvalidRange)
	_, err = NewModTimeMatcher(&before, &after, false)
	assert.ErrorIs(t, err, common.ErrInvalidRange)
	_, err = NewModTimeMatcher(nil, &after, true)
	assert.ErrorIs(t, err, common.ErrInvalidRange)
}

func TestDepth(t *testing.T) {
	e := types.NewEntry("/a/b/c", false)

	assert.Equal(t, 2, NewDepthMatcher("/a", nil, nil, nil).Depth(e))
	assert.False(t, NewDepthMatcher("/a", nil, nil, intp(2)).Match(e))
	assert.True(t, NewDepthMatcher("/a", nil, nil, intp(3)).Match(e))
	assert.True(t, NewDepthMatcher("/a", intp(2), nil, nil).Match(e))
	assert.False(t, NewDepthMatcher("/a", nil, intp(2), nil).Match(e))
	assert.True(t, NewDepthMatcher("/a", nil, intp(1), nil).Match(e))

	// exact wins over min and max
	assert.True(t, NewDepthMatcher("/a", intp(2), intp(5), intp(1)).Match(e))
	// min wins over max
	assert.True(t, NewDepthMatcher("/a", nil, intp(1), intp(1)).Match(e))
}

func TestDepthRelativeRoot(t *testing.T) {
	assert.Equal(t, 1, NewDepthMatcher(".", nil, nil, nil).Depth(types.NewEntry("sub", false)))
	assert.Equal(t, 2, NewDepthMatcher("root", nil, nil, nil).Depth(types.NewEntry("root/sub/c.py", false)))
}

func TestDepthAboveRootPanics(t *testing.T) {
	m := NewDepthMatcher("/a/b/c", nil, nil, intp(3))
	assert.PanicsWithError(t, common.InvariantError("negative depth %d for %s under %s", -1, "/a/b", "/a/b/c").Error(), func() {
		m.Match(types.NewEntry("/a/b", false))
	})
}

type fixedDetector map[string]bool

func (d fixedDetector) IsExecutable(e *types.Entry) bool { return d[e.Name] }

func TestFileKinds(t *testing.T) {
	dir := t.TempDir()
	file := writeEntry(t, dir, "file", 10)
	empty := writeEntry(t, dir, "empty", 0)
	emptyDir := mkdirEntry(t, dir, "emptydir")
	fullDir := mkdirEntry(t, dir, "fulldir")
	writeEntry(t, dir, "fulldir/child", 1)

	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(file.Path, link))
	linkEntry := types.NewEntry(link, false)

	unavailable := interfaces.Unavailable[interfaces.ExecutableDetector]()
	build := func(kinds ...types.FileKind) *FileKindMatcher {
		m, err := NewFileKindMatcher(kinds, unavailable)
		require.NoError(t, err)
		return m
	}

	assert.True(t, build(types.KindRegular).Match(file))
	assert.False(t, build(types.KindRegular).Match(emptyDir))
	assert.True(t, build(types.KindDirectory).Match(fullDir))
	assert.True(t, build(types.KindSymlink).Match(linkEntry))
	assert.False(t, build(types.KindRegular).Match(types.NewEntry(link, false)))
	assert.True(t, build(types.KindRegular).Match(types.NewEntry(link, true)), "followed symlink is its target")

	emptyKind := build(types.KindEmpty)
	assert.True(t, emptyKind.Match(empty))
	assert.True(t, emptyKind.Match(emptyDir))
	assert.False(t, emptyKind.Match(file))
	assert.False(t, emptyKind.Match(fullDir))

	// OR across kinds
	either := build(types.KindDirectory, types.KindRegular, types.KindDirectory)
	assert.Len(t, either.kinds, 2)
	assert.True(t, either.Match(file))
	assert.True(t, either.Match(fullDir))
	assert.False(t, either.Match(types.NewEntry(link, false)))
}

func TestFileKindExecutableCapability(t *testing.T) {
	_, err := NewFileKindMatcher([]types.FileKind{types.KindExecutable}, interfaces.Unavailable[interfaces.ExecutableDetector]())
	assert.ErrorIs(t, err, common.ErrNotImplemented)
	assert.ErrorIs(t, err, common.ErrConfiguration)

	dir := t.TempDir()
	detector := interfaces.Available[interfaces.ExecutableDetector](fixedDetector{"run.sh": true})
	m, err := NewFileKindMatcher([]types.FileKind{types.KindExecutable}, detector)
	require.NoError(t, err)
	assert.True(t, m.Match(writeEntry(t, dir, "run.sh", 4)))
	assert.False(t, m.Match(writeEntry(t, dir, "notes.txt", 4)))
}

func TestFileKindUnknown(t *testing.T) {
	_, err := NewFileKindMatcher([]types.FileKind{"q"}, interfaces.Unavailable[interfaces.ExecutableDetector]())
	assert.ErrorIs(t, err, common.ErrUnknownFileKind)
}

type nameChecker map[string]bool

func (c nameChecker) ShouldExclude(e *types.Entry) bool { return c[e.Name] }

func TestIgnoreMatcher(t *testing.T) {
	m := NewIgnoreMatcher(nameChecker{"vendor": true})
	assert.False(t, m.Match(types.NewEntry("/r/vendor", false)))
	assert.True(t, m.Match(types.NewEntry("/r/src", false)))
}
