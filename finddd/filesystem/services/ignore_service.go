package services

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/common"
	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/interfaces"
	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/types"

	"github.com/rs/zerolog"
	ignore "github.com/sabhiram/go-gitignore"
)

// GitIgnoreService loads gitignore-style files found under a search root
type GitIgnoreService struct {
	log zerolog.Logger
}

// NewGitIgnoreService creates a new GitIgnoreService
func NewGitIgnoreService(log zerolog.Logger) *GitIgnoreService {
	return &GitIgnoreService{log: log}
}

// Load returns a checker for root. Ignore files are compiled lazily, the
// first time an entry below their directory is checked.
func (s *GitIgnoreService) Load(root string, fileNames []string) (interfaces.IgnoreChecker, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: ignore root", common.ErrPathEmpty)
	}
	return &gitIgnoreChecker{
		root:      filepath.Clean(root),
		fileNames: slices.Clone(fileNames),
		cache:     make(map[string][]*ignoreFile),
		log:       s.log,
	}, nil
}

type gitIgnoreChecker struct {
	root      string
	fileNames []string
	log       zerolog.Logger

	mu    sync.Mutex
	cache map[string][]*ignoreFile
}

// ignoreFile holds one compiled ignore file. negated holds the file's "!"
// rules in positive form so a re-include can be detected on its own.
type ignoreFile struct {
	rules   *ignore.GitIgnore
	negated *ignore.GitIgnore
}

// decide reports whether candidate is excluded by this file, and whether any
// rule of the file matched it at all. The last matching rule wins.
func (f *ignoreFile) decide(candidate string) (excluded, matched bool) {
	excluded, pattern := f.rules.MatchesPathHow(candidate)
	if excluded || pattern != nil {
		return excluded, true
	}
	if f.negated.MatchesPath(candidate) {
		return false, true
	}
	return false, false
}

// ShouldExclude applies the ignore files between the entry's parent and
// root. The deepest directory with a matching rule decides, so a nested
// ignore file can re-include what an outer one excludes.
func (c *gitIgnoreChecker) ShouldExclude(entry *types.Entry) bool {
	rel, err := filepath.Rel(c.root, filepath.Clean(entry.Path))
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	isDir := entry.IsDir()

	parts := strings.Split(rel, string(filepath.Separator))
	for i := len(parts) - 1; i >= 0; i-- {
		dir := filepath.Join(append([]string{c.root}, parts[:i]...)...)
		candidate := filepath.ToSlash(filepath.Join(parts[i:]...))

		files := c.compiled(dir)
		for j := len(files) - 1; j >= 0; j-- {
			excluded, matched := files[j].decide(candidate)
			if !matched && isDir {
				excluded, matched = files[j].decide(candidate + "/")
			}
			if matched {
				return excluded
			}
		}
	}
	return false
}

func (c *gitIgnoreChecker) compiled(dir string) []*ignoreFile {
	c.mu.Lock()
	defer c.mu.Unlock()

	if files, ok := c.cache[dir]; ok {
		return files
	}

	var files []*ignoreFile
	for _, name := range c.fileNames {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				c.log.Warn().Err(err).Str("path", path).Msg("Error reading ignore file")
			}
			continue
		}
		files = append(files, compileIgnoreFile(string(data)))
		c.log.Debug().Str("path", path).Msg("Loaded ignore file")
	}
	c.cache[dir] = files
	return files
}

func compileIgnoreFile(content string) *ignoreFile {
	lines := strings.Split(content, "\n")
	var negated []string
	for _, line := range lines {
		if trimmed := strings.Trim(strings.TrimRight(line, "\r"), " "); strings.HasPrefix(trimmed, "!") {
			negated = append(negated, trimmed[1:])
		}
	}
	return &ignoreFile{
		rules:   ignore.CompileIgnoreLines(lines...),
		negated: ignore.CompileIgnoreLines(negated...),
	}
}
