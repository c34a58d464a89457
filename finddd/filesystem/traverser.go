package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"time"

	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/common"
	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/services"
	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/types"

	"github.com/rs/zerolog"
)

// Traverser walks a directory tree once, top-down, and collects every entry
// accepted by a PredicateSet. It is single-threaded: the result budget is
// only ever consumed from the walking goroutine.
type Traverser struct {
	preds  *services.PredicateSet
	follow bool
	log    zerolog.Logger

	validationUtils *common.ValidationUtils
	errorUtils      *common.ErrorUtils
}

// NewTraverser creates a Traverser for one search
func NewTraverser(preds *services.PredicateSet, follow bool, log zerolog.Logger) *Traverser {
	return &Traverser{
		preds:           preds,
		follow:          follow,
		log:             log,
		validationUtils: common.NewValidationUtils(),
		errorUtils:      common.NewErrorUtils(),
	}
}

// Walk traverses root in pre-order. The root itself is never reported.
// Directories are evaluated before the files of the same listing, so matches
// appear in discovery order. A cancelled ctx stops the walk between
// directories and returns the context error.
func (t *Traverser) Walk(ctx context.Context, root string) (result *types.SearchResult, err error) {
	stats := &common.SearchStats{StartTime: time.Now()}
	result = &types.SearchResult{
		Root:    root,
		Matches: make([]string, 0),
		Dirs:    make(map[string]bool),
		Stats:   stats,
	}

	defer func() {
		stats.EndTime = time.Now()
		if r := recover(); r != nil {
			perr, ok := r.(error)
			if !ok || !errors.Is(perr, common.ErrInvariantViolation) {
				panic(r)
			}
			t.log.Error().Err(perr).Str("root", root).Msg("Traversal aborted")
			err = perr
		}
	}()

	var visited *common.VisitedSet
	if t.follow {
		visited = common.NewVisitedSet()
		if info, statErr := os.Stat(root); statErr == nil {
			visited.Visit(root, info)
		}
	}

	// Work list of directories still to list; popped from the end so that
	// children are walked before later siblings.
	pending := []string{root}

	for len(pending) > 0 {
		if err := t.validationUtils.ValidateContextCancellation(ctx); err != nil {
			return result, err
		}

		dir := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		dirEntries, readErr := os.ReadDir(dir)
		if readErr != nil {
			if dir == root {
				return result, t.errorUtils.WrapError(readErr, "failed to list search root %s", root)
			}
			t.recordListingError(stats, dir, readErr)
			continue
		}
		stats.DirsVisited++

		subdirs, files := t.partition(stats, dir, dirEntries)

		descend := make([]string, 0, len(subdirs))
		for _, entry := range subdirs {
			stats.EntriesEvaluated++
			if t.preds.DirMatch.Match(entry) {
				result.Matches = append(result.Matches, entry.Path)
				result.Dirs[entry.Path] = true
				stats.DirMatches++
			}
			if !t.preds.Descend.Match(entry) {
				continue
			}
			if visited != nil {
				info, _ := entry.Info()
				if !visited.Visit(entry.Path, info) {
					stats.CyclesSkipped++
					t.log.Debug().Str("path", entry.Path).Msg("Skipping already visited directory")
					continue
				}
			}
			descend = append(descend, entry.Path)
		}

		for _, entry := range files {
			stats.EntriesEvaluated++
			if t.preds.FileMatch.Match(entry) {
				result.Matches = append(result.Matches, entry.Path)
				stats.FileMatches++
			}
		}

		slices.Reverse(descend)
		pending = append(pending, descend...)
	}

	t.log.Debug().
		Str("root", root).
		Int64("dirs", stats.DirsVisited).
		Int64("matches", stats.Matches()).
		Msg("Traversal complete")

	return result, nil
}

// partition splits a listing into sub-directories and everything else.
// Entries whose metadata cannot be read are dropped here so predicates never
// see an entry that vanished after listing.
func (t *Traverser) partition(stats *common.SearchStats, dir string, dirEntries []fs.DirEntry) (subdirs, files []*types.Entry) {
	subdirs = make([]*types.Entry, 0, len(dirEntries))
	files = make([]*types.Entry, 0, len(dirEntries))

	for _, de := range dirEntries {
		entry := types.NewListedEntry(dir, de, t.follow)
		if _, err := entry.Info(); err != nil {
			if t.errorUtils.IsVanished(err) {
				stats.Vanished++
				t.log.Debug().Err(err).Str("path", entry.Path).Msg("Entry vanished during traversal")
			} else {
				stats.Unreadable++
				t.log.Warn().Err(err).Str("path", entry.Path).Msg("Failed to read entry metadata")
			}
			continue
		}

		if entry.IsDir() {
			subdirs = append(subdirs, entry)
		} else {
			files = append(files, entry)
		}
	}
	return subdirs, files
}

func (t *Traverser) recordListingError(stats *common.SearchStats, dir string, err error) {
	if t.errorUtils.IsVanished(err) {
		stats.Vanished++
		t.log.Debug().Err(err).Str("path", dir).Msg("Directory vanished before listing")
		return
	}
	stats.Unreadable++
	t.log.Warn().Err(fmt.Errorf("list %s: %w", dir, err)).Msg("Skipping unreadable directory")
}
