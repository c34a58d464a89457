package common

import (
	"fmt"
	"sync/atomic"
	"time"
)

// SearchStats tracks what a single search did. Traversal fields are written
// by the walking goroutine only; dispatch fields are updated atomically.
type SearchStats struct {
	DirsVisited      int64
	EntriesEvaluated int64
	DirMatches       int64
	FileMatches      int64
	Vanished         int64
	Unreadable       int64
	CyclesSkipped    int64

	Dispatched atomic.Int64
	Failed     atomic.Int64

	StartTime time.Time
	EndTime   time.Time
}

// Matches returns the total number of reported entries
func (s *SearchStats) Matches() int64 {
	return s.DirMatches + s.FileMatches
}

// Duration returns how long the traversal took
func (s *SearchStats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// GetMetrics returns search metrics as a map
func (s *SearchStats) GetMetrics() map[string]any {
	return map[string]any{
		"dirs_visited":      s.DirsVisited,
		"entries_evaluated": s.EntriesEvaluated,
		"dir_matches":       s.DirMatches,
		"file_matches":      s.FileMatches,
		"vanished":          s.Vanished,
		"unreadable":        s.Unreadable,
		"cycles_skipped":    s.CyclesSkipped,
		"dispatched":        s.Dispatched.Load(),
		"failed":            s.Failed.Load(),
		"duration":          FormatDuration(s.Duration()),
	}
}

// FormatDuration formats a duration for human-readable display
func FormatDuration(duration time.Duration) string {
	switch {
	case duration < time.Millisecond:
		return fmt.Sprintf("%.2fµs", float64(duration.Nanoseconds())/1000)
	case duration < time.Second:
		return fmt.Sprintf("%.2fms", float64(duration.Nanoseconds())/1000000)
	case duration < time.Minute:
		return fmt.Sprintf("%.2fs", duration.Seconds())
	case duration < time.Hour:
		return fmt.Sprintf("%.2fm", duration.Minutes())
	default:
		return fmt.Sprintf("%.2fh", duration.Hours())
	}
}
