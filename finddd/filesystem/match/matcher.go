// Package match holds the predicates a search is built from and the AND
// combinator that aggregates them.
package match

import (
	"fmt"

	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/common"
	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/types"
)

// Matcher is a single boolean test over a filesystem entry
type Matcher interface {
	Match(entry *types.Entry) bool
}

// MatcherFunc adapts a plain function to a Matcher
type MatcherFunc func(entry *types.Entry) bool

// Match calls f(entry)
func (f MatcherFunc) Match(entry *types.Entry) bool {
	return f(entry)
}

// Nop matches every entry
type Nop struct{}

// Match always returns true
func (Nop) Match(*types.Entry) bool {
	return true
}

// NotMatcher inverts the wrapped matcher. Wrapping a budget is allowed but
// still consumes the budget on every evaluation.
type NotMatcher struct {
	inner Matcher
}

// Not returns a matcher that inverts m
func Not(m Matcher) *NotMatcher {
	return &NotMatcher{inner: m}
}

// Match returns the negation of the wrapped result
func (n *NotMatcher) Match(entry *types.Entry) bool {
	return !n.inner.Match(entry)
}

// All combines matchers with AND semantics in insertion order, stopping at
// the first rejection. An empty All matches everything.
type All struct {
	matchers []Matcher
}

// NewAll builds an All. A matcher containing a result budget is only
// accepted in the last position.
func NewAll(matchers ...Matcher) (*All, error) {
	for i, m := range matchers {
		if m == nil {
			return nil, fmt.Errorf("%w: nil matcher at position %d", common.ErrConfiguration, i)
		}
		if i < len(matchers)-1 && containsBudget(m) {
			return nil, fmt.Errorf("%w: found at position %d of %d", common.ErrBudgetNotLast, i, len(matchers))
		}
	}
	return &All{matchers: matchers}, nil
}

// Match reports whether every matcher accepts entry
func (a *All) Match(entry *types.Entry) bool {
	for _, m := range a.matchers {
		if !m.Match(entry) {
			return false
		}
	}
	return true
}

// Len returns the number of aggregated matchers
func (a *All) Len() int {
	return len(a.matchers)
}

func containsBudget(m Matcher) bool {
	switch t := m.(type) {
	case *BudgetMatcher:
		return true
	case *NotMatcher:
		return containsBudget(t.inner)
	case *All:
		for _, inner := range t.matchers {
			if containsBudget(inner) {
				return true
			}
		}
	}
	return false
}
