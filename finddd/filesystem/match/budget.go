package match

import (
	"sync/atomic"

	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/types"
)

// Budget caps the number of reported matches across every combinator it is
// shared with. A cap of zero or less is uncapped.
type Budget struct {
	limit int64
	used  atomic.Int64
}

// NewBudget creates a budget allowing limit matches
func NewBudget(limit int) *Budget {
	return &Budget{limit: int64(limit)}
}

// TryConsume takes one unit if any remain. The counter only moves while the
// cap has not been reached, so it never exceeds the cap.
func (b *Budget) TryConsume() bool {
	if b.limit <= 0 {
		return true
	}
	for {
		n := b.used.Load()
		if n >= b.limit {
			return false
		}
		if b.used.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

// Used returns how many units were consumed
func (b *Budget) Used() int64 {
	return b.used.Load()
}

// Limit returns the configured cap
func (b *Budget) Limit() int64 {
	return b.limit
}

// Exhausted reports whether a capped budget has no units left
func (b *Budget) Exhausted() bool {
	return b.limit > 0 && b.used.Load() >= b.limit
}

// Matcher returns a predicate backed by this budget
func (b *Budget) Matcher() *BudgetMatcher {
	return &BudgetMatcher{budget: b}
}

// BudgetMatcher consumes its budget on every evaluation. It must be the last
// predicate of any All it joins.
type BudgetMatcher struct {
	budget *Budget
}

// Match consumes one unit of the shared budget
func (bm *BudgetMatcher) Match(*types.Entry) bool {
	return bm.budget.TryConsume()
}

// Budget returns the shared budget
func (bm *BudgetMatcher) Budget() *Budget {
	return bm.budget
}
