package table

import (
	"sort"

	"github.com/arloliu/flatkit/format"
	"github.com/arloliu/flatkit/internal/hash"
)

// ColumnSet is the ordered, de-duplicated union of key paths observed across
// records.
//
// Before finalization columns accumulate in first-seen order. Finalize locks
// the set, applying lexicographic order first when configured; after that the
// column order never changes for the rest of the run.
//
// Membership keys on the 64-bit hash of the rendered path, with a per-hash
// candidate list so a hash collision between different paths cannot merge
// two columns.
type ColumnSet struct {
	columns   []string
	index     map[uint64][]int
	order     format.ColumnOrder
	finalized bool
}

// NewColumnSet creates an empty column set with the given order policy.
func NewColumnSet(order format.ColumnOrder) *ColumnSet {
	return &ColumnSet{
		index: make(map[uint64][]int),
		order: order,
	}
}

// Add records a column, returning its current position. Re-adding a known
// column returns its existing position. Adding a new column to a finalized
// set returns -1.
func (cs *ColumnSet) Add(path string) int {
	if i, ok := cs.Lookup(path); ok {
		return i
	}
	if cs.finalized {
		return -1
	}

	id := hash.ID(path)
	i := len(cs.columns)
	cs.columns = append(cs.columns, path)
	cs.index[id] = append(cs.index[id], i)

	return i
}

// Lookup returns the position of a column, if present.
func (cs *ColumnSet) Lookup(path string) (int, bool) {
	for _, i := range cs.index[hash.ID(path)] {
		if cs.columns[i] == path {
			return i, true
		}
	}

	return 0, false
}

// Len returns the number of columns.
func (cs *ColumnSet) Len() int {
	return len(cs.columns)
}

// Columns returns the columns in table order. The returned slice is shared
// with the set and must not be modified.
func (cs *ColumnSet) Columns() []string {
	return cs.columns
}

// Finalized reports whether the set has been locked.
func (cs *ColumnSet) Finalized() bool {
	return cs.finalized
}

// Finalize locks the column order. Under format.ColumnOrderSorted the
// columns are sorted lexicographically and the membership index rebuilt;
// under first-seen order the accumulated order stands. Finalize is
// idempotent.
func (cs *ColumnSet) Finalize() {
	if cs.finalized {
		return
	}
	cs.finalized = true

	if cs.order != format.ColumnOrderSorted {
		return
	}

	sort.Strings(cs.columns)
	cs.index = make(map[uint64][]int, len(cs.columns))
	for i, col := range cs.columns {
		id := hash.ID(col)
		cs.index[id] = append(cs.index[id], i)
	}
}
