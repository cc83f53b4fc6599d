package collision

import (
	"fmt"

	"github.com/arloliu/flatkit/errs"
	"github.com/arloliu/flatkit/internal/hash"
)

// Tracker detects key-path collisions while flattening a single record.
//
// Every rendered key path is tracked together with its source position (the
// canonical path inside the nested value). If two distinct source positions
// render to the same key-path string, the flattening run must fail rather
// than silently overwrite one leaf with another.
//
// Rendered paths are keyed by their 64-bit hash; entries sharing a hash are
// kept in a small per-hash list so that a hash collision between different
// rendered strings is never mistaken for a key-path collision.
type Tracker struct {
	entries map[uint64][]entry
	count   int
}

type entry struct {
	rendered string
	source   string
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		entries: make(map[uint64][]entry),
	}
}

// Track records a rendered key path and the source position it came from.
// Returns an error wrapping errs.ErrPathCollision, naming both source
// positions, when a different source already rendered to the same string.
func (t *Tracker) Track(rendered, source string) error {
	id := hash.ID(rendered)

	for _, e := range t.entries[id] {
		if e.rendered != rendered {
			// Hash collision between different rendered paths; keep looking.
			continue
		}
		if e.source == source {
			return nil
		}

		return fmt.Errorf("%w: %q produced by both %s and %s",
			errs.ErrPathCollision, rendered, e.source, source)
	}

	t.entries[id] = append(t.entries[id], entry{rendered: rendered, source: source})
	t.count++

	return nil
}

// Count returns the number of distinct rendered paths tracked.
func (t *Tracker) Count() int {
	return t.count
}

// Reset clears all tracked paths, retaining allocated capacity.
func (t *Tracker) Reset() {
	for k := range t.entries {
		delete(t.entries, k)
	}
	t.count = 0
}
