package frontier

import (
	"net/url"
	"sync"
)

/*
VisitedSet maps a Target to its VisitState.

  - Keys are the exact string form of the URL; no canonicalization.
  - Entries are only ever added or moved between states, never removed.
  - Every method takes the same mutex, so TryMark is the single atomic
    check-and-insert step shared by all workers.
*/
type VisitedSet struct {
	mu      sync.Mutex
	entries map[string]VisitState
}

func NewVisitedSet() *VisitedSet {
	return &VisitedSet{
		entries: make(map[string]VisitState),
	}
}

// TryMark records u with the given state if u has never been seen.
// It reports whether the caller won the insert.
func (v *VisitedSet) TryMark(u url.URL, state VisitState) bool {
	key := u.String()

	v.mu.Lock()
	defer v.mu.Unlock()

	if _, seen := v.entries[key]; seen {
		return false
	}
	v.entries[key] = state
	return true
}

// Transition moves an already-seen u to state.
// Returns false, and changes nothing, when u was never marked.
func (v *VisitedSet) Transition(u url.URL, state VisitState) bool {
	key := u.String()

	v.mu.Lock()
	defer v.mu.Unlock()

	if _, seen := v.entries[key]; !seen {
		return false
	}
	v.entries[key] = state
	return true
}

func (v *VisitedSet) State(u url.URL) VisitState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.entries[u.String()]
}

func (v *VisitedSet) Size() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.entries)
}

func (v *VisitedSet) Count(state VisitState) int {
	v.mu.Lock()
	defer v.mu.Unlock()

	count := 0
	for _, s := range v.entries {
		if s == state {
			count++
		}
	}
	return count
}
