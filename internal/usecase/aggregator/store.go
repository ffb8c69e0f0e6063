package aggregator

import (
	"sync"

	"github.com/netfolio/netfolio-backend/internal/domain"
)

// SnapshotStore holds the current snapshot and loading flag, the only
// state this engine exposes to consumers. All mutation goes through
// Reset, BeginRun and Commit; the generation counter guards against a
// superseded run overwriting a newer one (last intent wins, not last to
// finish).
type SnapshotStore struct {
	mu         sync.Mutex
	snapshot   domain.Snapshot
	loading    bool
	generation uint64
}

// NewSnapshotStore creates a store holding the zero snapshot.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		snapshot: domain.ZeroSnapshot(),
	}
}

// View returns the current snapshot and the loading flag.
func (s *SnapshotStore) View() (domain.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot, s.loading
}

// Reset synchronously replaces the state with the zero snapshot, clears
// the loading flag and invalidates any run still in flight.
func (s *SnapshotStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.snapshot = domain.ZeroSnapshot()
	s.loading = false
}

// BeginRun starts a new aggregation generation: the zero snapshot is
// committed with loading=true before the caller issues any fetch, so no
// stale data from a prior identity is ever visible during the transition.
// The returned token must be presented to Commit.
func (s *SnapshotStore) BeginRun() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.snapshot = domain.ZeroSnapshot()
	s.loading = true
	return s.generation
}

// Commit atomically replaces the snapshot if generation is still the
// latest. It reports whether the commit was applied; a false return means
// the run was superseded and its result is discarded.
func (s *SnapshotStore) Commit(generation uint64, snapshot domain.Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation {
		return false
	}
	s.snapshot = snapshot
	s.loading = false
	return true
}
