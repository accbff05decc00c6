package gridcalc

import "github.com/ukaji3/gridcalc/pkg/gridcalc/models"

// Snapshot is one immutable version of the cell data.
type Snapshot struct {
	Version uint64
	Data    models.Data
}

// Store is a versioned copy-on-write history of snapshots. Every commit
// appends a new version; the oldest versions are dropped beyond the limit.
type Store struct {
	history []Snapshot
	limit   int
}

// NewStore creates a store whose version 0 is initial.
func NewStore(limit int, initial models.Data) *Store {
	if limit < 1 {
		limit = 1
	}
	if initial == nil {
		initial = models.Data{}
	}
	return &Store{
		history: []Snapshot{{Version: 0, Data: initial}},
		limit:   limit,
	}
}

// Current returns the latest snapshot.
func (s *Store) Current() Snapshot {
	return s.history[len(s.history)-1]
}

// Commit records data as the next version and returns it.
func (s *Store) Commit(data models.Data) Snapshot {
	snap := Snapshot{Version: s.Current().Version + 1, Data: data}
	s.history = append(s.history, snap)
	if over := len(s.history) - s.limit; over > 0 {
		s.history = append(s.history[:0:0], s.history[over:]...)
	}
	return snap
}

// At returns the snapshot with the given version if it is still retained.
func (s *Store) At(version uint64) (Snapshot, bool) {
	oldest := s.history[0].Version
	if version < oldest || version > s.Current().Version {
		return Snapshot{}, false
	}
	return s.history[version-oldest], true
}

// Versions lists the retained versions, oldest first.
func (s *Store) Versions() []uint64 {
	out := make([]uint64, len(s.history))
	for i, snap := range s.history {
		out[i] = snap.Version
	}
	return out
}
