package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/pueuetop/internal/pueue"
)

// Snapshot represents the latest daemon data seen by the dashboard.
type Snapshot struct {
	State               pueue.State
	HasState            bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the daemon has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored snapshot. When err is non-nil the previous data is
// kept but the error is recorded for visibility.
func (s *Store) Update(st *pueue.State, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	if st != nil {
		s.snapshot.State = cloneState(*st)
		s.snapshot.HasState = true
	} else {
		s.snapshot.State = pueue.State{}
		s.snapshot.HasState = false
	}
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.State = cloneState(s.snapshot.State)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneState(st pueue.State) pueue.State {
	out := pueue.State{}
	if len(st.Tasks) > 0 {
		out.Tasks = make([]pueue.Task, len(st.Tasks))
		copy(out.Tasks, st.Tasks)
	}
	if len(st.Groups) > 0 {
		out.Groups = make(map[string]pueue.Group, len(st.Groups))
		for name, g := range st.Groups {
			out.Groups[name] = g
		}
	}
	return out
}
