package store

// ResolveResult reports which phase of the two-phase resolve the call
// ended in, so callers can tell "applied and confirmed" from "applied then
// rolled back".
type ResolveResult int

const (
	ResolveConfirmed ResolveResult = iota
	ResolveRolledBack
)

func (r ResolveResult) String() string {
	if r == ResolveConfirmed {
		return "confirmed"
	}
	return "rolled back"
}

// ResolveIncident marks the incident resolved locally before the remote
// round-trip completes, then issues the remote request. On remote failure
// the local field is restored to this call's own captured prior value —
// never a blind false — and only when no concurrent resolve for the same id
// is still in flight and the remote has not already confirmed the incident,
// so a stale rollback cannot clobber a legitimate success.
func (s *Store) ResolveIncident(id int64) (ResolveResult, error) {
	s.mu.Lock()
	prior := false
	found := false
	for i := range s.incidents {
		if s.incidents[i].ID == id {
			prior = s.incidents[i].Resolved
			found = true
			s.incidents[i].Resolved = true
			break
		}
	}
	s.inflight[id]++
	if found && !prior {
		s.notifyLocked()
	}
	s.mu.Unlock()

	updated, err := s.api.ResolveIncident(id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight[id]--
	if s.inflight[id] <= 0 {
		delete(s.inflight, id)
	}

	if err != nil {
		if found && !prior && s.inflight[id] == 0 && !s.confirmed[id] {
			for i := range s.incidents {
				if s.incidents[i].ID == id {
					s.incidents[i].Resolved = prior
					s.notifyLocked()
					break
				}
			}
		}
		return ResolveRolledBack, err
	}

	s.confirmed[id] = true
	if updated != nil {
		for i := range s.incidents {
			if s.incidents[i].ID == id {
				s.mergeLocked(i, *updated)
				s.notifyLocked()
				break
			}
		}
	}
	return ResolveConfirmed, nil
}
