package store

// reaches reports whether target is reachable from start by walking the
// cause graph, using the (unlocked) internal index. Grounded on the
// teacher's dependency-cycle detector
// (internal/storage/dolt/dependencies.go DetectCycles): a DFS over an
// adjacency relation with an explicit visited set, except here the
// adjacency is "cause" rather than "blocks", and the caller already holds
// the store's write lock so no further locking happens here.
func (s *Store) reaches(start, target string, visited map[string]bool) bool {
	if start == target {
		return true
	}
	if visited[start] {
		return false
	}
	visited[start] = true

	idx, ok := s.byID[start]
	if !ok {
		return false // cause references an id outside the store (or not yet written): dead end
	}
	for _, cause := range s.events[idx].Cause {
		if s.reaches(cause, target, visited) {
			return true
		}
	}
	return false
}

// wouldCycle reports whether appending an event with id newID and the given
// causes would create a cycle: i.e. whether newID is transitively
// reachable from any of its own declared causes (spec.md invariant I2).
func (s *Store) wouldCycle(newID string, causes []string) bool {
	visited := make(map[string]bool)
	for _, c := range causes {
		if s.reaches(c, newID, visited) {
			return true
		}
	}
	return false
}
