package store

import (
	"fmt"

	"github.com/ontograph/ontograph/internal/evgraph"
)

// Get looks up a single event by id.
func (s *Store) Get(id string) (evgraph.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.byID[id]
	if !ok {
		return evgraph.Event{}, fmt.Errorf("%w: %s", evgraph.ErrNotFound, id)
	}
	return s.events[idx], nil
}

// Filter narrows List results by any subset of its non-empty fields.
type Filter struct {
	Base    string
	Type    string
	Actor   string
	Session string
}

func (f Filter) matches(ev evgraph.Event) bool {
	if f.Base != "" && ev.Base != f.Base {
		return false
	}
	if f.Type != "" && ev.Type != f.Type {
		return false
	}
	if f.Actor != "" && ev.Actor != f.Actor {
		return false
	}
	if f.Session != "" && ev.Session != f.Session {
		return false
	}
	return true
}

// narrowest picks the most selective index available for the filter, to
// avoid a full scan when only one field is set.
func (s *Store) narrowest(f Filter) ([]int, bool) {
	switch {
	case f.Base != "":
		idxs, ok := s.byBase[f.Base]
		return idxs, ok
	case f.Type != "":
		idxs, ok := s.byType[f.Type]
		return idxs, ok
	case f.Actor != "":
		idxs, ok := s.byActor[f.Actor]
		return idxs, ok
	case f.Session != "":
		idxs, ok := s.bySession[f.Session]
		return idxs, ok
	default:
		return nil, false
	}
}

// List returns events matching filter, ordered by Date ascending (matching
// insertion order, which the auto-chain/clock invariants keep monotonic
// enough for this purpose).
func (s *Store) List(f Filter) []evgraph.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idxs, ok := s.narrowest(f); ok {
		out := make([]evgraph.Event, 0, len(idxs))
		for _, idx := range idxs {
			if f.matches(s.events[idx]) {
				out = append(out, s.events[idx])
			}
		}
		return out
	}

	out := make([]evgraph.Event, 0, len(s.events))
	for _, ev := range s.events {
		if f.matches(ev) {
			out = append(out, ev)
		}
	}
	return out
}

// Since returns every event with Date strictly greater than date, in
// insertion order.
func (s *Store) Since(date string) []evgraph.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]evgraph.Event, 0)
	for _, ev := range s.events {
		if ev.Date > date {
			out = append(out, ev)
		}
	}
	return out
}

// Stats summarizes the store's content for diagnostics.
type Stats struct {
	Total       int
	Concepts    int
	Individuals int
	Models      int
	ByActor     map[string]int
}

// Stats computes the summary in Stats.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{Total: len(s.events), ByActor: make(map[string]int)}
	for _, ev := range s.events {
		if ev.Base == "Concept" && ev.Type == "Instance" {
			st.Concepts++
		}
		if ev.Type == "Individual" {
			st.Individuals++
		}
		if ev.Type == "Model" {
			st.Models++
		}
		if ev.Actor != "" {
			st.ByActor[ev.Actor]++
		}
	}
	return st
}

// Latest returns the most-recently-dated event with the given base and
// type, implementing spec.md invariant I5 ("latest value"). ok is false
// when no such event exists.
func (s *Store) Latest(base, typ string) (evgraph.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latestLocked(base, typ)
}

func (s *Store) latestLocked(base, typ string) (evgraph.Event, bool) {
	idxs := s.byBase[base]
	var best *evgraph.Event
	for _, idx := range idxs {
		ev := &s.events[idx]
		if ev.Type != typ {
			continue
		}
		if best == nil || ev.Date > best.Date {
			best = ev
		}
	}
	if best == nil {
		return evgraph.Event{}, false
	}
	return *best, true
}

// IsDeleted reports whether individual is currently marked deleted: the
// latest compensating-delete event for it (if any) has a truthy value
// (spec.md section 3, "Compensating delete").
func (s *Store) IsDeleted(individual string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idxs := s.byBase[individual]
	var latest *evgraph.Event
	for _, idx := range idxs {
		ev := &s.events[idx]
		if !evgraph.IsDeleteType(ev.Type) {
			continue
		}
		if latest == nil || ev.Date > latest.Date {
			latest = ev
		}
	}
	if latest == nil {
		return false
	}
	return evgraph.Truthy(latest.Value)
}
