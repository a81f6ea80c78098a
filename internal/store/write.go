package store

import (
	"context"
	"fmt"

	"github.com/ontograph/ontograph/internal/evgraph"
	"github.com/ontograph/ontograph/internal/idgen"
)

// Append writes a new event, applying the auto-chain rule and the
// acyclicity check (spec.md section 4.1). It is the only entry point for
// user and system appends; the genesis loader's self-referential root
// event is the single documented exception and goes through
// AppendGenesisRoot instead (spec.md section 9, "Genesis self-reference").
func (s *Store) Append(d evgraph.Draft) (evgraph.Event, error) {
	ctx, span := traceAppend(context.Background(), d.Base, d.Type)
	s.mu.Lock()
	ev, err := s.appendLocked(d, false)
	s.mu.Unlock()
	endAppendSpan(ctx, span, err)
	return ev, err
}

// appendLocked performs the actual write. allowSelfCause permits the
// genesis root's self-referential cause list; every other caller must pass
// false.
func (s *Store) appendLocked(d evgraph.Draft, allowSelfCause bool) (evgraph.Event, error) {
	if d.Base == "" || d.Type == "" {
		return evgraph.Event{}, fmt.Errorf("%w: base and type are required", evgraph.ErrMalformedEvent)
	}

	ev := evgraph.Event{
		ID:      d.ID,
		Base:    d.Base,
		Type:    d.Type,
		Value:   d.Value,
		Actor:   d.Actor,
		Date:    d.Date,
		Cause:   evgraph.NormalizeCause(d.Cause),
		Model:   d.Model,
		Session: d.Session,
	}

	if ev.ID == "" {
		ev.ID = idgen.Fresh()
	}
	if _, exists := s.byID[ev.ID]; exists {
		return evgraph.Event{}, fmt.Errorf("%w: %s", evgraph.ErrDuplicateID, ev.ID)
	}
	if ev.Date == "" {
		ev.Date = s.clock.Now()
	}

	// Auto-chain rule: thread each actor's edit sequence into the DAG.
	if !evgraph.IsSystemActor(ev.Actor) {
		key := tripleKey{base: ev.Base, model: ev.Model, actor: ev.Actor}
		if prevIdxs := s.byTriple[key]; len(prevIdxs) > 0 {
			prevID := s.events[prevIdxs[len(prevIdxs)-1]].ID
			if !containsString(ev.Cause, prevID) {
				ev.Cause = append(ev.Cause, prevID)
			}
		}
	}

	if !allowSelfCause && s.wouldCycle(ev.ID, ev.Cause) {
		s.log.Debug("append rejected: would introduce a cycle", "id", ev.ID, "base", ev.Base, "type", ev.Type)
		return evgraph.Event{}, fmt.Errorf("%w: %s", evgraph.ErrCycleDetected, ev.ID)
	}
	if allowSelfCause {
		// Only the trivial direct self-reference is tolerated; anything
		// deeper is still a real cycle.
		for _, c := range ev.Cause {
			if c == ev.ID {
				continue
			}
			visited := map[string]bool{ev.ID: true}
			if s.reaches(c, ev.ID, visited) {
				return evgraph.Event{}, fmt.Errorf("%w: %s", evgraph.ErrCycleDetected, ev.ID)
			}
		}
	}

	s.index(ev)
	return ev, nil
}

// AppendGenesisRoot writes the single self-referential genesis root event
// (id==base==type==value==model=="Event", cause==["Event"]). It must only
// be called once, by the genesis loader, before any other event exists.
func (s *Store) AppendGenesisRoot(ev evgraph.Event) (evgraph.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) != 0 {
		return evgraph.Event{}, fmt.Errorf("AppendGenesisRoot called on non-empty store")
	}
	if _, exists := s.byID[ev.ID]; exists {
		return evgraph.Event{}, fmt.Errorf("%w: %s", evgraph.ErrDuplicateID, ev.ID)
	}
	ev.Cause = evgraph.NormalizeCause(ev.Cause)
	s.index(ev)
	s.genesisIDs[ev.ID] = true
	return ev, nil
}

// index appends ev to every structure the store maintains. Caller must hold
// the write lock.
func (s *Store) index(ev evgraph.Event) {
	idx := len(s.events)
	s.events = append(s.events, ev)
	s.byID[ev.ID] = idx
	s.byBase[ev.Base] = append(s.byBase[ev.Base], idx)
	s.byType[ev.Type] = append(s.byType[ev.Type], idx)
	if ev.Actor != "" {
		s.byActor[ev.Actor] = append(s.byActor[ev.Actor], idx)
	}
	if ev.Session != "" {
		s.bySession[ev.Session] = append(s.bySession[ev.Session], idx)
	}
	key := tripleKey{base: ev.Base, model: ev.Model, actor: ev.Actor}
	s.byTriple[key] = append(s.byTriple[key], idx)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
