// Package recalc implements the Recalc Engine (spec.md section 4.6): the
// runtime component that drives an individual's computed fields
// (Default, SetValue, Condition restrictions) to a fixed point by
// repeatedly evaluating the expression language against the graph and
// appending the resulting property events.
package recalc

import (
	"fmt"

	"github.com/ontograph/ontograph/internal/evgraph"
	"github.com/ontograph/ontograph/internal/expr"
	"github.com/ontograph/ontograph/internal/store"
)

// DefaultMaxIter is the fixpoint iteration cap spec.md section 4.6 names.
const DefaultMaxIter = 25

// field is one Attribute/Relation of the resolved model, with its
// restrictions keyed by kind.
type field struct {
	name         string
	restrictions map[string]string
}

// RecalcIndividual drives base's computed fields to their fixed point,
// appending new property events to s as actor (default "engine" when
// empty) and returning every event it produced, in emission order.
func RecalcIndividual(s *store.Store, base, actor string, maxIter int) ([]evgraph.Event, error) {
	if actor == "" {
		actor = evgraph.ActorEngine
	}
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}

	concept, ok := resolveConcept(s, base)
	if !ok {
		return nil, fmt.Errorf("%w: %s", evgraph.ErrUnknownIndividual, base)
	}

	modelName := resolveModelName(s, base, concept)
	modelEv, ok := resolveModelEvent(s, concept, modelName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", evgraph.ErrModelNotFound, modelName)
	}

	fields := loadFields(s, modelEv.ID)
	state := loadState(s, base, fields)

	var produced []evgraph.Event

	// Step 6: apply Defaults to any field whose current state is null.
	for _, f := range fields {
		def, ok := f.restrictions["Default"]
		if !ok {
			continue
		}
		if cur, present := state[f.name]; present && !evgraph.Coerce(cur).IsNil() {
			continue
		}
		ctx := expr.Context{State: state, CurrentActor: actor, CurrentIndividual: base}
		v, err := expr.EvalString(def, ctx)
		if err != nil || v == "" {
			continue
		}
		ev, err := s.Append(evgraph.Draft{Base: base, Type: f.name, Value: v, Model: modelName, Actor: actor})
		if err != nil {
			continue
		}
		state[f.name] = v
		produced = append(produced, ev)
	}

	// Step 7: build the dependency graph over fields that have SetValue or
	// Condition expressions, and topologically order them.
	names := make([]string, len(fields))
	byName := make(map[string]field, len(fields))
	deps := make(map[string][]string, len(fields))
	for i, f := range fields {
		names[i] = f.name
		byName[f.name] = f
		var fdeps []string
		if sv, ok := f.restrictions["SetValue"]; ok {
			fdeps = append(fdeps, expr.ExtractFieldRefsFromSource(sv)...)
		}
		if cond, ok := f.restrictions["Condition"]; ok {
			fdeps = append(fdeps, expr.ExtractFieldRefsFromSource(cond)...)
		}
		deps[f.name] = fdeps
	}
	order := topoSort(names, deps)

	// Step 8: iterate to fixpoint.
	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for _, name := range order {
			f := byName[name]
			setValue, ok := f.restrictions["SetValue"]
			if !ok {
				continue
			}
			if cond, ok := f.restrictions["Condition"]; ok {
				ctx := expr.Context{State: state, CurrentActor: actor, CurrentIndividual: base}
				truthy, err := expr.EvalBool(cond, ctx)
				if err != nil || !truthy {
					continue
				}
			}
			ctx := expr.Context{State: state, CurrentActor: actor, CurrentIndividual: base}
			v, err := expr.EvalString(setValue, ctx)
			if err != nil {
				continue
			}
			if current, ok := state[name]; ok && current == v {
				continue
			}
			ev, err := s.Append(evgraph.Draft{Base: base, Type: name, Value: v, Model: modelName, Actor: actor})
			if err != nil {
				continue
			}
			state[name] = v
			produced = append(produced, ev)
			changed = true
		}
		if !changed {
			return produced, nil
		}
	}
	s.Logger().Warn("recalc did not reach a fixed point", "individual", base, "maxIter", maxIter)
	return produced, nil
}

// resolveConcept finds the concept base declared the individual (i.e. the
// latest Individual event whose Value is base), returning that event's own
// Base — Individual events are recorded as {Base: concept, Value: individual
// id}, the same shape genesis/the BSL loaders use for every other
// structural declaration.
func resolveConcept(s *store.Store, base string) (string, bool) {
	var latest evgraph.Event
	found := false
	for _, ev := range s.List(store.Filter{Type: "Individual"}) {
		if ev.Value != base {
			continue
		}
		if !found || ev.Date > latest.Date {
			latest = ev
			found = true
		}
	}
	if !found {
		return "", false
	}
	return latest.Base, true
}

func resolveModelName(s *store.Store, base, concept string) string {
	if ev, ok := s.Latest(base, "SetModel"); ok {
		return ev.Value
	}
	return "Model " + concept
}

func resolveModelEvent(s *store.Store, concept, modelName string) (evgraph.Event, bool) {
	for _, ev := range s.List(store.Filter{Type: "Model", Base: concept}) {
		if ev.Value == modelName {
			return ev, true
		}
	}
	for _, ev := range s.List(store.Filter{Type: "Model"}) {
		if ev.Value == modelName {
			return ev, true
		}
	}
	return evgraph.Event{}, false
}

func loadFields(s *store.Store, modelID string) []field {
	var fields []field
	for _, typ := range [...]string{"Attribute", "Relation"} {
		for _, ev := range s.List(store.Filter{Type: typ}) {
			if !containsID(ev.Cause, modelID) {
				continue
			}
			fields = append(fields, field{name: ev.Value, restrictions: loadRestrictions(s, ev.ID)})
		}
	}
	return fields
}

func loadRestrictions(s *store.Store, fieldID string) map[string]string {
	out := make(map[string]string)
	latestDate := make(map[string]string)
	for _, ev := range s.List(store.Filter{}) {
		if !containsID(ev.Cause, fieldID) {
			continue
		}
		if d, ok := latestDate[ev.Type]; ok && d >= ev.Date {
			continue
		}
		out[ev.Type] = ev.Value
		latestDate[ev.Type] = ev.Date
	}
	return out
}

func loadState(s *store.Store, base string, fields []field) map[string]string {
	state := make(map[string]string, len(fields))
	for _, f := range fields {
		if ev, ok := s.Latest(base, f.name); ok {
			state[f.name] = ev.Value
		}
	}
	return state
}

func containsID(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}
