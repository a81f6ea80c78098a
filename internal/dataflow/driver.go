// Package dataflow implements the Dataflow Driver spec.md section 4.7
// describes only as an interface: something that repeatedly calls Recalc
// for individuals whose state may have changed, until no new events are
// produced or a maxIter cap is reached. The semantics beyond that are
// left to implementations; QueueDriver is this module's reference one.
package dataflow

import (
	"context"

	"github.com/ontograph/ontograph/internal/evgraph"
)

// Guard is a Condition restriction gating a field's SetValue — the
// "guard" the interface's listGuards()/listActiveGuards() expose. This
// reading (Condition-type restrictions, not some separate record kind)
// is this module's resolution of spec.md's otherwise-undefined term; see
// DESIGN.md.
type Guard struct {
	FieldBase string // the guarded field's concept, e.g. "Gate"
	Field     string // the field name the Condition gates, e.g. "signal"
	Condition string // the guard expression text
}

// Driver is the Dataflow Driver contract (spec.md section 4.7).
type Driver interface {
	// Step recalculates every individual currently queued as dirty, once
	// each, and returns whatever events that produced.
	Step(ctx context.Context) ([]evgraph.Event, error)

	// ToFixpoint calls Step repeatedly until a pass produces no events or
	// maxIter passes have run, returning the iteration count reached and
	// the concatenation of every pass's events.
	ToFixpoint(ctx context.Context, maxIter int) (int, []evgraph.Event, error)

	// Incremental marks the base of every event in events as dirty (its
	// state may have changed) and immediately runs one Step, returning
	// the events that step produced.
	Incremental(ctx context.Context, events []evgraph.Event) ([]evgraph.Event, error)

	// ListGuards returns every Condition restriction in the graph.
	ListGuards() []Guard

	// ListActiveGuards returns the subset of ListGuards whose condition
	// currently evaluates falsy for the individual it guards (i.e. is
	// presently blocking that field's SetValue).
	ListActiveGuards(ctx context.Context) []Guard
}
