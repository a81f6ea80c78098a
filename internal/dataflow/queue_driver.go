package dataflow

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ontograph/ontograph/internal/evgraph"
	"github.com/ontograph/ontograph/internal/expr"
	"github.com/ontograph/ontograph/internal/recalc"
	"github.com/ontograph/ontograph/internal/store"
)

// QueueDriver is the reference Dataflow Driver: a queue of "dirty"
// individual bases, drained one Step at a time, with every individual in
// a batch recalculated concurrently. Concurrency is safe because Recalc's
// only side effect is store.Append, which is already fully serialized
// (spec.md section 5, "single logical writer").
type QueueDriver struct {
	s       *store.Store
	actor   string
	maxIter int

	mu    sync.Mutex
	dirty map[string]bool
}

// NewQueueDriver constructs a driver over s. actor defaults to "engine"
// and perRecalcMaxIter defaults to recalc.DefaultMaxIter when zero.
func NewQueueDriver(s *store.Store, actor string, perRecalcMaxIter int) *QueueDriver {
	if actor == "" {
		actor = evgraph.ActorEngine
	}
	if perRecalcMaxIter <= 0 {
		perRecalcMaxIter = recalc.DefaultMaxIter
	}
	return &QueueDriver{s: s, actor: actor, maxIter: perRecalcMaxIter, dirty: make(map[string]bool)}
}

// Enqueue marks base as dirty for the next Step, without running one.
func (d *QueueDriver) Enqueue(base string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dirty[base] = true
}

func (d *QueueDriver) drain() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.dirty) == 0 {
		return nil
	}
	bases := make([]string, 0, len(d.dirty))
	for b := range d.dirty {
		bases = append(bases, b)
	}
	d.dirty = make(map[string]bool)
	return bases
}

// Step implements Driver.
func (d *QueueDriver) Step(ctx context.Context) ([]evgraph.Event, error) {
	bases := d.drain()
	if len(bases) == 0 {
		return nil, nil
	}

	results := make([][]evgraph.Event, len(bases))
	g, gctx := errgroup.WithContext(ctx)
	for i, base := range bases {
		i, base := i, base
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			events, err := recalc.RecalcIndividual(d.s, base, d.actor, d.maxIter)
			if err != nil {
				// A base that does not resolve (no Individual event, or
				// no model) is dropped from this pass rather than failing
				// the whole batch — recalc is best-effort per spec.md
				// section 4.6's "returns what was produced" posture.
				return nil
			}
			results[i] = events
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []evgraph.Event
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}

// ToFixpoint implements Driver.
func (d *QueueDriver) ToFixpoint(ctx context.Context, maxIter int) (int, []evgraph.Event, error) {
	if maxIter <= 0 {
		maxIter = recalc.DefaultMaxIter
	}
	var all []evgraph.Event
	for iter := 1; iter <= maxIter; iter++ {
		events, err := d.Step(ctx)
		if err != nil {
			return iter, all, err
		}
		all = append(all, events...)
		if len(events) == 0 {
			return iter, all, nil
		}
		// Any new property event may feed other fields; requeue its base
		// so a subsequent pass re-evaluates it against the latest state.
		for _, ev := range events {
			d.Enqueue(ev.Base)
		}
	}
	return maxIter, all, nil
}

// Incremental implements Driver.
func (d *QueueDriver) Incremental(ctx context.Context, events []evgraph.Event) ([]evgraph.Event, error) {
	for _, ev := range events {
		d.Enqueue(ev.Base)
	}
	return d.Step(ctx)
}

// ListGuards implements Driver: every Condition restriction currently in
// the graph.
func (d *QueueDriver) ListGuards() []Guard {
	var guards []Guard
	for _, ev := range d.s.List(store.Filter{Type: "Condition"}) {
		fieldID := firstCause(ev.Cause)
		fieldEv, err := d.s.Get(fieldID)
		if err != nil {
			continue
		}
		guards = append(guards, Guard{FieldBase: fieldEv.Base, Field: fieldEv.Value, Condition: ev.Value})
	}
	return guards
}

// ListActiveGuards implements Driver: guards whose condition currently
// evaluates falsy against at least one individual bound to the guarded
// field's concept, i.e. guards presently blocking that field.
func (d *QueueDriver) ListActiveGuards(ctx context.Context) []Guard {
	var active []Guard
	for _, guard := range d.ListGuards() {
		for _, ind := range d.s.List(store.Filter{Type: "Individual", Base: guard.FieldBase}) {
			state := individualState(d.s, ind.Value, guard.FieldBase)
			truthy, err := expr.EvalBool(guard.Condition, expr.Context{State: state, CurrentIndividual: ind.Value})
			if err == nil && !truthy {
				active = append(active, guard)
				break
			}
		}
	}
	return active
}

func firstCause(cause []string) string {
	if len(cause) == 0 {
		return ""
	}
	return cause[0]
}

// individualState loads every property value currently recorded for
// base's fields on concept, keyed by field name.
func individualState(s *store.Store, base, concept string) map[string]string {
	state := make(map[string]string)
	for _, typ := range [...]string{"Attribute", "Relation"} {
		for _, f := range s.List(store.Filter{Type: typ, Base: concept}) {
			if ev, ok := s.Latest(base, f.Value); ok {
				state[f.Value] = ev.Value
			}
		}
	}
	return state
}
