package dataflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ontograph/ontograph/internal/evgraph"
	"github.com/ontograph/ontograph/internal/store"
)

func seedModelT(t *testing.T) (*store.Store, string) {
	t.Helper()
	s := store.New(nil)
	mustAppend := func(d evgraph.Draft) evgraph.Event {
		ev, err := s.Append(d)
		require.NoError(t, err)
		return ev
	}
	concept := mustAppend(evgraph.Draft{Base: "Concept", Type: "Instance", Value: "T", Actor: "system"})
	model := mustAppend(evgraph.Draft{Base: "T", Type: "Model", Value: "Model T", Cause: concept.ID, Actor: "system"})
	fa := mustAppend(evgraph.Draft{Base: "T", Type: "Attribute", Value: "a", Cause: model.ID, Model: "Model T", Actor: "system"})
	mustAppend(evgraph.Draft{Base: "a", Type: "Default", Value: "10", Cause: fa.ID, Actor: "system"})
	fb := mustAppend(evgraph.Draft{Base: "T", Type: "Attribute", Value: "b", Cause: model.ID, Model: "Model T", Actor: "system"})
	mustAppend(evgraph.Draft{Base: "b", Type: "SetValue", Value: "$.a * 2", Cause: fb.ID, Actor: "system"})

	ind := mustAppend(evgraph.Draft{Base: "T", Type: "Individual", Value: "t1", Cause: concept.ID, Actor: "system"})
	mustAppend(evgraph.Draft{Base: "t1", Type: "SetModel", Value: "Model T", Cause: ind.ID, Actor: "system"})
	return s, "t1"
}

func TestQueueDriverStepDrainsEnqueuedBase(t *testing.T) {
	s, base := seedModelT(t)
	d := NewQueueDriver(s, "", 0)
	d.Enqueue(base)

	events, err := d.Step(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, events)

	bEv, ok := s.Latest(base, "b")
	require.True(t, ok)
	assert.Equal(t, "20", bEv.Value)
}

func TestQueueDriverStepEmptyQueueProducesNothing(t *testing.T) {
	s, _ := seedModelT(t)
	d := NewQueueDriver(s, "", 0)
	events, err := d.Step(context.Background())
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestQueueDriverToFixpointConverges(t *testing.T) {
	s, base := seedModelT(t)
	d := NewQueueDriver(s, "", 0)
	d.Enqueue(base)

	iterations, events, err := d.ToFixpoint(context.Background(), 10)
	require.NoError(t, err)
	assert.NotEmpty(t, events)
	assert.LessOrEqual(t, iterations, 10)

	// A further ToFixpoint call with nothing newly enqueued converges
	// immediately at the first pass.
	iterations, events, err = d.ToFixpoint(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, 1, iterations)
}

func TestQueueDriverIncremental(t *testing.T) {
	s, base := seedModelT(t)
	d := NewQueueDriver(s, "", 0)

	seed, err := s.Append(evgraph.Draft{Base: base, Type: "a", Value: "5", Actor: "alice"})
	require.NoError(t, err)

	events, err := d.Incremental(context.Background(), []evgraph.Event{seed})
	require.NoError(t, err)
	require.NotEmpty(t, events)

	bEv, ok := s.Latest(base, "b")
	require.True(t, ok)
	assert.Equal(t, "10", bEv.Value)
}

func TestQueueDriverListGuardsAndActiveGuards(t *testing.T) {
	s := store.New(nil)
	mustAppend := func(d evgraph.Draft) evgraph.Event {
		ev, err := s.Append(d)
		require.NoError(t, err)
		return ev
	}
	concept := mustAppend(evgraph.Draft{Base: "Concept", Type: "Instance", Value: "Gate", Actor: "system"})
	model := mustAppend(evgraph.Draft{Base: "Gate", Type: "Model", Value: "Model Gate", Cause: concept.ID, Actor: "system"})
	fa := mustAppend(evgraph.Draft{Base: "Gate", Type: "Attribute", Value: "open", Cause: model.ID, Model: "Model Gate", Actor: "system"})
	mustAppend(evgraph.Draft{Base: "open", Type: "Default", Value: "0", Cause: fa.ID, Actor: "system"})
	fb := mustAppend(evgraph.Draft{Base: "Gate", Type: "Attribute", Value: "signal", Cause: model.ID, Model: "Model Gate", Actor: "system"})
	mustAppend(evgraph.Draft{Base: "signal", Type: "SetValue", Value: `"go"`, Cause: fb.ID, Actor: "system"})
	mustAppend(evgraph.Draft{Base: "signal", Type: "Condition", Value: "$.open == 1", Cause: fb.ID, Actor: "system"})
	ind := mustAppend(evgraph.Draft{Base: "Gate", Type: "Individual", Value: "g1", Cause: concept.ID, Actor: "system"})
	mustAppend(evgraph.Draft{Base: "g1", Type: "SetModel", Value: "Model Gate", Cause: ind.ID, Actor: "system"})

	d := NewQueueDriver(s, "", 0)
	guards := d.ListGuards()
	require.Len(t, guards, 1)
	assert.Equal(t, "Gate", guards[0].FieldBase)
	assert.Equal(t, "signal", guards[0].Field)

	d.Enqueue("g1")
	_, err := d.Step(context.Background())
	require.NoError(t, err)

	active := d.ListActiveGuards(context.Background())
	require.Len(t, active, 1, "open's Default (0) leaves $.open == 1 false, so the guard on signal is currently active")
	assert.Equal(t, "signal", active[0].Field)
}
