package recalc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ontograph/ontograph/internal/evgraph"
	"github.com/ontograph/ontograph/internal/store"
)

// seedModelT builds concept T with fields a (Default 10), b (SetValue
// $.a * 2), c (SetValue $.b + 1) — spec.md scenario S3 verbatim.
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
	fc := mustAppend(evgraph.Draft{Base: "T", Type: "Attribute", Value: "c", Cause: model.ID, Model: "Model T", Actor: "system"})
	mustAppend(evgraph.Draft{Base: "c", Type: "SetValue", Value: "$.b + 1", Cause: fc.ID, Actor: "system"})

	ind := mustAppend(evgraph.Draft{Base: "T", Type: "Individual", Value: "t1", Cause: concept.ID, Actor: "system"})
	mustAppend(evgraph.Draft{Base: "t1", Type: "SetModel", Value: "Model T", Cause: ind.ID, Actor: "system"})

	return s, "t1"
}

func TestRecalcIndividualReachesFixpointS3(t *testing.T) {
	s, base := seedModelT(t)

	events, err := RecalcIndividual(s, base, "", 0)
	require.NoError(t, err)
	require.Len(t, events, 3)

	aEv, ok := s.Latest(base, "a")
	require.True(t, ok)
	assert.Equal(t, "10", aEv.Value)

	bEv, ok := s.Latest(base, "b")
	require.True(t, ok)
	assert.Equal(t, "20", bEv.Value)

	cEv, ok := s.Latest(base, "c")
	require.True(t, ok)
	assert.Equal(t, "21", cEv.Value)

	for _, ev := range events {
		assert.Equal(t, evgraph.ActorEngine, ev.Actor)
	}
}

func TestRecalcIndividualIsIdempotent(t *testing.T) {
	s, base := seedModelT(t)
	_, err := RecalcIndividual(s, base, "", 0)
	require.NoError(t, err)

	before := s.Count()
	events, err := RecalcIndividual(s, base, "", 0)
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, before, s.Count())
}

func TestRecalcIndividualUnknownFails(t *testing.T) {
	s := store.New(nil)
	_, err := RecalcIndividual(s, "nobody", "", 0)
	assert.ErrorIs(t, err, evgraph.ErrUnknownIndividual)
}

func TestRecalcIndividualConditionGuardsSetValue(t *testing.T) {
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

	_, err := RecalcIndividual(s, "g1", "", 0)
	require.NoError(t, err)
	_, ok := s.Latest("g1", "signal")
	assert.False(t, ok, "signal should stay unset while open's default (0) keeps the condition false")
}
