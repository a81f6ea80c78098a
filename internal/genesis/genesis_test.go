package genesis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ontograph/ontograph/internal/evgraph"
	"github.com/ontograph/ontograph/internal/store"
)

func TestLoadIfEmptyPopulatesRoot(t *testing.T) {
	s := store.New(nil)
	count, err := LoadIfEmpty(s)
	require.NoError(t, err)
	assert.Greater(t, count, 100)

	root, err := s.Get("Event")
	require.NoError(t, err)
	assert.Equal(t, evgraph.Event{
		ID: "Event", Base: "Event", Type: "Event", Value: "Event",
		Cause: []string{"Event"}, Model: "Event", Date: root.Date, Actor: evgraph.ActorGenesis,
	}, root)
	assert.True(t, s.IsGenesisID("Event"))
}

func TestLoadIfEmptyIsNoOpWhenNonEmpty(t *testing.T) {
	s := store.New(nil)
	_, err := LoadIfEmpty(s)
	require.NoError(t, err)
	before := s.Count()

	count, err := LoadIfEmpty(s)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, before, s.Count())
}

func TestLoadIfEmptyIncludesBulkFiles(t *testing.T) {
	s := store.New(nil)
	_, err := LoadIfEmpty(s)
	require.NoError(t, err)

	events := s.List(store.Filter{Base: "Person"})
	assert.NotEmpty(t, events)
	assert.True(t, s.IsSystemID(events[0].ID))
}

func TestGenesisTableHasNoDuplicateIDs(t *testing.T) {
	seen := make(map[string]bool)
	for _, e := range Table {
		assert.Falsef(t, seen[e.id], "duplicate genesis id %q", e.id)
		seen[e.id] = true
	}
}
