package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ontograph/ontograph/internal/evgraph"
	"github.com/ontograph/ontograph/internal/store"
)

// seedPerson appends the Individual event plus one property event for base,
// mirroring how the BSL loader would shape a freshly-created individual.
func seedPerson(t *testing.T, s *store.Store, base string, age string) {
	t.Helper()
	_, err := s.Append(evgraph.Draft{Base: "Person", Type: "Individual", Value: base, Actor: evgraph.ActorSystem})
	require.NoError(t, err)
	_, err = s.Append(evgraph.Draft{Base: base, Type: "age", Value: age, Actor: evgraph.ActorSystem, Model: "Model Person"})
	require.NoError(t, err)
}

func TestQueryEqBaseAndGtField(t *testing.T) {
	s := store.New(nil)
	seedPerson(t, s, "john", "30")
	seedPerson(t, s, "mary", "40")

	q, err := ParseQuery(`$($EQ.$Base("Person"), $GT.age(35))`)
	require.NoError(t, err)

	results := q.Run(s)
	assert.NotContains(t, results, "john")
	assert.Contains(t, results, "mary")
}

func TestQueryAccessorChainScenarioS6(t *testing.T) {
	s := store.New(nil)
	seedPerson(t, s, "john", "30")
	seedPerson(t, s, "mary", "40")

	q, err := ParseQuery(`$($EQ.$Base("Person"), $GT.age(35))[-1].age`)
	require.NoError(t, err)

	values, scalar, err := q.Resolve(s)
	require.NoError(t, err)
	assert.True(t, scalar)
	require.Len(t, values, 1)
	assert.Equal(t, "40", values[0])
}

func TestQueryOr(t *testing.T) {
	s := store.New(nil)
	seedPerson(t, s, "john", "30")
	seedPerson(t, s, "mary", "40")

	q, err := ParseQuery(`$($OR($EQ.age("30"), $EQ.age("40")))`)
	require.NoError(t, err)
	results := q.Run(s)
	assert.ElementsMatch(t, []string{"john", "mary"}, results)
}

func TestQueryExcludesDeleted(t *testing.T) {
	s := store.New(nil)
	seedPerson(t, s, "john", "30")
	_, err := s.Append(evgraph.Draft{Base: "john", Type: "deleted", Value: "1", Actor: evgraph.ActorSystem})
	require.NoError(t, err)

	q, err := ParseQuery(`$($GT.age(0))`)
	require.NoError(t, err)
	results := q.Run(s)
	assert.NotContains(t, results, "john")
}
