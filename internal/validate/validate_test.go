package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ontograph/ontograph/internal/evgraph"
	"github.com/ontograph/ontograph/internal/store"
)

// seedPersonModel builds a minimal Person/Model Person schema with a
// Unique email field and a Required name field, mirroring spec.md's S5
// scenario.
func seedPersonModel(t *testing.T) *store.Store {
	t.Helper()
	s := store.New(nil)

	mustAppend := func(d evgraph.Draft) evgraph.Event {
		ev, err := s.Append(d)
		require.NoError(t, err)
		return ev
	}

	concept := mustAppend(evgraph.Draft{Base: "Concept", Type: "Instance", Value: "Person", Actor: "system"})
	model := mustAppend(evgraph.Draft{Base: "Person", Type: "Model", Value: "Model Person", Cause: concept.ID, Actor: "system"})
	nameField := mustAppend(evgraph.Draft{Base: "Person", Type: "Attribute", Value: "name", Cause: model.ID, Model: "Model Person", Actor: "system"})
	mustAppend(evgraph.Draft{Base: "name", Type: "Required", Value: "1", Cause: nameField.ID, Actor: "system"})
	emailField := mustAppend(evgraph.Draft{Base: "Person", Type: "Attribute", Value: "email", Cause: model.ID, Model: "Model Person", Actor: "system"})
	mustAppend(evgraph.Draft{Base: "email", Type: "Unique", Value: "1", Cause: emailField.ID, Actor: "system"})

	mustAppend(evgraph.Draft{Base: "Person", Type: "Individual", Value: "john", Cause: concept.ID, Actor: "system"})
	mustAppend(evgraph.Draft{Base: "john", Type: "SetModel", Value: "Model Person", Actor: "system"})
	mustAppend(evgraph.Draft{Base: "Person", Type: "Individual", Value: "mary", Cause: concept.ID, Actor: "system"})
	mustAppend(evgraph.Draft{Base: "mary", Type: "SetModel", Value: "Model Person", Actor: "system"})

	return s
}

func TestValidateRequiredEmptyFails(t *testing.T) {
	s := seedPersonModel(t)
	errs := ValidateEvent(s, evgraph.Draft{Base: "john", Type: "name", Value: "", Model: "Model Person", Actor: "alice"})
	require.Len(t, errs, 1)
	assert.Equal(t, CodeValueRequired, errs[0].Code)
}

func TestValidateRequiredPresentPasses(t *testing.T) {
	s := seedPersonModel(t)
	errs := ValidateEvent(s, evgraph.Draft{Base: "john", Type: "name", Value: "John Doe", Model: "Model Person", Actor: "alice"})
	assert.Empty(t, errs)
}

// TestValidateUniqueViolation grounds spec.md scenario S5: two Persons
// attempting the same email under Unique=1; the first succeeds, the
// second is rejected with VALUE_003.
func TestValidateUniqueViolation(t *testing.T) {
	s := seedPersonModel(t)

	errs := ValidateEvent(s, evgraph.Draft{Base: "john", Type: "email", Value: "a@b", Model: "Model Person", Actor: "alice"})
	require.Empty(t, errs)
	_, err := s.Append(evgraph.Draft{Base: "john", Type: "email", Value: "a@b", Model: "Model Person", Actor: "alice"})
	require.NoError(t, err)

	errs = ValidateEvent(s, evgraph.Draft{Base: "mary", Type: "email", Value: "a@b", Model: "Model Person", Actor: "alice"})
	require.Len(t, errs, 1)
	assert.Equal(t, CodeValueNotUnique, errs[0].Code)
}

func TestValidateDataTypeNumeric(t *testing.T) {
	s := store.New(nil)
	mustAppend := func(d evgraph.Draft) evgraph.Event {
		ev, err := s.Append(d)
		require.NoError(t, err)
		return ev
	}
	concept := mustAppend(evgraph.Draft{Base: "Concept", Type: "Instance", Value: "Widget", Actor: "system"})
	model := mustAppend(evgraph.Draft{Base: "Widget", Type: "Model", Value: "Model Widget", Cause: concept.ID, Actor: "system"})
	field := mustAppend(evgraph.Draft{Base: "Widget", Type: "Attribute", Value: "count", Cause: model.ID, Model: "Model Widget", Actor: "system"})
	mustAppend(evgraph.Draft{Base: "count", Type: "DataType", Value: "Numeric", Cause: field.ID, Actor: "system"})
	mustAppend(evgraph.Draft{Base: "Widget", Type: "Individual", Value: "w1", Cause: concept.ID, Actor: "system"})

	errs := ValidateEvent(s, evgraph.Draft{Base: "w1", Type: "count", Value: "not-a-number", Model: "Model Widget", Actor: "alice"})
	require.Len(t, errs, 1)
	assert.Equal(t, CodeValueInvalid, errs[0].Code)

	errs = ValidateEvent(s, evgraph.Draft{Base: "w1", Type: "count", Value: "42", Model: "Model Widget", Actor: "alice"})
	assert.Empty(t, errs)
}

func TestValidatePermissionDeniedWithoutAdminRole(t *testing.T) {
	s := store.New(nil)
	mustAppend := func(d evgraph.Draft) evgraph.Event {
		ev, err := s.Append(d)
		require.NoError(t, err)
		return ev
	}
	concept := mustAppend(evgraph.Draft{Base: "Concept", Type: "Instance", Value: "Secret", Actor: "system"})
	model := mustAppend(evgraph.Draft{Base: "Secret", Type: "Model", Value: "Model Secret", Cause: concept.ID, Actor: "system"})
	field := mustAppend(evgraph.Draft{Base: "Secret", Type: "Attribute", Value: "key", Cause: model.ID, Model: "Model Secret", Actor: "system"})
	mustAppend(evgraph.Draft{Base: "key", Type: "Permission", Value: "trusted", Cause: field.ID, Actor: "system"})
	mustAppend(evgraph.Draft{Base: "Secret", Type: "Individual", Value: "s1", Cause: concept.ID, Actor: "system"})

	errs := ValidateEvent(s, evgraph.Draft{Base: "s1", Type: "key", Value: "v", Model: "Model Secret", Actor: "outsider"})
	require.Len(t, errs, 1)
	assert.Equal(t, CodeSemanticPermission, errs[0].Code)

	errs = ValidateEvent(s, evgraph.Draft{Base: "s1", Type: "key", Value: "v", Model: "Model Secret", Actor: "trusted"})
	assert.Empty(t, errs)
}

func TestValidateSkipsSystemActorsAndStructuralTypes(t *testing.T) {
	s := seedPersonModel(t)
	assert.Empty(t, ValidateEvent(s, evgraph.Draft{Base: "john", Type: "name", Value: "", Model: "Model Person", Actor: "system"}))
	assert.Empty(t, ValidateEvent(s, evgraph.Draft{Base: "Person", Type: "Individual", Value: "new-person", Actor: "alice"}))
}
