package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalStr(t *testing.T, src string, ctx Context) string {
	t.Helper()
	node, err := Parse(src)
	require.NoError(t, err)
	v, err := Eval(node, ctx)
	require.NoError(t, err)
	return v.String()
}

func TestFieldRefReadsLocalState(t *testing.T) {
	ctx := Context{State: map[string]string{"age": "30"}}
	assert.Equal(t, "30", evalStr(t, "$.age", ctx))
	assert.Equal(t, "30", evalStr(t, "$$.age", ctx))
}

func TestFieldRefMissingIsNull(t *testing.T) {
	ctx := Context{State: map[string]string{}}
	assert.Equal(t, "", evalStr(t, "$.missing", ctx))
}

func TestSpecialRefs(t *testing.T) {
	ctx := Context{Value: "42", CurrentActor: "alice", CurrentIndividual: "john"}
	assert.Equal(t, "42", evalStr(t, "$Value", ctx))
	assert.Equal(t, "alice", evalStr(t, "$CurrentActor", ctx))
	assert.Equal(t, "john", evalStr(t, "$CurrentIndividual", ctx))
}

func TestComparisonOperators(t *testing.T) {
	ctx := Context{State: map[string]string{"age": "30"}}
	assert.Equal(t, "true", evalStr(t, "$.age > 20", ctx))
	assert.Equal(t, "false", evalStr(t, "$.age < 20", ctx))
	assert.Equal(t, "true", evalStr(t, "$.age >= 30", ctx))
	assert.Equal(t, "true", evalStr(t, "$.age == 30", ctx))
	assert.Equal(t, "true", evalStr(t, "$.age === 30", ctx))
}

func TestLogicalOperators(t *testing.T) {
	ctx := Context{State: map[string]string{"age": "30", "active": "true"}}
	assert.Equal(t, "true", evalStr(t, "$.age > 20 && $.active == true", ctx))
	assert.Equal(t, "false", evalStr(t, "$.age > 20 && !($.active == true)", ctx))
	assert.Equal(t, "true", evalStr(t, "$.age < 20 || $.age > 25", ctx))
}

func TestTernary(t *testing.T) {
	ctx := Context{State: map[string]string{"age": "30"}}
	assert.Equal(t, "adult", evalStr(t, `$.age >= 18 ? "adult" : "minor"`, ctx))
}

func TestIsNaN(t *testing.T) {
	ctx := Context{State: map[string]string{"age": "thirty", "height": "180"}}
	assert.Equal(t, "true", evalStr(t, "isNaN($.age)", ctx))
	assert.Equal(t, "false", evalStr(t, "isNaN($.height)", ctx))
}

func TestExtractFieldRefs(t *testing.T) {
	node, err := Parse(`$.age > 20 && $.active == true ? $$.name : "unknown"`)
	require.NoError(t, err)
	refs := ExtractFieldRefs(node)
	assert.ElementsMatch(t, []string{"age", "active", "name"}, refs)
}

func TestExtractFieldRefsFromSourceBadExprReturnsNil(t *testing.T) {
	assert.Nil(t, ExtractFieldRefsFromSource("$.age >"))
}
