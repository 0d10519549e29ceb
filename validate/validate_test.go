package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotslashderek/json-schema-llm/validate"
)

const personSchema = `{
	"type":"object",
	"properties":{
		"name":{"type":"string"},
		"age":{"type":"integer","minimum":0}
	},
	"required":["name","age"]
}`

func TestAgainst_Valid(t *testing.T) {
	violations, err := validate.Against([]byte(personSchema), map[string]any{
		"name": "ada",
		"age":  float64(36),
	})
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestAgainst_ReportsEveryViolation(t *testing.T) {
	violations, err := validate.Against([]byte(personSchema), map[string]any{
		"name": float64(1),
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(violations), 2, "wrong name type and missing age must both surface")
}

func TestAgainst_EnforcesPrunedConstraints(t *testing.T) {
	violations, err := validate.Against([]byte(personSchema), map[string]any{
		"name": "ada",
		"age":  float64(-1),
	})
	require.NoError(t, err)
	require.NotEmpty(t, violations)
}

func TestAgainst_UncompilableSchema(t *testing.T) {
	_, err := validate.Against([]byte(`{"type":123}`), map[string]any{})
	require.Error(t, err)
}

func TestChecker_CachesCompiledSchemas(t *testing.T) {
	c, err := validate.NewChecker(4)
	require.NoError(t, err)

	first, err := c.Compile([]byte(personSchema))
	require.NoError(t, err)
	second, err := c.Compile([]byte(personSchema))
	require.NoError(t, err)
	assert.Same(t, first, second)

	other, err := c.Compile([]byte(`{"type":"object"}`))
	require.NoError(t, err)
	assert.NotSame(t, first, other)
}

func TestNewChecker_RejectsNonPositiveSize(t *testing.T) {
	_, err := validate.NewChecker(0)
	require.Error(t, err)
}
