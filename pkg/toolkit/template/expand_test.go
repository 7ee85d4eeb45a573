package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEnv returns an EnvLookup backed by a map, for deterministic tests.
func fakeEnv(vars map[string]string) EnvLookup {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

// TestExpand_LocalStyle tests $(name) pattern expansion.
func TestExpand_LocalStyle(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		locals   map[string]any
		expected string
	}{
		{
			name:     "simple variable",
			input:    "$(greeting) world",
			locals:   map[string]any{"greeting": "hello"},
			expected: "hello world",
		},
		{
			name:     "multiple variables",
			input:    "$(a)-$(b)",
			locals:   map[string]any{"a": "left", "b": "right"},
			expected: "left-right",
		},
		{
			name:     "whole string",
			input:    "$(value)",
			locals:   map[string]any{"value": "everything"},
			expected: "everything",
		},
		{
			name:     "numeric value",
			input:    "port: $(port)",
			locals:   map[string]any{"port": 8080},
			expected: "port: 8080",
		},
		{
			name:     "missing kept verbatim",
			input:    "$(missing) stays",
			locals:   map[string]any{},
			expected: "$(missing) stays",
		},
		{
			name:     "nil table kept verbatim",
			input:    "$(missing)",
			locals:   nil,
			expected: "$(missing)",
		},
		{
			name:     "underscore and digits in name",
			input:    "$(my_var1)",
			locals:   map[string]any{"my_var1": "value"},
			expected: "value",
		},
		{
			name:     "no placeholders",
			input:    "plain text",
			locals:   map[string]any{"plain": "x"},
			expected: "plain text",
		},
		{
			name:     "empty string",
			input:    "",
			locals:   map[string]any{"a": "b"},
			expected: "",
		},
	}

	exp := NewExpander(WithEnvLookup(fakeEnv(nil)))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := exp.Expand(tt.input, tt.locals)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// TestExpand_EnvStyle tests ${NAME} and ${NAME|default} pattern expansion.
func TestExpand_EnvStyle(t *testing.T) {
	env := fakeEnv(map[string]string{
		"HOME_DIR": "/home/user",
		"REGION":   "us-east",
		"EMPTY":    "",
	})

	tests := []struct {
		name     string
		input    string
		locals   map[string]any
		expected string
	}{
		{
			name:     "env variable set",
			input:    "${REGION}",
			expected: "us-east",
		},
		{
			name:     "embedded in string",
			input:    "${HOME_DIR}/Downloads",
			expected: "/home/user/Downloads",
		},
		{
			name:     "set env wins over default",
			input:    "${REGION|eu-west}",
			expected: "us-east",
		},
		{
			name:     "unset falls back to default",
			input:    "${MISSING|fallback}",
			expected: "fallback",
		},
		{
			name:     "empty but set env value is used",
			input:    "x${EMPTY}y",
			expected: "xy",
		},
		{
			name:     "unset without default kept verbatim",
			input:    "${MISSING} stays",
			expected: "${MISSING} stays",
		},
		{
			name:     "local table fills unset env",
			input:    "${MISSING}",
			locals:   map[string]any{"MISSING": "from-locals"},
			expected: "from-locals",
		},
		{
			name:     "local table wins over inline default",
			input:    "${MISSING|inline}",
			locals:   map[string]any{"MISSING": "from-locals"},
			expected: "from-locals",
		},
		{
			name:     "default may contain path separators",
			input:    "${DATA_DIR|/var/lib/data}",
			expected: "/var/lib/data",
		},
		{
			name:     "default may be empty",
			input:    "x${MISSING|}y",
			expected: "xy",
		},
	}

	exp := NewExpander(WithEnvLookup(env))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := exp.Expand(tt.input, tt.locals)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// TestExpand_EnvDefaults tests caller-supplied environment defaults.
func TestExpand_EnvDefaults(t *testing.T) {
	exp := NewExpander(
		WithEnvLookup(fakeEnv(map[string]string{"SET": "env-value"})),
		WithEnvDefaults(map[string]string{"SET": "unused", "UNSET": "caller-default"}),
	)

	result, err := exp.Expand("${SET} ${UNSET}", nil)
	require.NoError(t, err)
	assert.Equal(t, "env-value caller-default", result)

	// Caller defaults sit above the inline default.
	result, err = exp.Expand("${UNSET|inline}", nil)
	require.NoError(t, err)
	assert.Equal(t, "caller-default", result)
}

// TestExpand_SinglePass verifies substituted text is not rescanned,
// within a dialect and across dialects in both directions.
func TestExpand_SinglePass(t *testing.T) {
	t.Run("local value holding a local placeholder", func(t *testing.T) {
		exp := NewExpander(WithEnvLookup(fakeEnv(nil)))

		result, err := exp.Expand("$(outer)", map[string]any{
			"outer": "$(inner)",
			"inner": "should not appear",
		})
		require.NoError(t, err)
		assert.Equal(t, "$(inner)", result)
	})

	t.Run("env value holding a local placeholder", func(t *testing.T) {
		exp := NewExpander(WithEnvLookup(fakeEnv(map[string]string{
			"OUTER": "$(inner)",
		})))

		result, err := exp.Expand("${OUTER}", map[string]any{
			"inner": "should not appear",
		})
		require.NoError(t, err)
		assert.Equal(t, "$(inner)", result)
	})

	t.Run("local value holding an env placeholder", func(t *testing.T) {
		exp := NewExpander(WithEnvLookup(fakeEnv(map[string]string{
			"INNER": "should not appear",
		})))

		result, err := exp.Expand("$(outer)", map[string]any{
			"outer": "${INNER}",
		})
		require.NoError(t, err)
		assert.Equal(t, "${INNER}", result)
	})
}

// TestExpand_MissingActions tests the three MissingAction policies.
func TestExpand_MissingActions(t *testing.T) {
	t.Run("keep", func(t *testing.T) {
		exp := NewExpander(WithEnvLookup(fakeEnv(nil)))
		result, err := exp.Expand("$(a) ${B}", nil)
		require.NoError(t, err)
		assert.Equal(t, "$(a) ${B}", result)
	})

	t.Run("empty", func(t *testing.T) {
		exp := NewExpander(
			WithEnvLookup(fakeEnv(nil)),
			WithMissingAction(MissingEmpty),
		)
		result, err := exp.Expand("[$(a)][${B}]", nil)
		require.NoError(t, err)
		assert.Equal(t, "[][]", result)
	})

	t.Run("error", func(t *testing.T) {
		exp := NewExpander(
			WithEnvLookup(fakeEnv(nil)),
			WithMissingAction(MissingError),
		)
		_, err := exp.Expand("$(a) ${B}", nil)
		require.Error(t, err)

		var undefErr *UndefinedVariableError
		require.ErrorAs(t, err, &undefErr)
		assert.ElementsMatch(t, []string{"a", "B"}, undefErr.Names)
	})

	t.Run("error with inline default does not trigger", func(t *testing.T) {
		exp := NewExpander(
			WithEnvLookup(fakeEnv(nil)),
			WithMissingAction(MissingError),
		)
		result, err := exp.Expand("${B|ok}", nil)
		require.NoError(t, err)
		assert.Equal(t, "ok", result)
	})
}

// TestExpand_StyleToggles tests disabling each dialect.
func TestExpand_StyleToggles(t *testing.T) {
	locals := map[string]any{"name": "value"}
	env := fakeEnv(map[string]string{"NAME": "env-value"})

	t.Run("local style disabled", func(t *testing.T) {
		exp := NewExpander(WithEnvLookup(env), WithLocalStyle(false))
		result, err := exp.Expand("$(name) ${NAME}", locals)
		require.NoError(t, err)
		assert.Equal(t, "$(name) env-value", result)
	})

	t.Run("env style disabled", func(t *testing.T) {
		exp := NewExpander(WithEnvLookup(env), WithEnvStyle(false))
		result, err := exp.Expand("$(name) ${NAME}", locals)
		require.NoError(t, err)
		assert.Equal(t, "value ${NAME}", result)
	})
}

// TestExpandAll tests batch expansion of string slices.
func TestExpandAll(t *testing.T) {
	exp := NewExpander(WithEnvLookup(fakeEnv(nil)))
	locals := map[string]any{"env": "prod"}

	results, err := exp.ExpandAll([]string{"$(env)-api", "$(env)-db"}, locals)
	require.NoError(t, err)
	assert.Equal(t, []string{"prod-api", "prod-db"}, results)

	results, err = exp.ExpandAll(nil, locals)
	require.NoError(t, err)
	assert.Nil(t, results)
}

// TestExpandMap tests recursive expansion over nested structures.
func TestExpandMap(t *testing.T) {
	exp := NewExpander(WithEnvLookup(fakeEnv(map[string]string{"HOST": "db.local"})))
	locals := map[string]any{"user": "admin"}

	input := map[string]any{
		"url":  "postgres://$(user)@${HOST}:5432",
		"port": 5432,
		"nested": map[string]any{
			"greeting": "$(user) says hi",
		},
		"list": []any{"$(user)", 1, map[string]any{"inner": "${HOST}"}},
	}

	result, err := exp.ExpandMap(input, locals)
	require.NoError(t, err)

	assert.Equal(t, "postgres://admin@db.local:5432", result["url"])
	assert.Equal(t, 5432, result["port"])
	nested := result["nested"].(map[string]any)
	assert.Equal(t, "admin says hi", nested["greeting"])
	list := result["list"].([]any)
	assert.Equal(t, "admin", list[0])
	assert.Equal(t, 1, list[1])
	assert.Equal(t, "db.local", list[2].(map[string]any)["inner"])

	// Input must not be mutated.
	assert.Equal(t, "postgres://$(user)@${HOST}:5432", input["url"])
}

// TestExpand_PackageLevel tests the convenience functions.
func TestExpand_PackageLevel(t *testing.T) {
	result := Expand("$(greeting) world", map[string]any{"greeting": "hello"})
	assert.Equal(t, "hello world", result)

	m := ExpandMap(map[string]any{"k": "$(v)"}, map[string]any{"v": "x"})
	assert.Equal(t, "x", m["k"])
}
