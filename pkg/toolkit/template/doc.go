/*
Package template provides placeholder expansion for configuration strings.

# Overview

template expands two placeholder dialects in strings:

  - $(name) - local style, resolved from a caller-supplied variable table
  - ${NAME} and ${NAME|default} - environment style, resolved from the
    process environment with an optional inline fallback

It is the substitution engine behind the config package's loader, but it can
be used standalone for any string that mixes literal text with variables.

# Basic Usage

Expand variables using the package-level function:

	result := template.Expand("$(greeting) world", map[string]any{"greeting": "hello"})
	// result: "hello world"

Environment placeholders consult the process environment:

	os.Setenv("REGION", "us-east")
	result = template.Expand("https://${REGION}.api.example.com", nil)
	// result: "https://us-east.api.example.com"

	result = template.Expand("${MISSING|fallback}", nil)
	// result: "fallback"

# Resolution Order

Environment-style placeholders resolve in a fixed order:

 1. The process environment (or the injected lookup function).
 2. The local variable table.
 3. Caller-supplied defaults (WithEnvDefaults).
 4. The inline |default text, if present.

Local-style $(name) placeholders resolve from the local table only. A
placeholder that resolves nowhere is handled per the MissingAction: kept
verbatim by default.

# Custom Expander

Create a custom expander for advanced scenarios:

	exp := template.NewExpander(
	    template.WithMissingAction(template.MissingError),
	    template.WithEnvLookup(fakeEnv), // deterministic tests
	)
	_, err := exp.Expand("$(undefined)", nil)
	// err: "undefined variable: undefined"

# Batch Expansion

ExpandMap walks a nested map (the shape produced by YAML parsing) and
expands every string scalar it finds, descending into nested maps and
sequences. ExpandAll does the same for a flat slice of strings.
*/
package template
