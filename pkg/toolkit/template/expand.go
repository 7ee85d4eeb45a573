package template

import (
	"fmt"
	"os"
	"regexp"
)

// placeholderPattern matches both dialects in one alternation: $(name)
// in the first submatch, or ${NAME} / ${NAME|default} in the second and
// third. Names are alphanumerics and underscore; the default part may be
// empty and may contain anything except a closing brace. One combined
// pattern keeps expansion a true single pass - scanning per dialect would
// rescan the output of the earlier dialect.
var placeholderPattern = regexp.MustCompile(`\$\(([a-zA-Z_][a-zA-Z0-9_]*)\)|\$\{([a-zA-Z_][a-zA-Z0-9_]*)(\|[^}]*)?\}`)

// Expander expands placeholder patterns in strings.
//
// Create with NewExpander() and configure with Option functions.
// Expander is safe for concurrent use after construction.
type Expander struct {
	missingAction MissingAction
	localStyle    bool
	envStyle      bool
	envLookup     EnvLookup
	envDefaults   map[string]string
}

// NewExpander creates a new Expander with the given options.
//
// Default configuration:
//   - MissingAction: MissingKeep (keep placeholders as-is)
//   - LocalStyle: enabled ($(name))
//   - EnvStyle: enabled (${NAME}, ${NAME|default})
//   - EnvLookup: os.LookupEnv
func NewExpander(opts ...Option) *Expander {
	e := &Expander{
		missingAction: MissingKeep,
		localStyle:    true,
		envStyle:      true,
		envLookup:     os.LookupEnv,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Expand expands placeholder patterns in s using the provided local
// variable table. The local table may be nil.
//
// Substitution is a single pass: text produced by a substitution is never
// rescanned for further placeholders. Errors are only returned when
// MissingAction is MissingError and a placeholder resolves nowhere.
func (e *Expander) Expand(s string, locals map[string]any) (string, error) {
	if s == "" {
		return "", nil
	}

	var missingVars []string

	// One scan over the original string covers both dialects, so text
	// produced by a substitution is never rescanned - an environment value
	// containing "$(name)" stays verbatim.
	result := placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		sub := placeholderPattern.FindStringSubmatch(match)

		if sub[1] != "" {
			// Local style: $(name), resolved from the local table only.
			if !e.localStyle {
				return match
			}
			name := sub[1]
			if val, ok := locals[name]; ok {
				return fmt.Sprintf("%v", val)
			}
			return e.missing(name, match, &missingVars)
		}

		// Env style: ${NAME} or ${NAME|default}.
		if !e.envStyle {
			return match
		}
		name, def := sub[2], sub[3]
		if val, ok := e.envLookup(name); ok {
			return val
		}
		if val, ok := locals[name]; ok {
			return fmt.Sprintf("%v", val)
		}
		if val, ok := e.envDefaults[name]; ok {
			return val
		}
		if def != "" {
			return def[1:] // strip the leading pipe
		}
		return e.missing(name, match, &missingVars)
	})

	if len(missingVars) > 0 {
		return result, &UndefinedVariableError{Names: missingVars}
	}

	return result, nil
}

// missing applies the MissingAction to a placeholder that resolved
// nowhere, recording the name when the action is MissingError.
func (e *Expander) missing(name, match string, missingVars *[]string) string {
	switch e.missingAction {
	case MissingEmpty:
		return ""
	case MissingError:
		*missingVars = append(*missingVars, name)
		return match
	default: // MissingKeep
		return match
	}
}

// ExpandAll expands placeholder patterns in every string of ss.
//
// Returns a new slice with expanded strings. On error (with MissingError),
// returns nil and the first error.
func (e *Expander) ExpandAll(ss []string, locals map[string]any) ([]string, error) {
	if ss == nil {
		return nil, nil
	}

	results := make([]string, len(ss))
	for i, s := range ss {
		expanded, err := e.Expand(s, locals)
		if err != nil {
			return nil, err
		}
		results[i] = expanded
	}
	return results, nil
}

// ExpandMap expands placeholder patterns in every string scalar reachable
// from m, descending into nested maps and sequences.
//
// Returns a new map; m is never mutated. Non-string scalars are copied
// through unchanged.
func (e *Expander) ExpandMap(m map[string]any, locals map[string]any) (map[string]any, error) {
	if m == nil {
		return nil, nil
	}

	result := make(map[string]any, len(m))
	for k, v := range m {
		expanded, err := e.expandValue(v, locals)
		if err != nil {
			return nil, err
		}
		result[k] = expanded
	}
	return result, nil
}

// expandValue expands a single value, recursing into maps and slices.
func (e *Expander) expandValue(v any, locals map[string]any) (any, error) {
	switch val := v.(type) {
	case string:
		return e.Expand(val, locals)
	case map[string]any:
		return e.ExpandMap(val, locals)
	case []any:
		results := make([]any, len(val))
		for i, item := range val {
			expanded, err := e.expandValue(item, locals)
			if err != nil {
				return nil, err
			}
			results[i] = expanded
		}
		return results, nil
	default:
		return v, nil
	}
}

// defaultExpander backs the package-level convenience functions.
var defaultExpander = NewExpander()

// Expand expands placeholder patterns in s using the default expander.
//
// The default expander keeps unresolved placeholders verbatim, so no error
// is possible.
func Expand(s string, locals map[string]any) string {
	result, _ := defaultExpander.Expand(s, locals)
	return result
}

// ExpandMap expands all string scalars in m using the default expander.
func ExpandMap(m map[string]any, locals map[string]any) map[string]any {
	result, _ := defaultExpander.ExpandMap(m, locals)
	return result
}
