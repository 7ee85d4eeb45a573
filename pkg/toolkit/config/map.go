package config

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Map is a mapping with dotted-path reads that recurse through nested
// mappings. It owns an internal map[string]any rather than exposing one;
// every nested mapping value stored in it is coerced to a child *Map at
// assignment time, so dotted access keeps working at any depth.
//
// Reads split the key on "." and descend one level per segment:
//
//	m := config.New(map[string]any{"a": map[string]any{"b": 1}})
//	v, _ := m.Get("a.b") // 1
//	v, _ = m.Get("a.c")  // nil (missing sentinel)
//
// Writes never split: Set stores the literal key and refuses keys that
// contain a dot (see ErrDottedAssignment). This read/write asymmetry is
// deliberate.
//
// Construct with New; the zero value is not usable.
//
// A Map is not safe for concurrent mutation; callers that share one across
// goroutines must synchronize externally.
type Map struct {
	data    map[string]any
	strict  bool
	coerce  bool
	missing any
}

// MapOption configures a Map at construction time. Settings propagate to
// every child Map the instance creates.
type MapOption func(*Map)

// WithStrictMode makes missing dotted-path reads fail with *KeyError
// instead of returning the missing sentinel.
func WithStrictMode() MapOption {
	return func(m *Map) {
		m.strict = true
	}
}

// WithoutCoercion disables the wrapping of nested mappings in child Maps.
// Nested values are then stored exactly as given; dotted reads still
// descend through raw map[string]any values.
func WithoutCoercion() MapOption {
	return func(m *Map) {
		m.coerce = false
	}
}

// WithMissingValue sets the sentinel returned by non-strict reads of a
// missing path.
//
// Default: nil
func WithMissingValue(v any) MapOption {
	return func(m *Map) {
		m.missing = v
	}
}

// New creates a Map from the given data. Nested mappings (including
// map[any]any as produced by some YAML parsers) are coerced recursively
// unless WithoutCoercion is given. The source map is copied, not retained.
func New(data map[string]any, opts ...MapOption) *Map {
	m := &Map{data: make(map[string]any, len(data)), coerce: true}
	for _, opt := range opts {
		opt(m)
	}
	for k, v := range data {
		m.data[k] = m.coerceValue(v)
	}
	return m
}

// spawn creates a Map with the receiver's settings from plain data.
func (m *Map) spawn(data map[string]any) *Map {
	n := &Map{
		data:    make(map[string]any, len(data)),
		strict:  m.strict,
		coerce:  m.coerce,
		missing: m.missing,
	}
	for k, v := range data {
		n.data[k] = n.coerceValue(v)
	}
	return n
}

// coerceValue converts nested mappings into child Maps, recursing through
// sequences so that a mapping buried in a list is coerced too.
func (m *Map) coerceValue(v any) any {
	if !m.coerce {
		return v
	}
	switch val := v.(type) {
	case *Map:
		return m.spawn(val.Raw())
	case map[string]any:
		return m.spawn(val)
	case map[any]any:
		converted := make(map[string]any, len(val))
		for k, vv := range val {
			converted[fmt.Sprint(k)] = vv
		}
		return m.spawn(converted)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = m.coerceValue(item)
		}
		return out
	default:
		return v
	}
}

// lookup walks a dotted path and reports whether it resolved.
func (m *Map) lookup(path string) (any, bool) {
	var cur any = m
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case *Map:
			v, ok := node.data[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case map[string]any:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = v
		default:
			// Descending into a scalar or sequence is a miss.
			return nil, false
		}
	}
	return cur, true
}

// Get resolves a dotted path. A missing path returns the missing sentinel
// (nil unless configured otherwise) in the default mode, or a *KeyError in
// strict mode.
func (m *Map) Get(path string) (any, error) {
	if v, ok := m.lookup(path); ok {
		return v, nil
	}
	if m.strict {
		return nil, &KeyError{Key: path}
	}
	return m.missing, nil
}

// GetDefault resolves a dotted path, returning def when the path does not
// resolve. It never fails, even in strict mode.
func (m *Map) GetDefault(path string, def any) any {
	if v, ok := m.lookup(path); ok {
		return v
	}
	return def
}

// Has reports whether a dotted path resolves.
func (m *Map) Has(path string) bool {
	_, ok := m.lookup(path)
	return ok
}

// Set stores the literal key with the given value, coercing nested
// mappings per the Map's settings. Keys containing a dot are rejected with
// an error wrapping ErrDottedAssignment: dotted strings are read syntax
// only, and storing one literally would usually be a silent mistake.
func (m *Map) Set(key string, value any) error {
	if strings.Contains(key, ".") {
		return fmt.Errorf("set %q: %w", key, ErrDottedAssignment)
	}
	m.data[key] = m.coerceValue(value)
	return nil
}

// Delete removes a literal top-level key. Deleting an absent key is a
// no-op.
func (m *Map) Delete(key string) {
	delete(m.data, key)
}

// Merge returns a copy of the receiver overlaid with other. For each key
// in other: when both sides hold a mapping the merge recurses; anything
// else (scalar, sequence, or type mismatch) is replaced by other's value
// outright. Neither operand is mutated.
func (m *Map) Merge(other *Map) *Map {
	if other == nil {
		return m.Copy()
	}
	return m.spawn(mergeTrees(m.Raw(), other.Raw()))
}

// MergeInPlace overlays other onto the receiver using Merge semantics,
// replacing the receiver's contents. other is not mutated.
func (m *Map) MergeInPlace(other *Map) {
	merged := m.Merge(other)
	m.data = merged.data
}

// Copy returns a deep copy of the Map with the same settings.
func (m *Map) Copy() *Map {
	return m.spawn(m.Raw())
}

// Raw returns the contents as a plain deep-copied map[string]any tree,
// with every child Map unwrapped.
func (m *Map) Raw() map[string]any {
	out := make(map[string]any, len(m.data))
	for k, v := range m.data {
		out[k] = rawValue(v)
	}
	return out
}

// rawValue deep-copies a stored value into plain Go structures.
func rawValue(v any) any {
	switch val := v.(type) {
	case *Map:
		return val.Raw()
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, vv := range val {
			out[k] = rawValue(vv)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = rawValue(item)
		}
		return out
	default:
		return v
	}
}

// mergeTrees merges two plain map trees, b winning key-by-key. Two
// mappings at the same key merge recursively; any other pairing takes b's
// value. The inputs are treated as owned by the caller and may be aliased
// into the result.
func mergeTrees(a, b map[string]any) map[string]any {
	out := make(map[string]any, len(a))
	for k, v := range a {
		out[k] = v
	}
	for k, bv := range b {
		if av, ok := out[k]; ok {
			am, aok := av.(map[string]any)
			bm, bok := bv.(map[string]any)
			if aok && bok {
				out[k] = mergeTrees(am, bm)
				continue
			}
		}
		out[k] = bv
	}
	return out
}

// Keys returns the top-level keys in sorted order. Iteration order carries
// no semantics; sorting just makes it deterministic.
func (m *Map) Keys() []string {
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of top-level keys.
func (m *Map) Len() int {
	return len(m.data)
}

// Sub returns the nested Map at a dotted path, or nil when the path does
// not resolve to a mapping. With coercion disabled the raw mapping is
// wrapped on the fly.
func (m *Map) Sub(path string) *Map {
	v, ok := m.lookup(path)
	if !ok {
		return nil
	}
	switch val := v.(type) {
	case *Map:
		return val
	case map[string]any:
		return m.spawn(val)
	default:
		return nil
	}
}

// String returns the string value at a dotted path, or defaultVal on a
// miss or type mismatch. The typed accessors never fail, strict mode
// included; use Get when a miss must be detected.
func (m *Map) String(path, defaultVal string) string {
	v, ok := m.lookup(path)
	if !ok {
		return defaultVal
	}
	if s, ok := v.(string); ok {
		return s
	}
	return defaultVal
}

// Int returns the integer value at a dotted path, or defaultVal on a miss
// or when the value is not a whole number.
func (m *Map) Int(path string, defaultVal int) int {
	v, ok := m.lookup(path)
	if !ok {
		return defaultVal
	}
	switch val := v.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		if val == float64(int(val)) {
			return int(val)
		}
	}
	return defaultVal
}

// Float returns the float value at a dotted path, or defaultVal on a miss
// or type mismatch.
func (m *Map) Float(path string, defaultVal float64) float64 {
	v, ok := m.lookup(path)
	if !ok {
		return defaultVal
	}
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case int64:
		return float64(val)
	}
	return defaultVal
}

// Bool returns the boolean value at a dotted path, or defaultVal on a miss
// or type mismatch.
func (m *Map) Bool(path string, defaultVal bool) bool {
	v, ok := m.lookup(path)
	if !ok {
		return defaultVal
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return defaultVal
}

// Duration returns the duration value at a dotted path, or defaultVal on a
// miss or when the value cannot be interpreted.
//
// Accepts:
//   - string: parsed with time.ParseDuration
//   - int, int64, float64: interpreted as seconds
//   - time.Duration: used directly
func (m *Map) Duration(path string, defaultVal time.Duration) time.Duration {
	v, ok := m.lookup(path)
	if !ok {
		return defaultVal
	}
	switch val := v.(type) {
	case string:
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	case int:
		return time.Duration(val) * time.Second
	case int64:
		return time.Duration(val) * time.Second
	case float64:
		return time.Duration(val * float64(time.Second))
	case time.Duration:
		return val
	}
	return defaultVal
}

// StringSlice returns the string slice at a dotted path, or defaultVal on
// a miss or when any element is not a string.
func (m *Map) StringSlice(path string, defaultVal []string) []string {
	v, ok := m.lookup(path)
	if !ok {
		return defaultVal
	}
	switch val := v.(type) {
	case []string:
		return val
	case []any:
		out := make([]string, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return defaultVal
			}
			out[i] = s
		}
		return out
	}
	return defaultVal
}
