package template

// MissingAction specifies how to handle placeholders that resolve nowhere.
type MissingAction int

const (
	// MissingKeep keeps the placeholder text as-is when the variable is
	// not found. This is the default behavior.
	MissingKeep MissingAction = iota

	// MissingEmpty replaces the placeholder with an empty string when
	// the variable is not found.
	MissingEmpty

	// MissingError returns an error when a variable is not found.
	MissingError
)

// EnvLookup resolves an environment-style variable name. It follows the
// os.LookupEnv contract: the second return reports whether the name is set.
type EnvLookup func(name string) (string, bool)

// Option configures an Expander.
type Option func(*Expander)

// WithMissingAction sets how unresolved placeholders are handled.
//
// Default: MissingKeep (keep placeholder text as-is)
func WithMissingAction(action MissingAction) Option {
	return func(e *Expander) {
		e.missingAction = action
	}
}

// WithLocalStyle enables or disables $(name) pattern expansion.
//
// Default: true (enabled)
func WithLocalStyle(enabled bool) Option {
	return func(e *Expander) {
		e.localStyle = enabled
	}
}

// WithEnvStyle enables or disables ${NAME} and ${NAME|default} pattern
// expansion.
//
// Default: true (enabled)
func WithEnvStyle(enabled bool) Option {
	return func(e *Expander) {
		e.envStyle = enabled
	}
}

// WithEnvLookup replaces the process-environment lookup used for
// environment-style placeholders. Inject a fake lookup to make expansion
// deterministic in tests.
//
// Default: os.LookupEnv
func WithEnvLookup(lookup EnvLookup) Option {
	return func(e *Expander) {
		e.envLookup = lookup
	}
}

// WithEnvDefaults supplies fallback values for environment-style
// placeholders. A default applies only when the name is unset in the
// environment and absent from the local table, and it outranks an inline
// |default.
func WithEnvDefaults(defaults map[string]string) Option {
	return func(e *Expander) {
		e.envDefaults = defaults
	}
}
