package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/skycore/toolkit/pkg/toolkit/observability"
)

// DefaultUserPaths is the ordered candidate list for user override files.
// Each entry is a path template where {name} is replaced by the logical
// configuration name and a leading ~ expands to the user's home directory.
// Candidates are probed with the .yaml extension first, then .yml; the
// first existing file wins and later candidates are ignored.
//
// The list is a default, not global state: pass WithUserPaths to override
// it per call (tests do exactly that).
var DefaultUserPaths = []string{
	"~/.config/toolkit/{name}",
	"~/.config/toolkit/{name}/{name}",
	"~/.{name}/{name}",
}

// userPathExtensions are tried in order for each candidate template.
var userPathExtensions = []string{".yaml", ".yml"}

// Config is a Map built by merging a base (package-shipped) configuration
// file with an optional user override file, user values winning
// key-by-key. It remembers both source paths so the merge can be re-run
// from disk.
//
// A Config is not safe against a Reload racing concurrent readers; callers
// sharing one across goroutines must synchronize around Reload.
type Config struct {
	Map

	name     string
	baseFile string
	userFile string
	readOpts []ReadOption
	mapOpts  []MapOption
	logger   *slog.Logger
	metrics  observability.MetricsRecorder
}

// getOptions collects GetConfig settings.
type getOptions struct {
	configFile string
	baseDir    string
	allowUser  bool
	envVar     string
	userPaths  []string
	readOpts   []ReadOption
	mapOpts    []MapOption
	logger     *slog.Logger
	metrics    observability.MetricsRecorder
}

// GetOption configures GetConfig and NewConfig.
type GetOption func(*getOptions)

// WithConfigFile sets an explicit base configuration file instead of the
// etc/<name> convention. The file must exist; an explicit path is never
// silently skipped.
func WithConfigFile(path string) GetOption {
	return func(o *getOptions) {
		o.configFile = path
	}
}

// WithConfigDir sets the directory holding the conventional base file
// etc/<name>.yml (or .yaml). Typically the directory of the calling
// package's data files. An absent conventional file just means an empty
// base.
func WithConfigDir(dir string) GetOption {
	return func(o *getOptions) {
		o.baseDir = dir
	}
}

// WithoutUserConfig disables the user override search; the result holds
// the base configuration only.
func WithoutUserConfig() GetOption {
	return func(o *getOptions) {
		o.allowUser = false
	}
}

// WithEnvVar overrides the name of the environment variable consulted for
// an explicit user override path.
//
// Default: <NAME>_CONFIG_PATH (name upper-cased, dashes mapped to
// underscores)
func WithEnvVar(name string) GetOption {
	return func(o *getOptions) {
		o.envVar = name
	}
}

// WithUserPaths replaces DefaultUserPaths for this call. Entries use the
// same {name} template syntax.
func WithUserPaths(paths ...string) GetOption {
	return func(o *getOptions) {
		o.userPaths = paths
	}
}

// WithReadOptions passes loader options through to both file reads, e.g.
// WithEnvDefaults for ${NAME} placeholder fallbacks.
func WithReadOptions(opts ...ReadOption) GetOption {
	return func(o *getOptions) {
		o.readOpts = append(o.readOpts, opts...)
	}
}

// WithStrict enables strict mode on the resulting mapping: missing dotted
// reads fail with *KeyError instead of returning the missing sentinel.
func WithStrict() GetOption {
	return func(o *getOptions) {
		o.mapOpts = append(o.mapOpts, WithStrictMode())
	}
}

// WithLogger sets a logger for load and reload events. A nil logger (the
// default) disables logging.
func WithLogger(logger *slog.Logger) GetOption {
	return func(o *getOptions) {
		o.logger = logger
	}
}

// WithMetrics sets a recorder for load metrics.
//
// Default: observability.NoopMetrics
func WithMetrics(recorder observability.MetricsRecorder) GetOption {
	return func(o *getOptions) {
		o.metrics = recorder
	}
}

// GetConfig resolves and loads the configuration for a logical name.
//
// The base file is either the explicit WithConfigFile path (missing is a
// *NotFoundError) or the conventional <baseDir>/etc/<name>.yml|.yaml
// (missing means an empty base). The user override, unless disabled, is
// the file named by the <NAME>_CONFIG_PATH environment variable or the
// first existing candidate from the user path list. The result is
// merge(base, user) with user values winning key-by-key.
func GetConfig(name string, opts ...GetOption) (*Config, error) {
	o := newGetOptions(opts)

	baseFile, err := resolveBaseFile(name, o)
	if err != nil {
		return nil, err
	}

	userFile := ""
	if o.allowUser {
		userFile, err = resolveUserFile(name, o)
		if err != nil {
			return nil, err
		}
	}

	c := &Config{
		name:     name,
		baseFile: baseFile,
		userFile: userFile,
		readOpts: o.readOpts,
		mapOpts:  o.mapOpts,
		logger:   o.logger,
		metrics:  o.metrics,
	}
	if err := c.Load(); err != nil {
		observability.LogConfigLoadError(c.logger, name, err)
		return nil, err
	}
	return c, nil
}

// NewConfig builds a Config from explicit file paths, bypassing the
// conventional search. Either path may be empty, meaning that side is
// absent; a non-empty path must exist. Only the strict, read-option,
// logger, and metrics options are meaningful here.
func NewConfig(baseFile, userFile string, opts ...GetOption) (*Config, error) {
	o := newGetOptions(opts)

	for _, path := range []string{baseFile, userFile} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			return nil, &NotFoundError{Path: path}
		}
	}

	c := &Config{
		baseFile: baseFile,
		userFile: userFile,
		readOpts: o.readOpts,
		mapOpts:  o.mapOpts,
		logger:   o.logger,
		metrics:  o.metrics,
	}
	if err := c.Load(); err != nil {
		observability.LogConfigLoadError(c.logger, c.name, err)
		return nil, err
	}
	return c, nil
}

func newGetOptions(opts []GetOption) getOptions {
	o := getOptions{
		allowUser: true,
		userPaths: DefaultUserPaths,
		metrics:   observability.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// resolveBaseFile picks the base configuration file, or "" when the
// conventional file is absent.
func resolveBaseFile(name string, o getOptions) (string, error) {
	if o.configFile != "" {
		if _, err := os.Stat(o.configFile); err != nil {
			return "", &NotFoundError{Path: o.configFile}
		}
		return o.configFile, nil
	}
	if o.baseDir == "" {
		return "", nil
	}
	for _, ext := range []string{".yml", ".yaml"} {
		candidate := filepath.Join(o.baseDir, "etc", name+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", nil
}

// resolveUserFile picks the user override file, or "" when none applies.
// The environment variable names an explicit path and must exist; the
// templated candidates are probed permissively.
func resolveUserFile(name string, o getOptions) (string, error) {
	envVar := o.envVar
	if envVar == "" {
		envVar = strings.ReplaceAll(strings.ToUpper(name), "-", "_") + "_CONFIG_PATH"
	}
	if path := os.Getenv(envVar); path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", &NotFoundError{Path: path}
		}
		return path, nil
	}

	for _, tmpl := range o.userPaths {
		base := expandUserPath(strings.ReplaceAll(tmpl, "{name}", name))
		for _, ext := range userPathExtensions {
			candidate := base + ext
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
	}
	return "", nil
}

// expandUserPath expands a leading ~ to the user's home directory.
func expandUserPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}

// BaseFile returns the base configuration file path, or "" when the base
// was absent.
func (c *Config) BaseFile() string {
	return c.baseFile
}

// UserFile returns the user override file path, or "" when no override
// matched.
func (c *Config) UserFile() string {
	return c.userFile
}

// Name returns the logical configuration name given to GetConfig, or ""
// for a Config built from explicit paths.
func (c *Config) Name() string {
	return c.name
}

// Load builds the mapping from the recorded file paths: the base document
// overlaid with the user document, user values winning. A recorded path
// that no longer exists is treated as absent, so a Config whose files were
// removed loads to its remaining (or empty) contents rather than failing.
// Malformed documents propagate the loader's *ParseError.
func (c *Config) Load() error {
	return c.load(false)
}

func (c *Config) load(reload bool) error {
	start := time.Now()

	base, err := c.readSide(c.baseFile)
	if err != nil {
		c.metrics.RecordConfigLoad(context.Background(), c.name, time.Since(start), err)
		return err
	}
	user, err := c.readSide(c.userFile)
	if err != nil {
		c.metrics.RecordConfigLoad(context.Background(), c.name, time.Since(start), err)
		return err
	}

	c.Map = *base.Merge(user)

	elapsed := time.Since(start)
	if reload {
		observability.LogConfigReload(c.logger, c.name, c.baseFile, c.userFile, elapsed)
	} else {
		observability.LogConfigLoad(c.logger, c.name, c.baseFile, c.userFile, elapsed)
	}
	c.metrics.RecordConfigLoad(context.Background(), c.name, elapsed, nil)
	return nil
}

// readSide loads one of the two configuration files, mapping an empty or
// vanished path to an empty mapping.
func (c *Config) readSide(path string) (*Map, error) {
	if path == "" {
		return New(nil, c.mapOpts...), nil
	}
	if _, err := os.Stat(path); err != nil {
		return New(nil, c.mapOpts...), nil
	}
	opts := append([]ReadOption{}, c.readOpts...)
	opts = append(opts, WithMapOptions(c.mapOpts...))
	return ReadFile(path, opts...)
}

// Reload re-runs Load against the same recorded paths, re-reading from
// disk and replacing the contents in place: references to this Config
// observe the new data. Reloads are logged distinctly from first loads.
// Racing a Reload with concurrent readers is the caller's problem to lock
// around.
func (c *Config) Reload() error {
	return c.load(true)
}
