package config

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/skycore/toolkit/pkg/toolkit/template"
)

// readOptions collects loader settings.
type readOptions struct {
	baseDir        string
	useVariables   bool
	stripVariables bool
	envDefaults    map[string]string
	mapOpts        []MapOption
}

// ReadOption configures ReadFile and Read.
type ReadOption func(*readOptions)

// WithBaseDir sets the directory against which a relative #!extends target
// is resolved. ReadFile defaults it to the document's own directory; Read
// has no default, so stream input with a relative extends target needs
// this option (or an absolute target).
func WithBaseDir(dir string) ReadOption {
	return func(o *readOptions) {
		o.baseDir = dir
	}
}

// WithoutVariables disables the placeholder substitution pass.
func WithoutVariables() ReadOption {
	return func(o *readOptions) {
		o.useVariables = false
	}
}

// WithStrippedVariables removes the top-level "variables" section from the
// result after substitution. By default the section is retained.
func WithStrippedVariables() ReadOption {
	return func(o *readOptions) {
		o.stripVariables = true
	}
}

// WithEnvDefaults supplies fallback values for ${NAME} placeholders whose
// name is unset in the environment. See the template package for the full
// resolution order.
func WithEnvDefaults(defaults map[string]string) ReadOption {
	return func(o *readOptions) {
		o.envDefaults = defaults
	}
}

// WithMapOptions passes Map construction options through to the result,
// e.g. WithStrictMode or WithoutCoercion.
func WithMapOptions(opts ...MapOption) ReadOption {
	return func(o *readOptions) {
		o.mapOpts = append(o.mapOpts, opts...)
	}
}

// ReadFile reads a YAML document from path, resolving any #!extends chain
// and applying placeholder substitution.
//
// A nonexistent path is a *NotFoundError; malformed YAML is a *ParseError.
// An empty document (zero bytes, or one that parses to null) yields an
// empty Map.
func ReadFile(path string, opts ...ReadOption) (*Map, error) {
	o := newReadOptions(opts)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if o.baseDir == "" {
		o.baseDir = filepath.Dir(path)
	}
	return load(data, path, o)
}

// Read reads a YAML document from r with the same semantics as ReadFile.
// Relative #!extends targets resolve against WithBaseDir, or the working
// directory when unset.
func Read(r io.Reader, opts ...ReadOption) (*Map, error) {
	o := newReadOptions(opts)
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read yaml stream: %w", err)
	}
	return load(data, "", o)
}

func newReadOptions(opts []ReadOption) readOptions {
	o := readOptions{useVariables: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// load parses a document, resolves its extends chain, and runs the
// substitution pass over the fully merged result.
func load(data []byte, source string, o readOptions) (*Map, error) {
	raw, err := resolveDocument(data, source, o.baseDir)
	if err != nil {
		return nil, err
	}

	if o.useVariables {
		locals, _ := raw["variables"].(map[string]any)
		exp := template.NewExpander(template.WithEnvDefaults(o.envDefaults))
		raw, err = exp.ExpandMap(raw, locals)
		if err != nil {
			return nil, err
		}
	}

	if o.stripVariables {
		delete(raw, "variables")
	}

	return New(raw, o.mapOpts...), nil
}

// resolveDocument parses one document and merges it with its #!extends
// base, root-to-leaf. The base document's keys win for overlapping paths;
// the derived document only contributes keys the base lacks. That
// direction is the long-standing contract of the directive, pinned by
// tests - do not flip it toward child-wins.
//
// A chain is linear resolution only; a cycle between documents is the
// author's error and will exhaust the stack rather than being detected.
func resolveDocument(data []byte, source, baseDir string) (map[string]any, error) {
	doc, err := parseYAML(data, source)
	if err != nil {
		return nil, err
	}

	target, ok := extendsTarget(data)
	if !ok {
		return doc, nil
	}

	if !filepath.IsAbs(target) && baseDir != "" {
		target = filepath.Join(baseDir, target)
	}
	baseData, err := os.ReadFile(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: target}
		}
		return nil, fmt.Errorf("read extends target %s: %w", target, err)
	}

	base, err := resolveDocument(baseData, target, filepath.Dir(target))
	if err != nil {
		return nil, err
	}

	return mergeTrees(doc, base), nil
}

// parseYAML unmarshals a document into a map, mapping nil documents to
// empty maps and syntax failures to *ParseError.
func parseYAML(data []byte, source string) (map[string]any, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Path: source, Line: yamlErrorLine(err), Err: err}
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

// yamlLinePattern extracts the line number yaml.v3 embeds in its error
// messages ("yaml: line 3: ...").
var yamlLinePattern = regexp.MustCompile(`line (\d+)`)

func yamlErrorLine(err error) int {
	m := yamlLinePattern.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	line, _ := strconv.Atoi(m[1])
	return line
}

// extendsTarget scans the leading comment block of a document for a
// "#!extends <path>" directive. Blank lines and ordinary comments may
// precede it; the scan stops at the first line of real content.
func extendsTarget(data []byte) (string, bool) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "#!extends"):
			fields := strings.Fields(line)
			if len(fields) >= 2 {
				return fields[1], true
			}
			// Directive with no target reads as a plain comment.
			continue
		case strings.HasPrefix(line, "#"):
			continue
		default:
			return "", false
		}
	}
	return "", false
}
