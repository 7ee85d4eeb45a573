/*
Package config provides recursive configuration mappings and a YAML loader
with file inheritance and placeholder substitution.

# Overview

The package is built from three layers:

  - Map - a mapping with dotted-path reads that recurse through nested
    mappings, plus typed accessors and recursive merge.
  - The loader (ReadFile, Read) - parses YAML, resolves #!extends chains,
    and substitutes $(name) and ${NAME|default} placeholders.
  - Config - a Map assembled by merging a package-shipped base file with a
    per-user override file, reloadable from disk.

# Dotted Access

Reads split on "." and walk one nesting level per segment:

	m := config.New(map[string]any{
	    "server": map[string]any{"port": 8080},
	})
	port := m.Int("server.port", 80) // 8080

A missing path returns the missing sentinel (nil by default) rather than
failing; strict mode turns the miss into a *KeyError:

	v, _ := m.Get("server.host")   // nil, nil
	strict := config.New(data, config.WithStrictMode())
	_, err := strict.Get("server.host") // *KeyError

Writes are the deliberate exception: Set never splits its key and rejects
keys containing a dot, because silently storing a literal "a.b" key when
the caller meant nested assignment hides bugs.

# File Inheritance

A document can extend a base document through a leading comment directive:

	#!extends base.yaml

	cat1:
	  key1: value1

The target resolves relative to the document's directory and may itself
extend further. Chains merge root-to-leaf with the base document winning
for overlapping keys; the derived document only adds keys the base lacks.

# Placeholder Substitution

After the extends chain is merged, every string scalar goes through one
substitution pass:

	variables:
	  greeting: hello

	message: $(greeting) world        # document-local variables
	data_dir: ${DATA_DIR|/var/data}   # environment, with fallback

See the template package for the exact resolution order.

# Base and User Configuration

GetConfig merges the configuration shipped with a package (etc/<name>.yml
next to its data files) with a user override found under the per-user
configuration directory, the override winning key-by-key:

	cfg, err := config.GetConfig("archive",
	    config.WithConfigDir(moduleDir),
	)
	if err != nil {
	    return err
	}
	workers := cfg.Int("queue.workers", 4)

Reload re-reads the same files in place, so every holder of the Config
observes the updated values:

	if err := cfg.Reload(); err != nil { ... }

# Concurrency

Maps and Configs own their state exclusively and perform no internal
locking. Reloading while another goroutine reads is a data race the caller
must guard against.
*/
package config
