package benchmarks

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/skycore/toolkit/pkg/toolkit/config"
	"github.com/skycore/toolkit/pkg/toolkit/template"
)

// createLargeTree builds a tree with width keys per level and the given
// depth, for realistic lookup and merge benchmarks.
func createLargeTree(width, depth int) map[string]any {
	tree := make(map[string]any, width)
	for i := 0; i < width; i++ {
		key := fmt.Sprintf("key%d", i)
		if depth > 0 {
			tree[key] = createLargeTree(width, depth-1)
		} else {
			tree[key] = i
		}
	}
	return tree
}

// BenchmarkMap_Get measures a three-level dotted lookup.
func BenchmarkMap_Get(b *testing.B) {
	m := config.New(createLargeTree(10, 3))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = m.Get("key5.key5.key5.key5")
	}
}

// BenchmarkMap_GetDefault_Miss measures a lookup that misses at the leaf.
func BenchmarkMap_GetDefault_Miss(b *testing.B) {
	m := config.New(createLargeTree(10, 3))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.GetDefault("key5.key5.key5.missing", nil)
	}
}

// BenchmarkMap_Merge measures merging two overlapping trees.
func BenchmarkMap_Merge(b *testing.B) {
	base := config.New(createLargeTree(10, 2))
	overlay := config.New(createLargeTree(5, 2))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = base.Merge(overlay)
	}
}

// BenchmarkNew measures Map construction with nested coercion.
func BenchmarkNew(b *testing.B) {
	tree := createLargeTree(10, 3)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = config.New(tree)
	}
}

// BenchmarkReadFile measures loading a document from disk.
func BenchmarkReadFile(b *testing.B) {
	path := writeBenchConfig(b, `
variables:
  region: eu-west-1
archive:
  endpoint: https://$(region).example.com
  workers: 4
  tags: [a, b, c]
`)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = config.ReadFile(path)
	}
}

// BenchmarkReadFile_Extends measures loading through a two-link chain.
func BenchmarkReadFile_Extends(b *testing.B) {
	dir := b.TempDir()
	writeBenchFile(b, dir, "base.yaml", "workers: 4\ncompression: gzip\n")
	child := writeBenchFile(b, dir, "child.yaml", "#!extends base.yaml\nworkers: 16\n")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = config.ReadFile(child)
	}
}

// BenchmarkExpand measures placeholder substitution over a single value.
func BenchmarkExpand(b *testing.B) {
	locals := map[string]any{"region": "eu-west-1", "tier": "prod"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = template.Expand("https://$(region).$(tier).example.com/${HOME}", locals)
	}
}

func writeBenchConfig(b *testing.B, content string) string {
	b.Helper()
	return writeBenchFile(b, b.TempDir(), "config.yaml", content)
}

func writeBenchFile(b *testing.B, dir, name, content string) string {
	b.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		b.Fatal(err)
	}
	return path
}
