// Package source defines how trees are obtained from raw data.
//
// A [Source] knows how to build a [tree.Node] hierarchy from something
// outside the program (a directory, a CSV file) and how to describe the
// nodes it produced when they are shown to a user. Concrete sources live in
// the subpackages:
//
//   - [fs]: scans a directory; leaves are files weighted by byte size
//   - [papers]: loads a citation dataset; leaves are papers weighted by
//     citation count
//
// Sources are consumed by the pipeline, which caches built trees under the
// fingerprint returned by [Source.Fingerprint].
//
// [fs]: github.com/matzehuels/treemap/pkg/source/fs
// [papers]: github.com/matzehuels/treemap/pkg/source/papers
package source

import (
	"context"

	"github.com/matzehuels/treemap/pkg/tree"
)

// Source builds a tree from external data.
type Source interface {
	// Kind names the source type ("fs", "papers"). It is stored in
	// snapshots so a reloaded tree gets the right formatter.
	Kind() string

	// Fingerprint identifies the input for caching. Two calls return the
	// same string only if Build would produce the same tree. An empty
	// fingerprint means the result must not be cached.
	Fingerprint(ctx context.Context) (string, error)

	// Build reads the input and returns the root of a new tree.
	Build(ctx context.Context) (*tree.Node, error)

	// Formatter describes nodes of the built tree.
	Formatter() tree.PathFormatter
}
