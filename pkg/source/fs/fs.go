// Package fs builds trees from directories on disk.
//
// Directories become internal nodes named by their base name, with one child
// per entry in lexical order. Regular files become leaves weighted by their
// size in bytes. Symbolic links are not followed; a link is a leaf weighted
// by the size of the link itself. Empty directories become zero-weight
// childless nodes, which take no space in the layout.
//
// Top-level subdirectories are scanned concurrently.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	errs "github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/source"
	"github.com/matzehuels/treemap/pkg/tree"
)

// Kind is the snapshot kind of file-system trees.
const Kind = "fs"

// Metadata keys set on every node.
const (
	MetaPath    = "path"
	MetaModTime = "mod_time"
	MetaKind    = "kind"
	MetaCut     = "truncated"
)

// Values of [MetaKind].
const (
	KindFile    = "file"
	KindDir     = "dir"
	KindSymlink = "symlink"
)

// Options controls a scan.
type Options struct {
	// IncludeHidden keeps entries whose name starts with a dot.
	IncludeHidden bool

	// MaxDepth stops descending below this many levels under the root.
	// Deeper directories become leaves weighted by their total size.
	// Zero means unlimited.
	MaxDepth int

	// Concurrency bounds the number of top-level subdirectories scanned at
	// once. Defaults to GOMAXPROCS.
	Concurrency int

	Logger *log.Logger
}

// Scanner is a [source.Source] over a directory.
type Scanner struct {
	root   string
	opts   Options
	logger *log.Logger
}

var _ source.Source = (*Scanner)(nil)

// New returns a scanner rooted at path. Nothing is read until Build.
func New(path string, opts Options) *Scanner {
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.GOMAXPROCS(0)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Scanner{root: path, opts: opts, logger: logger}
}

// Kind returns [Kind].
func (s *Scanner) Kind() string { return Kind }

// Fingerprint returns "". Rescanning costs about as much as checking
// whether anything changed, so directory trees are never cached.
func (s *Scanner) Fingerprint(context.Context) (string, error) { return "", nil }

// Formatter returns [Formatter].
func (s *Scanner) Formatter() tree.PathFormatter { return Formatter() }

// Build scans the directory. A missing root is a FILE_NOT_FOUND error; a
// root that is a plain file yields a single leaf. Subdirectories that cannot
// be read are logged and kept as empty folders.
func (s *Scanner) Build(ctx context.Context) (*tree.Node, error) {
	abs, err := filepath.Abs(s.root)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "resolve %s", s.root)
	}
	info, err := os.Lstat(abs)
	if errors.Is(err, iofs.ErrNotExist) {
		return nil, errs.New(errs.ErrCodeFileNotFound, "no such file or directory: %s", s.root)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "stat %s", abs)
	}
	if !info.IsDir() {
		return s.leaf(abs, info), nil
	}

	entries, err := s.readDir(abs)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "read %s", abs)
	}

	start := time.Now()
	children := make([]*tree.Node, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for i, e := range entries {
		path := filepath.Join(abs, e.Name())
		g.Go(func() error {
			n, err := s.scan(gctx, path, 1)
			if err != nil {
				return err
			}
			children[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	root, err := s.dir(abs, info, children)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("scanned directory", "path", abs, "nodes", root.Count(), "bytes", root.Weight(), "duration", time.Since(start))
	return root, nil
}

func (s *Scanner) scan(ctx context.Context, path string, depth int) (*tree.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := os.Lstat(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "stat %s", path)
	}
	if !info.IsDir() {
		return s.leaf(path, info), nil
	}

	if s.opts.MaxDepth > 0 && depth >= s.opts.MaxDepth {
		size, err := s.diskUsage(ctx, path)
		if err != nil {
			return nil, err
		}
		n := tree.MustNew(filepath.Base(path), nil, size)
		setMeta(n, path, info, KindDir)
		n.Meta()[MetaCut] = true
		return n, nil
	}

	entries, err := s.readDir(path)
	if err != nil {
		s.logger.Warn("skipping unreadable directory", "path", path, "err", err)
		entries = nil
	}
	children := make([]*tree.Node, 0, len(entries))
	for _, e := range entries {
		c, err := s.scan(ctx, filepath.Join(path, e.Name()), depth+1)
		if err != nil {
			return nil, err
		}
		children = append(children, c)
	}
	return s.dir(path, info, children)
}

// readDir lists a directory in lexical order, dropping hidden entries
// unless they were asked for.
func (s *Scanner) readDir(path string) ([]os.DirEntry, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	if s.opts.IncludeHidden {
		return entries, nil
	}
	kept := entries[:0]
	for _, e := range entries {
		if !isHidden(e.Name()) {
			kept = append(kept, e)
		}
	}
	return kept, nil
}

// diskUsage sums the sizes of everything below path without building nodes.
func (s *Scanner) diskUsage(ctx context.Context, path string) (int64, error) {
	var total int64
	err := filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn("skipping unreadable entry", "path", p, "err", err)
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p != path && !s.opts.IncludeHidden && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		total += info.Size()
		return nil
	})
	return total, err
}

func (s *Scanner) leaf(path string, info os.FileInfo) *tree.Node {
	n := tree.MustNew(filepath.Base(path), nil, max(info.Size(), 0))
	kind := KindFile
	if info.Mode()&iofs.ModeSymlink != 0 {
		kind = KindSymlink
	}
	setMeta(n, path, info, kind)
	return n
}

func (s *Scanner) dir(path string, info os.FileInfo, children []*tree.Node) (*tree.Node, error) {
	n, err := tree.New(filepath.Base(path), children, 0)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "build %s", path)
	}
	setMeta(n, path, info, KindDir)
	return n, nil
}

func setMeta(n *tree.Node, path string, info os.FileInfo, kind string) {
	m := n.Meta()
	m[MetaPath] = path
	m[MetaModTime] = info.ModTime().UTC().Format(time.RFC3339)
	m[MetaKind] = kind
}

func isHidden(name string) bool { return strings.HasPrefix(name, ".") }

// Formatter describes file-system nodes with the OS path separator and a
// suffix from [Suffix].
func Formatter() tree.PathFormatter {
	return tree.NewFormatter(string(filepath.Separator), Suffix)
}

// Suffix describes a node as " (file, 1.23kB)" or
// " (folder, 3 items, 2.00MB)".
func Suffix(n *tree.Node) string {
	if n.IsLeaf() && n.Meta()[MetaKind] != KindDir {
		return fmt.Sprintf(" (file, %s)", HumanSize(n.Weight()))
	}
	return fmt.Sprintf(" (folder, %d items, %s)", n.Len(), HumanSize(n.Weight()))
}

// HumanSize formats a byte count with two decimals in B, kB, MB, GB or TB,
// stepping by 1024.
func HumanSize(n int64) string {
	units := []string{"B", "kB", "MB", "GB", "TB"}
	size := float64(n)
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}
	return fmt.Sprintf("%.2f%s", size, units[i])
}
