// Package papers builds citation trees from a research-paper dataset.
//
// The dataset is a CSV file with a header row and six columns:
//
//	authors, title, year, category, doi, citations
//
// The category column holds a path such as "Programming: Languages: Python"
// whose segments, split on ": ", become nested internal nodes. Each paper is
// a leaf named by its title and weighted by its citation count, so a
// category's weight is the total number of citations it received. With
// [Options.ByYear] the years form an extra first level above the
// categories.
//
// Siblings keep the order in which they first appear in the file. The
// papers filed directly under a category stay together, at the position
// where the first of them arrived relative to that category's
// subcategories.
//
// The path may also be an http(s) URL; the dataset is then downloaded
// through [Options.HTTP], which caches and revalidates it.
package papers

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treemap/pkg/cache"
	errs "github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/httputil"
	"github.com/matzehuels/treemap/pkg/source"
	"github.com/matzehuels/treemap/pkg/tree"
)

// Kind is the snapshot kind of citation trees.
const Kind = "papers"

// DefaultRootName names the root when [Options.RootName] is empty.
const DefaultRootName = "CS1"

// CategorySeparator splits the category column into levels.
const CategorySeparator = ": "

// Metadata keys set on paper leaves.
const (
	MetaAuthors = "authors"
	MetaDOI     = "doi"
	MetaYear    = "year"
)

const columns = 6

// Options controls how the dataset is arranged.
type Options struct {
	ByYear   bool
	RootName string
	Logger   *log.Logger
	HTTP     *httputil.Client // fetches URL paths; nil means an uncached client
}

func (o Options) rootName() string {
	if o.RootName == "" {
		return DefaultRootName
	}
	return o.RootName
}

// Loader is a [source.Source] over a CSV file.
type Loader struct {
	path string
	opts Options
}

var _ source.Source = (*Loader)(nil)

// New returns a loader for the CSV file at path.
func New(path string, opts Options) *Loader {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.HTTP == nil && httputil.IsURL(path) {
		opts.HTTP = httputil.NewClient(httputil.ClientOptions{Logger: opts.Logger})
	}
	return &Loader{path: path, opts: opts}
}

// Kind returns [Kind].
func (l *Loader) Kind() string { return Kind }

// Formatter returns [Formatter].
func (l *Loader) Formatter() tree.PathFormatter { return Formatter() }

// Fingerprint hashes the file content together with the arrangement
// options, so an edited dataset or a different grouping is a cache miss.
func (l *Loader) Fingerprint(ctx context.Context) (string, error) {
	data, err := l.read(ctx)
	if err != nil {
		return "", err
	}
	return cache.Hash([]byte(fmt.Sprintf("%s|%t|%s", cache.Hash(data), l.opts.ByYear, l.opts.rootName()))), nil
}

// Build reads and parses the dataset.
func (l *Loader) Build(ctx context.Context) (*tree.Node, error) {
	data, err := l.read(ctx)
	if err != nil {
		return nil, err
	}
	root, err := Read(bytes.NewReader(data), l.opts)
	if err != nil {
		return nil, err
	}
	l.opts.Logger.Debug("loaded papers", "path", l.path, "nodes", root.Count(), "citations", root.Weight())
	return root, nil
}

func (l *Loader) read(ctx context.Context) ([]byte, error) {
	if httputil.IsURL(l.path) {
		return l.opts.HTTP.Get(ctx, l.path)
	}
	data, err := os.ReadFile(l.path)
	if errors.Is(err, iofs.ErrNotExist) {
		return nil, errs.New(errs.ErrCodeFileNotFound, "dataset not found: %s", l.path)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "read %s", l.path)
	}
	return data, nil
}

// paper is one parsed data row.
type paper struct {
	authors   string
	title     string
	year      string
	doi       string
	citations int64
}

// group is a category while the dataset is being read. A nil entry in
// slots marks where the run of papers filed directly here sits among the
// subcategories.
type group struct {
	name   string
	index  map[string]*group
	slots  []*group
	papers []paper
}

func newGroup(name string) *group {
	return &group{name: name, index: map[string]*group{}}
}

func (g *group) child(name string) *group {
	if c, ok := g.index[name]; ok {
		return c
	}
	c := newGroup(name)
	g.index[name] = c
	g.slots = append(g.slots, c)
	return c
}

func (g *group) add(p paper) {
	if len(g.papers) == 0 {
		g.slots = append(g.slots, nil)
	}
	g.papers = append(g.papers, p)
}

func (g *group) build() ([]*tree.Node, error) {
	var out []*tree.Node
	for _, s := range g.slots {
		if s != nil {
			children, err := s.build()
			if err != nil {
				return nil, err
			}
			n, err := tree.New(s.name, children, 0)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
			continue
		}
		for _, p := range g.papers {
			leaf, err := tree.New(p.title, nil, p.citations)
			if err != nil {
				return nil, err
			}
			leaf.Meta()[MetaAuthors] = p.authors
			leaf.Meta()[MetaDOI] = p.doi
			leaf.Meta()[MetaYear] = p.year
			out = append(out, leaf)
		}
	}
	return out, nil
}

// Read parses a dataset from r. The first record is the header and is
// skipped; an empty input yields a childless root.
//
// Malformed rows are INVALID_SOURCE errors naming the 1-based line of the
// offending record: a wrong number of columns, a citation count that is
// not a non-negative integer, a category path with an empty segment, or a
// count that pushes the dataset's total past math.MaxInt64.
func Read(r io.Reader, opts Options) (*tree.Node, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	root := newGroup(opts.rootName())
	header := true
	var total int64
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidSource, err, "malformed CSV")
		}
		line, _ := cr.FieldPos(0)
		if header {
			header = false
			continue
		}

		p, categories, err := parseRecord(record, line)
		if err != nil {
			return nil, err
		}
		// Category sums never exceed the grand total.
		if p.citations > math.MaxInt64-total {
			return nil, errs.New(errs.ErrCodeInvalidSource, "line %d: total citation count overflows", line)
		}
		total += p.citations

		g := root
		if opts.ByYear {
			g = g.child(p.year)
		}
		for _, c := range categories {
			g = g.child(c)
		}
		g.add(p)
	}

	children, err := root.build()
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "build citation tree")
	}
	n, err := tree.New(root.name, children, 0)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "build citation tree")
	}
	return n, nil
}

func parseRecord(record []string, line int) (paper, []string, error) {
	if len(record) != columns {
		return paper{}, nil, errs.New(errs.ErrCodeInvalidSource, "line %d: expected %d columns, got %d", line, columns, len(record))
	}
	citations, err := strconv.ParseInt(strings.TrimSpace(record[5]), 10, 64)
	if err != nil {
		return paper{}, nil, errs.New(errs.ErrCodeInvalidSource, "line %d: citation count %q is not an integer", line, record[5])
	}
	if citations < 0 {
		return paper{}, nil, errs.New(errs.ErrCodeInvalidSource, "line %d: negative citation count %d", line, citations)
	}
	categories := strings.Split(record[3], CategorySeparator)
	for _, c := range categories {
		if c == "" {
			return paper{}, nil, errs.New(errs.ErrCodeInvalidSource, "line %d: empty category in %q", line, record[3])
		}
	}
	return paper{
		authors:   record[0],
		title:     record[1],
		year:      record[2],
		doi:       record[4],
		citations: citations,
	}, categories, nil
}

// Formatter describes citation nodes as "CS1 : Category : Title 42 Citations".
func Formatter() tree.PathFormatter {
	return tree.NewFormatter(" : ", Suffix)
}

// Suffix returns " N Citations".
func Suffix(n *tree.Node) string {
	return fmt.Sprintf(" %d Citations", n.Weight())
}
