package tree

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/treemap/pkg/errors"
)

func leaf(name string, w int64) *Node { return MustNew(name, nil, w) }

func node(name string, children ...*Node) *Node { return MustNew(name, children, 0) }

func TestNewLeafKeepsWeight(t *testing.T) {
	n, err := New("file", nil, 42)
	require.NoError(t, err)

	assert.Equal(t, "file", n.Name())
	assert.Equal(t, int64(42), n.Weight())
	assert.True(t, n.IsLeaf())
	assert.False(t, n.IsEmpty())
	assert.Nil(t, n.Parent())
	assert.False(t, n.Expanded())
	assert.True(t, n.Rect().IsZero())
	assert.NotNil(t, n.Meta())
}

func TestNewComputesWeightFromChildren(t *testing.T) {
	a, b := leaf("a", 2), leaf("b", 3)
	n, err := New("dir", []*Node{a, b}, 1000)
	require.NoError(t, err)

	assert.Equal(t, int64(5), n.Weight(), "children override the supplied weight")
	assert.Same(t, n, a.Parent())
	assert.Same(t, n, b.Parent())
	assert.Equal(t, []*Node{a, b}, n.Children())
}

func TestNewNestedAggregation(t *testing.T) {
	l := leaf("leaf", 10)
	level1 := node("level1", l)
	level2 := node("level2", level1)
	level3 := node("level3", level2)

	assert.Equal(t, int64(10), level1.Weight())
	assert.Equal(t, int64(10), level2.Weight())
	assert.Equal(t, int64(10), level3.Weight())
	assert.Same(t, level3, l.Root())
	assert.Equal(t, 3, l.Depth())
	assert.Equal(t, 4, level3.Count())
}

func TestNewDoesNotAliasChildSlice(t *testing.T) {
	children := []*Node{leaf("a", 1), leaf("b", 1)}
	n := MustNew("dir", children, 0)
	children[0] = leaf("c", 7)

	assert.Equal(t, "a", n.Child(0).Name())
	assert.Equal(t, int64(2), n.Weight())
}

func TestNewEmpty(t *testing.T) {
	n, err := NewEmpty(0)
	require.NoError(t, err)

	assert.True(t, n.IsEmpty())
	assert.Equal(t, "", n.Name())
	assert.Equal(t, int64(0), n.Weight())
	assert.Equal(t, 0, n.Len())
	assert.Nil(t, n.Parent())
	require.NoError(t, n.Validate())

	placeholder, err := NewEmpty(10)
	require.NoError(t, err)
	assert.True(t, placeholder.IsEmpty())
	assert.Equal(t, int64(10), placeholder.Weight())
}

func TestEmptyStringNameIsNotEmptyNode(t *testing.T) {
	n := leaf("", 0)
	assert.False(t, n.IsEmpty())
}

func TestConstructionErrors(t *testing.T) {
	attached := leaf("attached", 1)
	node("owner", attached)
	empty, _ := NewEmpty(0)
	dup := leaf("dup", 1)

	tests := []struct {
		name     string
		build    func() (*Node, error)
		contains string
	}{
		{
			name: "empty node with children",
			build: func() (*Node, error) {
				return FromParts(nil, []*Node{leaf("leaf", 10)}, 0)
			},
			contains: "empty node cannot have children",
		},
		{
			name:     "negative weight",
			build:    func() (*Node, error) { return New("neg", nil, -1) },
			contains: "non-negative",
		},
		{
			name:     "nil child",
			build:    func() (*Node, error) { return New("dir", []*Node{nil}, 0) },
			contains: "nil",
		},
		{
			name:     "empty child",
			build:    func() (*Node, error) { return New("dir", []*Node{empty}, 0) },
			contains: "empty node",
		},
		{
			name:     "child already attached",
			build:    func() (*Node, error) { return New("thief", []*Node{attached}, 0) },
			contains: "already has a parent",
		},
		{
			name:     "duplicate child",
			build:    func() (*Node, error) { return New("dir", []*Node{dup, dup}, 0) },
			contains: "listed twice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := tt.build()
			require.Error(t, err)
			assert.Nil(t, n)
			assert.True(t, errs.Is(err, errs.ErrCodeInvalidTree), "code = %v", errs.GetCode(err))
			assert.Contains(t, err.Error(), tt.contains)
		})
	}

	assert.Nil(t, dup.Parent(), "failed construction must not adopt children")
}

func TestMustNewPanics(t *testing.T) {
	assert.Panics(t, func() { MustNew("neg", nil, -5) })
}

func TestColorIsOpaque(t *testing.T) {
	n := leaf("tree", 10)
	assert.Equal(t, uint8(0xff), n.Color().A)
}

func TestRecomputeWeight(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Node
		want  int64
	}{
		{
			name:  "leaf unchanged",
			build: func() *Node { return leaf("leaf", 60) },
			want:  60,
		},
		{
			name:  "empty folder",
			build: func() *Node { return leaf("folder", 0) },
			want:  0,
		},
		{
			name:  "folder with empty subfolders",
			build: func() *Node { return node("folder", leaf("sub1", 0), leaf("sub2", 0)) },
			want:  0,
		},
		{
			name: "out-of-band leaf edit",
			build: func() *Node {
				a := leaf("a", 50)
				root := node("root", node("mid", a), leaf("b", 60))
				a.weight = 55
				return root
			},
			want: 115,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := tt.build()
			got, err := n.RecomputeWeight()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, n.Weight())
			require.NoError(t, n.Validate())
		})
	}
}

func TestWalkSkipsSubtree(t *testing.T) {
	root := node("root", node("a", leaf("a1", 1)), leaf("b", 1))

	var names []string
	root.Walk(func(n *Node) bool {
		names = append(names, n.Name())
		return n.Name() != "a"
	})
	assert.Equal(t, []string{"root", "a", "b"}, names)
}

func TestValidateDetectsCorruption(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func() *Node
	}{
		{
			name: "weight mismatch",
			corrupt: func() *Node {
				root := node("root", leaf("a", 1))
				root.weight = 5
				return root
			},
		},
		{
			name: "leaf expanded",
			corrupt: func() *Node {
				l := leaf("a", 1)
				l.expanded = true
				return node("root", l)
			},
		},
		{
			name: "expanded under collapsed",
			corrupt: func() *Node {
				mid := node("mid", leaf("a", 1))
				mid.expanded = true
				return node("root", mid)
			},
		},
		{
			name: "broken back-reference",
			corrupt: func() *Node {
				a := leaf("a", 1)
				root := node("root", a)
				a.parent = leaf("other", 0)
				return root
			},
		},
		{
			name: "negative weight",
			corrupt: func() *Node {
				l := leaf("a", 1)
				l.weight = -1
				return l
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.corrupt().Validate()
			require.Error(t, err)
			assert.True(t, errs.Is(err, errs.ErrCodeInvalidTree))
		})
	}
}

func TestFromPartsRejectsWeightOverflow(t *testing.T) {
	a := leaf("a", math.MaxInt64)
	b := leaf("b", 1)

	_, err := New("root", []*Node{a, b}, 0)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidTree))
	assert.Nil(t, a.Parent())
	assert.Nil(t, b.Parent())

	// The children are still free to join a tree that fits.
	root, err := New("root", []*Node{a}, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), root.Weight())
}

func TestRecomputeWeightOverflow(t *testing.T) {
	a := leaf("a", 10)
	mid := node("mid", a, leaf("b", 10))
	root := node("root", mid)
	a.weight = math.MaxInt64

	_, err := root.RecomputeWeight()
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidTree))
	assert.Equal(t, int64(20), mid.Weight())
	assert.Equal(t, int64(20), root.Weight())
}
