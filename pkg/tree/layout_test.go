package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rectsOf(nodes ...*Node) []Rect {
	out := make([]Rect, len(nodes))
	for i, n := range nodes {
		out[i] = n.Rect()
	}
	return out
}

func tileRects(tiles []Tile) []Rect {
	out := make([]Rect, len(tiles))
	for i, t := range tiles {
		out[i] = t.Rect
	}
	return out
}

func TestUpdateRectanglesSingleLeaf(t *testing.T) {
	l := leaf("leaf", 100)
	l.UpdateRectangles(Rect{0, 0, 100, 200})

	assert.Equal(t, Rect{0, 0, 100, 200}, l.Rect())
	assert.Equal(t, []Rect{{0, 0, 100, 200}}, tileRects(l.Rectangles()))
}

func TestUpdateRectanglesZeroWeight(t *testing.T) {
	t.Run("zero leaf", func(t *testing.T) {
		l := leaf("leaf", 0)
		l.UpdateRectangles(Rect{0, 0, 100, 200})
		assert.Equal(t, Rect{}, l.Rect())
		assert.Empty(t, l.Rectangles())
	})

	t.Run("all zero flat", func(t *testing.T) {
		c1, c2 := leaf("child1", 0), leaf("child2", 0)
		root := node("root", c1, c2)
		root.UpdateRectangles(Rect{0, 0, 100, 100})
		assert.Equal(t, []Rect{{}, {}, {}}, rectsOf(root, c1, c2))
	})

	t.Run("all zero nested", func(t *testing.T) {
		l1, l2, l3 := leaf("leaf1", 0), leaf("leaf2", 0), leaf("leaf3", 0)
		c1 := node("child1", l1, l2)
		c2 := node("child2", l3)
		root := node("root", c1, c2)
		root.UpdateRectangles(Rect{0, 0, 200, 100})
		for _, n := range []*Node{root, c1, c2, l1, l2, l3} {
			assert.Equal(t, Rect{}, n.Rect(), n.Name())
		}
	})

	t.Run("collapsed zero internal still reports its rect", func(t *testing.T) {
		root := node("root", leaf("a", 0))
		root.UpdateRectangles(Rect{0, 0, 10, 10})
		assert.Equal(t, []Rect{{}}, tileRects(root.Rectangles()))
	})
}

func TestUpdateRectanglesNegativeHeight(t *testing.T) {
	l1, l2, l3 := leaf("leaf1", 20), leaf("leaf2", 30), leaf("leaf3", 50)
	c1 := node("child1", l1, l2)
	c2 := node("child2", l3)
	root := node("root", c1, c2)

	root.UpdateRectangles(Rect{0, 0, 200, -100})
	assert.Equal(t, Rect{0, 0, 200, -100}, root.Rect())
	assert.Equal(t, Rect{0, 0, 100, -100}, c1.Rect())
	assert.Equal(t, Rect{100, 0, 100, -100}, c2.Rect())

	root.ExpandAll()
	want := []Rect{{0, 0, 40, -100}, {40, 0, 60, -100}, {100, 0, 100, -100}}
	assert.Equal(t, want, tileRects(root.Rectangles()))
}

func TestUpdateRectanglesFlatNegativeHeight(t *testing.T) {
	l1, l2, l3 := leaf("leaf1", 20), leaf("leaf2", 30), leaf("leaf3", 50)
	root := node("root", l1, l2, l3)
	root.UpdateRectangles(Rect{0, 0, 200, -100})

	want := []Rect{{0, 0, 40, -100}, {40, 0, 60, -100}, {100, 0, 100, -100}}
	assert.Equal(t, want, rectsOf(l1, l2, l3))
}

func TestUpdateRectanglesSplitAxis(t *testing.T) {
	tests := []struct {
		name string
		area Rect
		want []Rect
	}{
		{
			name: "wide splits side by side",
			area: Rect{0, 0, 200, 100},
			want: []Rect{{0, 0, 40, 100}, {40, 0, 60, 100}, {100, 0, 100, 100}},
		},
		{
			name: "square stacks",
			area: Rect{0, 0, 100, 100},
			want: []Rect{{0, 0, 100, 20}, {0, 20, 100, 30}, {0, 50, 100, 50}},
		},
		{
			name: "tall stacks",
			area: Rect{10, 20, 50, 300},
			want: []Rect{{10, 20, 50, 60}, {10, 80, 50, 90}, {10, 170, 50, 150}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l1, l2, l3 := leaf("l1", 20), leaf("l2", 30), leaf("l3", 50)
			root := node("root", l1, l2, l3)
			root.UpdateRectangles(tt.area)
			assert.Equal(t, tt.want, rectsOf(l1, l2, l3))
		})
	}
}

func TestUpdateRectanglesRoundingGoesToLast(t *testing.T) {
	a, b, c := leaf("a", 1), leaf("b", 1), leaf("c", 1)
	root := node("root", a, b, c)
	root.UpdateRectangles(Rect{0, 0, 100, 10})

	assert.Equal(t, []Rect{{0, 0, 33, 10}, {33, 0, 33, 10}, {66, 0, 34, 10}}, rectsOf(a, b, c))
}

func TestUpdateRectanglesFloorsNegativeExtents(t *testing.T) {
	a, b := leaf("a", 1), leaf("b", 2)
	root := node("root", a, b)
	root.UpdateRectangles(Rect{0, 0, -100, -200})

	// floor(-100/3) is -34, the remainder -66 goes to the last child.
	assert.Equal(t, []Rect{{0, 0, -34, -200}, {-34, 0, -66, -200}}, rectsOf(a, b))
}

func TestUpdateRectanglesZeroChildAmongWeighted(t *testing.T) {
	a, z, b := leaf("a", 1), leaf("zero", 0), leaf("b", 1)
	root := node("root", a, z, b)
	root.UpdateRectangles(Rect{0, 0, 100, 10})

	assert.Equal(t, Rect{0, 0, 50, 10}, a.Rect())
	assert.Equal(t, Rect{}, z.Rect())
	assert.Equal(t, Rect{50, 0, 50, 10}, b.Rect())

	root.Expand()
	assert.Equal(t, []*Node{a, b}, root.VisibleNodes())
}

func TestUpdateRectanglesEmptyPlaceholder(t *testing.T) {
	placeholder, err := NewEmpty(10)
	require.NoError(t, err)
	placeholder.UpdateRectangles(Rect{5, 5, 30, 40})
	assert.Equal(t, Rect{5, 5, 30, 40}, placeholder.Rect())
	assert.Empty(t, placeholder.Rectangles(), "empty nodes are never drawn")

	zero, err := NewEmpty(0)
	require.NoError(t, err)
	zero.UpdateRectangles(Rect{5, 5, 30, 40})
	assert.Equal(t, Rect{}, zero.Rect())
}

func TestUpdateRectanglesIdempotent(t *testing.T) {
	root := node("root",
		node("a", leaf("a1", 7), leaf("a2", 13), node("a3", leaf("x", 3))),
		leaf("b", 11),
		node("c", leaf("c1", 5)),
	)
	area := Rect{0, 0, 317, 211}

	root.UpdateRectangles(area)
	var first []Rect
	root.Walk(func(n *Node) bool { first = append(first, n.Rect()); return true })

	root.UpdateRectangles(area)
	var second []Rect
	root.Walk(func(n *Node) bool { second = append(second, n.Rect()); return true })

	assert.Equal(t, first, second)
}

func TestRectContains(t *testing.T) {
	r := Rect{10, 20, 30, 40}
	tests := []struct {
		p    Point
		want bool
	}{
		{Point{10, 20}, true},
		{Point{40, 60}, true},
		{Point{25, 30}, true},
		{Point{9, 30}, false},
		{Point{41, 30}, false},
		{Point{25, 61}, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.want {
			t.Errorf("%v.Contains(%v) = %v, want %v", r, tt.p, got, tt.want)
		}
	}

	if (Rect{0, 0, 200, -100}).Contains(Point{10, -10}) {
		t.Error("negative extent should contain nothing below its origin")
	}
}

func TestRectString(t *testing.T) {
	if got := (Rect{1, 2, 3, -4}).String(); got != "(1, 2, 3, -4)" {
		t.Errorf("String() = %q", got)
	}
}
