package tree

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomTree builds a tree with up to depth levels and the given fan-out.
func randomTree(rng *rand.Rand, depth, fanout int, id *int) *Node {
	*id++
	name := fmt.Sprintf("n%d", *id)
	if depth == 0 || rng.IntN(4) == 0 {
		return leaf(name, rng.Int64N(1000))
	}
	k := 1 + rng.IntN(fanout)
	children := make([]*Node, k)
	for i := range children {
		children[i] = randomTree(rng, depth-1, fanout, id)
	}
	return node(name, children...)
}

func collect(root *Node) (leaves, internal []*Node) {
	root.Walk(func(n *Node) bool {
		if n.IsLeaf() {
			leaves = append(leaves, n)
		} else {
			internal = append(internal, n)
		}
		return true
	})
	return leaves, internal
}

// checkTiling verifies that the children of every positively weighted
// internal node are contiguous strips that exactly cover it. Nodes with a
// zero-weight child are skipped because that child's strip is discarded.
func checkTiling(t *testing.T, n *Node) {
	t.Helper()
	if n.Weight() == 0 || n.IsLeaf() {
		return
	}
	r := n.Rect()
	horizontal := r.W > r.H
	offset := 0
	for _, c := range n.Children() {
		if c.Weight() == 0 {
			return
		}
		cr := c.Rect()
		if horizontal {
			require.Equal(t, Rect{r.X + offset, r.Y, cr.W, r.H}, cr, "child %s of %s", c.Name(), n.Name())
			offset += cr.W
		} else {
			require.Equal(t, Rect{r.X, r.Y + offset, r.W, cr.H}, cr, "child %s of %s", c.Name(), n.Name())
			offset += cr.H
		}
	}
	if horizontal {
		require.Equal(t, r.W, offset, "strips of %s", n.Name())
	} else {
		require.Equal(t, r.H, offset, "strips of %s", n.Name())
	}
	for _, c := range n.Children() {
		checkTiling(t, c)
	}
}

func TestMutationSequencesKeepInvariants(t *testing.T) {
	for seed := uint64(1); seed <= 25; seed++ {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			rng := rand.New(rand.NewPCG(seed, seed*7919))
			id := 0
			root := node("root", randomTree(rng, 4, 4, &id), randomTree(rng, 4, 4, &id))
			area := Rect{0, 0, 640, 480}

			for step := 0; step < 60; step++ {
				leaves, internal := collect(root)
				if len(internal) == 0 {
					break
				}
				before := root.Weight()

				switch rng.IntN(6) {
				case 0:
					l := leaves[rng.IntN(len(leaves))]
					l.ChangeSize(rng.Float64()*2 - 1)
				case 1:
					l := leaves[rng.IntN(len(leaves))]
					l.Move(internal[rng.IntN(len(internal))])
					require.Equal(t, before, root.Weight(), "move conserves root weight")
				case 2:
					all := append(leaves, internal...)
					target := all[rng.IntN(len(all))]
					w := target.Weight()
					if target.Delete() {
						require.Equal(t, before-w, root.Weight(), "delete reduces root weight")
					}
				case 3:
					internal[rng.IntN(len(internal))].Expand()
				case 4:
					leaves[rng.IntN(len(leaves))].Collapse()
				case 5:
					if rng.IntN(2) == 0 {
						root.ExpandAll()
					} else {
						root.CollapseAll()
					}
				}

				require.NoError(t, root.Validate(), "step %d", step)

				root.UpdateRectangles(area)
				var first []Rect
				root.Walk(func(n *Node) bool { first = append(first, n.Rect()); return true })
				checkTiling(t, root)

				root.UpdateRectangles(area)
				var second []Rect
				root.Walk(func(n *Node) bool { second = append(second, n.Rect()); return true })
				require.Equal(t, first, second, "layout is idempotent")

				for _, v := range root.VisibleNodes() {
					assert.False(t, v.IsEmpty())
					for p := v.Parent(); p != nil; p = p.Parent() {
						assert.True(t, p.Expanded(), "visible %s under collapsed %s", v.Name(), p.Name())
					}
				}
			}
		})
	}
}
