package engine

import "container/heap"

// bound is a branching restriction on one variable, relative to the root box.
type bound struct {
	Var    int
	Lo, Hi float64
}

// node is a subproblem awaiting expansion. Its bound is the relaxation waste
// (rounded up when the objective is integral), a lower bound for its subtree.
type node struct {
	id        int64
	depth     int
	bound     float64
	overrides []bound // sorted by Var
	branchVar int     // variable to split, -1 until the node is classified
	value     float64 // its fractional relaxation value
	origin    int     // variable the parent split to create this node, -1 at the root
	basis     *Basis  // parent's final basis for warm starts
}

// bounds materializes the node's variable box.
func (nd *node) bounds(m *Model) (lo, hi []float64) {
	lo, hi = m.RootBounds()
	for _, b := range nd.overrides {
		lo[b.Var], hi[b.Var] = b.Lo, b.Hi
	}
	return lo, hi
}

// child copies the parent's overrides with variable k restricted to [lo, hi].
func (nd *node) child(id int64, k int, lo, hi float64) *node {
	out := make([]bound, 0, len(nd.overrides)+1)
	placed := false
	for _, b := range nd.overrides {
		if b.Var == k {
			out = append(out, bound{Var: k, Lo: lo, Hi: hi})
			placed = true
			continue
		}
		if !placed && b.Var > k {
			out = append(out, bound{Var: k, Lo: lo, Hi: hi})
			placed = true
		}
		out = append(out, b)
	}
	if !placed {
		out = append(out, bound{Var: k, Lo: lo, Hi: hi})
	}
	return &node{
		id:        id,
		depth:     nd.depth + 1,
		overrides: out,
		branchVar: -1,
		origin:    k,
		basis:     nd.basis,
	}
}

// override returns the current box of variable k for this node.
func (nd *node) override(m *Model, k int) (lo, hi float64) {
	for _, b := range nd.overrides {
		if b.Var == k {
			return b.Lo, b.Hi
		}
	}
	return 0, m.Upper(k)
}

// nodeHeap is a best-first frontier: lowest bound first, then creation order.
type nodeHeap []*node

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(a, b int) bool {
	if h[a].bound != h[b].bound {
		return h[a].bound < h[b].bound
	}
	return h[a].id < h[b].id
}
func (h nodeHeap) Swap(a, b int) { h[a], h[b] = h[b], h[a] }

func (h *nodeHeap) Push(x interface{}) { *h = append(*h, x.(*node)) }

func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	nd := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return nd
}

// frontier wraps the heap with typed push/pop.
type frontier struct {
	h nodeHeap
}

func (f *frontier) Len() int { return f.h.Len() }

func (f *frontier) push(nd *node) { heap.Push(&f.h, nd) }

func (f *frontier) pop() *node { return heap.Pop(&f.h).(*node) }
