// Package arborescence provides the Chu–Liu/Edmonds maximum spanning
// arborescence over a dense weight matrix.
package arborescence

import (
	"fmt"
	"math"

	"github.com/katalvlaran/deptree/matrix"
)

// Maximum computes the maximum-weight spanning arborescence of the complete
// directed graph described by m, rooted at root.
//
// Error Conditions:
//   - ErrNilMatrix   : m is nil.
//   - ErrNonSquare   : m.Rows() != m.Cols().
//   - ErrInvalidRoot : root outside [0, V).
//   - ErrInfiniteWeight : some arc weight is +Inf (-Inf marks an absent arc).
//   - ErrUnreachable : no spanning arborescence with finite weight exists.
//
// Steps:
//  1. Validate shape and root.
//  2. Copy m into a [][]float64 so recursion works on plain slices.
//  3. solve: choose best incoming arcs; contract and recurse while a cycle exists.
//  4. Sum the weights of the chosen arcs from the original matrix.
//
// Complexity: O(V³) time, O(V²) memory per contraction level.
func Maximum(m matrix.Matrix, root int) ([]int, float64, error) {
	// 1. Validate.
	if m == nil {
		return nil, 0, ErrNilMatrix
	}
	n := m.Rows()
	if n != m.Cols() {
		return nil, 0, ErrNonSquare
	}
	if root < 0 || root >= n {
		return nil, 0, ErrInvalidRoot
	}

	// 2. Materialise the weights.
	w := make([][]float64, n)
	for i := 0; i < n; i++ {
		w[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			v, err := m.At(i, j)
			if err != nil {
				return nil, 0, err
			}
			if i != j && math.IsInf(v, 1) {
				return nil, 0, fmt.Errorf("%w: arc %d→%d", ErrInfiniteWeight, i, j)
			}
			w[i][j] = v
		}
	}

	// 3. Solve.
	parent, err := solve(w, root)
	if err != nil {
		return nil, 0, err
	}

	// 4. Total weight over the original arcs.
	var total float64
	for v, p := range parent {
		if p != NoParent {
			total += w[p][v]
		}
	}

	return parent, total, nil
}

// solve is the recursive core. w is square; absent arcs are -Inf.
func solve(w [][]float64, root int) ([]int, error) {
	n := len(w)
	parent := make([]int, n)

	// Best incoming arc per non-root vertex; ties keep the lowest head index.
	for v := 0; v < n; v++ {
		parent[v] = NoParent
		if v == root {
			continue
		}
		best := math.Inf(-1)
		for u := 0; u < n; u++ {
			if u == v {
				continue
			}
			if w[u][v] > best {
				best = w[u][v]
				parent[v] = u
			}
		}
		if parent[v] == NoParent {
			return nil, ErrUnreachable
		}
	}

	cycle := findCycle(parent)
	if cycle == nil {
		return parent, nil
	}

	// Contract the cycle into vertex c; every other vertex keeps its relative order.
	inCycle := make([]bool, n)
	for _, v := range cycle {
		inCycle[v] = true
	}
	id := make([]int, n)      // original -> contracted
	orig := make([]int, 0, n) // contracted -> original (non-cycle vertices only)
	for v := 0; v < n; v++ {
		if inCycle[v] {
			continue
		}
		id[v] = len(orig)
		orig = append(orig, v)
	}
	c := len(orig)
	for _, v := range cycle {
		id[v] = c
	}

	size := c + 1
	cw := make([][]float64, size)
	for i := range cw {
		cw[i] = make([]float64, size)
		for j := range cw[i] {
			cw[i][j] = math.Inf(-1)
		}
	}
	enter := make([]int, size) // enter[cu]: cycle vertex hit by the best arc cu→c
	leave := make([]int, size) // leave[cv]: cycle vertex owning the best arc c→cv

	for u := 0; u < n; u++ {
		for v := 0; v < n; v++ {
			if u == v || math.IsInf(w[u][v], -1) {
				continue
			}
			cu, cv := id[u], id[v]
			switch {
			case !inCycle[u] && !inCycle[v]:
				cw[cu][cv] = w[u][v]
			case !inCycle[u] && inCycle[v]:
				// Entering the cycle at v displaces v's cycle arc.
				val := w[u][v] - w[parent[v]][v]
				if val > cw[cu][c] {
					cw[cu][c] = val
					enter[cu] = v
				}
			case inCycle[u] && !inCycle[v]:
				if w[u][v] > cw[c][cv] {
					cw[c][cv] = w[u][v]
					leave[cv] = u
				}
			}
		}
	}

	sub, err := solve(cw, id[root])
	if err != nil {
		return nil, err
	}

	// Expand: cycle vertices keep their cycle arcs except the one entered from outside.
	result := make([]int, n)
	for v := 0; v < n; v++ {
		if inCycle[v] {
			result[v] = parent[v]
			continue
		}
		switch p := sub[id[v]]; p {
		case NoParent:
			result[v] = NoParent
		case c:
			result[v] = leave[id[v]]
		default:
			result[v] = orig[p]
		}
	}
	// The root is never on a cycle, so the contracted vertex always has a parent.
	p := sub[c]
	result[enter[p]] = orig[p]

	return result, nil
}

// findCycle returns the vertices of one cycle in parent, or nil.
// Each walk stamps the vertices it visits; meeting its own stamp means a cycle.
func findCycle(parent []int) []int {
	mark := make([]int, len(parent))
	for start := range parent {
		if mark[start] != 0 {
			continue
		}
		walk := start + 1
		v := start
		for v != NoParent && mark[v] == 0 {
			mark[v] = walk
			v = parent[v]
		}
		if v != NoParent && mark[v] == walk {
			cycle := []int{v}
			for u := parent[v]; u != v; u = parent[u] {
				cycle = append(cycle, u)
			}

			return cycle
		}
	}

	return nil
}
