// Package arborescence computes the Maximum Spanning Arborescence (MSA) of a
// dense, directed, weighted graph using the Chu–Liu/Edmonds algorithm.
//
// What & Why
//
//   - What is an arborescence?
//     Given a directed graph G = (V, E) and a root r ∈ V, an arborescence is a
//     subset T ⊆ E in which every vertex except r has exactly one incoming arc
//     and every vertex is reachable from r. The maximum arborescence maximises
//     the sum of arc weights in T.
//
//   - Why it matters here:
//     An arc-factored dependency tree is exactly an arborescence over the
//     tokens of a sentence; the decoder turns per-arc scores into a tree by
//     running Maximum over its score matrix.
//
// Algorithm
//
//   - Maximum(m matrix.Matrix, root int) ([]int, float64, error)
//
//   - Strategy: pick the best incoming arc for every non-root vertex. If the
//     chosen arcs are acyclic they form the answer. Otherwise contract one
//     cycle into a super-vertex, re-weight arcs entering the cycle by the
//     weight of the cycle arc they would displace, solve recursively and
//     expand the contracted vertex.
//
//   - Complexity: Time O(V³) on a dense matrix (≤ V contractions of an O(V²)
//     pass), Space O(V²) per recursion level.
//
//   - Determinism: vertices and candidate heads are scanned in ascending
//     index order and ties keep the first (lowest-index) head, so equal
//     inputs always produce equal trees.
//
// Conventions
//
//   - m.At(h, d) is the weight of the arc h→d. Diagonal cells are ignored.
//   - math.Inf(-1) marks an absent arc; it is never selected.
//   - The returned slice holds parent[v] for every vertex and parent[root] = -1.
//
// Error Conditions
//
//   - ErrNilMatrix    : m is nil.
//   - ErrNonSquare    : m.Rows() != m.Cols().
//   - ErrInvalidRoot  : root is outside [0, V).
//   - ErrInfiniteWeight: an off-diagonal weight is +Inf.
//   - ErrUnreachable  : some vertex has no finite incoming arc (possibly after
//     contraction), so no spanning arborescence exists.
//
// For usage see example_test.go in this package.
package arborescence
