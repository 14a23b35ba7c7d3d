package decoder

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/deptree/arborescence"
	"github.com/katalvlaran/deptree/matrix"
)

// Solution is a decoded tree over the score matrix, already flattened:
// Heads[Root] is 0, every other token points at a real token, and
// Heads[0] is arborescence.NoParent. Score is scores[0][Root] plus the
// score of every output arc Heads[d]→d.
type Solution struct {
	Root  int
	Heads []int
	Score float64
}

// RootStrategy turns an (n+1)×(n+1) score matrix into a Solution.
type RootStrategy interface {
	Name() string
	Solve(scores *matrix.Dense) (Solution, error)
}

// Strategy names accepted by StrategyByName.
const (
	Greedy     = "greedy"
	Exhaustive = "exhaustive"
)

// StrategyByName maps a configuration value to a RootStrategy.
func StrategyByName(name string) (RootStrategy, error) {
	switch name {
	case Greedy, "":
		return GreedyRoot{}, nil
	case Exhaustive:
		return ExhaustiveRoot{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// GreedyRoot picks the token with the best virtual-root attachment
// (arg-max over scores[0][j], lowest j on ties) and then runs the
// arborescence rooted at that token. Root and tree are not optimised jointly.
type GreedyRoot struct{}

func (GreedyRoot) Name() string { return Greedy }

func (GreedyRoot) Solve(scores *matrix.Dense) (Solution, error) {
	if err := checkSquare(scores); err != nil {
		return Solution{}, err
	}
	n := scores.Rows() - 1
	root, best := 0, math.Inf(-1)
	for j := 1; j <= n; j++ {
		v, err := scores.At(0, j)
		if err != nil {
			return Solution{}, err
		}
		if root == 0 || v > best {
			root, best = j, v
		}
	}

	return solveRooted(scores, root)
}

// ExhaustiveRoot maximises the flattened score over every choice of root.
// For each candidate r the virtual root is dropped and the arborescence runs
// over tokens 1..n rooted at r, so the per-root optimum and the compared
// score are the same objective; scores[0][r] is added on top. Ties keep the
// lower root. Roots from which some token is unreachable are skipped.
// It costs n arborescence runs.
type ExhaustiveRoot struct{}

func (ExhaustiveRoot) Name() string { return Exhaustive }

func (ExhaustiveRoot) Solve(scores *matrix.Dense) (Solution, error) {
	if err := checkSquare(scores); err != nil {
		return Solution{}, err
	}
	tokens, err := tokenScores(scores)
	if err != nil {
		return Solution{}, err
	}

	var best Solution
	for r := 1; r < scores.Rows(); r++ {
		sol, err := solveTokens(scores, tokens, r)
		if errors.Is(err, arborescence.ErrUnreachable) {
			continue
		}
		if err != nil {
			return Solution{}, err
		}
		if best.Heads == nil || sol.Score > best.Score {
			best = sol
		}
	}
	if best.Heads == nil {
		return Solution{}, arborescence.ErrUnreachable
	}

	return best, nil
}

// tokenScores copies the token-to-token block scores[1:,1:] into an n×n
// matrix; token t sits at index t-1.
func tokenScores(scores *matrix.Dense) (*matrix.Dense, error) {
	n := scores.Rows() - 1
	out, err := matrix.NewFilled(n, n, math.Inf(-1))
	if err != nil {
		return nil, err
	}
	for h := 1; h <= n; h++ {
		row, err := scores.Row(h)
		if err != nil {
			return nil, err
		}
		for d := 1; d <= n; d++ {
			if err := out.Set(h-1, d-1, row[d]); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}

// solveTokens decodes the token block rooted at token root and maps the
// result back to 1-indexed heads with root under the virtual root.
func solveTokens(scores, tokens *matrix.Dense, root int) (Solution, error) {
	parents, arcs, err := arborescence.Maximum(tokens, root-1)
	if err != nil {
		return Solution{}, fmt.Errorf("root %d: %w", root, err)
	}
	top, err := scores.At(0, root)
	if err != nil {
		return Solution{}, err
	}

	heads := make([]int, len(parents)+1)
	heads[0] = arborescence.NoParent
	for i, p := range parents {
		if p == arborescence.NoParent {
			heads[i+1] = 0
			continue
		}
		heads[i+1] = p + 1
	}

	return Solution{Root: root, Heads: heads, Score: top + arcs}, nil
}

func checkSquare(scores *matrix.Dense) error {
	if scores == nil {
		return arborescence.ErrNilMatrix
	}
	if scores.Rows() != scores.Cols() {
		return fmt.Errorf("%w: %d×%d", matrix.ErrNonSquare, scores.Rows(), scores.Cols())
	}

	return nil
}

// solveRooted runs the arborescence over all n+1 nodes rooted at token root.
// The virtual root has no incoming arcs in scores, so a zero-weight arc
// root→0 is added on a copy; tokens that end up under node 0 are then
// re-attached to root.
func solveRooted(scores *matrix.Dense, root int) (Solution, error) {
	w := scores.Clone()
	if err := w.Set(root, 0, 0); err != nil {
		return Solution{}, err
	}
	parents, _, err := arborescence.Maximum(w, root)
	if err != nil {
		return Solution{}, fmt.Errorf("root %d: %w", root, err)
	}

	heads := make([]int, len(parents))
	heads[0] = arborescence.NoParent
	heads[root] = 0
	total, err := scores.At(0, root)
	if err != nil {
		return Solution{}, err
	}
	for d := 1; d < len(parents); d++ {
		if d == root {
			continue
		}
		h := parents[d]
		if h == 0 {
			h = root
		}
		heads[d] = h
		v, err := scores.At(h, d)
		if err != nil {
			return Solution{}, err
		}
		total += v
	}

	return Solution{Root: root, Heads: heads, Score: total}, nil
}
