package structure

import "fmt"

// Visitation colours for the head-pointer walk.
const (
	white = iota // not visited
	gray         // on the current walk
	black        // known to reach the virtual root
)

// Validate checks the tree property: every token has a head, exactly one
// token is attached to the virtual root, and following heads from any
// token reaches the virtual root without revisiting a token.
//
// Errors:
//   - ErrNotTree : an Unset head, or zero / several root attachments.
//   - ErrCycle   : a head-pointer cycle (reported with one of its tokens).
//
// Complexity: O(n) time and memory; every token turns black once.
func (s *Structure) Validate() error {
	n := s.Len()
	roots := 0
	for i := 1; i <= n; i++ {
		switch s.heads[i] {
		case Unset:
			return fmt.Errorf("%w: token %d has no head", ErrNotTree, i)
		case 0:
			roots++
		}
	}
	if roots != 1 {
		return fmt.Errorf("%w: %d tokens attached to the root", ErrNotTree, roots)
	}

	state := make([]int, n+1)
	state[0] = black
	walk := make([]int, 0, n)
	for start := 1; start <= n; start++ {
		walk = walk[:0]
		v := start
		for state[v] == white {
			state[v] = gray
			walk = append(walk, v)
			v = s.heads[v]
		}
		if state[v] == gray {
			return fmt.Errorf("%w: through token %d", ErrCycle, v)
		}
		for _, u := range walk {
			state[u] = black
		}
	}

	return nil
}
