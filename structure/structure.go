// Package structure holds the dependency tree of one sentence: a head index
// and a relation label per token, plus a derived head→dependents view.
//
// Token positions are 1..n; position 0 is the virtual root and has no entry
// of its own. A Structure may be partial or cyclic while being assembled,
// but anything returned by the decoder passes Validate.
package structure

import (
	"errors"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/katalvlaran/deptree/sentence"
)

// Root is the relation given to the token attached to the virtual root.
const Root = "ROOT"

// Unset marks a token whose head has not been assigned yet.
const Unset = -1

var (
	// ErrSelfLoop indicates an attempt to make a token its own head.
	ErrSelfLoop = errors.New("structure: token cannot head itself")

	// ErrHeadOutOfRange indicates a head outside [0, n].
	ErrHeadOutOfRange = errors.New("structure: head out of range")

	// ErrTokenOutOfRange indicates a token index outside [1, n].
	ErrTokenOutOfRange = errors.New("structure: token out of range")

	// ErrNoGold indicates a gold structure was requested for an unannotated sentence.
	ErrNoGold = errors.New("structure: sentence has no gold heads")

	// ErrNotTree indicates a missing head or a wrong number of root attachments.
	ErrNotTree = errors.New("structure: not a tree")

	// ErrCycle indicates the head pointers form a cycle.
	ErrCycle = errors.New("structure: cycle in head pointers")
)

// Structure is a (possibly partial) labeled dependency tree.
// heads, rels and deps are indexed by token position; index 0 is unused
// in heads/rels and holds the root's dependents in deps.
type Structure struct {
	heads []int
	rels  []string
	deps  [][]int
}

// New returns an n-token structure with every head Unset and every relation NoType.
func New(n int) *Structure {
	s := &Structure{
		heads: make([]int, n+1),
		rels:  make([]string, n+1),
	}
	for i := range s.heads {
		s.heads[i] = Unset
		s.rels[i] = sentence.NoType
	}
	s.reindex()

	return s
}

// FromGold builds the gold structure of an annotated sentence.
func FromGold(inst *sentence.Instance) (*Structure, error) {
	if !inst.HasGold() {
		return nil, ErrNoGold
	}
	s := New(inst.Len())
	for i := 1; i <= inst.Len(); i++ {
		if err := s.check(i, inst.GoldHead(i)); err != nil {
			return nil, fmt.Errorf("gold token %d: %w", i, err)
		}
		s.heads[i] = inst.GoldHead(i)
		s.rels[i] = inst.GoldRelation(i)
	}
	s.reindex()

	return s, nil
}

// Len returns the number of tokens n.
func (s *Structure) Len() int { return len(s.heads) - 1 }

// Head returns the head of token i (0 = virtual root, Unset if unassigned).
func (s *Structure) Head(i int) int { return s.heads[i] }

// Relation returns the relation label of token i.
func (s *Structure) Relation(i int) string { return s.rels[i] }

// Heads returns a copy of the head array; index 0 is Unset.
func (s *Structure) Heads() []int {
	out := make([]int, len(s.heads))
	copy(out, s.heads)

	return out
}

// Relations returns a copy of the relation array; index 0 is NoType.
func (s *Structure) Relations() []string {
	out := make([]string, len(s.rels))
	copy(out, s.rels)

	return out
}

// Dependents returns the children of parent in ascending order.
func (s *Structure) Dependents(parent int) []int {
	if parent < 0 || parent >= len(s.deps) {
		return nil
	}
	out := make([]int, len(s.deps[parent]))
	copy(out, s.deps[parent])

	return out
}

// SetHead assigns the head of token i and rebuilds the dependents view.
func (s *Structure) SetHead(i, head int) error {
	if err := s.check(i, head); err != nil {
		return err
	}
	s.heads[i] = head
	s.reindex()

	return nil
}

// SetRelation assigns the relation of token i.
func (s *Structure) SetRelation(i int, rel string) error {
	if i < 1 || i > s.Len() {
		return fmt.Errorf("%w: %d", ErrTokenOutOfRange, i)
	}
	s.rels[i] = rel

	return nil
}

// Set assigns head and relation of token i.
func (s *Structure) Set(i, head int, rel string) error {
	if err := s.SetHead(i, head); err != nil {
		return err
	}

	return s.SetRelation(i, rel)
}

// SetHeads replaces all heads at once. heads must have length n+1; index 0 is ignored.
func (s *Structure) SetHeads(heads []int) error {
	if len(heads) != len(s.heads) {
		return fmt.Errorf("%w: got %d heads for %d tokens", ErrTokenOutOfRange, len(heads)-1, s.Len())
	}
	for i := 1; i < len(heads); i++ {
		if err := s.check(i, heads[i]); err != nil {
			return err
		}
	}
	copy(s.heads[1:], heads[1:])
	s.reindex()

	return nil
}

// Root returns the first token attached to the virtual root, or Unset.
func (s *Structure) Root() int {
	for i := 1; i < len(s.heads); i++ {
		if s.heads[i] == 0 {
			return i
		}
	}

	return Unset
}

// Equal reports whether both structures have identical heads AND identical relations.
func (s *Structure) Equal(o *Structure) bool {
	if o == nil || len(s.heads) != len(o.heads) {
		return false
	}
	for i := 1; i < len(s.heads); i++ {
		if s.heads[i] != o.heads[i] || s.rels[i] != o.rels[i] {
			return false
		}
	}

	return true
}

// Hash is an FNV-1a digest of the head array; equal structures hash equal.
func (s *Structure) Hash() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, v := range s.heads[1:] {
		u := uint64(int64(v))
		for b := 0; b < 8; b++ {
			buf[b] = byte(u >> (8 * b))
		}
		_, _ = h.Write(buf[:])
	}

	return h.Sum64()
}

// Clone returns a deep copy.
func (s *Structure) Clone() *Structure {
	c := &Structure{heads: s.Heads(), rels: s.Relations()}
	c.reindex()

	return c
}

// String renders one "i<TAB>head<TAB>relation" line per token.
func (s *Structure) String() string {
	var sb strings.Builder
	for i := 1; i < len(s.heads); i++ {
		fmt.Fprintf(&sb, "%d\t%d\t%s\n", i, s.heads[i], s.rels[i])
	}

	return sb.String()
}

func (s *Structure) check(i, head int) error {
	n := s.Len()
	if i < 1 || i > n {
		return fmt.Errorf("%w: %d", ErrTokenOutOfRange, i)
	}
	if head == i {
		return fmt.Errorf("%w: %d", ErrSelfLoop, i)
	}
	if head != Unset && (head < 0 || head > n) {
		return fmt.Errorf("%w: token %d head %d", ErrHeadOutOfRange, i, head)
	}

	return nil
}

// reindex rebuilds deps from heads; children come out in ascending order.
func (s *Structure) reindex() {
	s.deps = make([][]int, len(s.heads))
	for i := 1; i < len(s.heads); i++ {
		if h := s.heads[i]; h != Unset {
			s.deps[h] = append(s.deps[h], i)
		}
	}
}
