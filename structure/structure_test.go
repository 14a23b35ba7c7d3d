package structure_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/deptree/sentence"
	"github.com/katalvlaran/deptree/structure"
)

// gold builds the structure of "John ate apples": ate is the root.
func gold(t *testing.T) *structure.Structure {
	t.Helper()
	inst, err := sentence.NewFromColumns(sentence.Columns{
		Forms:     []string{"John", "ate", "apples"},
		POS:       []string{"NNP", "VBD", "NNS"},
		Relations: []string{"SBJ", "ROOT", "OBJ"},
		Heads:     []int{2, 0, 2},
	})
	require.NoError(t, err)
	s, err := structure.FromGold(inst)
	require.NoError(t, err)

	return s
}

func TestFromGold(t *testing.T) {
	s := gold(t)

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []int{structure.Unset, 2, 0, 2}, s.Heads())
	assert.Equal(t, "OBJ", s.Relation(3))
	assert.Equal(t, 2, s.Root())
	assert.Equal(t, []int{1, 3}, s.Dependents(2))
	assert.Equal(t, []int{2}, s.Dependents(0))
	assert.Empty(t, s.Dependents(1))
	assert.NoError(t, s.Validate())

	unannotated, err := sentence.NewFromColumns(sentence.Columns{
		Forms: []string{"a"}, POS: []string{"DT"},
	})
	require.NoError(t, err)
	_, err = structure.FromGold(unannotated)
	assert.ErrorIs(t, err, structure.ErrNoGold)
}

func TestSetHead_RebuildsDependents(t *testing.T) {
	s := gold(t)

	require.NoError(t, s.Set(3, 1, "NMOD"))
	assert.Equal(t, []int{1}, s.Dependents(2))
	assert.Equal(t, []int{3}, s.Dependents(1))
	assert.Equal(t, "NMOD", s.Relation(3))

	assert.ErrorIs(t, s.SetHead(2, 2), structure.ErrSelfLoop)
	assert.ErrorIs(t, s.SetHead(2, 4), structure.ErrHeadOutOfRange)
	assert.ErrorIs(t, s.SetHead(0, 1), structure.ErrTokenOutOfRange)
	assert.ErrorIs(t, s.SetRelation(4, "X"), structure.ErrTokenOutOfRange)

	require.NoError(t, s.SetHeads([]int{99, 0, 1, 1}))
	assert.Equal(t, []int{2, 3}, s.Dependents(1))
	assert.ErrorIs(t, s.SetHeads([]int{0, 1}), structure.ErrTokenOutOfRange)
	assert.ErrorIs(t, s.SetHeads([]int{0, 1, 2, 1}), structure.ErrSelfLoop)
}

func TestEqualAndHash(t *testing.T) {
	a, b := gold(t), gold(t)
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())

	// A relation difference alone breaks equality, not the head hash.
	require.NoError(t, b.SetRelation(1, "NMOD"))
	assert.False(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())

	c := a.Clone()
	require.NoError(t, c.SetHead(3, 1))
	assert.False(t, a.Equal(c))
	assert.NotEqual(t, a.Hash(), c.Hash())
	assert.Equal(t, 2, a.Head(3)) // clone is independent

	assert.False(t, a.Equal(nil))
	assert.False(t, a.Equal(structure.New(2)))
}

func TestValidate(t *testing.T) {
	s := structure.New(3)
	assert.ErrorIs(t, s.Validate(), structure.ErrNotTree) // unset heads

	require.NoError(t, s.SetHeads([]int{0, 0, 0, 2}))
	assert.ErrorIs(t, s.Validate(), structure.ErrNotTree) // two roots

	require.NoError(t, s.SetHeads([]int{0, 3, 0, 1}))
	assert.ErrorIs(t, s.Validate(), structure.ErrCycle) // 1 -> 3 -> 1

	require.NoError(t, s.SetHeads([]int{0, 2, 0, 1}))
	assert.NoError(t, s.Validate())
}

func TestString(t *testing.T) {
	assert.Equal(t, "1\t2\tSBJ\n2\t0\tROOT\n3\t2\tOBJ\n", gold(t).String())
}
