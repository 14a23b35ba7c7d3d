package scorer_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/deptree/features"
	"github.com/katalvlaran/deptree/relations"
	"github.com/katalvlaran/deptree/scorer"
	"github.com/katalvlaran/deptree/sentence"
)

// countingGen emits one feature per arc ("h>d") and one per labeled arc
// ("h>d:label"), and counts edge calls.
type countingGen struct {
	labeled, combined int
}

func (g *countingGen) Preview(*sentence.Instance) {}

func (g *countingGen) LabeledEdgeFeatures(h, d int, _ *sentence.Instance, label string) features.Sparse {
	g.labeled++
	return features.Sparse{fmt.Sprintf("%d>%d:%s", h, d, label): 1}
}

func (g *countingGen) CombinedEdgeFeatures(h, d int, _ *sentence.Instance, label string) features.Sparse {
	g.combined++
	return features.Sparse{fmt.Sprintf("%d>%d", h, d): 1, fmt.Sprintf("%d>%d:%s", h, d, label): 1}
}

func sent(t *testing.T, pos ...string) *sentence.Instance {
	t.Helper()
	forms := make([]string, len(pos))
	for i := range forms {
		forms[i] = fmt.Sprintf("w%d", i+1)
	}
	inst, err := sentence.NewFromColumns(sentence.Columns{Forms: forms, POS: pos})
	require.NoError(t, err)

	return inst
}

func TestSelectLabelShortcut(t *testing.T) {
	d := relations.New()
	require.NoError(t, d.Record(sentence.RootPOS, "VBD", "ROOT"))
	gen := &countingGen{}
	s := scorer.New(d, gen)
	inst := sent(t, "NNP", "VBD", "NNS")

	assert.Equal(t, "ROOT", s.SelectLabel(0, 2, inst, features.WeightVector{}))
	assert.Zero(t, gen.labeled)
	assert.Equal(t, int64(1), s.Stats().Shortcut)
}

func TestSelectLabelArgmax(t *testing.T) {
	d := relations.New()
	for _, l := range []string{"OBJ", "ADV", "PRD"} {
		require.NoError(t, d.Record("VBD", "NNS", l))
	}
	gen := &countingGen{}
	s := scorer.New(d, gen)
	inst := sent(t, "NNP", "VBD", "NNS")

	w := features.WeightVector{"2>3:PRD": 0.5, "2>3:OBJ": 2}
	assert.Equal(t, "OBJ", s.SelectLabel(2, 3, inst, w))
	assert.Equal(t, 3, gen.labeled)

	// ties go to the first candidate in sorted order
	assert.Equal(t, "ADV", s.SelectLabel(2, 3, inst, features.WeightVector{}))
	assert.Equal(t, int64(2), s.Stats().Scored)
}

func TestSelectLabelPunctuation(t *testing.T) {
	gen := &countingGen{}
	s := scorer.New(relations.New(), gen)
	inst := sent(t, "VBD", ".")

	assert.Equal(t, relations.Punct, s.SelectLabel(1, 2, inst, features.WeightVector{"1>2:ROOT": 10}))
	assert.Zero(t, gen.labeled)
	assert.Equal(t, int64(1), s.Stats().Punctuation)
}

func TestSelectLabelCatalogue(t *testing.T) {
	gen := &countingGen{}
	s := scorer.New(relations.New(), gen)
	inst := sent(t, "NN", "JJ")

	w := features.WeightVector{"1>2:NMOD": 1, "1>2:AMOD": 0.5}
	got := s.SelectLabel(1, 2, inst, w)
	assert.Equal(t, "NMOD", got)
	assert.True(t, relations.InCatalogue(got))
	assert.Equal(t, len(relations.Catalogue), gen.labeled)

	st := s.Stats()
	assert.Equal(t, int64(1), st.Catalogue)
	assert.Equal(t, int64(1), st.Total())
}

// A seen pair that contains '.' uses its recorded labels, not the fallback.
func TestSelectLabelSeenPunctuation(t *testing.T) {
	d := relations.New()
	require.NoError(t, d.Record("VBD", ".", "P"))
	require.NoError(t, d.Record("VBD", ".", "PRN"))
	s := scorer.New(d, &countingGen{})
	inst := sent(t, "VBD", ".")

	labels, src := s.Candidates(1, 2, inst)
	assert.Equal(t, scorer.FromDictionary, src)
	assert.Equal(t, []string{"P", "PRN"}, labels)
	assert.Equal(t, "PRN", s.SelectLabel(1, 2, inst, features.WeightVector{"1>2:PRN": 1}))
}

func TestSelectLabelStaysInCandidates(t *testing.T) {
	d := relations.New()
	require.NoError(t, d.Record("A", "B", "X"))
	require.NoError(t, d.Record("A", "B", "Y"))
	s := scorer.New(d, &countingGen{})
	inst := sent(t, "A", "B", "C")

	for _, w := range []features.WeightVector{{}, {"1>2:Y": 3}, {"1>2:Z": 100}} {
		assert.Contains(t, []string{"X", "Y"}, s.SelectLabel(1, 2, inst, w))
	}
	for h := 0; h <= 3; h++ {
		for dep := 1; dep <= 3; dep++ {
			if h == dep {
				continue
			}
			got := s.SelectLabel(h, dep, inst, features.WeightVector{})
			labels, _ := s.Candidates(h, dep, inst)
			assert.Contains(t, labels, got)
		}
	}
}

func TestScoreArc(t *testing.T) {
	gen := &countingGen{}
	s := scorer.New(relations.New(), gen)
	inst := sent(t, "NNP", "VBD")

	w := features.WeightVector{"2>1": 1.5, "2>1:SBJ": 2}
	assert.InDelta(t, 3.5, s.ScoreArc(2, 1, "SBJ", inst, w), 1e-12)
	assert.InDelta(t, 1.5, s.ScoreArc(2, 1, "OBJ", inst, w), 1e-12)
	assert.Equal(t, 2, gen.combined)
}
