package corpus_test

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/deptree/corpus"
	"github.com/katalvlaran/deptree/decoder"
	"github.com/katalvlaran/deptree/features"
	"github.com/katalvlaran/deptree/relations"
	"github.com/katalvlaran/deptree/sentence"
	"github.com/katalvlaran/deptree/structure"
)

type arcGen struct{}

func (arcGen) Preview(*sentence.Instance) {}

func (arcGen) LabeledEdgeFeatures(h, d int, _ *sentence.Instance, label string) features.Sparse {
	return features.Sparse{fmt.Sprintf("%d>%d:%s", h, d, label): 1}
}

func (arcGen) CombinedEdgeFeatures(h, d int, _ *sentence.Instance, label string) features.Sparse {
	return features.Sparse{fmt.Sprintf("%d>%d", h, d): 1}
}

// goldWeights favour the arcs 0→2, 2→1 and 2→3 shared by every test sentence.
var goldWeights = features.WeightVector{"0>2": 5, "2>1": 5, "2>3": 5}

func load(t *testing.T) []*sentence.Instance {
	t.Helper()
	insts, err := corpus.ReadFile("testdata/gold.conll")
	require.NoError(t, err)
	require.Len(t, insts, 3)

	return insts
}

func trained(t *testing.T, insts []*sentence.Instance) *relations.Dictionary {
	t.Helper()
	dict := relations.New()
	require.NoError(t, corpus.BuildDictionary(context.Background(), insts, dict, 2, nil))
	dict.Freeze()

	return dict
}

func TestReadFile(t *testing.T) {
	insts := load(t)
	assert.Equal(t, 3, insts[0].Len())
	assert.Equal(t, "0110", insts[0].Cluster(1))
	assert.Equal(t, "B-NP", insts[0].Chunk(1))
	assert.Equal(t, 2, insts[2].Len())

	_, err := corpus.ReadFile("testdata/absent.conll")
	assert.Error(t, err)
}

func TestBuildDictionary(t *testing.T) {
	insts := load(t)
	var many []*sentence.Instance
	for i := 0; i < 50; i++ {
		many = append(many, insts...)
	}
	dict := relations.New()
	var done atomic.Int64
	require.NoError(t, corpus.BuildDictionary(context.Background(), many, dict, 4, func() { done.Add(1) }))

	assert.Equal(t, int64(150), done.Load())
	assert.Equal(t, []string{"ROOT"}, dict.Candidates(sentence.RootPOS, "VBD"))
	assert.Equal(t, []string{"SBJ"}, dict.Candidates("VBP", "NNS"))
	assert.Equal(t, []string{"OBJ"}, dict.Candidates("VBD", "NNS"))
	assert.Equal(t, 5, dict.Len())
}

func TestBuildDictionaryNoGold(t *testing.T) {
	inst, err := sentence.NewFromColumns(sentence.Columns{Forms: []string{"a"}, POS: []string{"DT"}})
	require.NoError(t, err)
	err = corpus.BuildDictionary(context.Background(), []*sentence.Instance{inst}, relations.New(), 1, nil)
	assert.ErrorIs(t, err, corpus.ErrNoGold)
	assert.ErrorIs(t, err, structure.ErrNoGold)
}

func TestEvaluate(t *testing.T) {
	insts := load(t)
	dec := decoder.New(trained(t, insts), arcGen{}, decoder.WithLogger(zerolog.Nop()))

	var done atomic.Int64
	counts, pred, err := corpus.Evaluate(context.Background(), dec, insts, goldWeights, 3, func() { done.Add(1) })
	require.NoError(t, err)
	require.Len(t, pred, 3)
	assert.Equal(t, int64(3), done.Load())
	assert.Equal(t, 8, counts.Tokens)
	assert.Equal(t, 3, counts.Exact)
	assert.InDelta(t, 1.0, counts.LAS(), 1e-12)
	assert.Zero(t, counts.Loss())
	for _, p := range pred {
		assert.NoError(t, p.Validate())
	}
}

func TestDecodeAllOrder(t *testing.T) {
	insts := load(t)
	dec := decoder.New(trained(t, insts), arcGen{}, decoder.WithLogger(zerolog.Nop()))

	for _, workers := range []int{0, 1, 2, 16} {
		out, err := corpus.DecodeAll(context.Background(), dec, insts, features.WeightVector{}, workers, nil)
		require.NoError(t, err)
		require.Len(t, out, len(insts))
		for i, s := range out {
			assert.Equal(t, insts[i].Len(), s.Len(), "workers %d sentence %d", workers, i)
		}
	}
}

func TestCancelled(t *testing.T) {
	insts := load(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := corpus.BuildDictionary(ctx, insts, relations.New(), 2, nil)
	assert.ErrorIs(t, err, context.Canceled)

	dec := decoder.New(trained(t, insts), arcGen{}, decoder.WithLogger(zerolog.Nop()))
	_, err = corpus.DecodeAll(ctx, dec, insts, goldWeights, 2, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecodeAllPropagatesErrors(t *testing.T) {
	insts := load(t)
	dec := decoder.New(trained(t, insts), arcGen{}, decoder.WithLogger(zerolog.Nop()))
	_, err := corpus.DecodeAll(context.Background(), dec, insts, nil, 2, nil)
	assert.ErrorIs(t, err, decoder.ErrNilWeights)
}

func TestWriteCoNLLRoundTrip(t *testing.T) {
	insts := load(t)
	golds := make([]*structure.Structure, len(insts))
	for i, inst := range insts {
		g, err := structure.FromGold(inst)
		require.NoError(t, err)
		golds[i] = g
	}

	var buf strings.Builder
	require.NoError(t, corpus.WriteCoNLL(&buf, insts, golds))
	assert.Contains(t, buf.String(), "1\tJohn\tjohn\tNNP\tNNP\tcluster=0110|chunk=B-NP\t2\tSBJ\n")

	back, err := sentence.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, back, len(insts))
	for i := range back {
		g, err := structure.FromGold(back[i])
		require.NoError(t, err)
		assert.True(t, g.Equal(golds[i]))
		assert.Equal(t, insts[i].Cluster(1), back[i].Cluster(1))
	}

	assert.Error(t, corpus.WriteCoNLL(&buf, insts, golds[:1]))
}
