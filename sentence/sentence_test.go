package sentence_test

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/deptree/sentence"
)

// johnAte returns the three-token gold sentence used across the module's tests.
func johnAte() sentence.Columns {
	return sentence.Columns{
		Forms:     []string{"John", "ate", "apples"},
		Lemmas:    []string{"john", "eat", "apple"},
		POS:       []string{"NNP", "VBD", "NNS"},
		Clusters:  []string{"0110", "1010", "0111"},
		Chunks:    []string{"B-NP", "B-VP", "B-NP"},
		Relations: []string{"SBJ", "ROOT", "OBJ"},
		Heads:     []int{2, 0, 2},
	}
}

func TestNewFromColumns(t *testing.T) {
	s, err := sentence.NewFromColumns(johnAte())
	require.NoError(t, err)

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 4, s.Size())

	// Root sentinels at index 0.
	assert.Equal(t, sentence.RootForm, s.Form(0))
	assert.Equal(t, sentence.RootLemma, s.Lemma(0))
	assert.Equal(t, sentence.RootPOS, s.POS(0))
	assert.Equal(t, sentence.RootCluster, s.Cluster(0))
	assert.Equal(t, sentence.NoHead, s.GoldHead(0))

	// Tokens are shifted by one.
	assert.Equal(t, "ate", s.Form(2))
	assert.Equal(t, "eat", s.Lemma(2))
	assert.Equal(t, "VBD", s.POS(2))
	assert.Equal(t, "1010", s.Cluster(2))
	assert.Equal(t, "B-VP", s.Chunk(2))
	assert.Equal(t, 0, s.GoldHead(2))
	assert.Equal(t, "OBJ", s.GoldRelation(3))
	assert.True(t, s.HasGold())
}

func TestNewFromColumns_Defaults(t *testing.T) {
	s, err := sentence.NewFromColumns(sentence.Columns{
		Forms: []string{"Hi", "."},
		POS:   []string{"UH", "."},
	})
	require.NoError(t, err)

	assert.Equal(t, "Hi", s.Lemma(1))
	assert.Equal(t, sentence.Empty, s.Cluster(1))
	assert.Equal(t, sentence.Empty, s.Chunk(2))
	assert.Equal(t, sentence.NoHead, s.GoldHead(1))
	assert.Equal(t, sentence.NoType, s.GoldRelation(2))
	assert.False(t, s.HasGold())
}

func TestNewFromColumns_Errors(t *testing.T) {
	_, err := sentence.NewFromColumns(sentence.Columns{})
	assert.ErrorIs(t, err, sentence.ErrEmptySentence)

	_, err = sentence.NewFromColumns(sentence.Columns{Forms: []string{"a"}})
	assert.ErrorIs(t, err, sentence.ErrMissingColumn)

	cols := johnAte()
	cols.Lemmas = cols.Lemmas[:2]
	_, err = sentence.NewFromColumns(cols)
	assert.ErrorIs(t, err, sentence.ErrColumnMismatch)

	cols = johnAte()
	cols.Heads = []int{2, 0}
	_, err = sentence.NewFromColumns(cols)
	assert.ErrorIs(t, err, sentence.ErrColumnMismatch)

	for _, heads := range [][]int{{2, 0, 99}, {2, 0, 4}, {-2, 0, 2}} {
		cols = johnAte()
		cols.Heads = heads
		_, err = sentence.NewFromColumns(cols)
		assert.ErrorIs(t, err, sentence.ErrHeadOutOfRange, "heads %v", heads)
	}

	cols = johnAte()
	cols.Heads = []int{2, 0, sentence.NoHead}
	s, err := sentence.NewFromColumns(cols)
	require.NoError(t, err)
	assert.Equal(t, sentence.NoHead, s.GoldHead(3))
	assert.False(t, s.HasGold())
}

// doc is an in-memory annotated document; missing marks a view hole.
type doc struct {
	tokens, lemmas, pos, chunks []string
	missing                     int
}

func (d doc) Tokens() []string { return d.tokens }
func (d doc) Lemma(i int) (string, bool) {
	return d.lemmas[i], true
}
func (d doc) POS(i int) (string, bool) {
	if i == d.missing {
		return "", false
	}
	return d.pos[i], true
}
func (d doc) Chunk(i int) (string, bool) { return d.chunks[i], true }

type clusteredDoc struct{ doc }

func (d clusteredDoc) Cluster(i int) (string, bool) { return "c" + d.pos[i], true }

func TestNewFromDocument(t *testing.T) {
	d := doc{
		tokens:  []string{"John", "ate"},
		lemmas:  []string{"john", "eat"},
		pos:     []string{"NNP", "VBD"},
		chunks:  []string{"B-NP", "B-VP"},
		missing: -1,
	}

	s, err := sentence.NewFromDocument(d)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "VBD", s.POS(2))
	assert.Equal(t, sentence.Empty, s.Cluster(1))
	assert.Equal(t, sentence.RootChunk, s.Chunk(0))

	s, err = sentence.NewFromDocument(clusteredDoc{d})
	require.NoError(t, err)
	assert.Equal(t, "cNNP", s.Cluster(1))

	d.missing = 1
	_, err = sentence.NewFromDocument(d)
	assert.ErrorIs(t, err, sentence.ErrMissingView)

	_, err = sentence.NewFromDocument(doc{missing: -1})
	assert.ErrorIs(t, err, sentence.ErrEmptySentence)
}

const twoSentences = `# sent 1
1	John	john	N	NNP	cluster=0110|chunk=B-NP	2	SBJ	_	_
2	ate	eat	V	VBD	chunk=B-VP	0	ROOT	_	_
3	apples	apple	N	_	_	2	OBJ	_	_

1	Hi	hi	UH	UH	_	_	_
2-3	don't	_	_	_	_	_	_
2	.	.	.	.	_	1	P
`

func TestReader(t *testing.T) {
	r := sentence.NewReader(strings.NewReader(twoSentences))

	s, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, "0110", s.Cluster(1))
	assert.Equal(t, "B-NP", s.Chunk(1))
	assert.Equal(t, "N", s.POS(3)) // POSTAG "_" falls back to CPOSTAG
	assert.Equal(t, 2, s.GoldHead(3))
	assert.Equal(t, "ROOT", s.GoldRelation(2))

	s, err = r.Read()
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, sentence.NoHead, s.GoldHead(1))
	assert.Equal(t, sentence.NoType, s.GoldRelation(1))

	_, err = r.Read()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReader_Malformed(t *testing.T) {
	_, err := sentence.NewReader(strings.NewReader("1\tJohn\n")).ReadAll()
	assert.ErrorIs(t, err, sentence.ErrMalformedLine)

	_, err = sentence.NewReader(strings.NewReader("1\tJohn\tjohn\tN\tNNP\t_\tx\tSBJ\n")).ReadAll()
	assert.ErrorIs(t, err, sentence.ErrMalformedLine)

	_, err = sentence.NewReader(strings.NewReader("1\tJohn\tjohn\tN\tNNP\t_\t2\tSBJ\n2\tate\teat\tV\tVBD\t_\t99\tROOT\n")).ReadAll()
	assert.ErrorIs(t, err, sentence.ErrHeadOutOfRange)
}
