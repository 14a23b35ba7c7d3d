// Package sentence defines the immutable, 1-indexed token record the decoder
// works on. Index 0 is an artificial root token carrying sentinel attributes;
// tokens 1..n are the words of the sentence.
package sentence

import "errors"

// Sentinel attributes of the artificial root token at index 0.
const (
	RootForm    = "<root>"
	RootLemma   = "<root-LEMMA>"
	RootPOS     = "<root-POS>"
	RootCluster = "<root-CLUSTER>"
	RootChunk   = "<root-CHUNK>"
)

// Gold placeholders for tokens without annotation.
const (
	NoHead = -1
	NoType = "no-type"
)

// Empty is the filler for optional columns that were not supplied.
const Empty = "_"

var (
	// ErrEmptySentence indicates a sentence with zero tokens.
	ErrEmptySentence = errors.New("sentence: empty sentence")

	// ErrColumnMismatch indicates parallel columns of different lengths.
	ErrColumnMismatch = errors.New("sentence: column length mismatch")

	// ErrMissingColumn indicates a required column (forms or POS) was not supplied.
	ErrMissingColumn = errors.New("sentence: required column missing")

	// ErrMissingView indicates an annotated document lacks a view entry for some token.
	ErrMissingView = errors.New("sentence: missing annotation view")

	// ErrHeadOutOfRange indicates a gold head outside [0, n] other than NoHead.
	ErrHeadOutOfRange = errors.New("sentence: gold head out of range")
)

// Instance is one sentence. All slices have length n+1 and index 0 is the root.
// Instances are never mutated after construction and are safe to share
// between goroutines.
type Instance struct {
	forms    []string
	lemmas   []string
	pos      []string
	clusters []string
	chunks   []string
	heads    []int
	rels     []string
}

// Len returns n, the number of real tokens (the root is not counted).
func (s *Instance) Len() int { return len(s.forms) - 1 }

// Size returns n+1, the number of positions including the root.
func (s *Instance) Size() int { return len(s.forms) }

// Form returns the surface form of token i (0 = root).
func (s *Instance) Form(i int) string { return s.forms[i] }

// Lemma returns the lemma of token i.
func (s *Instance) Lemma(i int) string { return s.lemmas[i] }

// POS returns the part-of-speech tag of token i.
func (s *Instance) POS(i int) string { return s.pos[i] }

// Cluster returns the cluster prefix of token i.
func (s *Instance) Cluster(i int) string { return s.clusters[i] }

// Chunk returns the chunk tag of token i.
func (s *Instance) Chunk(i int) string { return s.chunks[i] }

// GoldHead returns the gold head of token i or NoHead.
func (s *Instance) GoldHead(i int) int { return s.heads[i] }

// GoldRelation returns the gold relation of token i or NoType.
func (s *Instance) GoldRelation(i int) string { return s.rels[i] }

// HasGold reports whether every token carries a gold head.
func (s *Instance) HasGold() bool {
	for i := 1; i < len(s.heads); i++ {
		if s.heads[i] == NoHead {
			return false
		}
	}

	return true
}

// newInstance allocates the n+1 slices and writes the root sentinels.
func newInstance(n int) *Instance {
	s := &Instance{
		forms:    make([]string, n+1),
		lemmas:   make([]string, n+1),
		pos:      make([]string, n+1),
		clusters: make([]string, n+1),
		chunks:   make([]string, n+1),
		heads:    make([]int, n+1),
		rels:     make([]string, n+1),
	}
	s.forms[0] = RootForm
	s.lemmas[0] = RootLemma
	s.pos[0] = RootPOS
	s.clusters[0] = RootCluster
	s.chunks[0] = RootChunk
	s.heads[0] = NoHead
	s.rels[0] = NoType

	return s
}
