package sentence

import "fmt"

// Columns holds raw per-token annotation as parallel, 0-indexed slices
// (Forms[0] is the first word). Forms and POS are required. Lemmas,
// Clusters and Chunks default to the form / Empty when nil. Heads and
// Relations may be nil when no gold tree is known; heads are 1-indexed
// token positions with 0 meaning the virtual root.
type Columns struct {
	Forms     []string
	Lemmas    []string
	POS       []string
	Clusters  []string
	Chunks    []string
	Relations []string
	Heads     []int
}

// NewFromColumns builds an Instance from raw columns.
//
// Errors:
//   - ErrEmptySentence  : no forms.
//   - ErrMissingColumn  : POS is nil.
//   - ErrColumnMismatch : any supplied column differs in length from Forms.
//   - ErrHeadOutOfRange : a gold head is neither NoHead nor in [0, n].
func NewFromColumns(c Columns) (*Instance, error) {
	n := len(c.Forms)
	if n == 0 {
		return nil, ErrEmptySentence
	}
	if c.POS == nil {
		return nil, fmt.Errorf("%w: pos", ErrMissingColumn)
	}
	for _, col := range []struct {
		name string
		l    int
	}{
		{"pos", len(c.POS)},
		{"lemmas", lenOr(c.Lemmas, n)},
		{"clusters", lenOr(c.Clusters, n)},
		{"chunks", lenOr(c.Chunks, n)},
		{"relations", lenOr(c.Relations, n)},
		{"heads", lenIntsOr(c.Heads, n)},
	} {
		if col.l != n {
			return nil, fmt.Errorf("%w: %s has %d entries, forms has %d", ErrColumnMismatch, col.name, col.l, n)
		}
	}

	s := newInstance(n)
	for i := 0; i < n; i++ {
		t := i + 1
		s.forms[t] = c.Forms[i]
		s.pos[t] = c.POS[i]
		s.lemmas[t] = pick(c.Lemmas, i, c.Forms[i])
		s.clusters[t] = pick(c.Clusters, i, Empty)
		s.chunks[t] = pick(c.Chunks, i, Empty)
		s.rels[t] = pick(c.Relations, i, NoType)
		s.heads[t] = NoHead
		if c.Heads != nil {
			h := c.Heads[i]
			if h < NoHead || h > n {
				return nil, fmt.Errorf("%w: token %d head %d, sentence has %d tokens", ErrHeadOutOfRange, t, h, n)
			}
			s.heads[t] = h
		}
	}

	return s, nil
}

// Document is a pre-annotated sentence exposing token strings and
// per-token views. Every view must answer for every token index 0..len-1.
type Document interface {
	Tokens() []string
	Lemma(i int) (string, bool)
	POS(i int) (string, bool)
	Chunk(i int) (string, bool)
}

// ClusterView is optionally implemented by a Document that carries
// word-cluster prefixes.
type ClusterView interface {
	Cluster(i int) (string, bool)
}

// NewFromDocument builds an Instance from an annotated document. A missing
// lemma, POS or chunk for any token is a fatal precondition failure
// (ErrMissingView): every downstream feature depends on those views.
func NewFromDocument(doc Document) (*Instance, error) {
	tokens := doc.Tokens()
	n := len(tokens)
	if n == 0 {
		return nil, ErrEmptySentence
	}
	clusters, _ := doc.(ClusterView)

	s := newInstance(n)
	for i, tok := range tokens {
		t := i + 1
		s.forms[t] = tok
		s.heads[t] = NoHead
		s.rels[t] = NoType

		var ok bool
		if s.lemmas[t], ok = doc.Lemma(i); !ok {
			return nil, fmt.Errorf("%w: lemma of token %d (%q)", ErrMissingView, i, tok)
		}
		if s.pos[t], ok = doc.POS(i); !ok {
			return nil, fmt.Errorf("%w: pos of token %d (%q)", ErrMissingView, i, tok)
		}
		if s.chunks[t], ok = doc.Chunk(i); !ok {
			return nil, fmt.Errorf("%w: chunk of token %d (%q)", ErrMissingView, i, tok)
		}
		s.clusters[t] = Empty
		if clusters != nil {
			if c, ok := clusters.Cluster(i); ok {
				s.clusters[t] = c
			}
		}
	}

	return s, nil
}

func lenOr(col []string, dflt int) int {
	if col == nil {
		return dflt
	}

	return len(col)
}

func lenIntsOr(col []int, dflt int) int {
	if col == nil {
		return dflt
	}

	return len(col)
}

func pick(col []string, i int, dflt string) string {
	if col == nil || col[i] == "" {
		return dflt
	}

	return col[i]
}
