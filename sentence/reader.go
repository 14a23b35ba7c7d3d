package sentence

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrMalformedLine indicates a column line that cannot be parsed.
var ErrMalformedLine = errors.New("sentence: malformed column line")

// CoNLL-X column positions.
const (
	colID = iota
	colForm
	colLemma
	colCPOS
	colPOS
	colFeats
	colHead
	colRel
	minColumns = colRel + 1
)

// Reader reads blank-line separated sentences in the tab-separated CoNLL-X
// layout (ID FORM LEMMA CPOSTAG POSTAG FEATS HEAD DEPREL ...). FEATS may
// carry "cluster=<prefix>" and "chunk=<tag>" entries separated by '|'.
// Lines starting with '#' are comments. Multiword ranges ("3-4") and empty
// nodes ("3.1") are skipped.
type Reader struct {
	sc   *bufio.Scanner
	line int
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	return &Reader{sc: sc}
}

// Read returns the next sentence, or io.EOF when the input is exhausted.
func (r *Reader) Read() (*Instance, error) {
	var cols Columns
	for r.sc.Scan() {
		r.line++
		line := strings.TrimRight(r.sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			if len(cols.Forms) == 0 {
				continue
			}
			break
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < minColumns {
			return nil, fmt.Errorf("%w: line %d has %d columns", ErrMalformedLine, r.line, len(fields))
		}
		if strings.ContainsAny(fields[colID], "-.") {
			continue
		}
		if err := r.appendToken(&cols, fields); err != nil {
			return nil, err
		}
	}
	if err := r.sc.Err(); err != nil {
		return nil, err
	}
	if len(cols.Forms) == 0 {
		return nil, io.EOF
	}

	inst, err := NewFromColumns(cols)
	if err != nil {
		return nil, fmt.Errorf("sentence ending at line %d: %w", r.line, err)
	}

	return inst, nil
}

// ReadAll drains the reader.
func (r *Reader) ReadAll() ([]*Instance, error) {
	var out []*Instance
	for {
		inst, err := r.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, inst)
	}
}

func (r *Reader) appendToken(cols *Columns, f []string) error {
	pos := f[colPOS]
	if pos == Empty {
		pos = f[colCPOS]
	}
	head := NoHead
	if f[colHead] != Empty {
		h, err := strconv.Atoi(f[colHead])
		if err != nil {
			return fmt.Errorf("%w: line %d head %q", ErrMalformedLine, r.line, f[colHead])
		}
		head = h
	}
	rel := f[colRel]
	if rel == Empty {
		rel = NoType
	}
	cluster, chunk := Empty, Empty
	for _, kv := range strings.Split(f[colFeats], "|") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		switch k {
		case "cluster":
			cluster = v
		case "chunk":
			chunk = v
		}
	}

	cols.Forms = append(cols.Forms, f[colForm])
	cols.Lemmas = append(cols.Lemmas, f[colLemma])
	cols.POS = append(cols.POS, pos)
	cols.Clusters = append(cols.Clusters, cluster)
	cols.Chunks = append(cols.Chunks, chunk)
	cols.Heads = append(cols.Heads, head)
	cols.Relations = append(cols.Relations, rel)

	return nil
}
