// Package loss scores a predicted dependency structure against gold.
//
// Hamming is the task loss used both for loss-augmented decoding and for
// reporting training loss; Attachment collects the UAS/LAS counts used in
// evaluation reports.
package loss

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/deptree/structure"
)

// ErrLengthMismatch indicates the two structures cover different sentences.
var ErrLengthMismatch = errors.New("loss: structures differ in length")

// ArcLoss is the cost of one token whose head or relation is wrong.
const ArcLoss = 1.0

// ArcCost returns ArcLoss when the candidate arc (head, rel) for token i
// disagrees with gold, and 0 otherwise.
func ArcCost(gold *structure.Structure, i, head int, rel string) float64 {
	if gold.Head(i) != head || gold.Relation(i) != rel {
		return ArcLoss
	}

	return 0
}

// Hamming returns the number of tokens 1..n whose head OR relation differs.
func Hamming(gold, predicted *structure.Structure) (float64, error) {
	if gold.Len() != predicted.Len() {
		return 0, fmt.Errorf("%w: gold %d, predicted %d", ErrLengthMismatch, gold.Len(), predicted.Len())
	}
	var sum float64
	for i := 1; i <= gold.Len(); i++ {
		sum += ArcCost(gold, i, predicted.Head(i), predicted.Relation(i))
	}

	return sum, nil
}

// Counts accumulates attachment statistics over one or more sentences.
type Counts struct {
	Tokens   int // scored tokens
	Heads    int // tokens with the correct head
	Labeled  int // tokens with the correct head and relation
	Sentence int // sentences
	Exact    int // sentences without a single error
}

// Attachment compares one sentence and returns its counts.
func Attachment(gold, predicted *structure.Structure) (Counts, error) {
	if gold.Len() != predicted.Len() {
		return Counts{}, fmt.Errorf("%w: gold %d, predicted %d", ErrLengthMismatch, gold.Len(), predicted.Len())
	}
	c := Counts{Tokens: gold.Len(), Sentence: 1}
	for i := 1; i <= gold.Len(); i++ {
		if gold.Head(i) != predicted.Head(i) {
			continue
		}
		c.Heads++
		if gold.Relation(i) == predicted.Relation(i) {
			c.Labeled++
		}
	}
	if c.Labeled == c.Tokens {
		c.Exact = 1
	}

	return c, nil
}

// Add merges o into c.
func (c *Counts) Add(o Counts) {
	c.Tokens += o.Tokens
	c.Heads += o.Heads
	c.Labeled += o.Labeled
	c.Sentence += o.Sentence
	c.Exact += o.Exact
}

// UAS is the unlabeled attachment score in [0,1].
func (c Counts) UAS() float64 { return ratio(c.Heads, c.Tokens) }

// LAS is the labeled attachment score in [0,1].
func (c Counts) LAS() float64 { return ratio(c.Labeled, c.Tokens) }

// Loss is the summed Hamming loss the counts imply.
func (c Counts) Loss() float64 { return float64(c.Tokens-c.Labeled) * ArcLoss }

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}

	return float64(a) / float64(b)
}
